package model

import (
	"errors"
	"time"
)

// CollectionStatus is the lifecycle state of a collection. PENDING is the
// only non-terminal state.
type CollectionStatus string

const (
	CollectionStatusPending  CollectionStatus = "PENDING"
	CollectionStatusApproved CollectionStatus = "APPROVED"
	CollectionStatusRejected CollectionStatus = "REJECTED"
	// CollectionStatusRefused exists in historic rows only; it is treated
	// as rejected everywhere.
	CollectionStatusRefused CollectionStatus = "REFUSED"
)

// Collection is one cash-collection event submitted by a rider, pending
// manager adjudication.
type Collection struct {
	ID         string           `json:"id"`
	RiderID    string           `json:"rider_id"`
	CustomerID string           `json:"customer_id"`
	Amount     float64          `json:"amount"`
	Status     CollectionStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
}

// CollectionWithCustomer is a rider-facing row joined with the customer name.
type CollectionWithCustomer struct {
	Collection
	CustomerName string `json:"customer_name"`
}

// PendingCollection is a manager-facing row joined with rider and customer.
type PendingCollection struct {
	Collection
	Rider    *User     `json:"rider"`
	Customer *Customer `json:"customer"`
}

type CollectionSubmitRequest struct {
	CustomerID string
	Amount     float64
}

func (p CollectionSubmitRequest) Validate() error {
	if p.CustomerID == "" {
		return errors.New("customer_id is required")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	return nil
}

// CollectionFilter controls list queries.
type CollectionFilter struct {
	RiderID    *string
	CustomerID *string
	Statuses   []CollectionStatus
	From       *time.Time
	To         *time.Time
}
