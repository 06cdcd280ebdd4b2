package model

import (
	"errors"
	"time"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

// Invoice is an admin-created receivable. Amount is the line-item sum and
// is immutable once the items are fixed.
type Invoice struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customer_id"`
	Amount     float64        `json:"amount"`
	Status     InvoiceStatus  `json:"status"`
	DueDate    time.Time      `json:"due_date"`
	Items      []*InvoiceItem `json:"items,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

type InvoiceItem struct {
	ID        string  `json:"id"`
	InvoiceID string  `json:"invoice_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type InvoiceItemInput struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type InvoiceCreateRequest struct {
	CustomerID string
	Items      []InvoiceItemInput
	DueDate    *time.Time // defaults to 30 days out
}

func (p InvoiceCreateRequest) Validate() error {
	if p.CustomerID == "" {
		return errors.New("customer_id is required")
	}
	if len(p.Items) == 0 {
		return errors.New("at least one line item is required")
	}
	for _, it := range p.Items {
		if it.Name == "" {
			return errors.New("item name is required")
		}
		if it.Quantity <= 0 {
			return errors.New("item quantity must be positive")
		}
		if it.Price <= 0 {
			return errors.New("item price must be positive")
		}
	}
	return nil
}

// TotalAmount is the immutable invoice amount derived from the items.
func (p InvoiceCreateRequest) TotalAmount() float64 {
	var sum float64
	for _, it := range p.Items {
		sum += float64(it.Quantity) * it.Price
	}
	return sum
}
