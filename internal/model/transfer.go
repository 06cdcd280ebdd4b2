package model

import "time"

type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "PENDING"
	TransferStatusApproved TransferStatus = "APPROVED"
)

// Transfer moves aggregated cash from a manager's balance up to the admin.
type Transfer struct {
	ID         string         `json:"id"`
	FromUserID string         `json:"from_user_id"`
	Amount     float64        `json:"amount"`
	Status     TransferStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}
