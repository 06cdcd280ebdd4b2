package model

import "time"

// Audit actions. One row is appended for every state-changing operation;
// rows are never updated or deleted.
const (
	ActionLogin             = "LOGIN"
	ActionPasswordReset     = "PASSWORD_RESET"
	ActionCreateUser        = "CREATE_USER"
	ActionSubmitCollection  = "SUBMIT_COLLECTION"
	ActionApproveCollection = "APPROVE_COLLECTION"
	ActionRejectCollection  = "REJECT_COLLECTION"
	ActionRequestTransfer   = "REQUEST_TRANSFER"
	ActionApproveTransfer   = "APPROVE_TRANSFER"
	ActionCreateInvoice     = "CREATE_INVOICE"
	ActionMarkOverdue       = "MARK_OVERDUE"
)

type AuditLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
