package model

import "time"

// Customer is a receivables account. Balance is the total outstanding owed.
// RiskLevel is derived by the risk engine and never accepted from input.
type Customer struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Balance     float64    `json:"balance"`
	CreditScore int        `json:"credit_score"` // 0-100, external input
	RiskLevel   RiskLevel  `json:"risk_level"`
	LastPayment *time.Time `json:"last_payment,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
