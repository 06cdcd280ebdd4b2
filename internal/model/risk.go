package model

import "time"

// RiskLevel is the derived payment-risk tier of a customer.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// RiskOrder sorts tiers most severe first, for analytics output.
func RiskOrder(l RiskLevel) int {
	switch l {
	case RiskCritical:
		return 0
	case RiskHigh:
		return 1
	case RiskMedium:
		return 2
	default:
		return 3
	}
}

// RiskHistory is one append-only row per recomputation, forming a
// per-customer time series.
type RiskHistory struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	RiskLevel  RiskLevel `json:"risk_level"`
	RiskScore  int       `json:"risk_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// RiskAssessment is the result of one recompute.
type RiskAssessment struct {
	RiskLevel RiskLevel `json:"risk_level"`
	RiskScore int       `json:"risk_score"`
}
