package model

// RiderPerformance summarizes one rider's collections over a date range.
type RiderPerformance struct {
	TotalCollections    int                `json:"total_collections"`
	TotalCollected      float64            `json:"total_collected"`
	ApprovedCollections int                `json:"approved_collections"`
	ApprovalRate        float64            `json:"approval_rate"`
	DailyCollections    map[string]float64 `json:"daily_collections"` // keyed by YYYY-MM-DD
	AverageDaily        float64            `json:"average_daily"`
}

// CustomerAnalyticsRow is one customer's rollup, sorted most-at-risk first.
type CustomerAnalyticsRow struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Balance              float64   `json:"balance"`
	TotalInvoiced        float64   `json:"total_invoiced"`
	TotalCollected       float64   `json:"total_collected"` // APPROVED only
	PaymentRate          float64   `json:"payment_rate"`
	CreditScore          int       `json:"credit_score"`
	RiskLevel            RiskLevel `json:"risk_level"`
	DaysSinceLastPayment *int      `json:"days_since_last_payment"`
	OverdueInvoices      int       `json:"overdue_invoices"`
}

type CustomerAnalyticsSummary struct {
	TotalCustomers     int     `json:"total_customers"`
	TotalOutstanding   float64 `json:"total_outstanding"`
	HighRiskCustomers  int     `json:"high_risk_customers"` // HIGH + CRITICAL
	AverageCreditScore float64 `json:"average_credit_score"`
}

type CustomerAnalytics struct {
	Customers []*CustomerAnalyticsRow  `json:"customers"`
	Summary   CustomerAnalyticsSummary `json:"summary"`
}

// CashflowBalances splits collected cash by the role currently holding it.
type CashflowBalances struct {
	WithRiders   float64 `json:"with_riders"`
	WithManagers float64 `json:"with_managers"`
}

type CashflowAnalytics struct {
	TotalCollected         float64            `json:"total_collected"`
	TotalTransferred       float64            `json:"total_transferred"`
	TotalInvoiced          float64            `json:"total_invoiced"`
	DailyCashflow          map[string]float64 `json:"daily_cashflow"`
	AverageDaily           float64            `json:"average_daily"`
	AverageCollectionCycle float64            `json:"average_collection_cycle"` // days
	Balances               CashflowBalances   `json:"balances"`
}
