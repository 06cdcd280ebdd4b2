// Package risk derives a customer's payment-risk score and tier from their
// ledger activity and keeps the stored tier plus the append-only history in
// sync whenever the inputs change.
package risk

import (
	"context"
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/nimasrn/collection-ledger/pkg/logger"
	"github.com/nimasrn/collection-ledger/pkg/prom"
)

// Scoring weights. The score starts from the inverted credit score and adds
// penalty terms; payments received earn a discount.
const (
	CreditScoreCeiling       = 100
	OverdueInvoiceWeight     = 20
	RejectedCollectionWeight = 15
	StaleDaysDivisor         = 10
	MoneyReceivedDivisor     = 10

	// NoPaymentDays stands in for "never paid" so a customer with no
	// payment on record lands in the worst staleness bucket.
	NoPaymentDays = 9999
)

// Inputs are the raw ledger facts the score is computed from.
type Inputs struct {
	CreditScore      int
	OverdueInvoices  int
	DaysSincePayment int
	RejectedCount    int
	MoneyReceived    float64
}

// Score computes the risk score from the inputs, floored at zero.
func Score(in Inputs) int {
	score := (CreditScoreCeiling - in.CreditScore) +
		in.OverdueInvoices*OverdueInvoiceWeight +
		in.DaysSincePayment/StaleDaysDivisor +
		in.RejectedCount*RejectedCollectionWeight -
		int(in.MoneyReceived)/MoneyReceivedDivisor
	if score < 0 {
		score = 0
	}
	return score
}

// LevelFor maps a score to its tier.
func LevelFor(score int) model.RiskLevel {
	switch {
	case score < 30:
		return model.RiskLow
	case score < 60:
		return model.RiskMedium
	case score < 90:
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}

type customerStore interface {
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	UpdateRiskLevel(ctx context.Context, id string, level model.RiskLevel) error
}

type collectionStore interface {
	SumByCustomer(ctx context.Context, customerID string, statuses []model.CollectionStatus) (float64, error)
	CountByCustomer(ctx context.Context, customerID string, statuses []model.CollectionStatus) (int64, error)
}

type invoiceStore interface {
	CountOverdueByCustomer(ctx context.Context, customerID string) (int64, error)
}

type historyStore interface {
	Append(ctx context.Context, customerID string, level model.RiskLevel, score int) (*model.RiskHistory, error)
}

// Engine recomputes and persists a customer's risk. It reads and writes
// through the repositories, so running it inside WithinTransaction makes the
// recompute atomic with the business write that triggered it.
type Engine struct {
	customers   customerStore
	collections collectionStore
	invoices    invoiceStore
	history     historyStore
	now         func() time.Time
}

func NewEngine(
	customers *repository.CustomerRepository,
	collections *repository.CollectionRepository,
	invoices *repository.InvoiceRepository,
	history *repository.RiskHistoryRepository,
) *Engine {
	return &Engine{
		customers:   customers,
		collections: collections,
		invoices:    invoices,
		history:     history,
		now:         time.Now,
	}
}

// moneyReceivedStatuses includes PENDING so that cash physically handed over
// counts immediately, before the manager adjudicates.
var moneyReceivedStatuses = []model.CollectionStatus{
	model.CollectionStatusPending,
	model.CollectionStatusApproved,
}

var rejectedStatuses = []model.CollectionStatus{
	model.CollectionStatusRejected,
	model.CollectionStatusRefused,
}

// Recompute rebuilds the customer's score from current ledger facts, stores
// the tier on the customer, and appends a history row. Every recompute
// appends, including no-op ones, so the history is a complete time series.
func (e *Engine) Recompute(ctx context.Context, customerID string) (*model.RiskAssessment, error) {
	customer, err := e.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	overdue, err := e.invoices.CountOverdueByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	received, err := e.collections.SumByCustomer(ctx, customerID, moneyReceivedStatuses)
	if err != nil {
		return nil, err
	}

	rejected, err := e.collections.CountByCustomer(ctx, customerID, rejectedStatuses)
	if err != nil {
		return nil, err
	}

	days := NoPaymentDays
	if customer.LastPayment != nil {
		days = int(e.now().Sub(*customer.LastPayment).Hours() / 24)
		if days < 0 {
			days = 0
		}
	}

	score := Score(Inputs{
		CreditScore:      customer.CreditScore,
		OverdueInvoices:  int(overdue),
		DaysSincePayment: days,
		RejectedCount:    int(rejected),
		MoneyReceived:    received,
	})
	level := LevelFor(score)

	if err := e.customers.UpdateRiskLevel(ctx, customerID, level); err != nil {
		return nil, err
	}
	if _, err := e.history.Append(ctx, customerID, level, score); err != nil {
		return nil, err
	}

	prom.IncCounter(prom.SystemRisk, prom.MetricRiskRecomputes)
	if level != customer.RiskLevel {
		prom.IncCounterVec(prom.SystemRisk, prom.MetricRiskLevelChanges, string(level))
		logger.Info("customer risk level changed",
			"customer_id", customerID,
			"from", customer.RiskLevel,
			"to", level,
			"score", score,
		)
	}

	return &model.RiskAssessment{RiskLevel: level, RiskScore: score}, nil
}
