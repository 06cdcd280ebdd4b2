package services

import (
	"context"
	"sort"
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/pkg/errors"
)

const dayKeyFormat = "2006-01-02"

type CollectionReader interface {
	List(ctx context.Context, f model.CollectionFilter) ([]*model.Collection, error)
}

type CustomerReader interface {
	List(ctx context.Context) ([]*model.Customer, error)
}

type InvoiceReader interface {
	List(ctx context.Context) ([]*model.Invoice, error)
}

type TransferReader interface {
	List(ctx context.Context) ([]*model.Transfer, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// AnalyticsService builds read-only rollups from current entity state. It
// never writes and never joins the write transactions.
type AnalyticsService struct {
	collections CollectionReader
	customers   CustomerReader
	invoices    InvoiceReader
	transfers   TransferReader
	users       UserReader
	now         func() time.Time
}

func NewAnalyticsService(
	collections CollectionReader,
	customers CustomerReader,
	invoices InvoiceReader,
	transfers TransferReader,
	users UserReader,
) *AnalyticsService {
	return &AnalyticsService{
		collections: collections,
		customers:   customers,
		invoices:    invoices,
		transfers:   transfers,
		users:       users,
		now:         time.Now,
	}
}

// RiderPerformance summarizes one rider's collections over a date range.
// Managers may only query riders who report to them; riders only themselves.
func (s *AnalyticsService) RiderPerformance(ctx context.Context, actor model.Identity, riderID string, start, end time.Time) (*model.RiderPerformance, error) {
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleManager:
		rider, err := s.users.GetByID(ctx, riderID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if rider.ManagerID == nil || *rider.ManagerID != actor.ID {
			return nil, ErrForbidden
		}
	case model.RoleRider:
		if riderID != actor.ID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	collections, err := s.collections.List(ctx, model.CollectionFilter{
		RiderID: &riderID,
		From:    &start,
		To:      &end,
	})
	if err != nil {
		return nil, err
	}

	perf := &model.RiderPerformance{
		TotalCollections: len(collections),
		DailyCollections: make(map[string]float64),
	}
	for _, c := range collections {
		perf.TotalCollected += c.Amount
		if c.Status == model.CollectionStatusApproved {
			perf.ApprovedCollections++
		}
		day := c.CreatedAt.UTC().Format(dayKeyFormat)
		perf.DailyCollections[day] += c.Amount
	}
	if len(collections) > 0 {
		perf.ApprovalRate = float64(perf.ApprovedCollections) / float64(len(collections))
	}
	if days := len(perf.DailyCollections); days > 0 {
		perf.AverageDaily = perf.TotalCollected / float64(days)
	}
	return perf, nil
}

// CustomerAnalytics rolls up every customer's receivables position, sorted
// most-at-risk first, with a global summary.
func (s *AnalyticsService) CustomerAnalytics(ctx context.Context, actor model.Identity) (*model.CustomerAnalytics, error) {
	if actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	collections, err := s.collections.List(ctx, model.CollectionFilter{})
	if err != nil {
		return nil, err
	}

	invoicedBy := make(map[string]float64)
	overdueBy := make(map[string]int)
	for _, inv := range invoices {
		invoicedBy[inv.CustomerID] += inv.Amount
		if inv.Status == model.InvoiceStatusOverdue {
			overdueBy[inv.CustomerID]++
		}
	}
	collectedBy := make(map[string]float64)
	for _, c := range collections {
		if c.Status == model.CollectionStatusApproved {
			collectedBy[c.CustomerID] += c.Amount
		}
	}

	now := s.now()
	result := &model.CustomerAnalytics{
		Customers: make([]*model.CustomerAnalyticsRow, 0, len(customers)),
	}
	for _, customer := range customers {
		row := &model.CustomerAnalyticsRow{
			ID:              customer.ID,
			Name:            customer.Name,
			Balance:         customer.Balance,
			TotalInvoiced:   invoicedBy[customer.ID],
			TotalCollected:  collectedBy[customer.ID],
			CreditScore:     customer.CreditScore,
			RiskLevel:       customer.RiskLevel,
			OverdueInvoices: overdueBy[customer.ID],
		}
		if row.TotalInvoiced > 0 {
			row.PaymentRate = row.TotalCollected / row.TotalInvoiced
		}
		if customer.LastPayment != nil {
			days := int(now.Sub(*customer.LastPayment).Hours() / 24)
			row.DaysSinceLastPayment = &days
		}
		result.Customers = append(result.Customers, row)

		result.Summary.TotalOutstanding += customer.Balance
		result.Summary.AverageCreditScore += float64(customer.CreditScore)
		if customer.RiskLevel == model.RiskHigh || customer.RiskLevel == model.RiskCritical {
			result.Summary.HighRiskCustomers++
		}
	}
	result.Summary.TotalCustomers = len(customers)
	if len(customers) > 0 {
		result.Summary.AverageCreditScore /= float64(len(customers))
	}

	sort.SliceStable(result.Customers, func(i, j int) bool {
		a, b := result.Customers[i], result.Customers[j]
		if a.RiskLevel != b.RiskLevel {
			return model.RiskOrder(a.RiskLevel) < model.RiskOrder(b.RiskLevel)
		}
		return a.Balance > b.Balance
	})
	return result, nil
}

// CashflowAnalytics reports where the collected cash currently sits and how
// fast invoices convert into approved collections.
func (s *AnalyticsService) CashflowAnalytics(ctx context.Context, actor model.Identity) (*model.CashflowAnalytics, error) {
	if actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	approved, err := s.collections.List(ctx, model.CollectionFilter{
		Statuses: []model.CollectionStatus{model.CollectionStatusApproved},
	})
	if err != nil {
		return nil, err
	}
	transfers, err := s.transfers.List(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &model.CashflowAnalytics{
		DailyCashflow: make(map[string]float64),
	}

	collectorRole := make(map[string]model.Role)
	for _, c := range approved {
		result.TotalCollected += c.Amount
		result.DailyCashflow[c.CreatedAt.UTC().Format(dayKeyFormat)] += c.Amount

		role, ok := collectorRole[c.RiderID]
		if !ok {
			user, err := s.users.GetByID(ctx, c.RiderID)
			if err != nil {
				if !errors.Is(err, repository.ErrUserNotFound) {
					return nil, err
				}
				role = ""
			} else {
				role = user.Role
			}
			collectorRole[c.RiderID] = role
		}
		switch role {
		case model.RoleRider:
			result.Balances.WithRiders += c.Amount
		case model.RoleManager:
			result.Balances.WithManagers += c.Amount
		}
	}
	for _, t := range transfers {
		if t.Status == model.TransferStatusApproved {
			result.TotalTransferred += t.Amount
		}
	}
	for _, inv := range invoices {
		result.TotalInvoiced += inv.Amount
	}
	if days := len(result.DailyCashflow); days > 0 {
		result.AverageDaily = result.TotalCollected / float64(days)
	}

	// Collection cycle: days from a customer's earlier invoice to the
	// approved collection that followed it.
	var cycleSum float64
	var cycleCount int
	for _, c := range approved {
		for _, inv := range invoices {
			if inv.CustomerID == c.CustomerID && inv.CreatedAt.Before(c.CreatedAt) {
				days := c.CreatedAt.Sub(inv.CreatedAt).Hours() / 24
				if days > 0 {
					cycleSum += days
					cycleCount++
				}
				break
			}
		}
	}
	if cycleCount > 0 {
		result.AverageCollectionCycle = cycleSum / float64(cycleCount)
	}
	return result, nil
}
