package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/nimasrn/collection-ledger/pkg/logger"
	"github.com/pkg/errors"
)

// DefaultInvoiceTerm is how far out the due date lands when the caller does
// not supply one.
const DefaultInvoiceTerm = 30 * 24 * time.Hour

type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error)
	ListByCustomer(ctx context.Context, customerID string, since *time.Time) ([]*model.Invoice, error)
	List(ctx context.Context) ([]*model.Invoice, error)
	MarkOverdue(ctx context.Context, now time.Time) ([]string, error)
}

type CustomerBalanceRepository interface {
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	AdjustBalance(ctx context.Context, id string, delta float64) error
}

// InvoiceService owns the receivables side: creating invoices raises the
// customer's outstanding balance, and the overdue sweep feeds the risk
// engine.
type InvoiceService struct {
	invoiceRepo  InvoiceRepository
	customerRepo CustomerBalanceRepository
	audit        AuditWriter
	risk         RiskRecomputer
	tx           Transactor
	now          func() time.Time
}

func NewInvoiceService(
	invoiceRepo InvoiceRepository,
	customerRepo CustomerBalanceRepository,
	audit AuditWriter,
	risk RiskRecomputer,
	tx Transactor,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		audit:        audit,
		risk:         risk,
		tx:           tx,
		now:          time.Now,
	}
}

func (s *InvoiceService) Create(ctx context.Context, actor model.Identity, p model.InvoiceCreateRequest) (*model.Invoice, error) {
	if actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if _, err := s.customerRepo.GetByID(ctx, p.CustomerID); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	dueDate := s.now().Add(DefaultInvoiceTerm)
	if p.DueDate != nil {
		dueDate = *p.DueDate
	}
	amount := p.TotalAmount()

	items := make([]*model.InvoiceItem, len(p.Items))
	for i, it := range p.Items {
		items[i] = &model.InvoiceItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price}
	}

	var created *model.Invoice
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.invoiceRepo.Create(ctx, &model.Invoice{
			CustomerID: p.CustomerID,
			Amount:     amount,
			Status:     model.InvoiceStatusPending,
			DueDate:    dueDate,
			Items:      items,
		})
		if err != nil {
			return err
		}
		if err := s.customerRepo.AdjustBalance(ctx, p.CustomerID, amount); err != nil {
			return err
		}
		details := fmt.Sprintf("invoice %s for customer %s: %.2f", created.ID, p.CustomerID, amount)
		return s.audit.Append(ctx, actor.ID, model.ActionCreateInvoice, details)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetCustomerInvoices lists a customer's invoices. A manager without an
// explicit days argument is clamped to their historyAccess window.
func (s *InvoiceService) GetCustomerInvoices(ctx context.Context, actor model.Identity, customerID string, days *int) ([]*model.Invoice, error) {
	window := days
	if window == nil && actor.Role == model.RoleManager && actor.HistoryAccess > 0 {
		window = &actor.HistoryAccess
	}

	var since *time.Time
	if window != nil && *window > 0 {
		cutoff := s.now().AddDate(0, 0, -*window)
		since = &cutoff
	}
	return s.invoiceRepo.ListByCustomer(ctx, customerID, since)
}

func (s *InvoiceService) List(ctx context.Context, actor model.Identity) ([]*model.Invoice, error) {
	if actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.invoiceRepo.List(ctx)
}

// MarkOverdue sweeps past-due PENDING invoices into OVERDUE and recomputes
// risk for every customer touched, atomically.
func (s *InvoiceService) MarkOverdue(ctx context.Context, actor model.Identity) (int, error) {
	if actor.Role != model.RoleAdmin {
		return 0, ErrForbidden
	}

	var touched int
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		customerIDs, err := s.invoiceRepo.MarkOverdue(ctx, s.now())
		if err != nil {
			return err
		}
		touched = len(customerIDs)
		if touched == 0 {
			return nil
		}
		for _, id := range customerIDs {
			if _, err := s.risk.Recompute(ctx, id); err != nil {
				return err
			}
		}
		details := fmt.Sprintf("%d customers with newly overdue invoices", touched)
		return s.audit.Append(ctx, actor.ID, model.ActionMarkOverdue, details)
	})
	if err != nil {
		return 0, err
	}

	if touched > 0 {
		logger.Info("overdue sweep complete", "customers", touched)
	}
	return touched, nil
}
