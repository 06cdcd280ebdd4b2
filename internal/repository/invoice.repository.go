package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
)

type InvoiceRepository struct {
	*pg.DB
}

func NewInvoiceRepository(db *pg.DB) *InvoiceRepository {
	return &InvoiceRepository{
		db,
	}
}

// Create inserts the invoice and its line items in one statement batch.
// gorm cascades the Items association through the foreign key.
func (r *InvoiceRepository) Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	entity := toInvoiceEntity(inv)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if entity.Status == "" {
		entity.Status = string(model.InvoiceStatusPending)
	}
	for _, it := range entity.Items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.InvoiceID = entity.ID
	}

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toInvoiceModel(entity), nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	var entity InvoiceEntity
	err := r.Read(ctx).WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return toInvoiceModel(&entity), nil
}

// ListByCustomer returns the customer's invoices with line items, newest
// first. A non-nil since bounds how far back the history reaches.
func (r *InvoiceRepository) ListByCustomer(ctx context.Context, customerID string, since *time.Time) ([]*model.Invoice, error) {
	q := r.Read(ctx).WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID)

	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var entities []*InvoiceEntity
	if err := q.Order("created_at DESC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toInvoiceModels(entities), nil
}

func (r *InvoiceRepository) List(ctx context.Context) ([]*model.Invoice, error) {
	var entities []*InvoiceEntity
	err := r.Read(ctx).WithContext(ctx).
		Order("created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toInvoiceModels(entities), nil
}

// CountOverdueByCustomer feeds the risk engine.
func (r *InvoiceRepository) CountOverdueByCustomer(ctx context.Context, customerID string) (int64, error) {
	var count int64
	err := r.Read(ctx).WithContext(ctx).
		Model(&InvoiceEntity{}).
		Where("customer_id = ? AND status = ?", customerID, string(model.InvoiceStatusOverdue)).
		Count(&count).
		Error
	return count, err
}

// MarkOverdue flips PENDING invoices whose due date has passed and returns
// the customer IDs whose risk needs recomputing.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, now time.Time) ([]string, error) {
	var entities []*InvoiceEntity
	err := r.Write(ctx).WithContext(ctx).
		Where("status = ? AND due_date < ?", string(model.InvoiceStatusPending), now).
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, nil
	}

	ids := make([]string, len(entities))
	seen := make(map[string]struct{}, len(entities))
	customerIDs := make([]string, 0, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
		if _, ok := seen[e.CustomerID]; !ok {
			seen[e.CustomerID] = struct{}{}
			customerIDs = append(customerIDs, e.CustomerID)
		}
	}

	err = r.Write(ctx).WithContext(ctx).
		Model(&InvoiceEntity{}).
		Where("id IN ?", ids).
		Update("status", string(model.InvoiceStatusOverdue)).
		Error
	if err != nil {
		return nil, err
	}
	return customerIDs, nil
}
