package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
)

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	var entities []*CustomerEntity
	if err := r.Read(ctx).WithContext(ctx).Order("name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toCustomerModels(entities), nil
}

// ListAssigned returns customers the rider has at least one collection
// against, name ascending.
func (r *CustomerRepository) ListAssigned(ctx context.Context, riderID string) ([]*model.Customer, error) {
	sub := r.Read(ctx).WithContext(ctx).
		Model(&CollectionEntity{}).
		Select("customer_id").
		Where("rider_id = ?", riderID)

	var entities []*CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id IN (?)", sub).
		Order("name ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toCustomerModels(entities), nil
}

// AdjustBalance applies a signed delta to the outstanding balance.
func (r *CustomerRepository) AdjustBalance(ctx context.Context, id string, delta float64) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// UpdateRiskLevel persists the derived tier. Only the risk engine calls it.
func (r *CustomerRepository) UpdateRiskLevel(ctx context.Context, id string, level model.RiskLevel) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{}).
		Where("id = ?", id).
		Update("risk_level", string(level))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) SetLastPayment(ctx context.Context, id string, at time.Time) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{}).
		Where("id = ?", id).
		Update("last_payment", at)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
