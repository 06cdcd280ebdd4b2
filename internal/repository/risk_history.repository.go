package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/pkg/pg"
)

type RiskHistoryRepository struct {
	*pg.DB
}

func NewRiskHistoryRepository(db *pg.DB) *RiskHistoryRepository {
	return &RiskHistoryRepository{
		db,
	}
}

func (r *RiskHistoryRepository) Append(ctx context.Context, customerID string, level model.RiskLevel, score int) (*model.RiskHistory, error) {
	entity := &RiskHistoryEntity{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		RiskLevel:  string(level),
		RiskScore:  score,
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toRiskHistoryModel(entity), nil
}

func (r *RiskHistoryRepository) ListByCustomer(ctx context.Context, customerID string) ([]*model.RiskHistory, error) {
	var entities []*RiskHistoryEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toRiskHistoryModels(entities), nil
}
