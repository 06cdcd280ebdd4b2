package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/pkg/pg"
)

type AuditRepository struct {
	*pg.DB
}

func NewAuditRepository(db *pg.DB) *AuditRepository {
	return &AuditRepository{
		db,
	}
}

// Append writes one audit row. Runs inside the caller's transaction so the
// trail commits or rolls back with the business write it records.
func (r *AuditRepository) Append(ctx context.Context, userID, action, details string) error {
	entity := &AuditLogEntity{
		ID:      uuid.NewString(),
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	return r.Write(ctx).WithContext(ctx).Create(entity).Error
}

func (r *AuditRepository) ListByUser(ctx context.Context, userID string) ([]*model.AuditLog, error) {
	var entities []*AuditLogEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toAuditLogModels(entities), nil
}
