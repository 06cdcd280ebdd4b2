package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrTransferNotFound = errors.New("transfer not found")
)

type TransferRepository struct {
	*pg.DB
}

func NewTransferRepository(db *pg.DB) *TransferRepository {
	return &TransferRepository{
		db,
	}
}

func (r *TransferRepository) Create(ctx context.Context, t *model.Transfer) (*model.Transfer, error) {
	entity := toTransferEntity(t)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if entity.Status == "" {
		entity.Status = string(model.TransferStatusPending)
	}

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toTransferModel(entity), nil
}

func (r *TransferRepository) GetByID(ctx context.Context, id string) (*model.Transfer, error) {
	var entity TransferEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return toTransferModel(&entity), nil
}

// Transition is the same guarded status update the collection repository
// uses. RowsAffected zero means a concurrent caller decided the transfer.
func (r *TransferRepository) Transition(ctx context.Context, id string, from, to model.TransferStatus) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&TransferEntity{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

func (r *TransferRepository) List(ctx context.Context) ([]*model.Transfer, error) {
	var entities []*TransferEntity
	err := r.Read(ctx).WithContext(ctx).
		Order("created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toTransferModels(entities), nil
}

func (r *TransferRepository) ListPending(ctx context.Context) ([]*model.Transfer, error) {
	var entities []*TransferEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("status = ?", string(model.TransferStatusPending)).
		Order("created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toTransferModels(entities), nil
}
