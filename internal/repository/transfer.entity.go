package repository

import (
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
)

type TransferEntity struct {
	ID         string    `db:"id"           gorm:"primaryKey;column:id;type:uuid"`
	FromUserID string    `db:"from_user_id" gorm:"column:from_user_id;not null;index"`
	Amount     float64   `db:"amount"       gorm:"column:amount;not null"`
	Status     string    `db:"status"       gorm:"column:status;not null;default:PENDING;index"`
	CreatedAt  time.Time `db:"created_at"   gorm:"column:created_at;autoCreateTime"`
}

func (TransferEntity) TableName() string {
	return "transfers"
}

func toTransferEntity(m *model.Transfer) *TransferEntity {
	if m == nil {
		return nil
	}
	return &TransferEntity{
		ID:         m.ID,
		FromUserID: m.FromUserID,
		Amount:     m.Amount,
		Status:     string(m.Status),
		CreatedAt:  m.CreatedAt,
	}
}

func toTransferModel(e *TransferEntity) *model.Transfer {
	if e == nil {
		return nil
	}
	return &model.Transfer{
		ID:         e.ID,
		FromUserID: e.FromUserID,
		Amount:     e.Amount,
		Status:     model.TransferStatus(e.Status),
		CreatedAt:  e.CreatedAt,
	}
}

func toTransferModels(entities []*TransferEntity) []*model.Transfer {
	if entities == nil {
		return nil
	}
	models := make([]*model.Transfer, len(entities))
	for i, e := range entities {
		models[i] = toTransferModel(e)
	}
	return models
}
