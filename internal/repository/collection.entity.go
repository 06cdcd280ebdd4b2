package repository

import (
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
)

type CollectionEntity struct {
	ID         string    `db:"id"          gorm:"primaryKey;column:id;type:uuid"`
	RiderID    string    `db:"rider_id"    gorm:"column:rider_id;not null;index"`
	CustomerID string    `db:"customer_id" gorm:"column:customer_id;not null;index"`
	Amount     float64   `db:"amount"      gorm:"column:amount;not null"`
	Status     string    `db:"status"      gorm:"column:status;not null;default:PENDING;index"`
	CreatedAt  time.Time `db:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (CollectionEntity) TableName() string {
	return "collections"
}

func toCollectionEntity(m *model.Collection) *CollectionEntity {
	if m == nil {
		return nil
	}
	return &CollectionEntity{
		ID:         m.ID,
		RiderID:    m.RiderID,
		CustomerID: m.CustomerID,
		Amount:     m.Amount,
		Status:     string(m.Status),
		CreatedAt:  m.CreatedAt,
	}
}

func toCollectionModel(e *CollectionEntity) *model.Collection {
	if e == nil {
		return nil
	}
	return &model.Collection{
		ID:         e.ID,
		RiderID:    e.RiderID,
		CustomerID: e.CustomerID,
		Amount:     e.Amount,
		Status:     model.CollectionStatus(e.Status),
		CreatedAt:  e.CreatedAt,
	}
}

func toCollectionModels(entities []*CollectionEntity) []*model.Collection {
	if entities == nil {
		return nil
	}
	models := make([]*model.Collection, len(entities))
	for i, e := range entities {
		models[i] = toCollectionModel(e)
	}
	return models
}

// collectionWithCustomerRow backs the rider-facing list join.
type collectionWithCustomerRow struct {
	CollectionEntity
	CustomerName string `gorm:"column:customer_name"`
}
