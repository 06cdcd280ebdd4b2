package repository

import (
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
)

type AuditLogEntity struct {
	ID        string    `db:"id"         gorm:"primaryKey;column:id;type:uuid"`
	UserID    string    `db:"user_id"    gorm:"column:user_id;not null;index"`
	Action    string    `db:"action"     gorm:"column:action;not null;index"`
	Details   string    `db:"details"    gorm:"column:details;not null"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (AuditLogEntity) TableName() string {
	return "audit_logs"
}

func toAuditLogModel(e *AuditLogEntity) *model.AuditLog {
	if e == nil {
		return nil
	}
	return &model.AuditLog{
		ID:        e.ID,
		UserID:    e.UserID,
		Action:    e.Action,
		Details:   e.Details,
		CreatedAt: e.CreatedAt,
	}
}

func toAuditLogModels(entities []*AuditLogEntity) []*model.AuditLog {
	if entities == nil {
		return nil
	}
	models := make([]*model.AuditLog, len(entities))
	for i, e := range entities {
		models[i] = toAuditLogModel(e)
	}
	return models
}
