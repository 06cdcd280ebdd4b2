package repository

import (
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
)

type RiskHistoryEntity struct {
	ID         string    `db:"id"          gorm:"primaryKey;column:id;type:uuid"`
	CustomerID string    `db:"customer_id" gorm:"column:customer_id;not null;index"`
	RiskLevel  string    `db:"risk_level"  gorm:"column:risk_level;not null"`
	RiskScore  int       `db:"risk_score"  gorm:"column:risk_score;not null"`
	CreatedAt  time.Time `db:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (RiskHistoryEntity) TableName() string {
	return "customer_risk_history"
}

func toRiskHistoryModel(e *RiskHistoryEntity) *model.RiskHistory {
	if e == nil {
		return nil
	}
	return &model.RiskHistory{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		RiskLevel:  model.RiskLevel(e.RiskLevel),
		RiskScore:  e.RiskScore,
		CreatedAt:  e.CreatedAt,
	}
}

func toRiskHistoryModels(entities []*RiskHistoryEntity) []*model.RiskHistory {
	if entities == nil {
		return nil
	}
	models := make([]*model.RiskHistory, len(entities))
	for i, e := range entities {
		models[i] = toRiskHistoryModel(e)
	}
	return models
}
