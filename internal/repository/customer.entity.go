package repository

import (
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
)

type CustomerEntity struct {
	ID          string     `db:"id"           gorm:"primaryKey;column:id;type:uuid"`
	Name        string     `db:"name"         gorm:"column:name;not null"`
	Balance     float64    `db:"balance"      gorm:"column:balance;not null;default:0"`
	CreditScore int        `db:"credit_score" gorm:"column:credit_score;not null;default:50"`
	RiskLevel   string     `db:"risk_level"   gorm:"column:risk_level;not null;default:LOW;index"`
	LastPayment *time.Time `db:"last_payment" gorm:"column:last_payment"`
	CreatedAt   time.Time  `db:"created_at"   gorm:"column:created_at;autoCreateTime"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:          m.ID,
		Name:        m.Name,
		Balance:     m.Balance,
		CreditScore: m.CreditScore,
		RiskLevel:   string(m.RiskLevel),
		LastPayment: m.LastPayment,
		CreatedAt:   m.CreatedAt,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:          e.ID,
		Name:        e.Name,
		Balance:     e.Balance,
		CreditScore: e.CreditScore,
		RiskLevel:   model.RiskLevel(e.RiskLevel),
		LastPayment: e.LastPayment,
		CreatedAt:   e.CreatedAt,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	if entities == nil {
		return nil
	}
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}
