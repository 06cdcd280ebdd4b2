package repository

import (
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
)

type UserEntity struct {
	ID               string     `db:"id"                gorm:"primaryKey;column:id;type:uuid"`
	Email            string     `db:"email"             gorm:"column:email;not null;unique"`
	Password         string     `db:"password"          gorm:"column:password;not null"`
	Role             string     `db:"role"              gorm:"column:role;not null;index"`
	Balance          float64    `db:"balance"           gorm:"column:balance;not null;default:0"`
	ManagerID        *string    `db:"manager_id"        gorm:"column:manager_id;index"`
	HistoryAccess    int        `db:"history_access"    gorm:"column:history_access;not null;default:0"`
	CollectionAccess int        `db:"collection_access" gorm:"column:collection_access;not null;default:0"`
	CreatedAt        time.Time  `db:"created_at"        gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        *time.Time `db:"updated_at"        gorm:"column:updated_at;autoUpdateTime"`
}

func (UserEntity) TableName() string {
	return "users"
}

func toUserEntity(m *model.User) *UserEntity {
	if m == nil {
		return nil
	}
	return &UserEntity{
		ID:               m.ID,
		Email:            m.Email,
		Password:         m.Password,
		Role:             string(m.Role),
		Balance:          m.Balance,
		ManagerID:        m.ManagerID,
		HistoryAccess:    m.HistoryAccess,
		CollectionAccess: m.CollectionAccess,
		CreatedAt:        m.CreatedAt,
	}
}

func toUserModel(e *UserEntity) *model.User {
	if e == nil {
		return nil
	}
	return &model.User{
		ID:               e.ID,
		Email:            e.Email,
		Password:         e.Password,
		Role:             model.Role(e.Role),
		Balance:          e.Balance,
		ManagerID:        e.ManagerID,
		HistoryAccess:    e.HistoryAccess,
		CollectionAccess: e.CollectionAccess,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func toUserModels(entities []*UserEntity) []*model.User {
	if entities == nil {
		return nil
	}
	models := make([]*model.User, len(entities))
	for i, e := range entities {
		models[i] = toUserModel(e)
	}
	return models
}
