package services

import (
	"context"

	"github.com/nimasrn/collection-ledger/pkg/pg"
)

type HealthService struct {
	db *pg.DB
}

func NewHealthService(db *pg.DB) *HealthService {
	return &HealthService{db: db}
}

func (s *HealthService) Get() error {
	if s.db == nil {
		return nil
	}
	return s.db.Read(context.Background()).Exec("SELECT 1").Error
}
