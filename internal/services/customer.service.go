package services

import (
	"context"

	"github.com/nimasrn/collection-ledger/internal/model"
)

type CustomerRepository interface {
	List(ctx context.Context) ([]*model.Customer, error)
	ListAssigned(ctx context.Context, riderID string) ([]*model.Customer, error)
}

type RiskHistoryReader interface {
	ListByCustomer(ctx context.Context, customerID string) ([]*model.RiskHistory, error)
}

type CustomerService struct {
	customerRepo CustomerRepository
	riskHistory  RiskHistoryReader
}

func NewCustomerService(customerRepo CustomerRepository, riskHistory RiskHistoryReader) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		riskHistory:  riskHistory,
	}
}

func (s *CustomerService) List(ctx context.Context) ([]*model.Customer, error) {
	return s.customerRepo.List(ctx)
}

// GetAssigned returns the customers a rider has collected from. Non-riders
// get an empty result rather than an error.
func (s *CustomerService) GetAssigned(ctx context.Context, actor model.Identity) ([]*model.Customer, error) {
	if actor.Role != model.RoleRider {
		return []*model.Customer{}, nil
	}
	return s.customerRepo.ListAssigned(ctx, actor.ID)
}

// GetRiskHistory returns a customer's risk time series, newest first.
func (s *CustomerService) GetRiskHistory(ctx context.Context, actor model.Identity, customerID string) ([]*model.RiskHistory, error) {
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleManager {
		return nil, ErrForbidden
	}
	return s.riskHistory.ListByCustomer(ctx, customerID)
}
