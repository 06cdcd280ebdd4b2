package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/nimasrn/collection-ledger/pkg/logger"
	"github.com/nimasrn/collection-ledger/pkg/prom"
	"github.com/pkg/errors"
)

type CollectionRepository interface {
	Create(ctx context.Context, c *model.Collection) (*model.Collection, error)
	GetByID(ctx context.Context, id string) (*model.Collection, error)
	Transition(ctx context.Context, id string, from, to model.CollectionStatus) error
	ListByRider(ctx context.Context, riderID string) ([]*model.CollectionWithCustomer, error)
	ListPendingForManager(ctx context.Context, managerID string) ([]*model.PendingCollection, error)
}

type BalanceRepository interface {
	AdjustBalance(ctx context.Context, id string, delta float64) error
}

type CustomerLedgerRepository interface {
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	SetLastPayment(ctx context.Context, id string, at time.Time) error
}

type AuditWriter interface {
	Append(ctx context.Context, userID, action, details string) error
}

type RiskRecomputer interface {
	Recompute(ctx context.Context, customerID string) (*model.RiskAssessment, error)
}

// CollectionService drives the collection lifecycle. Every mutation runs in
// one transaction: the status change, the balance moves, the audit row, and
// the risk recompute commit or roll back together.
type CollectionService struct {
	collectionRepo CollectionRepository
	userRepo       BalanceRepository
	customerRepo   CustomerLedgerRepository
	audit          AuditWriter
	risk           RiskRecomputer
	tx             Transactor
	now            func() time.Time
}

func NewCollectionService(
	collectionRepo CollectionRepository,
	userRepo BalanceRepository,
	customerRepo CustomerLedgerRepository,
	audit AuditWriter,
	risk RiskRecomputer,
	tx Transactor,
) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		userRepo:       userRepo,
		customerRepo:   customerRepo,
		audit:          audit,
		risk:           risk,
		tx:             tx,
		now:            time.Now,
	}
}

// Submit records a cash collection handed over by a customer. The rider's
// balance grows immediately because the cash is physically in their hands,
// before any manager has adjudicated.
func (s *CollectionService) Submit(ctx context.Context, actor model.Identity, p model.CollectionSubmitRequest) (*model.Collection, error) {
	if actor.Role != model.RoleRider {
		return nil, ErrForbidden
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if _, err := s.customerRepo.GetByID(ctx, p.CustomerID); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var created *model.Collection
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.collectionRepo.Create(ctx, &model.Collection{
			RiderID:    actor.ID,
			CustomerID: p.CustomerID,
			Amount:     p.Amount,
			Status:     model.CollectionStatusPending,
		})
		if err != nil {
			return err
		}
		if err := s.userRepo.AdjustBalance(ctx, actor.ID, p.Amount); err != nil {
			return err
		}
		details := fmt.Sprintf("collection %s: %.2f from customer %s", created.ID, p.Amount, p.CustomerID)
		if err := s.audit.Append(ctx, actor.ID, model.ActionSubmitCollection, details); err != nil {
			return err
		}
		_, err = s.risk.Recompute(ctx, p.CustomerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	prom.IncCounter(prom.SystemCollections, prom.MetricCollectionsSubmitted)
	logger.Info("collection submitted",
		"collection_id", created.ID,
		"rider_id", actor.ID,
		"customer_id", p.CustomerID,
		"amount", p.Amount,
	)
	return created, nil
}

// Approve settles a pending collection: the cash moves from the rider's
// balance to the approver's, and the customer is credited with a payment.
func (s *CollectionService) Approve(ctx context.Context, actor model.Identity, collectionID string) (*model.Collection, error) {
	if actor.Role != model.RoleManager && actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	var decided *model.Collection
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		collection, err := s.getPendingCollection(ctx, collectionID)
		if err != nil {
			return err
		}

		if err := s.collectionRepo.Transition(ctx, collectionID, model.CollectionStatusPending, model.CollectionStatusApproved); err != nil {
			if errors.Is(err, repository.ErrConcurrentUpdate) {
				return ErrInvalidState
			}
			return err
		}
		if err := s.userRepo.AdjustBalance(ctx, collection.RiderID, -collection.Amount); err != nil {
			return err
		}
		if err := s.userRepo.AdjustBalance(ctx, actor.ID, collection.Amount); err != nil {
			return err
		}
		if err := s.customerRepo.SetLastPayment(ctx, collection.CustomerID, s.now()); err != nil {
			return err
		}
		details := fmt.Sprintf("collection %s: %.2f", collectionID, collection.Amount)
		if err := s.audit.Append(ctx, actor.ID, model.ActionApproveCollection, details); err != nil {
			return err
		}
		if _, err := s.risk.Recompute(ctx, collection.CustomerID); err != nil {
			return err
		}

		collection.Status = model.CollectionStatusApproved
		decided = collection
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.IncCounter(prom.SystemCollections, prom.MetricCollectionsApproved)
	return decided, nil
}

// Reject voids a pending collection and reverses the balance increment made
// at submit time, so the rider is not left holding phantom cash.
func (s *CollectionService) Reject(ctx context.Context, actor model.Identity, collectionID string) (*model.Collection, error) {
	if actor.Role != model.RoleManager && actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	var decided *model.Collection
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		collection, err := s.getPendingCollection(ctx, collectionID)
		if err != nil {
			return err
		}

		if err := s.collectionRepo.Transition(ctx, collectionID, model.CollectionStatusPending, model.CollectionStatusRejected); err != nil {
			if errors.Is(err, repository.ErrConcurrentUpdate) {
				return ErrInvalidState
			}
			return err
		}
		if err := s.userRepo.AdjustBalance(ctx, collection.RiderID, -collection.Amount); err != nil {
			return err
		}
		details := fmt.Sprintf("collection %s: %.2f", collectionID, collection.Amount)
		if err := s.audit.Append(ctx, actor.ID, model.ActionRejectCollection, details); err != nil {
			return err
		}
		if _, err := s.risk.Recompute(ctx, collection.CustomerID); err != nil {
			return err
		}

		collection.Status = model.CollectionStatusRejected
		decided = collection
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.IncCounter(prom.SystemCollections, prom.MetricCollectionsRejected)
	return decided, nil
}

func (s *CollectionService) getPendingCollection(ctx context.Context, id string) (*model.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCollectionNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if collection.Status != model.CollectionStatusPending {
		return nil, ErrInvalidState
	}
	return collection, nil
}

// ListMine returns the caller's own collections. A collectionAccess window
// on the rider limits how far back the history reaches.
func (s *CollectionService) ListMine(ctx context.Context, actor model.Identity) ([]*model.CollectionWithCustomer, error) {
	if actor.Role != model.RoleRider {
		return nil, ErrForbidden
	}

	rows, err := s.collectionRepo.ListByRider(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if actor.CollectionAccess <= 0 {
		return rows, nil
	}

	cutoff := s.now().AddDate(0, 0, -actor.CollectionAccess)
	visible := make([]*model.CollectionWithCustomer, 0, len(rows))
	for _, row := range rows {
		if !row.CreatedAt.Before(cutoff) {
			visible = append(visible, row)
		}
	}
	return visible, nil
}

// ListPending returns the caller's adjudication queue. Non-managers get an
// empty result rather than an error.
func (s *CollectionService) ListPending(ctx context.Context, actor model.Identity) ([]*model.PendingCollection, error) {
	if actor.Role != model.RoleManager {
		return []*model.PendingCollection{}, nil
	}
	return s.collectionRepo.ListPendingForManager(ctx, actor.ID)
}
