package services

import (
	"context"
	"fmt"

	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/nimasrn/collection-ledger/pkg/prom"
	"github.com/pkg/errors"
)

type TransferRepository interface {
	Create(ctx context.Context, t *model.Transfer) (*model.Transfer, error)
	GetByID(ctx context.Context, id string) (*model.Transfer, error)
	Transition(ctx context.Context, id string, from, to model.TransferStatus) error
	List(ctx context.Context) ([]*model.Transfer, error)
	ListPending(ctx context.Context) ([]*model.Transfer, error)
}

type UserBalanceReader interface {
	GetBalance(ctx context.Context, id string) (float64, error)
}

// TransferService moves aggregated cash from a manager's balance up to the
// admin who approves the hand-off.
type TransferService struct {
	transferRepo TransferRepository
	userRepo     BalanceRepository
	balances     UserBalanceReader
	audit        AuditWriter
	tx           Transactor
}

func NewTransferService(
	transferRepo TransferRepository,
	userRepo BalanceRepository,
	balances UserBalanceReader,
	audit AuditWriter,
	tx Transactor,
) *TransferService {
	return &TransferService{
		transferRepo: transferRepo,
		userRepo:     userRepo,
		balances:     balances,
		audit:        audit,
		tx:           tx,
	}
}

// Request opens a pending transfer. The balance check reads the stored
// balance, not the identity snapshot, so a stale token cannot overdraw.
func (s *TransferService) Request(ctx context.Context, actor model.Identity, amount float64) (*model.Transfer, error) {
	if actor.Role != model.RoleManager {
		return nil, ErrForbidden
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}

	balance, err := s.balances.GetBalance(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if amount > balance {
		return nil, ErrInsufficientBalance
	}

	var created *model.Transfer
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.transferRepo.Create(ctx, &model.Transfer{
			FromUserID: actor.ID,
			Amount:     amount,
			Status:     model.TransferStatusPending,
		})
		if err != nil {
			return err
		}
		details := fmt.Sprintf("transfer %s: %.2f", created.ID, amount)
		return s.audit.Append(ctx, actor.ID, model.ActionRequestTransfer, details)
	})
	if err != nil {
		return nil, err
	}

	prom.IncCounter(prom.SystemTransfers, prom.MetricTransfersRequested)
	return created, nil
}

// Approve settles a pending transfer: the amount leaves the requesting
// manager's balance and lands on the approving admin's.
func (s *TransferService) Approve(ctx context.Context, actor model.Identity, transferID string) (*model.Transfer, error) {
	if actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	var decided *model.Transfer
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		transfer, err := s.transferRepo.GetByID(ctx, transferID)
		if err != nil {
			if errors.Is(err, repository.ErrTransferNotFound) {
				return ErrNotFound
			}
			return err
		}
		if transfer.Status != model.TransferStatusPending {
			return ErrInvalidState
		}

		if err := s.transferRepo.Transition(ctx, transferID, model.TransferStatusPending, model.TransferStatusApproved); err != nil {
			if errors.Is(err, repository.ErrConcurrentUpdate) {
				return ErrInvalidState
			}
			return err
		}
		if err := s.userRepo.AdjustBalance(ctx, transfer.FromUserID, -transfer.Amount); err != nil {
			return err
		}
		if err := s.userRepo.AdjustBalance(ctx, actor.ID, transfer.Amount); err != nil {
			return err
		}
		details := fmt.Sprintf("transfer %s: %.2f from %s", transferID, transfer.Amount, transfer.FromUserID)
		if err := s.audit.Append(ctx, actor.ID, model.ActionApproveTransfer, details); err != nil {
			return err
		}

		transfer.Status = model.TransferStatusApproved
		decided = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.IncCounter(prom.SystemTransfers, prom.MetricTransfersApproved)
	return decided, nil
}

// List returns all transfers for the admin, or the pending queue only.
func (s *TransferService) List(ctx context.Context, actor model.Identity, pendingOnly bool) ([]*model.Transfer, error) {
	if actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	if pendingOnly {
		return s.transferRepo.ListPending(ctx)
	}
	return s.transferRepo.List(ctx)
}
