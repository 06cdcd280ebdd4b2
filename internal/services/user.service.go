package services

import (
	"context"
	"fmt"

	"github.com/nimasrn/collection-ledger/internal/auth"
	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/pkg/errors"
)

type UserAdminRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateHistoryAccess(ctx context.Context, id string, days int) error
	ListRiders(ctx context.Context, managerID *string) ([]*model.User, error)
}

// UserService covers the admin-facing user management operations.
type UserService struct {
	userRepo UserAdminRepository
	audit    AuditWriter
	tx       Transactor
}

func NewUserService(userRepo UserAdminRepository, audit AuditWriter, tx Transactor) *UserService {
	return &UserService{
		userRepo: userRepo,
		audit:    audit,
		tx:       tx,
	}
}

// AddUser creates a manager or rider account. Only admins may create users;
// riders must be attached to an existing manager.
func (s *UserService) AddUser(ctx context.Context, actor model.Identity, p model.UserCreateRequest) (*model.User, error) {
	if actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if p.Role == model.RoleRider {
		manager, err := s.userRepo.GetByID(ctx, *p.ManagerID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, fmt.Errorf("%w: manager does not exist", ErrInvalidArgument)
			}
			return nil, err
		}
		if manager.Role != model.RoleManager {
			return nil, fmt.Errorf("%w: manager_id must reference a manager", ErrInvalidArgument)
		}
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	var created *model.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.userRepo.Create(ctx, &model.User{
			Email:            p.Email,
			Password:         hash,
			Role:             p.Role,
			ManagerID:        p.ManagerID,
			HistoryAccess:    p.HistoryAccess,
			CollectionAccess: p.CollectionAccess,
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return fmt.Errorf("%w: email already in use", ErrInvalidArgument)
			}
			return err
		}
		details := fmt.Sprintf("created %s %s", created.Role, created.Email)
		return s.audit.Append(ctx, actor.ID, model.ActionCreateUser, details)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateHistoryAccess sets how many days of invoice history a manager sees.
func (s *UserService) UpdateHistoryAccess(ctx context.Context, actor model.Identity, userID string, days int) error {
	if actor.Role != model.RoleAdmin {
		return ErrForbidden
	}
	if days < 1 || days > 365 {
		return fmt.Errorf("%w: days must be between 1 and 365", ErrInvalidArgument)
	}

	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	if target.Role != model.RoleManager {
		return fmt.Errorf("%w: history access applies to managers only", ErrInvalidArgument)
	}
	return s.userRepo.UpdateHistoryAccess(ctx, userID, days)
}

// GetRiders returns the riders visible to the caller: admins see all,
// managers see their own span.
func (s *UserService) GetRiders(ctx context.Context, actor model.Identity) ([]*model.User, error) {
	switch actor.Role {
	case model.RoleAdmin:
		return s.userRepo.ListRiders(ctx, nil)
	case model.RoleManager:
		return s.userRepo.ListRiders(ctx, &actor.ID)
	default:
		return nil, ErrForbidden
	}
}
