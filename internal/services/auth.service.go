package services

import (
	"context"
	"fmt"

	"github.com/nimasrn/collection-ledger/internal/auth"
	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/nimasrn/collection-ledger/pkg/logger"
	"github.com/pkg/errors"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

type TokenIssuer interface {
	IssueAccessToken(userID string) (string, error)
	IssueResetToken(userID string) (string, error)
	VerifyAccessToken(token string) (string, error)
	VerifyResetToken(token string) (string, error)
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService owns credential verification and the password lifecycle.
type AuthService struct {
	userRepo UserRepository
	tokens   TokenIssuer
	audit    AuditWriter
	tx       Transactor
}

func NewAuthService(userRepo UserRepository, tokens TokenIssuer, audit AuditWriter, tx Transactor) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		audit:    audit,
		tx:       tx,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, ErrUnauthenticated
	}

	token, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.audit.Append(ctx, user.ID, model.ActionLogin, "login from api"); err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// Identify resolves a bearer token to the caller's identity.
func (s *AuthService) Identify(ctx context.Context, token string) (*model.Identity, error) {
	userID, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return &model.Identity{
		ID:               user.ID,
		Role:             user.Role,
		Balance:          user.Balance,
		HistoryAccess:    user.HistoryAccess,
		CollectionAccess: user.CollectionAccess,
	}, nil
}

// RequestPasswordReset issues a short-lived reset token. An unknown email
// returns an empty token with no error, so callers cannot enumerate accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Info("password reset requested for unknown email")
			return "", nil
		}
		return "", err
	}
	return s.tokens.IssueResetToken(user.ID)
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokens.VerifyResetToken(token)
	if err != nil {
		return ErrUnauthenticated
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidArgument)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return ErrUnauthenticated
			}
			return err
		}
		return s.audit.Append(ctx, userID, model.ActionPasswordReset, "password reset via token")
	})
}

// UpdatePassword changes the caller's own password after re-verifying the
// current one.
func (s *AuthService) UpdatePassword(ctx context.Context, actor model.Identity, current, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, current) {
		return ErrUnauthenticated
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidArgument)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.UpdatePassword(ctx, actor.ID, hash); err != nil {
			return err
		}
		return s.audit.Append(ctx, actor.ID, model.ActionPasswordReset, "password changed")
	})
}
