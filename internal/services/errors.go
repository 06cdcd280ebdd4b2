package services

import (
	"context"
	"errors"
)

// Failure taxonomy surfaced to callers. Handlers map these onto HTTP status
// codes; everything else is treated as an internal error.
var (
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("permission denied")
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid state transition")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Transactor runs fn atomically. Repository calls made with the ctx passed
// to fn join the same transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
