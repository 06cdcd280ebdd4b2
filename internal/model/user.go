package model

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of actor roles. Every policy checkpoint switches
// over it exhaustively instead of comparing raw strings.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleRider   Role = "RIDER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleRider:
		return true
	}
	return false
}

// User is an operator of the system. Balance is the signed running total of
// cash currently held by the user. A RIDER always carries ManagerID;
// ADMIN/MANAGER never do.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Password         string     `json:"-"` // bcrypt hash
	Role             Role       `json:"role"`
	Balance          float64    `json:"balance"`
	ManagerID        *string    `json:"manager_id,omitempty"`
	HistoryAccess    int        `json:"history_access,omitempty"`    // days of invoice history, MANAGER only
	CollectionAccess int        `json:"collection_access,omitempty"` // days of collection history, RIDER only
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"-"`
}

// Identity is the authenticated caller handed to every operation by the
// auth layer.
type Identity struct {
	ID               string
	Role             Role
	Balance          float64
	HistoryAccess    int
	CollectionAccess int
}

type UserCreateRequest struct {
	Email            string
	Password         string
	Role             Role
	ManagerID        *string
	HistoryAccess    int
	CollectionAccess int
}

func (p UserCreateRequest) Validate() error {
	if !strings.Contains(p.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(p.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if p.Role != RoleManager && p.Role != RoleRider {
		return errors.New("role must be MANAGER or RIDER")
	}
	if p.Role == RoleRider && (p.ManagerID == nil || *p.ManagerID == "") {
		return errors.New("a rider must be assigned to a manager")
	}
	if p.Role == RoleManager && p.ManagerID != nil {
		return errors.New("a manager cannot report to another manager")
	}
	return nil
}
