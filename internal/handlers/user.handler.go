package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/collection-ledger/internal/model"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
)

type UserService interface {
	AddUser(ctx context.Context, actor model.Identity, p model.UserCreateRequest) (*model.User, error)
	UpdateHistoryAccess(ctx context.Context, actor model.Identity, userID string, days int) error
	GetRiders(ctx context.Context, actor model.Identity) ([]*model.User, error)
}

type UserHandler struct {
	svc      UserService
	resolver IdentityResolver
}

func NewUserHandler(svc UserService, resolver IdentityResolver) *UserHandler {
	return &UserHandler{
		svc:      svc,
		resolver: resolver,
	}
}

func RegisterUserRoutes(e *router.Group, h *UserHandler) {
	e.POST("/users", AdminOnly(h.resolver, h.AddUser))
	e.PUT("/users/{id}/history-access", AdminOnly(h.resolver, h.UpdateHistoryAccess))
	e.GET("/riders", Authenticated(h.resolver, h.GetRiders))
}

type createUserRequest struct {
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	Role             string  `json:"role"`
	ManagerID        *string `json:"manager_id,omitempty"`
	HistoryAccess    int     `json:"history_access,omitempty"`
	CollectionAccess int     `json:"collection_access,omitempty"`
}

func (h *UserHandler) AddUser(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	var req createUserRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	created, err := h.svc.AddUser(ctx, actor, model.UserCreateRequest{
		Email:            req.Email,
		Password:         req.Password,
		Role:             model.Role(req.Role),
		ManagerID:        req.ManagerID,
		HistoryAccess:    req.HistoryAccess,
		CollectionAccess: req.CollectionAccess,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, created)
}

type historyAccessRequest struct {
	Days int `json:"days"`
}

func (h *UserHandler) UpdateHistoryAccess(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	var req historyAccessRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	if err := h.svc.UpdateHistoryAccess(ctx, actor, param(ctx, "id"), req.Days); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]string{"status": "ok"})
}

func (h *UserHandler) GetRiders(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	items, err := h.svc.GetRiders(ctx, actor)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]any{"items": items})
}
