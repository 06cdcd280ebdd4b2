package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/collection-ledger/internal/model"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
)

type CustomerService interface {
	List(ctx context.Context) ([]*model.Customer, error)
	GetAssigned(ctx context.Context, actor model.Identity) ([]*model.Customer, error)
	GetRiskHistory(ctx context.Context, actor model.Identity, customerID string) ([]*model.RiskHistory, error)
}

type CustomerHandler struct {
	svc      CustomerService
	resolver IdentityResolver
}

func NewCustomerHandler(svc CustomerService, resolver IdentityResolver) *CustomerHandler {
	return &CustomerHandler{
		svc:      svc,
		resolver: resolver,
	}
}

func RegisterCustomerRoutes(e *router.Group, h *CustomerHandler) {
	e.GET("/customers", Authenticated(h.resolver, h.List))
	e.GET("/customers/assigned", Authenticated(h.resolver, h.GetAssigned))
	e.GET("/customers/{id}/risk-history", Authenticated(h.resolver, h.GetRiskHistory))
}

func (h *CustomerHandler) List(ctx *xhttp.RequestCtx) {
	items, err := h.svc.List(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]any{"items": items})
}

func (h *CustomerHandler) GetAssigned(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	items, err := h.svc.GetAssigned(ctx, actor)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]any{"items": items})
}

func (h *CustomerHandler) GetRiskHistory(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	items, err := h.svc.GetRiskHistory(ctx, actor, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]any{"items": items})
}
