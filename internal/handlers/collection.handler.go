package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/collection-ledger/internal/model"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
)

type CollectionService interface {
	Submit(ctx context.Context, actor model.Identity, p model.CollectionSubmitRequest) (*model.Collection, error)
	Approve(ctx context.Context, actor model.Identity, collectionID string) (*model.Collection, error)
	Reject(ctx context.Context, actor model.Identity, collectionID string) (*model.Collection, error)
	ListMine(ctx context.Context, actor model.Identity) ([]*model.CollectionWithCustomer, error)
	ListPending(ctx context.Context, actor model.Identity) ([]*model.PendingCollection, error)
}

type CollectionHandler struct {
	svc      CollectionService
	resolver IdentityResolver
}

func NewCollectionHandler(svc CollectionService, resolver IdentityResolver) *CollectionHandler {
	return &CollectionHandler{
		svc:      svc,
		resolver: resolver,
	}
}

func RegisterCollectionRoutes(e *router.Group, h *CollectionHandler) {
	e.POST("/collections", Authenticated(h.resolver, h.Submit))
	e.GET("/collections", Authenticated(h.resolver, h.ListMine))
	e.GET("/collections/pending", Authenticated(h.resolver, h.ListPending))
	e.POST("/collections/{id}/approve", Authenticated(h.resolver, h.Approve))
	e.POST("/collections/{id}/reject", Authenticated(h.resolver, h.Reject))
}

type submitCollectionRequest struct {
	CustomerID string  `json:"customer_id"`
	Amount     float64 `json:"amount"`
}

func (h *CollectionHandler) Submit(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	var req submitCollectionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	created, err := h.svc.Submit(ctx, actor, model.CollectionSubmitRequest{
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, created)
}

func (h *CollectionHandler) Approve(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	decided, err := h.svc.Approve(ctx, actor, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, decided)
}

func (h *CollectionHandler) Reject(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	decided, err := h.svc.Reject(ctx, actor, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, decided)
}

func (h *CollectionHandler) ListMine(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	items, err := h.svc.ListMine(ctx, actor)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]any{"items": items})
}

func (h *CollectionHandler) ListPending(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	items, err := h.svc.ListPending(ctx, actor)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]any{"items": items})
}
