package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/collection-ledger/internal/model"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
)

type TransferService interface {
	Request(ctx context.Context, actor model.Identity, amount float64) (*model.Transfer, error)
	Approve(ctx context.Context, actor model.Identity, transferID string) (*model.Transfer, error)
	List(ctx context.Context, actor model.Identity, pendingOnly bool) ([]*model.Transfer, error)
}

type TransferHandler struct {
	svc      TransferService
	resolver IdentityResolver
}

func NewTransferHandler(svc TransferService, resolver IdentityResolver) *TransferHandler {
	return &TransferHandler{
		svc:      svc,
		resolver: resolver,
	}
}

func RegisterTransferRoutes(e *router.Group, h *TransferHandler) {
	e.POST("/transfers", Authenticated(h.resolver, h.Request))
	e.GET("/transfers", Authenticated(h.resolver, h.List))
	e.POST("/transfers/{id}/approve", Authenticated(h.resolver, h.Approve))
}

type requestTransferRequest struct {
	Amount float64 `json:"amount"`
}

func (h *TransferHandler) Request(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	var req requestTransferRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	created, err := h.svc.Request(ctx, actor, req.Amount)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, created)
}

func (h *TransferHandler) Approve(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	decided, err := h.svc.Approve(ctx, actor, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, decided)
}

func (h *TransferHandler) List(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	pendingOnly := query(ctx, "status") == "pending"
	items, err := h.svc.List(ctx, actor, pendingOnly)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]any{"items": items})
}
