package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/collection-ledger/internal/model"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
)

type InvoiceService interface {
	Create(ctx context.Context, actor model.Identity, p model.InvoiceCreateRequest) (*model.Invoice, error)
	GetCustomerInvoices(ctx context.Context, actor model.Identity, customerID string, days *int) ([]*model.Invoice, error)
	List(ctx context.Context, actor model.Identity) ([]*model.Invoice, error)
	MarkOverdue(ctx context.Context, actor model.Identity) (int, error)
}

type InvoiceHandler struct {
	svc      InvoiceService
	resolver IdentityResolver
}

func NewInvoiceHandler(svc InvoiceService, resolver IdentityResolver) *InvoiceHandler {
	return &InvoiceHandler{
		svc:      svc,
		resolver: resolver,
	}
}

func RegisterInvoiceRoutes(e *router.Group, h *InvoiceHandler) {
	e.POST("/invoices", AdminOnly(h.resolver, h.Create))
	e.GET("/invoices", AdminOnly(h.resolver, h.List))
	e.POST("/invoices/mark-overdue", AdminOnly(h.resolver, h.MarkOverdue))
	e.GET("/customers/{id}/invoices", Authenticated(h.resolver, h.GetCustomerInvoices))
}

type createInvoiceRequest struct {
	CustomerID string                   `json:"customer_id"`
	Items      []model.InvoiceItemInput `json:"items"`
	DueDate    *time.Time               `json:"due_date,omitempty"`
}

func (h *InvoiceHandler) Create(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	var req createInvoiceRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	created, err := h.svc.Create(ctx, actor, model.InvoiceCreateRequest{
		CustomerID: req.CustomerID,
		Items:      req.Items,
		DueDate:    req.DueDate,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, created)
}

func (h *InvoiceHandler) GetCustomerInvoices(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	var days *int
	if v := query(ctx, "days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = &n
		}
	}
	items, err := h.svc.GetCustomerInvoices(ctx, actor, param(ctx, "id"), days)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]any{"items": items})
}

func (h *InvoiceHandler) List(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	items, err := h.svc.List(ctx, actor)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]any{"items": items})
}

func (h *InvoiceHandler) MarkOverdue(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	touched, err := h.svc.MarkOverdue(ctx, actor)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]int{"customers_affected": touched})
}
