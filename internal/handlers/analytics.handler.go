package handlers

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/collection-ledger/internal/model"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
)

type AnalyticsService interface {
	RiderPerformance(ctx context.Context, actor model.Identity, riderID string, start, end time.Time) (*model.RiderPerformance, error)
	CustomerAnalytics(ctx context.Context, actor model.Identity) (*model.CustomerAnalytics, error)
	CashflowAnalytics(ctx context.Context, actor model.Identity) (*model.CashflowAnalytics, error)
}

type AnalyticsHandler struct {
	svc      AnalyticsService
	resolver IdentityResolver
}

func NewAnalyticsHandler(svc AnalyticsService, resolver IdentityResolver) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:      svc,
		resolver: resolver,
	}
}

func RegisterAnalyticsRoutes(e *router.Group, h *AnalyticsHandler) {
	e.GET("/analytics/riders/{id}", Authenticated(h.resolver, h.RiderPerformance))
	e.GET("/analytics/customers", AdminOnly(h.resolver, h.CustomerAnalytics))
	e.GET("/analytics/cashflow", AdminOnly(h.resolver, h.CashflowAnalytics))
}

func (h *AnalyticsHandler) RiderPerformance(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	start, err := parseTime(query(ctx, "start"))
	if err != nil {
		writeError(ctx, 400, "start must be RFC3339 or YYYY-MM-DD")
		return
	}
	end, err := parseTime(query(ctx, "end"))
	if err != nil {
		writeError(ctx, 400, "end must be RFC3339 or YYYY-MM-DD")
		return
	}

	perf, err := h.svc.RiderPerformance(ctx, actor, param(ctx, "id"), start, end)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, perf)
}

func (h *AnalyticsHandler) CustomerAnalytics(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	result, err := h.svc.CustomerAnalytics(ctx, actor)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, result)
}

func (h *AnalyticsHandler) CashflowAnalytics(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	result, err := h.svc.CashflowAnalytics(ctx, actor)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, result)
}
