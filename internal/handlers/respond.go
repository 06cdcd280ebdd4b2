package handlers

import (
	"encoding/json"
	"time"

	"github.com/nimasrn/collection-ledger/internal/services"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
	"github.com/nimasrn/collection-ledger/pkg/logger"
	"github.com/pkg/errors"
)

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps the service failure taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a 500 and gets logged, not leaked.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		writeError(ctx, 401, err.Error())
	case errors.Is(err, services.ErrForbidden):
		writeError(ctx, 403, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(ctx, 404, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		writeError(ctx, 409, err.Error())
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrInsufficientBalance):
		writeError(ctx, 400, err.Error())
	default:
		logger.Error("unhandled service error", "error", err, "path", string(ctx.Path()))
		writeError(ctx, 500, "internal error")
	}
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func param(ctx *xhttp.RequestCtx, name string) string {
	if v, ok := ctx.UserValue(name).(string); ok {
		return v
	}
	return ""
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
