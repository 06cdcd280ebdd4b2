package handlers

import (
	"context"
	"strings"

	"github.com/nimasrn/collection-ledger/internal/model"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
)

const identityKey = "identity"

type IdentityResolver interface {
	Identify(ctx context.Context, token string) (*model.Identity, error)
}

// Authenticated resolves the bearer token to an identity and stashes it on
// the request context. Requests without a valid credential never reach next.
func Authenticated(resolver IdentityResolver, next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		token := bearerToken(ctx)
		if token == "" {
			writeError(ctx, 401, "authentication required")
			return
		}
		identity, err := resolver.Identify(ctx, token)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.SetUserValue(identityKey, *identity)
		next(ctx)
	}
}

// AdminOnly layers the admin gate on top of Authenticated.
func AdminOnly(resolver IdentityResolver, next xhttp.RequestHandler) xhttp.RequestHandler {
	return Authenticated(resolver, func(ctx *xhttp.RequestCtx) {
		actor, ok := identityFrom(ctx)
		if !ok || actor.Role != model.RoleAdmin {
			writeError(ctx, 403, "admin access required")
			return
		}
		next(ctx)
	})
}

func identityFrom(ctx *xhttp.RequestCtx) (model.Identity, bool) {
	identity, ok := ctx.UserValue(identityKey).(model.Identity)
	return identity, ok
}

func bearerToken(ctx *xhttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
