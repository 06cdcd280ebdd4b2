package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/services"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, actor model.Identity, current, newPassword string) error {
	args := m.Called(ctx, actor, current, newPassword)
	return args.Error(0)
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		handler := NewAuthHandler(svc, nil)

		svc.On("Login", mock.Anything, "rider@example.com", "secret123").Return(&services.LoginResult{
			Token: "signed-token",
			User:  &model.User{ID: "user-1", Email: "rider@example.com", Role: model.RoleRider},
		}, nil)

		body, _ := json.Marshal(loginRequest{Email: "rider@example.com", Password: "secret123"})
		ctx := setupTestContext("POST", "/auth/login", body)
		handler.Login(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response services.LoginResult
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, "signed-token", response.Token)
		assert.Equal(t, "user-1", response.User.ID)

		svc.AssertExpectations(t)
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		svc := new(MockAuthService)
		handler := NewAuthHandler(svc, nil)

		svc.On("Login", mock.Anything, "rider@example.com", "wrong").Return(nil, services.ErrUnauthenticated)

		body, _ := json.Marshal(loginRequest{Email: "rider@example.com", Password: "wrong"})
		ctx := setupTestContext("POST", "/auth/login", body)
		handler.Login(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
	})

	t.Run("invalid JSON", func(t *testing.T) {
		svc := new(MockAuthService)
		handler := NewAuthHandler(svc, nil)

		ctx := setupTestContext("POST", "/auth/login", []byte("{broken"))
		handler.Login(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestAuthHandler_RequestPasswordReset(t *testing.T) {
	t.Run("known email returns reset token", func(t *testing.T) {
		svc := new(MockAuthService)
		handler := NewAuthHandler(svc, nil)

		svc.On("RequestPasswordReset", mock.Anything, "rider@example.com").Return("reset-token", nil)

		body, _ := json.Marshal(passwordResetRequest{Email: "rider@example.com"})
		ctx := setupTestContext("POST", "/auth/password-reset", body)
		handler.RequestPasswordReset(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, "reset-token", response["reset_token"])
	})

	t.Run("unknown email answers 200 without a token", func(t *testing.T) {
		svc := new(MockAuthService)
		handler := NewAuthHandler(svc, nil)

		svc.On("RequestPasswordReset", mock.Anything, "ghost@example.com").Return("", nil)

		body, _ := json.Marshal(passwordResetRequest{Email: "ghost@example.com"})
		ctx := setupTestContext("POST", "/auth/password-reset", body)
		handler.RequestPasswordReset(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		_, present := response["reset_token"]
		assert.False(t, present)
	})
}

func TestAuthenticated(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		resolver := new(MockIdentityResolver)
		called := false
		h := Authenticated(resolver, func(ctx *xhttp.RequestCtx) { called = true })

		ctx := setupTestContext("GET", "/collections", nil)
		h(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
		assert.False(t, called)
	})

	t.Run("valid token stashes identity", func(t *testing.T) {
		resolver := new(MockIdentityResolver)
		resolver.On("Identify", mock.Anything, "good-token").Return(&model.Identity{
			ID:   "user-1",
			Role: model.RoleManager,
		}, nil)

		var seen model.Identity
		h := Authenticated(resolver, func(ctx *xhttp.RequestCtx) {
			seen, _ = identityFrom(ctx)
		})

		ctx := setupTestContext("GET", "/collections", nil)
		ctx.Request.Header.Set("Authorization", "Bearer good-token")
		h(ctx)

		assert.Equal(t, "user-1", seen.ID)
		assert.Equal(t, model.RoleManager, seen.Role)
	})

	t.Run("rejected token maps to 401", func(t *testing.T) {
		resolver := new(MockIdentityResolver)
		resolver.On("Identify", mock.Anything, "stale-token").Return(nil, services.ErrUnauthenticated)

		h := Authenticated(resolver, func(ctx *xhttp.RequestCtx) {
			t.Fatal("handler must not run")
		})

		ctx := setupTestContext("GET", "/collections", nil)
		ctx.Request.Header.Set("Authorization", "Bearer stale-token")
		h(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
	})
}

func TestAdminOnly(t *testing.T) {
	resolver := new(MockIdentityResolver)
	resolver.On("Identify", mock.Anything, "manager-token").Return(&model.Identity{
		ID:   "manager-1",
		Role: model.RoleManager,
	}, nil)

	h := AdminOnly(resolver, func(ctx *xhttp.RequestCtx) {
		t.Fatal("handler must not run")
	})

	ctx := setupTestContext("GET", "/invoices", nil)
	ctx.Request.Header.Set("Authorization", "Bearer manager-token")
	h(ctx)

	assert.Equal(t, 403, ctx.Response.StatusCode())
}
