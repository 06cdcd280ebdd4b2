package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/services"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdatePassword(ctx context.Context, actor model.Identity, current, newPassword string) error
}

type AuthHandler struct {
	svc      AuthService
	resolver IdentityResolver
}

func NewAuthHandler(svc AuthService, resolver IdentityResolver) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		resolver: resolver,
	}
}

func RegisterAuthRoutes(e *router.Group, h *AuthHandler) {
	e.POST("/auth/login", h.Login)
	e.POST("/auth/password-reset", h.RequestPasswordReset)
	e.POST("/auth/password-reset/confirm", h.ResetPassword)
	e.POST("/auth/password", Authenticated(h.resolver, h.UpdatePassword))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(ctx *xhttp.RequestCtx) {
	var req loginRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	result, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, result)
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset always answers 200 so the endpoint cannot be used to
// probe which emails exist.
func (h *AuthHandler) RequestPasswordReset(ctx *xhttp.RequestCtx) {
	var req passwordResetRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	token, err := h.svc.RequestPasswordReset(ctx, req.Email)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	resp := map[string]string{"status": "ok"}
	if token != "" {
		// delivered out of band in production; returned here for the client flow
		resp["reset_token"] = token
	}
	writeJSON(ctx, 200, resp)
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ResetPassword(ctx *xhttp.RequestCtx) {
	var req resetPasswordRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	if err := h.svc.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]string{"status": "ok"})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) UpdatePassword(ctx *xhttp.RequestCtx) {
	actor, _ := identityFrom(ctx)

	var req updatePasswordRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	if err := h.svc.UpdatePassword(ctx, actor, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]string{"status": "ok"})
}
