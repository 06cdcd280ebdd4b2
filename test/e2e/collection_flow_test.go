package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/nimasrn/collection-ledger/internal/auth"
	"github.com/nimasrn/collection-ledger/internal/handlers"
	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/nimasrn/collection-ledger/internal/risk"
	"github.com/nimasrn/collection-ledger/internal/services"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
	"github.com/nimasrn/collection-ledger/pkg/pg"
	"github.com/nimasrn/collection-ledger/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type TestEnvironment struct {
	DB                *pg.DB
	UserRepo          *repository.UserRepository
	CustomerRepo      *repository.CustomerRepository
	CollectionRepo    *repository.CollectionRepository
	TransferRepo      *repository.TransferRepository
	RiskHistoryRepo   *repository.RiskHistoryRepository
	AuthService       *services.AuthService
	CollectionService *services.CollectionService
	TransferService   *services.TransferService
	AuthHandler       *handlers.AuthHandler
	CollectionHandler *handlers.CollectionHandler
	TransferHandler   *handlers.TransferHandler
}

func setupE2EEnvironment(t *testing.T) *TestEnvironment {
	db := helpers.SetupTestDB(t)

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	riskHistoryRepo := repository.NewRiskHistoryRepository(db)

	engine := risk.NewEngine(customerRepo, collectionRepo, invoiceRepo, riskHistoryRepo)
	tokens := auth.NewTokenManager("e2e-secret")

	authService := services.NewAuthService(userRepo, tokens, auditRepo, db)
	collectionService := services.NewCollectionService(collectionRepo, userRepo, customerRepo, auditRepo, engine, db)
	transferService := services.NewTransferService(transferRepo, userRepo, userRepo, auditRepo, db)

	return &TestEnvironment{
		DB:                db,
		UserRepo:          userRepo,
		CustomerRepo:      customerRepo,
		CollectionRepo:    collectionRepo,
		TransferRepo:      transferRepo,
		RiskHistoryRepo:   riskHistoryRepo,
		AuthService:       authService,
		CollectionService: collectionService,
		TransferService:   transferService,
		AuthHandler:       handlers.NewAuthHandler(authService, authService),
		CollectionHandler: handlers.NewCollectionHandler(collectionService, authService),
		TransferHandler:   handlers.NewTransferHandler(transferService, authService),
	}
}

func newRequestCtx(method, path string, body []byte, token string) *xhttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != nil {
		req.SetBody(body)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

// login drives the real handler and returns the issued bearer token.
func login(t *testing.T, env *TestEnvironment, email, password string) string {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	ctx := newRequestCtx("POST", "/api/v1/auth/login", body, "")
	env.AuthHandler.Login(ctx)
	require.Equal(t, 200, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var result services.LoginResult
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func TestCollectionLifecycle(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctxBg := context.Background()

	admin := helpers.CreateTestUser(t, env.DB, "admin@ledger.io", "admin-pass-1", model.RoleAdmin, nil)
	manager := helpers.CreateTestUser(t, env.DB, "manager@ledger.io", "manager-pass", model.RoleManager, nil)
	rider := helpers.CreateTestUser(t, env.DB, "rider@ledger.io", "rider-pass-1", model.RoleRider, &manager.ID)
	customer := helpers.CreateTestCustomer(t, env.DB, "Corner Grocery", 80)

	riderToken := login(t, env, "rider@ledger.io", "rider-pass-1")
	managerToken := login(t, env, "manager@ledger.io", "manager-pass")
	adminToken := login(t, env, "admin@ledger.io", "admin-pass-1")

	// rider submits a collection over the authenticated route
	body, _ := json.Marshal(map[string]any{"customer_id": customer.ID, "amount": 750.0})
	ctx := newRequestCtx("POST", "/api/v1/collections", body, riderToken)
	handlers.Authenticated(env.AuthService, env.CollectionHandler.Submit)(ctx)
	require.Equal(t, 201, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var submitted model.Collection
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &submitted))
	assert.Equal(t, model.CollectionStatusPending, submitted.Status)

	riderBalance, err := env.UserRepo.GetBalance(ctxBg, rider.ID)
	require.NoError(t, err)
	assert.Equal(t, 750.0, riderBalance)

	// manager sees it in the pending queue
	ctx = newRequestCtx("GET", "/api/v1/collections/pending", nil, managerToken)
	handlers.Authenticated(env.AuthService, env.CollectionHandler.ListPending)(ctx)
	require.Equal(t, 200, ctx.Response.StatusCode())

	var pending struct {
		Items []*model.PendingCollection `json:"items"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &pending))
	require.Len(t, pending.Items, 1)
	assert.Equal(t, submitted.ID, pending.Items[0].ID)

	// manager approves, cash moves rider -> manager
	ctx = newRequestCtx("POST", fmt.Sprintf("/api/v1/collections/%s/approve", submitted.ID), nil, managerToken)
	ctx.SetUserValue("id", submitted.ID)
	handlers.Authenticated(env.AuthService, env.CollectionHandler.Approve)(ctx)
	require.Equal(t, 200, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	riderBalance, err = env.UserRepo.GetBalance(ctxBg, rider.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, riderBalance)

	managerBalance, err := env.UserRepo.GetBalance(ctxBg, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, 750.0, managerBalance)

	refreshed, err := env.CustomerRepo.GetByID(ctxBg, customer.ID)
	require.NoError(t, err)
	assert.NotNil(t, refreshed.LastPayment)

	// one risk snapshot per recompute: submit and approve
	history, err := env.RiskHistoryRepo.ListByCustomer(ctxBg, customer.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// approving twice is rejected
	ctx = newRequestCtx("POST", fmt.Sprintf("/api/v1/collections/%s/approve", submitted.ID), nil, managerToken)
	ctx.SetUserValue("id", submitted.ID)
	handlers.Authenticated(env.AuthService, env.CollectionHandler.Approve)(ctx)
	assert.Equal(t, 409, ctx.Response.StatusCode())

	// manager sends the cash upstream and the admin signs off
	body, _ = json.Marshal(map[string]any{"amount": 500.0})
	ctx = newRequestCtx("POST", "/api/v1/transfers", body, managerToken)
	handlers.Authenticated(env.AuthService, env.TransferHandler.Request)(ctx)
	require.Equal(t, 201, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var transfer model.Transfer
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &transfer))
	assert.Equal(t, model.TransferStatusPending, transfer.Status)

	ctx = newRequestCtx("POST", fmt.Sprintf("/api/v1/transfers/%s/approve", transfer.ID), nil, adminToken)
	ctx.SetUserValue("id", transfer.ID)
	handlers.Authenticated(env.AuthService, env.TransferHandler.Approve)(ctx)
	require.Equal(t, 200, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	managerBalance, err = env.UserRepo.GetBalance(ctxBg, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, managerBalance)

	adminBalance, err := env.UserRepo.GetBalance(ctxBg, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, adminBalance)
}

func TestRejectedCollectionReversesRiderBalance(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctxBg := context.Background()

	manager := helpers.CreateTestUser(t, env.DB, "manager@ledger.io", "manager-pass", model.RoleManager, nil)
	rider := helpers.CreateTestUser(t, env.DB, "rider@ledger.io", "rider-pass-1", model.RoleRider, &manager.ID)
	customer := helpers.CreateTestCustomer(t, env.DB, "Riverside Cafe", 60)

	riderToken := login(t, env, "rider@ledger.io", "rider-pass-1")
	managerToken := login(t, env, "manager@ledger.io", "manager-pass")

	body, _ := json.Marshal(map[string]any{"customer_id": customer.ID, "amount": 300.0})
	ctx := newRequestCtx("POST", "/api/v1/collections", body, riderToken)
	handlers.Authenticated(env.AuthService, env.CollectionHandler.Submit)(ctx)
	require.Equal(t, 201, ctx.Response.StatusCode())

	var submitted model.Collection
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &submitted))

	ctx = newRequestCtx("POST", fmt.Sprintf("/api/v1/collections/%s/reject", submitted.ID), nil, managerToken)
	ctx.SetUserValue("id", submitted.ID)
	handlers.Authenticated(env.AuthService, env.CollectionHandler.Reject)(ctx)
	require.Equal(t, 200, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	riderBalance, err := env.UserRepo.GetBalance(ctxBg, rider.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, riderBalance)

	decided, err := env.CollectionRepo.GetByID(ctxBg, submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CollectionStatusRejected, decided.Status)

	refreshed, err := env.CustomerRepo.GetByID(ctxBg, customer.ID)
	require.NoError(t, err)
	assert.Nil(t, refreshed.LastPayment)
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	env := setupE2EEnvironment(t)

	ctx := newRequestCtx("GET", "/api/v1/collections", nil, "")
	handlers.Authenticated(env.AuthService, env.CollectionHandler.ListMine)(ctx)
	assert.Equal(t, 401, ctx.Response.StatusCode())

	ctx = newRequestCtx("GET", "/api/v1/collections", nil, "not-a-real-token")
	handlers.Authenticated(env.AuthService, env.CollectionHandler.ListMine)(ctx)
	assert.Equal(t, 401, ctx.Response.StatusCode())
}
