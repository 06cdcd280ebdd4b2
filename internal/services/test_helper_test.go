package services

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/collection-ledger/internal/auth"
	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/nimasrn/collection-ledger/internal/risk"
	"github.com/nimasrn/collection-ledger/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires real repositories over an in-memory database so service
// tests exercise the full transaction path.
type testEnv struct {
	db          *pg.DB
	users       *repository.UserRepository
	customers   *repository.CustomerRepository
	collections *repository.CollectionRepository
	invoices    *repository.InvoiceRepository
	transfers   *repository.TransferRepository
	audit       *repository.AuditRepository
	history     *repository.RiskHistoryRepository
	engine      *risk.Engine
	tokens      *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	raw, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = raw.AutoMigrate(
		&repository.UserEntity{},
		&repository.CustomerEntity{},
		&repository.CollectionEntity{},
		&repository.InvoiceEntity{},
		&repository.InvoiceItemEntity{},
		&repository.TransferEntity{},
		&repository.AuditLogEntity{},
		&repository.RiskHistoryEntity{},
	)
	require.NoError(t, err)

	db := pg.NewWithConnections(raw, raw)
	env := &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		customers:   repository.NewCustomerRepository(db),
		collections: repository.NewCollectionRepository(db),
		invoices:    repository.NewInvoiceRepository(db),
		transfers:   repository.NewTransferRepository(db),
		audit:       repository.NewAuditRepository(db),
		history:     repository.NewRiskHistoryRepository(db),
		tokens:      auth.NewTokenManager("test-secret"),
	}
	env.engine = risk.NewEngine(env.customers, env.collections, env.invoices, env.history)
	return env
}

func (e *testEnv) collectionService() *CollectionService {
	return NewCollectionService(e.collections, e.users, e.customers, e.audit, e.engine, e.db)
}

func (e *testEnv) transferService() *TransferService {
	return NewTransferService(e.transfers, e.users, e.users, e.audit, e.db)
}

func (e *testEnv) invoiceService() *InvoiceService {
	return NewInvoiceService(e.invoices, e.customers, e.audit, e.engine, e.db)
}

func (e *testEnv) seedUser(t *testing.T, id string, role model.Role, managerID *string, balance float64) model.Identity {
	_, err := e.users.Create(context.Background(), &model.User{
		ID:        id,
		Email:     id + "@example.com",
		Password:  "hashed",
		Role:      role,
		Balance:   balance,
		ManagerID: managerID,
	})
	require.NoError(t, err)
	return model.Identity{ID: id, Role: role, Balance: balance}
}

func (e *testEnv) seedCustomer(t *testing.T, id string, creditScore int, lastPayment *time.Time) {
	raw := e.db.Write(context.Background())
	err := raw.Create(&repository.CustomerEntity{
		ID:          id,
		Name:        "Customer " + id,
		CreditScore: creditScore,
		RiskLevel:   string(model.RiskLow),
		LastPayment: lastPayment,
	}).Error
	require.NoError(t, err)
}

func (e *testEnv) balanceOf(t *testing.T, userID string) float64 {
	balance, err := e.users.GetBalance(context.Background(), userID)
	require.NoError(t, err)
	return balance
}

func (e *testEnv) riskRows(t *testing.T, customerID string) []*model.RiskHistory {
	rows, err := e.history.ListByCustomer(context.Background(), customerID)
	require.NoError(t, err)
	return rows
}
