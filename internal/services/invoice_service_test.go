package services

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("raises outstanding balance", func(t *testing.T) {
		env := newTestEnv(t)
		svc := env.invoiceService()
		admin := env.seedUser(t, "admin-1", model.RoleAdmin, nil, 0)
		env.seedCustomer(t, "customer-1", 80, nil)

		created, err := svc.Create(ctx, admin, model.InvoiceCreateRequest{
			CustomerID: "customer-1",
			Items: []model.InvoiceItemInput{
				{Name: "Crates", Quantity: 10, Price: 20},
				{Name: "Delivery", Quantity: 1, Price: 50},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, float64(250), created.Amount)
		assert.Equal(t, model.InvoiceStatusPending, created.Status)
		assert.False(t, created.DueDate.Before(time.Now()))

		customer, err := env.customers.GetByID(ctx, "customer-1")
		require.NoError(t, err)
		assert.Equal(t, float64(250), customer.Balance)
	})

	t.Run("explicit due date wins", func(t *testing.T) {
		env := newTestEnv(t)
		svc := env.invoiceService()
		admin := env.seedUser(t, "admin-1", model.RoleAdmin, nil, 0)
		env.seedCustomer(t, "customer-1", 80, nil)

		due := time.Now().Add(7 * 24 * time.Hour).Truncate(time.Second)
		created, err := svc.Create(ctx, admin, model.InvoiceCreateRequest{
			CustomerID: "customer-1",
			Items:      []model.InvoiceItemInput{{Name: "Crates", Quantity: 1, Price: 10}},
			DueDate:    &due,
		})
		require.NoError(t, err)
		assert.WithinDuration(t, due, created.DueDate, time.Second)
	})

	t.Run("empty items rejected", func(t *testing.T) {
		env := newTestEnv(t)
		svc := env.invoiceService()
		admin := env.seedUser(t, "admin-1", model.RoleAdmin, nil, 0)

		_, err := svc.Create(ctx, admin, model.InvoiceCreateRequest{CustomerID: "customer-1"})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		svc := env.invoiceService()
		manager := env.seedUser(t, "manager-1", model.RoleManager, nil, 0)

		_, err := svc.Create(ctx, manager, model.InvoiceCreateRequest{
			CustomerID: "customer-1",
			Items:      []model.InvoiceItemInput{{Name: "Crates", Quantity: 1, Price: 10}},
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestInvoiceService_GetCustomerInvoices(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.invoiceService()
	env.seedCustomer(t, "customer-1", 80, nil)

	now := time.Now()
	for _, inv := range []*repository.InvoiceEntity{
		{ID: "i1", CustomerID: "customer-1", Amount: 100, Status: "PENDING", DueDate: now, CreatedAt: now.AddDate(0, 0, -45)},
		{ID: "i2", CustomerID: "customer-1", Amount: 200, Status: "PENDING", DueDate: now, CreatedAt: now.AddDate(0, 0, -5)},
	} {
		require.NoError(t, env.db.Write(ctx).Create(inv).Error)
	}

	t.Run("admin sees everything", func(t *testing.T) {
		admin := model.Identity{ID: "admin-1", Role: model.RoleAdmin}
		got, err := svc.GetCustomerInvoices(ctx, admin, "customer-1", nil)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("manager clamped to history access", func(t *testing.T) {
		manager := model.Identity{ID: "manager-1", Role: model.RoleManager, HistoryAccess: 30}
		got, err := svc.GetCustomerInvoices(ctx, manager, "customer-1", nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "i2", got[0].ID)
	})

	t.Run("explicit days overrides", func(t *testing.T) {
		manager := model.Identity{ID: "manager-1", Role: model.RoleManager, HistoryAccess: 30}
		days := 60
		got, err := svc.GetCustomerInvoices(ctx, manager, "customer-1", &days)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestInvoiceService_MarkOverdue(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.invoiceService()
	admin := env.seedUser(t, "admin-1", model.RoleAdmin, nil, 0)
	env.seedCustomer(t, "customer-1", 80, nil)

	now := time.Now()
	require.NoError(t, env.db.Write(ctx).Create(&repository.InvoiceEntity{
		ID: "i1", CustomerID: "customer-1", Amount: 100, Status: "PENDING", DueDate: now.AddDate(0, 0, -2),
	}).Error)

	touched, err := svc.MarkOverdue(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, touched)

	// the sweep recomputed risk for the affected customer
	assert.Len(t, env.riskRows(t, "customer-1"), 1)

	count, err := env.invoices.CountOverdueByCustomer(ctx, "customer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	t.Run("idempotent", func(t *testing.T) {
		touched, err := svc.MarkOverdue(ctx, admin)
		require.NoError(t, err)
		assert.Zero(t, touched)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		_, err := svc.MarkOverdue(ctx, model.Identity{ID: "manager-1", Role: model.RoleManager})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
