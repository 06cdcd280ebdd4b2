package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Invoice{
		CustomerID: "customer-1",
		Amount:     350,
		DueDate:    time.Now().Add(30 * 24 * time.Hour),
		Items: []*model.InvoiceItem{
			{Name: "Crates", Quantity: 10, Price: 20},
			{Name: "Delivery", Quantity: 1, Price: 150},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.InvoiceStatusPending, created.Status)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	for _, it := range got.Items {
		assert.Equal(t, created.ID, it.InvoiceID)
		assert.NotEmpty(t, it.ID)
	}
}

func TestInvoiceRepository_ListByCustomer(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	now := time.Now()
	for _, inv := range []*InvoiceEntity{
		{ID: "i1", CustomerID: "customer-1", Amount: 100, Status: "PENDING", DueDate: now, CreatedAt: now.Add(-72 * time.Hour)},
		{ID: "i2", CustomerID: "customer-1", Amount: 200, Status: "PENDING", DueDate: now, CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "i3", CustomerID: "customer-2", Amount: 300, Status: "PENDING", DueDate: now, CreatedAt: now},
	} {
		require.NoError(t, db.Write(ctx).Create(inv).Error)
	}

	t.Run("unbounded", func(t *testing.T) {
		got, err := repo.ListByCustomer(ctx, "customer-1", nil)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "i2", got[0].ID)
	})

	t.Run("bounded window", func(t *testing.T) {
		since := now.Add(-24 * time.Hour)
		got, err := repo.ListByCustomer(ctx, "customer-1", &since)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "i2", got[0].ID)
	})
}

func TestInvoiceRepository_MarkOverdue(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	now := time.Now()
	for _, inv := range []*InvoiceEntity{
		{ID: "i1", CustomerID: "customer-1", Amount: 100, Status: "PENDING", DueDate: now.Add(-48 * time.Hour)},
		{ID: "i2", CustomerID: "customer-1", Amount: 200, Status: "PENDING", DueDate: now.Add(48 * time.Hour)},
		{ID: "i3", CustomerID: "customer-2", Amount: 300, Status: "PENDING", DueDate: now.Add(-24 * time.Hour)},
		{ID: "i4", CustomerID: "customer-3", Amount: 400, Status: "OVERDUE", DueDate: now.Add(-96 * time.Hour)},
	} {
		require.NoError(t, db.Write(ctx).Create(inv).Error)
	}

	customerIDs, err := repo.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"customer-1", "customer-2"}, customerIDs)

	count, err := repo.CountOverdueByCustomer(ctx, "customer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByID(ctx, "i2")
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPending, got.Status)

	// second sweep finds nothing new
	customerIDs, err = repo.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, customerIDs)
}
