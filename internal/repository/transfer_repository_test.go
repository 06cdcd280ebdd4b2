package repository

import (
	"context"
	"testing"

	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferRepository_Transition(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTransferRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Transfer{
		FromUserID: "manager-1",
		Amount:     900,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusPending, created.Status)

	err = repo.Transition(ctx, created.ID, model.TransferStatusPending, model.TransferStatusApproved)
	assert.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusApproved, got.Status)

	err = repo.Transition(ctx, created.ID, model.TransferStatusPending, model.TransferStatusApproved)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestTransferRepository_ListPending(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTransferRepository(db)
	ctx := context.Background()

	for _, tr := range []*TransferEntity{
		{ID: "t1", FromUserID: "manager-1", Amount: 100, Status: "PENDING"},
		{ID: "t2", FromUserID: "manager-1", Amount: 200, Status: "APPROVED"},
		{ID: "t3", FromUserID: "manager-2", Amount: 300, Status: "PENDING"},
	} {
		require.NoError(t, db.Write(ctx).Create(tr).Error)
	}

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTransferRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTransferRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTransferNotFound)
}
