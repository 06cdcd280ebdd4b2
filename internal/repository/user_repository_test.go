package repository

import (
	"context"
	"testing"

	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_AdjustBalance(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("positive delta", func(t *testing.T) {
		user := &UserEntity{
			ID:      "rider-1",
			Email:   "rider1@example.com",
			Role:    string(model.RoleRider),
			Balance: 100,
		}
		err := db.Write(ctx).Create(user).Error
		require.NoError(t, err)

		err = repo.AdjustBalance(ctx, "rider-1", 250)
		assert.NoError(t, err)

		balance, err := repo.GetBalance(ctx, "rider-1")
		require.NoError(t, err)
		assert.Equal(t, float64(350), balance)
	})

	t.Run("negative delta", func(t *testing.T) {
		user := &UserEntity{
			ID:      "rider-2",
			Email:   "rider2@example.com",
			Role:    string(model.RoleRider),
			Balance: 500,
		}
		err := db.Write(ctx).Create(user).Error
		require.NoError(t, err)

		err = repo.AdjustBalance(ctx, "rider-2", -200)
		assert.NoError(t, err)

		balance, err := repo.GetBalance(ctx, "rider-2")
		require.NoError(t, err)
		assert.Equal(t, float64(300), balance)
	})

	t.Run("user not found", func(t *testing.T) {
		err := repo.AdjustBalance(ctx, "missing", 100)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("adjustments compose", func(t *testing.T) {
		user := &UserEntity{
			ID:      "rider-3",
			Email:   "rider3@example.com",
			Role:    string(model.RoleRider),
			Balance: 0,
		}
		err := db.Write(ctx).Create(user).Error
		require.NoError(t, err)

		err = repo.AdjustBalance(ctx, "rider-3", 120)
		assert.NoError(t, err)

		err = repo.AdjustBalance(ctx, "rider-3", -120)
		assert.NoError(t, err)

		balance, err := repo.GetBalance(ctx, "rider-3")
		require.NoError(t, err)
		assert.Equal(t, float64(0), balance)
	})
}

func TestUserRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("assigns id", func(t *testing.T) {
		managerID := "manager-1"
		created, err := repo.Create(ctx, &model.User{
			Email:     "new-rider@example.com",
			Password:  "hashed",
			Role:      model.RoleRider,
			ManagerID: &managerID,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-rider@example.com", got.Email)
		require.NotNil(t, got.ManagerID)
		assert.Equal(t, "manager-1", *got.ManagerID)
	})

	t.Run("lookup by email", func(t *testing.T) {
		_, err := repo.Create(ctx, &model.User{
			Email:    "admin@example.com",
			Password: "hashed",
			Role:     model.RoleAdmin,
		})
		require.NoError(t, err)

		got, err := repo.GetByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, got.Role)
	})

	t.Run("email not found", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, &model.User{
			Email:    "taken@example.com",
			Password: "hashed",
			Role:     model.RoleManager,
		})
		require.NoError(t, err)

		_, err = repo.Create(ctx, &model.User{
			Email:    "taken@example.com",
			Password: "hashed",
			Role:     model.RoleManager,
		})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})
}

func TestUserRepository_ListRiders(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewUserRepository(db)
	ctx := context.Background()

	managerA := "manager-a"
	managerB := "manager-b"
	seed := []*UserEntity{
		{ID: managerA, Email: "a@example.com", Role: string(model.RoleManager)},
		{ID: managerB, Email: "b@example.com", Role: string(model.RoleManager)},
		{ID: "r1", Email: "r1@example.com", Role: string(model.RoleRider), ManagerID: &managerA},
		{ID: "r2", Email: "r2@example.com", Role: string(model.RoleRider), ManagerID: &managerA},
		{ID: "r3", Email: "r3@example.com", Role: string(model.RoleRider), ManagerID: &managerB},
	}
	for _, u := range seed {
		require.NoError(t, db.Write(ctx).Create(u).Error)
	}

	t.Run("scoped to manager", func(t *testing.T) {
		riders, err := repo.ListRiders(ctx, &managerA)
		require.NoError(t, err)
		assert.Len(t, riders, 2)
		for _, r := range riders {
			assert.Equal(t, model.RoleRider, r.Role)
		}
	})

	t.Run("all riders", func(t *testing.T) {
		riders, err := repo.ListRiders(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, riders, 3)
	})
}

func TestUserRepository_UpdateHistoryAccess(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &UserEntity{
		ID:    "manager-1",
		Email: "manager@example.com",
		Role:  string(model.RoleManager),
	}
	require.NoError(t, db.Write(ctx).Create(user).Error)

	err := repo.UpdateHistoryAccess(ctx, "manager-1", 90)
	assert.NoError(t, err)

	got, err := repo.GetByID(ctx, "manager-1")
	require.NoError(t, err)
	assert.Equal(t, 90, got.HistoryAccess)

	err = repo.UpdateHistoryAccess(ctx, "missing", 30)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
