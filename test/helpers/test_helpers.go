package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/nimasrn/collection-ledger/internal/auth"
	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/nimasrn/collection-ledger/pkg/pg"
	"github.com/nimasrn/collection-ledger/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
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

	return pg.NewWithConnections(db, db)
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	adapter, err := redis.NewRedisAdapter("test", "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestUser(t *testing.T, db *pg.DB, email, password string, role model.Role, managerID *string) *model.User {
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	repo := repository.NewUserRepository(db)
	user, err := repo.Create(context.Background(), &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hash,
		Role:      role,
		ManagerID: managerID,
	})
	require.NoError(t, err)
	return user
}

func CreateTestCustomer(t *testing.T, db *pg.DB, name string, creditScore int) *model.Customer {
	customer := &repository.CustomerEntity{
		ID:          uuid.NewString(),
		Name:        name,
		CreditScore: creditScore,
		RiskLevel:   string(model.RiskLow),
		CreatedAt:   time.Now(),
	}
	err := db.Write(context.Background()).Create(customer).Error
	require.NoError(t, err)
	return &model.Customer{
		ID:          customer.ID,
		Name:        customer.Name,
		CreditScore: customer.CreditScore,
		RiskLevel:   model.RiskLevel(customer.RiskLevel),
		CreatedAt:   customer.CreatedAt,
	}
}
