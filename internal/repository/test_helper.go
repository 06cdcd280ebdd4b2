package repository

import (
	"testing"

	"github.com/nimasrn/collection-ledger/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testDB struct {
	*pg.DB
	rawDB *gorm.DB
}

func setupTestDB(t *testing.T) *testDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&UserEntity{},
		&CustomerEntity{},
		&CollectionEntity{},
		&InvoiceEntity{},
		&InvoiceItemEntity{},
		&TransferEntity{},
		&AuditLogEntity{},
		&RiskHistoryEntity{},
	)
	require.NoError(t, err)

	return &testDB{
		DB:    pg.NewWithConnections(db, db),
		rawDB: db,
	}
}
