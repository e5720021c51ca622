package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/commerce"
	"github.com/ramenshop/backend/internal/domain/contact"
	"github.com/ramenshop/backend/internal/domain/identity"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/order"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB opens a GORM postgres dialector over sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

// newTestDB opens an in-memory sqlite database with every table migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&identity.User{},
		&catalog.Product{},
		&catalog.Recipe{},
		&catalog.Class{},
		&catalog.ClassBooking{},
		&commerce.Cart{},
		&commerce.CartItem{},
		&order.Order{},
		&order.OrderItem{},
		&inventory.ProductionItem{},
		&inventory.Fridge{},
		&inventory.FridgeStock{},
		&inventory.ProductionLog{},
		&inventory.InventoryMovement{},
		&workforce.EmployeeProfile{},
		&workforce.TimeEntry{},
		&workforce.Shift{},
		&contact.Message{},
	))
	require.NoError(t, db.Exec(
		"CREATE UNIQUE INDEX idx_time_entries_one_open ON time_entries(owner_id) WHERE clock_out IS NULL",
	).Error)
	return db
}

func asActor(id uuid.UUID, role shared.Role) context.Context {
	return shared.WithActor(context.Background(), shared.Actor{UserID: id, Role: role})
}

func asService() context.Context {
	return shared.WithActor(context.Background(), shared.ServiceActor())
}
