package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInventory(t *testing.T, repos *gormTransactionalRepositories) (*inventory.Fridge, *inventory.ProductionItem) {
	t.Helper()
	ctx := asService()

	fridge, err := inventory.NewFridge("Walk-in 1", "Back kitchen", inventory.FridgeKindWalkIn, decimal.NewFromInt(40))
	require.NoError(t, err)
	require.NoError(t, repos.Fridges().Save(ctx, fridge))

	item, err := inventory.NewProductionItem("Tonkotsu Broth", "brth-01", "Broth", 12, 4, 5)
	require.NoError(t, err)
	require.NoError(t, repos.ProductionItems().Save(ctx, item))
	return fridge, item
}

func TestGormStockRepository_GetForUpdate(t *testing.T) {
	db := newTestDB(t)
	repos := &gormTransactionalRepositories{tx: db}
	fridge, item := seedInventory(t, repos)
	ctx := asService()
	stockRepo := repos.Stock()

	fresh, err := stockRepo.GetForUpdate(ctx, fridge.ID, item.ID)
	require.NoError(t, err)
	assert.Zero(t, fresh.Portions)
	assert.Equal(t, fridge.ID, fresh.FridgeID)

	delta, err := fresh.Apply(inventory.StockActionAdd, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, delta)
	expiry := time.Now().UTC().Add(24 * time.Hour)
	fresh.NoteExpiry(&expiry)
	require.NoError(t, stockRepo.Save(ctx, fresh))

	locked, err := stockRepo.GetForUpdate(ctx, fridge.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, locked.ID)
	assert.Equal(t, 30, locked.Portions)

	rows, err := stockRepo.FindByFridge(ctx, fridge.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	t.Run("expiring rows", func(t *testing.T) {
		soon, err := stockRepo.FindExpiringBefore(ctx, time.Now().UTC().Add(48*time.Hour))
		require.NoError(t, err)
		assert.Len(t, soon, 1)

		later, err := stockRepo.FindExpiringBefore(ctx, time.Now().UTC())
		require.NoError(t, err)
		assert.Empty(t, later)
	})
}

func TestGormProductionItemRepository_Lookup(t *testing.T) {
	db := newTestDB(t)
	repos := &gormTransactionalRepositories{tx: db}
	_, item := seedInventory(t, repos)
	ctx := asService()
	itemRepo := repos.ProductionItems()

	found, err := itemRepo.FindBySKU(ctx, " brth-01 ")
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)

	byQR, err := itemRepo.FindByQRToken(ctx, item.QRToken)
	require.NoError(t, err)
	assert.Equal(t, item.ID, byQR.ID)

	exists, err := itemRepo.ExistsBySKU(ctx, "BRTH-01")
	require.NoError(t, err)
	assert.True(t, exists)

	dup, err := inventory.NewProductionItem("Another Broth", "BRTH-01", "broth", 10, 2, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, itemRepo.Save(ctx, dup), shared.ErrAlreadyExists)

	items, total, err := itemRepo.FindAll(ctx, shared.Filter{Filters: map[string]any{"category": "BROTH"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
}

func TestGormMovementRepository_FindByFridge(t *testing.T) {
	db := newTestDB(t)
	repos := &gormTransactionalRepositories{tx: db}
	fridge, item := seedInventory(t, repos)
	ctx := asService()

	stock := inventory.NewFridgeStock(fridge.ID, item.ID)
	actor := uuid.New()
	for i := 0; i < 3; i++ {
		delta, err := stock.Apply(inventory.StockActionAdd, 5)
		require.NoError(t, err)
		m := inventory.NewMovement(stock, inventory.MovementKindFor(inventory.StockActionAdd), delta, actor, "", "")
		m.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		require.NoError(t, repos.Movements().Create(ctx, m))
	}

	rows, err := repos.Movements().FindByFridge(ctx, fridge.ID, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))
}
