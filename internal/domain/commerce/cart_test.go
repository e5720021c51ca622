package commerce

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart(t *testing.T) {
	cart, err := NewCart(uuid.New())
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	kit, oil := uuid.New(), uuid.New()
	require.NoError(t, cart.AddItem(kit, "Shoyu Kit", decimal.RequireFromString("18.50"), 2))
	require.NoError(t, cart.AddItem(oil, "Chili Oil", decimal.RequireFromString("9"), 1))
	require.NoError(t, cart.AddItem(kit, "Shoyu Kit", decimal.RequireFromString("19.00"), 1))

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "19.00", cart.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, cart.ID, cart.Items[1].CartID)
	assert.Equal(t, 4, cart.ItemCount())
	assert.Equal(t, "66.00", cart.Subtotal().StringFixed(2))

	require.NoError(t, cart.SetQuantity(oil, 5))
	assert.Equal(t, 8, cart.ItemCount())

	require.NoError(t, cart.RemoveItem(kit))
	assert.Len(t, cart.Items, 1)

	var de *shared.DomainError
	err = cart.RemoveItem(kit)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CART_ITEM_NOT_FOUND", de.Code)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
}

func TestCart_QuantityLimits(t *testing.T) {
	cart, err := NewCart(uuid.New())
	require.NoError(t, err)
	p := uuid.New()

	assert.Error(t, cart.AddItem(p, "x", decimal.NewFromInt(1), 0))
	assert.Error(t, cart.AddItem(p, "x", decimal.NewFromInt(1), 100))
	require.NoError(t, cart.AddItem(p, "x", decimal.NewFromInt(1), 99))
	assert.Error(t, cart.AddItem(p, "x", decimal.NewFromInt(1), 1))
	assert.Equal(t, 99, cart.Items[0].Quantity)

	assert.Error(t, cart.SetQuantity(p, 0))
	assert.Error(t, cart.SetQuantity(p, 100))
	assert.Error(t, cart.SetQuantity(uuid.New(), 2))
	assert.Error(t, cart.AddItem(uuid.Nil, "x", decimal.NewFromInt(1), 1))

	_, err = NewCart(uuid.Nil)
	assert.Error(t, err)
}
