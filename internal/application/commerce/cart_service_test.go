package commerce

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/commerce"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCartService() (*CartService, *MockCartRepository, *MockProductRepository) {
	carts := new(MockCartRepository)
	products := new(MockProductRepository)
	return NewCartService(carts, products, zap.NewNop()), carts, products
}

func TestCartService_Get_EmptyWithoutCart(t *testing.T) {
	svc, carts, _ := newCartService()
	customer := uuid.New()
	carts.On("FindByCustomer", mock.Anything, customer).Return(nil, shared.ErrNotFound)

	resp, err := svc.Get(customerCtx(customer))
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.Subtotal.IsZero())
}

func TestCartService_AddItem_CreatesCartAndMergesLines(t *testing.T) {
	svc, carts, products := newCartService()
	customer := uuid.New()
	gyoza := newProduct(t, "Gyoza", "7.50")

	products.On("FindByID", mock.Anything, gyoza.ID).Return(gyoza, nil)
	carts.On("FindByCustomer", mock.Anything, customer).Return(nil, shared.ErrNotFound).Once()
	var saved *commerce.Cart
	carts.On("Save", mock.Anything, mock.AnythingOfType("*commerce.Cart")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*commerce.Cart) }).
		Return(nil)

	ctx := customerCtx(customer)
	resp, err := svc.AddItem(ctx, AddItemRequest{ProductID: gyoza.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.ItemCount)
	assert.Equal(t, customer, saved.OwnerID)

	carts.On("FindByCustomer", mock.Anything, customer).Return(saved, nil)
	resp, err = svc.AddItem(ctx, AddItemRequest{ProductID: gyoza.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("37.50")))
}

func TestCartService_AddItem_Unavailable(t *testing.T) {
	svc, carts, products := newCartService()
	p := newProduct(t, "Sold Out Bun", "4.00")
	p.SetAvailable(false)
	products.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	_, err := svc.AddItem(customerCtx(uuid.New()), AddItemRequest{ProductID: p.ID, Quantity: 1})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "PRODUCT_UNAVAILABLE", de.Code)
	carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	svc, _, products := newCartService()
	id := uuid.New()
	products.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.AddItem(customerCtx(uuid.New()), AddItemRequest{ProductID: id, Quantity: 1})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "PRODUCT_UNAVAILABLE", de.Code)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	svc, carts, _ := newCartService()
	customer := uuid.New()
	p := newProduct(t, "Chashu Don", "9.00")
	cart := cartWith(t, customer, p, "9.00", 1)
	carts.On("FindByCustomer", mock.Anything, customer).Return(cart, nil)
	carts.On("Save", mock.Anything, cart).Return(nil)

	ctx := customerCtx(customer)
	resp, err := svc.UpdateItem(ctx, p.ID, UpdateItemRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.ItemCount)

	_, err = svc.UpdateItem(ctx, uuid.New(), UpdateItemRequest{Quantity: 1})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CART_ITEM_NOT_FOUND", de.Code)

	resp, err = svc.RemoveItem(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestCartService_Anonymous(t *testing.T) {
	svc, _, _ := newCartService()
	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
