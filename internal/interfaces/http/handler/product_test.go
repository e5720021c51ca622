package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	catalogapp "github.com/ramenshop/backend/internal/application/catalog"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository implements catalog.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newProduct(t *testing.T, name string, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductDetails{Name: name, Category: "ramen", Price: decimal.RequireFromString(price)})
	require.NoError(t, err)
	return p
}

func newProductHandler(repo *MockProductRepository) *ProductHandler {
	return NewProductHandler(catalogapp.NewProductService(repo, zap.NewNop()))
}

func TestProductHandler_ListHidesUnavailableFromCustomers(t *testing.T) {
	repo := new(MockProductRepository)
	h := newProductHandler(repo)
	r := newTestRouter(customerActor())
	r.GET("/products", h.List)

	shoyu := newProduct(t, "Shoyu Ramen", "13.50")
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f catalog.ProductFilter) bool {
		return f.AvailableOnly && f.Category == "ramen"
	})).Return([]catalog.Product{*shoyu}, int64(1), nil)

	rec := doJSON(r, http.MethodGet, "/products?category=ramen&available=false", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[[]catalogapp.ProductResponse](t, rec)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "shoyu-ramen", resp.Data[0].Slug)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	repo.AssertExpectations(t)
}

func TestProductHandler_ListLetsStaffSeeEverything(t *testing.T) {
	repo := new(MockProductRepository)
	h := newProductHandler(repo)
	r := newTestRouter(staffActor())
	r.GET("/products", h.List)

	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f catalog.ProductFilter) bool {
		return !f.AvailableOnly
	})).Return([]catalog.Product{}, int64(0), nil)

	rec := doJSON(r, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestProductHandler_GetBySlugHidesUnavailable(t *testing.T) {
	repo := new(MockProductRepository)
	sold := newProduct(t, "Spicy Miso", "14.00")
	sold.SetAvailable(false)
	repo.On("FindBySlug", mock.Anything, "spicy-miso").Return(sold, nil)

	h := newProductHandler(repo)

	customer := newTestRouter(customerActor())
	customer.GET("/products/:slug", h.GetBySlug)
	rec := doJSON(customer, http.MethodGet, "/products/spicy-miso", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, rec))

	staff := newTestRouter(staffActor())
	staff.GET("/products/:slug", h.GetBySlug)
	rec = doJSON(staff, http.MethodGet, "/products/spicy-miso", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySlug", mock.Anything, "tonkotsu-ramen", uuid.Nil).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
		r := newTestRouter(staffActor())
		r.POST("/products", newProductHandler(repo).Create)

		rec := doJSON(r, http.MethodPost, "/products", map[string]any{
			"name":     "Tonkotsu Ramen",
			"category": "Ramen",
			"price":    "15.5",
		})

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		resp := decode[catalogapp.ProductResponse](t, rec)
		assert.Equal(t, "tonkotsu-ramen", resp.Data.Slug)
		assert.Equal(t, "ramen", resp.Data.Category)
		assert.True(t, resp.Data.Price.Equal(decimal.RequireFromString("15.50")))
		assert.True(t, resp.Data.Available)
	})

	t.Run("missing name", func(t *testing.T) {
		repo := new(MockProductRepository)
		r := newTestRouter(staffActor())
		r.POST("/products", newProductHandler(repo).Create)

		rec := doJSON(r, http.MethodPost, "/products", map[string]any{"price": "9"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, rec))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("slug taken", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySlug", mock.Anything, "gyoza", uuid.Nil).Return(true, nil)
		r := newTestRouter(staffActor())
		r.POST("/products", newProductHandler(repo).Create)

		rec := doJSON(r, http.MethodPost, "/products", map[string]any{"name": "Gyoza", "price": "6"})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "SLUG_TAKEN", errorCode(t, rec))
	})
}

func TestProductHandler_SetAvailabilityRequiresFlag(t *testing.T) {
	repo := new(MockProductRepository)
	r := newTestRouter(staffActor())
	r.PATCH("/products/:id/availability", newProductHandler(repo).SetAvailability)

	rec := doJSON(r, http.MethodPatch, "/products/"+uuid.NewString()+"/availability", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	p := newProduct(t, "Chashu Bowl", "9.00")
	repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Save", mock.Anything, p).Return(nil)

	rec = doJSON(r, http.MethodPatch, "/products/"+p.ID.String()+"/availability", map[string]any{"available": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[catalogapp.ProductResponse](t, rec).Data.Available)
}

func TestProductHandler_Delete(t *testing.T) {
	repo := new(MockProductRepository)
	r := newTestRouter(staffActor())
	r.DELETE("/products/:id", newProductHandler(repo).Delete)

	missing := uuid.New()
	repo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	rec := doJSON(r, http.MethodDelete, "/products/"+missing.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	p := newProduct(t, "Ajitama", "2.50")
	repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Delete", mock.Anything, p.ID).Return(nil)
	rec = doJSON(r, http.MethodDelete, "/products/"+p.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
