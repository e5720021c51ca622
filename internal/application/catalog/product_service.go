package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService manages the storefront menu
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

// List returns a page of products. Customers and anonymous visitors only
// see available products.
func (s *ProductService) List(ctx context.Context, f ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	filter := catalog.ProductFilter{
		Filter:   f.filter("sort_order", "asc"),
		Category: f.Category,
		Featured: f.Featured,
	}
	if shared.ActorFrom(ctx).IsStaff() {
		filter.AvailableOnly = f.Available != nil && *f.Available
	} else {
		filter.AvailableOnly = true
	}

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// GetBySlug returns one product. Unavailable products are hidden from
// everyone but staff.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !product.Available && !shared.ActorFrom(ctx).IsStaff() {
		return nil, shared.ErrNotFound
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID returns one product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Create adds a product
func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, product.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Update replaces a product's editable fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, product.Slug, product.ID); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// SetAvailable toggles whether a product can be ordered
func (s *ProductService) SetAvailable(ctx context.Context, id uuid.UUID, available bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.SetAvailable(available)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product availability changed",
		zap.String("product_id", product.ID.String()),
		zap.Bool("available", available))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product. Orders keep their own name and price snapshot.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) ensureSlugFree(ctx context.Context, slug string, self uuid.UUID) error {
	taken, err := s.productRepo.ExistsBySlug(ctx, slug, self)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError("SLUG_TAKEN", "Another product already uses slug "+slug)
	}
	return nil
}

