package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductionItemService manages the things the kitchen produces
type ProductionItemService struct {
	repo   inventory.ProductionItemRepository
	qr     QRCodes
	logger *zap.Logger
}

// NewProductionItemService creates a new ProductionItemService
func NewProductionItemService(repo inventory.ProductionItemRepository, qr QRCodes, logger *zap.Logger) *ProductionItemService {
	return &ProductionItemService{repo: repo, qr: qr, logger: logger}
}

// List returns a page of production items
func (s *ProductionItemService) List(ctx context.Context, f ProductionItemListFilter) (*shared.Paginated[ProductionItemResponse], error) {
	filter := shared.DefaultFilter()
	filter.OrderBy, filter.OrderDir = "name", "asc"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy, filter.OrderDir = f.OrderBy, f.OrderDir
	}
	filter.Search = f.Search
	if f.Category != "" {
		filter = filter.WithFilter("category", f.Category)
	}
	if f.Active != nil {
		filter = filter.WithFilter("active", *f.Active)
	}

	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := make([]ProductionItemResponse, len(items))
	for i := range items {
		result[i] = ToProductionItemResponse(&items[i], s.qr.URLFor(items[i].QRToken))
	}
	page := shared.NewPaginated(result, total, filter.Page, filter.Limit())
	return &page, nil
}

// Get returns one production item
func (s *ProductionItemService) Get(ctx context.Context, id uuid.UUID) (*ProductionItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductionItemResponse(item, s.qr.URLFor(item.QRToken))
	return &resp, nil
}

// Create adds a production item. SKUs are unique and case-insensitive.
func (s *ProductionItemService) Create(ctx context.Context, req ProductionItemRequest) (*ProductionItemResponse, error) {
	item, err := inventory.NewProductionItem(req.Name, req.SKU, req.Category, req.PortionsPerCase, req.ParLevelCases, req.ShelfLifeDays)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsBySKU(ctx, item.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SKU_TAKEN", "A production item with SKU "+item.SKU+" already exists")
	}
	if req.Active != nil && !*req.Active {
		item.SetActive(false)
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("Production item created", zap.String("item_id", item.ID.String()), zap.String("sku", item.SKU))
	resp := ToProductionItemResponse(item, s.qr.URLFor(item.QRToken))
	return &resp, nil
}

// Update replaces the item details; the SKU never changes
func (s *ProductionItemService) Update(ctx context.Context, id uuid.UUID, req ProductionItemRequest) (*ProductionItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Update(req.Name, req.Category, req.PortionsPerCase, req.ParLevelCases, req.ShelfLifeDays); err != nil {
		return nil, err
	}
	if req.Active != nil && *req.Active != item.Active {
		item.SetActive(*req.Active)
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToProductionItemResponse(item, s.qr.URLFor(item.QRToken))
	return &resp, nil
}

// RotateQR issues a new label token
func (s *ProductionItemService) RotateQR(ctx context.Context, id uuid.UUID) (*QRRotateResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	token := item.RotateQR()
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("Production item QR rotated", zap.String("item_id", id.String()))
	return &QRRotateResponse{ID: item.ID, QRURL: s.qr.URLFor(token)}, nil
}

// QRCode renders the item label as PNG
func (s *ProductionItemService) QRCode(ctx context.Context, id uuid.UUID, size int) ([]byte, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.qr.PNG(item.QRToken, size)
}
