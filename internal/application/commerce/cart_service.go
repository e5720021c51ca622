package commerce

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/commerce"
	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartService manages the caller's open cart
type CartService struct {
	cartRepo    commerce.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(cartRepo commerce.CartRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo, logger: logger}
}

// Get returns the caller's cart; a customer without one gets an empty cart
func (s *CartService) Get(ctx context.Context) (*CartResponse, error) {
	customerID, err := customerOf(ctx)
	if err != nil {
		return nil, err
	}
	cart, err := s.find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(cart)
	return &resp, nil
}

// AddItem adds a product at its current price
func (s *CartService) AddItem(ctx context.Context, req AddItemRequest) (*CartResponse, error) {
	customerID, err := customerOf(ctx)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, productUnavailable("This product")
		}
		return nil, err
	}
	if !product.Available {
		return nil, productUnavailable(product.Name)
	}

	cart, err := s.find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		if cart, err = commerce.NewCart(customerID); err != nil {
			return nil, err
		}
	}
	if err := cart.AddItem(product.ID, product.Name, product.Price, req.Quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, cart)
}

// UpdateItem sets the quantity of a line
func (s *CartService) UpdateItem(ctx context.Context, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	cart, err := s.existing(ctx)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, cart)
}

// RemoveItem drops a line
func (s *CartService) RemoveItem(ctx context.Context, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.existing(ctx)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(productID); err != nil {
		return nil, err
	}
	return s.save(ctx, cart)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context) (*CartResponse, error) {
	customerID, err := customerOf(ctx)
	if err != nil {
		return nil, err
	}
	cart, err := s.find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.IsEmpty() {
		resp := ToCartResponse(cart)
		return &resp, nil
	}
	cart.Clear()
	return s.save(ctx, cart)
}

func (s *CartService) existing(ctx context.Context) (*commerce.Cart, error) {
	customerID, err := customerOf(ctx)
	if err != nil {
		return nil, err
	}
	cart, err := s.find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, shared.NewDomainError("CART_ITEM_NOT_FOUND", "Product is not in the cart")
	}
	return cart, nil
}

// find returns nil without error when the customer has no cart yet
func (s *CartService) find(ctx context.Context, customerID uuid.UUID) (*commerce.Cart, error) {
	cart, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return cart, err
}

func (s *CartService) save(ctx context.Context, cart *commerce.Cart) (*CartResponse, error) {
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.logger.Debug("Cart updated",
		zap.String("customer_id", cart.OwnerID.String()),
		zap.Int("item_count", cart.ItemCount()))
	resp := ToCartResponse(cart)
	return &resp, nil
}

func customerOf(ctx context.Context) (uuid.UUID, error) {
	actor := shared.ActorFrom(ctx)
	if actor.IsAnonymous() || actor.UserID == uuid.Nil {
		return uuid.Nil, shared.ErrUnauthorized
	}
	return actor.UserID, nil
}

func productUnavailable(name string) error {
	return shared.NewDomainError("PRODUCT_UNAVAILABLE", name+" is not available right now")
}
