package commerce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	orderapp "github.com/ramenshop/backend/internal/application/order"
	"github.com/ramenshop/backend/internal/application/tx"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/commerce"
	"github.com/ramenshop/backend/internal/domain/order"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutConfig holds the checkout rules
type CheckoutConfig struct {
	Pricing        order.Pricing
	Currency       string
	PickupLead     time.Duration
	IdempotencyTTL time.Duration
}

// CheckoutService turns carts into orders
type CheckoutService struct {
	cartRepo    commerce.CartRepository
	productRepo catalog.ProductRepository
	orderRepo   order.Repository
	txScope     tx.TransactionScope
	store       cache.ResultStore
	events      shared.EventPublisher
	config      CheckoutConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	cartRepo commerce.CartRepository,
	productRepo catalog.ProductRepository,
	orderRepo order.Repository,
	txScope tx.TransactionScope,
	store cache.ResultStore,
	events shared.EventPublisher,
	config CheckoutConfig,
	logger *zap.Logger,
) *CheckoutService {
	if config.IdempotencyTTL <= 0 {
		config.IdempotencyTTL = 24 * time.Hour
	}
	if config.Currency == "" {
		config.Currency = "USD"
	}
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		txScope:     txScope,
		store:       store,
		events:      events,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// Quote prices the caller's cart against the current catalog
func (s *CheckoutService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	customerID, err := customerOf(ctx)
	if err != nil {
		return nil, err
	}
	fulfillment := order.FulfillmentType(req.FulfillmentType)
	resp := &QuoteResponse{
		Totals:          s.config.Pricing.Quote(decimal.Zero, fulfillment),
		FulfillmentType: req.FulfillmentType,
		Currency:        s.config.Currency,
	}

	cart, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if errors.Is(err, shared.ErrNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return resp, nil
	}

	lines, repriced, err := reprice(ctx, s.productRepo, cart)
	if err != nil {
		return nil, err
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	resp.Totals = s.config.Pricing.Quote(subtotal, fulfillment)
	resp.ItemCount = cart.ItemCount()
	resp.Repriced = repriced
	return resp, nil
}

// Checkout places an order from the caller's cart and empties the cart.
// With an idempotency key, a retried request returns the order placed by
// the first one instead of placing a second order.
func (s *CheckoutService) Checkout(ctx context.Context, idempotencyKey string, req CheckoutRequest) (*CheckoutResult, error) {
	customerID, err := customerOf(ctx)
	if err != nil {
		return nil, err
	}

	key := ""
	if idempotencyKey != "" {
		key = "checkout:" + customerID.String() + ":" + idempotencyKey
		if replay, err := s.replay(ctx, key); err != nil || replay != nil {
			return replay, err
		}
		claimed, err := s.store.MarkProcessed(ctx, key, s.config.IdempotencyTTL)
		switch {
		case err != nil:
			s.logger.Warn("Idempotency store unavailable, checking out without it", zap.Error(err))
			key = ""
		case !claimed:
			return nil, shared.NewDomainError("CHECKOUT_IN_PROGRESS",
				"A checkout with this Idempotency-Key is already being processed")
		}
	}

	placed, err := s.place(ctx, customerID, req)
	if err != nil {
		if key != "" {
			if ferr := s.store.Forget(ctx, key); ferr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.Error(ferr))
			}
		}
		return nil, err
	}
	if key != "" {
		if err := s.store.Remember(ctx, key, placed.ID.String(), s.config.IdempotencyTTL); err != nil {
			s.logger.Warn("Failed to remember checkout result", zap.String("order_number", placed.Number), zap.Error(err))
		}
	}

	s.logger.Info("Order placed",
		zap.String("order_number", placed.Number),
		zap.String("customer_id", customerID.String()),
		zap.String("fulfillment", string(placed.FulfillmentType)),
		zap.String("total", placed.Total.StringFixed(2)))
	if err := shared.PublishAndClear(ctx, s.events, placed); err != nil {
		s.logger.Warn("Failed to publish order events", zap.String("order_number", placed.Number), zap.Error(err))
	}
	return &CheckoutResult{Order: orderapp.ToOrderResponse(placed)}, nil
}

func (s *CheckoutService) replay(ctx context.Context, key string) (*CheckoutResult, error) {
	stored, ok, err := s.store.Recall(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to recall checkout result", zap.Error(err))
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	orderID, err := uuid.Parse(stored)
	if err != nil {
		return nil, nil
	}
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Checkout replayed", zap.String("order_number", o.Number))
	return &CheckoutResult{Order: orderapp.ToOrderResponse(o), Replayed: true}, nil
}

func (s *CheckoutService) place(ctx context.Context, customerID uuid.UUID, req CheckoutRequest) (*order.Order, error) {
	var placed *order.Order
	err := s.txScope.Execute(ctx, func(repos tx.TransactionalRepositories) error {
		cart, err := repos.Carts().FindByCustomer(ctx, customerID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if cart == nil || cart.IsEmpty() {
			return shared.NewDomainError("EMPTY_CART", "Your cart is empty")
		}

		lines, repriced, err := reprice(ctx, repos.Products(), cart)
		if err != nil {
			return err
		}
		if repriced {
			s.logger.Info("Cart repriced at checkout", zap.String("customer_id", customerID.String()))
		}

		placed, err = order.Place(order.PlaceParams{
			CustomerID:      customerID,
			ContactName:     req.ContactName,
			ContactEmail:    req.ContactEmail,
			ContactPhone:    req.ContactPhone,
			FulfillmentType: order.FulfillmentType(req.FulfillmentType),
			DeliveryAddress: req.DeliveryAddress,
			PickupAt:        req.PickupAt,
			Notes:           req.Notes,
			Lines:           lines,
		}, s.config.Pricing, s.config.PickupLead, s.now())
		if err != nil {
			return err
		}
		if err := repos.Orders().Create(ctx, placed); err != nil {
			return err
		}
		cart.Clear()
		return repos.Carts().Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// reprice builds order lines from the current catalog. Any product that
// was removed or made unavailable fails the whole cart.
func reprice(ctx context.Context, products catalog.ProductRepository, cart *commerce.Cart) ([]order.Line, bool, error) {
	ids := make([]uuid.UUID, len(cart.Items))
	for i, it := range cart.Items {
		ids[i] = it.ProductID
	}
	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, false, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	repriced := false
	lines := make([]order.Line, 0, len(cart.Items))
	for _, it := range cart.Items {
		p, ok := byID[it.ProductID]
		if !ok || !p.Available {
			return nil, false, productUnavailable(it.ProductName)
		}
		if !p.Price.Equal(it.UnitPrice) {
			repriced = true
		}
		lines = append(lines, order.Line{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    it.Quantity,
		})
	}
	return lines, repriced, nil
}
