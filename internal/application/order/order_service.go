package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/order"
	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService serves order history to customers and the order board to
// staff
type OrderService struct {
	orderRepo order.Repository
	events    shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.Repository, events shared.EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns a page of orders. Row policy limits customers to their own
// orders; the customer filter is only honoured for staff.
func (s *OrderService) List(ctx context.Context, f OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	filter := order.Filter{
		Filter:          shared.DefaultFilter(),
		Status:          order.Status(f.Status),
		FulfillmentType: order.FulfillmentType(f.FulfillmentType),
		From:            f.From,
	}
	filter.OrderBy, filter.OrderDir = "placed_at", "desc"
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
	if f.To != nil {
		end := f.To.AddDate(0, 0, 1)
		filter.To = &end
	}
	if shared.ActorFrom(ctx).IsStaff() {
		filter.CustomerID = f.CustomerID
	}

	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// Get returns one order visible to the caller
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetByNumber returns one order by its RS- number
func (s *OrderService) GetByNumber(ctx context.Context, number string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Cancel cancels an order. Customers may cancel while it is pending;
// staff also while it is confirmed.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shared.ActorFrom(ctx).IsStaff() {
		err = o.Cancel(req.Reason, s.now())
	} else {
		err = o.CancelByCustomer(req.Reason, s.now())
	}
	if err != nil {
		return nil, err
	}
	return s.save(ctx, o)
}

// Transition moves an order along the status machine
func (s *OrderService) Transition(ctx context.Context, id uuid.UUID, req TransitionRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := order.Status(req.Status)
	if next == order.StatusCancelled {
		err = o.Cancel(req.Reason, s.now())
	} else {
		err = o.TransitionTo(next, s.now())
	}
	if err != nil {
		return nil, err
	}
	return s.save(ctx, o)
}

func (s *OrderService) save(ctx context.Context, o *order.Order) (*OrderResponse, error) {
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("Order status changed",
		zap.String("order_number", o.Number),
		zap.String("status", string(o.Status)),
		zap.String("actor_id", shared.ActorFrom(ctx).UserID.String()))
	if err := shared.PublishAndClear(ctx, s.events, o); err != nil {
		s.logger.Warn("Failed to publish order events", zap.String("order_number", o.Number), zap.Error(err))
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}
