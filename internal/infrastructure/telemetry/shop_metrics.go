package telemetry

import (
	"context"
	"errors"

	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/order"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"go.opentelemetry.io/otel/metric"
)

// ShopMetrics turns domain events into business metrics. It subscribes to
// the event bus like any other handler.
type ShopMetrics struct {
	ordersPlaced    *Counter
	orderRevenue    *FloatCounter
	orderItems      *Histogram
	statusChanges   *Counter
	staffOnClock    *UpDownCounter
	hoursWorked     *FloatCounter
	portionsLogged  *Counter
}

// NewShopMetrics registers the shop instruments on meter
func NewShopMetrics(meter metric.Meter) (*ShopMetrics, error) {
	var m ShopMetrics
	var errs []error
	var err error

	m.ordersPlaced, err = NewCounter(meter, "shop.orders.placed", "Orders placed at checkout", "{order}")
	errs = append(errs, err)
	m.orderRevenue, err = NewFloatCounter(meter, "shop.orders.revenue", "Order totals including tax and delivery", "{currency}")
	errs = append(errs, err)
	m.orderItems, err = NewHistogram(meter, HistogramOpts{
		Name:        "shop.orders.items",
		Description: "Items per order",
		Unit:        "{item}",
		Boundaries:  []float64{1, 2, 3, 5, 8, 13, 21},
	})
	errs = append(errs, err)
	m.statusChanges, err = NewCounter(meter, "shop.orders.status_changes", "Order status transitions", "{transition}")
	errs = append(errs, err)
	m.staffOnClock, err = NewUpDownCounter(meter, "shop.staff.on_clock", "Employees currently clocked in", "{employee}")
	errs = append(errs, err)
	m.hoursWorked, err = NewFloatCounter(meter, "shop.staff.hours_worked", "Hours recorded on closed time entries", "h")
	errs = append(errs, err)
	m.portionsLogged, err = NewCounter(meter, "shop.production.portions", "Portions produced", "{portion}")
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

// EventTypes implements shared.EventHandler
func (m *ShopMetrics) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
		workforce.EventTypeClockedIn,
		workforce.EventTypeClockedOut,
		inventory.EventTypeProductionLogged,
	}
}

// Handle implements shared.EventHandler
func (m *ShopMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		fulfillment := AttrFulfillment.String(string(e.FulfillmentType))
		m.ordersPlaced.Inc(ctx, fulfillment)
		m.orderRevenue.Add(ctx, e.Total.InexactFloat64(), fulfillment)
		m.orderItems.Record(ctx, float64(e.ItemCount), fulfillment)
	case *order.OrderStatusChangedEvent:
		m.statusChanges.Inc(ctx, AttrOrderStatus.String(string(e.NewStatus)))
	case *workforce.ClockedInEvent:
		m.staffOnClock.Add(ctx, 1, AttrEntrySource.String(string(e.Source)))
	case *workforce.ClockedOutEvent:
		m.staffOnClock.Add(ctx, -1, AttrEntrySource.String(string(e.Source)))
		m.hoursWorked.Add(ctx, e.TotalHours.InexactFloat64(), AttrEntrySource.String(string(e.Source)))
	case *inventory.ProductionLoggedEvent:
		m.portionsLogged.Add(ctx, int64(e.Portions), AttrItemName.String(e.ItemName))
	}
	return nil
}

var _ shared.EventHandler = (*ShopMetrics)(nil)
