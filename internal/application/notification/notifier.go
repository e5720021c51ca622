// Package notification turns domain events and scheduled checks into
// email.
package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/contact"
	"github.com/ramenshop/backend/internal/domain/identity"
	"github.com/ramenshop/backend/internal/domain/order"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"github.com/ramenshop/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
)

// Renderer renders a named email template
type Renderer interface {
	Render(name string, data any) (string, error)
}

// Config holds the addresses and links notifications need
type Config struct {
	// BaseURL is the public storefront URL used in links
	BaseURL string
	// AdminAddress receives contact form notifications
	AdminAddress string
	ShopName     string
}

// Notifier sends the transactional emails triggered by domain events.
// Mail failures are logged and never returned to the publisher.
type Notifier struct {
	mailer    mail.Mailer
	renderer  Renderer
	orders    order.Repository
	users     identity.UserRepository
	employees workforce.EmployeeRepository
	cfg       Config
	logger    *zap.Logger
}

var _ shared.EventHandler = (*Notifier)(nil)

// NewNotifier creates a new Notifier
func NewNotifier(
	mailer mail.Mailer,
	renderer Renderer,
	orders order.Repository,
	users identity.UserRepository,
	employees workforce.EmployeeRepository,
	cfg Config,
	logger *zap.Logger,
) *Notifier {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ShopName == "" {
		cfg.ShopName = "Ramen Shop"
	}
	return &Notifier{
		mailer:    mailer,
		renderer:  renderer,
		orders:    orders,
		users:     users,
		employees: employees,
		cfg:       cfg,
		logger:    logger.Named("notifier"),
	}
}

// EventTypes returns the events that trigger an email
func (n *Notifier) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
		contact.EventTypeMessageReceived,
		workforce.EventTypeShiftPublished,
		catalog.EventTypeClassBooked,
	}
}

// Handle sends the email for event. It always returns nil once the event
// is recognised; delivery problems are logged.
func (n *Notifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	// handlers run after the request; they read rows on the shop's behalf
	ctx = shared.WithActor(ctx, shared.ServiceActor())

	var (
		msg *mail.Message
		err error
	)
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		msg, err = n.orderPlaced(ctx, e)
	case *order.OrderStatusChangedEvent:
		msg, err = n.orderStatusChanged(e)
	case *contact.MessageReceivedEvent:
		msg, err = n.contactReceived(e)
	case *workforce.ShiftPublishedEvent:
		msg, err = n.shiftPublished(ctx, e)
	case *catalog.ClassBookedEvent:
		msg, err = n.classBooked(ctx, e)
	default:
		return nil
	}
	if err != nil {
		n.logger.Error("Failed to prepare email",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err))
		return nil
	}
	if msg == nil {
		return nil
	}
	if err := n.mailer.Send(ctx, *msg); err != nil {
		n.logger.Error("Failed to send email",
			zap.String("event_type", event.EventType()),
			zap.Strings("to", msg.To),
			zap.Error(err))
		return nil
	}
	n.logger.Debug("Email sent", zap.String("event_type", event.EventType()), zap.String("subject", msg.Subject))
	return nil
}

func (n *Notifier) orderPlaced(ctx context.Context, e *order.OrderPlacedEvent) (*mail.Message, error) {
	o, err := n.orders.FindByID(ctx, e.AggregateID())
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", e.Number, err)
	}
	data := mail.OrderConfirmationData{
		CustomerName:    o.ContactName,
		Number:          o.Number,
		FulfillmentType: string(o.FulfillmentType),
		PickupAt:        o.PickupAt,
		DeliveryAddress: o.DeliveryAddress,
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		Tax:             o.Tax,
		Total:           o.Total,
		Notes:           o.Notes,
		OrderURL:        n.link("/account/orders/%s", o.Number),
	}
	for _, it := range o.Items {
		data.Items = append(data.Items, mail.OrderLine{
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return n.message(o.ContactEmail, fmt.Sprintf("Order %s confirmed", o.Number), mail.TemplateOrderConfirmation, data)
}

func (n *Notifier) orderStatusChanged(e *order.OrderStatusChangedEvent) (*mail.Message, error) {
	// the confirmation already covers the first status
	if e.NewStatus == order.StatusPending {
		return nil, nil
	}
	data := mail.OrderStatusData{
		CustomerName: e.ContactName,
		Number:       e.Number,
		OldStatus:    string(e.OldStatus),
		NewStatus:    string(e.NewStatus),
		Reason:       e.Reason,
		OrderURL:     n.link("/account/orders/%s", e.Number),
	}
	subject := fmt.Sprintf("Order %s is %s", e.Number, strings.ReplaceAll(string(e.NewStatus), "_", " "))
	return n.message(e.ContactEmail, subject, mail.TemplateOrderStatus, data)
}

func (n *Notifier) contactReceived(e *contact.MessageReceivedEvent) (*mail.Message, error) {
	if n.cfg.AdminAddress == "" {
		return nil, nil
	}
	data := mail.ContactNotificationData{
		Name:       e.Name,
		Email:      e.Email,
		Subject:    e.Subject,
		Body:       e.Body,
		ReceivedAt: e.OccurredAt(),
		InboxURL:   n.link("/admin/messages"),
	}
	msg, err := n.message(n.cfg.AdminAddress, "New message: "+e.Subject, mail.TemplateContactNotification, data)
	if msg != nil {
		msg.ReplyTo = e.Email
	}
	return msg, err
}

func (n *Notifier) shiftPublished(ctx context.Context, e *workforce.ShiftPublishedEvent) (*mail.Message, error) {
	user, err := n.users.FindByID(ctx, e.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee %s: %w", e.EmployeeID, err)
	}
	name := user.FullName
	if p, err := n.employees.FindByUserID(ctx, e.EmployeeID); err == nil {
		name = p.DisplayName
	}
	data := mail.ShiftPublishedData{
		EmployeeName: name,
		StartsAt:     e.StartsAt,
		EndsAt:       e.EndsAt,
		Station:      e.Station,
		ScheduleURL:  n.link("/staff/schedule"),
	}
	subject := fmt.Sprintf("Your shift on %s", e.StartsAt.Format("Mon Jan 2"))
	return n.message(user.Email, subject, mail.TemplateShiftPublished, data)
}

func (n *Notifier) classBooked(ctx context.Context, e *catalog.ClassBookedEvent) (*mail.Message, error) {
	user, err := n.user(ctx, e.CustomerID)
	if err != nil {
		return nil, err
	}
	data := mail.ClassBookedData{
		CustomerName: user.FullName,
		ClassTitle:   e.ClassTitle,
		StartsAt:     e.StartsAt,
		Location:     e.Location,
		Seats:        e.Seats,
		Total:        e.Total,
	}
	return n.message(user.Email, "You're booked: "+e.ClassTitle, mail.TemplateClassBooked, data)
}

func (n *Notifier) user(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	u, err := n.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}
	return u, nil
}

func (n *Notifier) message(to, subject, template string, data any) (*mail.Message, error) {
	html, err := n.renderer.Render(template, data)
	if err != nil {
		return nil, err
	}
	return &mail.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("%s | %s", subject, n.cfg.ShopName),
		HTML:    html,
	}, nil
}

func (n *Notifier) link(format string, args ...any) string {
	return n.cfg.BaseURL + fmt.Sprintf(format, args...)
}
