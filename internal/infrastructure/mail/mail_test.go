package mail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ramenshop/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func testMessage() Message {
	return Message{
		To:      []string{"mina@example.com"},
		Subject: "Your order RS-20260314-4F09AC",
		HTML:    "<p>Thanks!</p>",
		Text:    "Thanks!",
	}
}

func TestMessage_Validate(t *testing.T) {
	assert.NoError(t, testMessage().Validate())

	m := testMessage()
	m.To = nil
	assert.Error(t, m.Validate())

	m = testMessage()
	m.To = []string{"not-an-address"}
	assert.Error(t, m.Validate())

	m = testMessage()
	m.Subject = " "
	assert.Error(t, m.Validate())

	m = testMessage()
	m.HTML, m.Text = "", ""
	assert.Error(t, m.Validate())
}

func TestSMTPMailer_Send(t *testing.T) {
	dialer := &fakeDialer{}
	m := &SMTPMailer{dialer: dialer, from: "noodles@ramen.test", fromName: "Ramen Shop", logger: zap.NewNop()}

	msg := testMessage()
	msg.ReplyTo = "guest@example.com"
	require.NoError(t, m.Send(context.Background(), msg))
	require.Len(t, dialer.sent, 1)

	sent := dialer.sent[0]
	assert.Equal(t, []string{"mina@example.com"}, sent.GetHeader("To"))
	assert.Equal(t, []string{"guest@example.com"}, sent.GetHeader("Reply-To"))
	assert.Equal(t, []string{"Your order RS-20260314-4F09AC"}, sent.GetHeader("Subject"))
	require.Len(t, sent.GetHeader("From"), 1)
	assert.Contains(t, sent.GetHeader("From")[0], "noodles@ramen.test")

	var body strings.Builder
	_, err := sent.WriteTo(&body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "text/plain")
	assert.Contains(t, body.String(), "text/html")
}

func TestSMTPMailer_SendErrors(t *testing.T) {
	dialer := &fakeDialer{err: errors.New("connection refused")}
	m := &SMTPMailer{dialer: dialer, logger: zap.NewNop()}

	err := m.Send(context.Background(), testMessage())
	assert.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dialer.err = nil
	assert.ErrorIs(t, m.Send(ctx, testMessage()), context.Canceled)
	assert.Empty(t, dialer.sent)

	bad := testMessage()
	bad.To = nil
	assert.Error(t, m.Send(context.Background(), bad))
}

func TestConsoleMailer_Logs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewConsoleMailer(zap.New(core))

	require.NoError(t, m.Send(context.Background(), testMessage()))
	entries := logs.FilterMessage("Mail (console transport)").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Your order RS-20260314-4F09AC", entries[0].ContextMap()["subject"])
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(config.MailConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &ConsoleMailer{}, m)

	m, err = NewMailer(config.MailConfig{Driver: "smtp", Host: "smtp.ramen.test", Port: 587}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = NewMailer(config.MailConfig{Driver: "smtp"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewMailer(config.MailConfig{Driver: "pigeon"}, zap.NewNop())
	assert.Error(t, err)
}

func newTestRenderer(t *testing.T, opts ...RendererOption) *Renderer {
	t.Helper()
	r, err := NewRenderer(opts...)
	require.NoError(t, err)
	return r
}

func TestRenderer_Helpers(t *testing.T) {
	r := newTestRenderer(t)

	assert.Equal(t, "$48.55", r.FormatMoney(decimal.RequireFromString("48.55")))
	assert.Equal(t, "$1,234.50", r.FormatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "-$3.00", r.FormatMoney(decimal.RequireFromString("-3")))
	assert.Equal(t, "€9.00", newTestRenderer(t, WithCurrency("eur")).FormatMoney(decimal.NewFromInt(9)))
	assert.Equal(t, "CHF 9.00", newTestRenderer(t, WithCurrency("CHF")).FormatMoney(decimal.NewFromInt(9)))

	ts := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "Sat, Mar 14 2026", r.FormatDate(ts))
	assert.Equal(t, "Sat, Mar 14 2026 6:30 PM", r.FormatDateTime(ts))
	assert.Empty(t, r.FormatDate(time.Time{}))

	assert.Equal(t, "Out For Delivery", TitleCase("out_for_delivery"))
	assert.Equal(t, "Picked Up", TitleCase("picked_up"))
}

func TestRenderer_OrderConfirmation(t *testing.T) {
	r := newTestRenderer(t, WithShopName("Noodle Bar"))
	pickup := time.Date(2026, 3, 14, 12, 15, 0, 0, time.UTC)

	html, err := r.Render(TemplateOrderConfirmation, OrderConfirmationData{
		CustomerName:    "Mina <script>",
		Number:          "RS-20260314-4F09AC",
		FulfillmentType: "pickup",
		PickupAt:        &pickup,
		Items: []OrderLine{
			{Name: "Shoyu Kit", Quantity: 2, UnitPrice: decimal.RequireFromString("18.50"), LineTotal: decimal.RequireFromString("37.00")},
		},
		Subtotal: decimal.RequireFromString("37.00"),
		Tax:      decimal.RequireFromString("3.28"),
		Total:    decimal.RequireFromString("40.28"),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Noodle Bar")
	assert.Contains(t, html, "RS-20260314-4F09AC")
	assert.Contains(t, html, "Sat, Mar 14 2026 12:15 PM")
	assert.Contains(t, html, "$40.28")
	assert.Contains(t, html, "Mina &lt;script&gt;")
	assert.NotContains(t, html, "Delivery to")
}

func TestRenderer_DeliveryAndStatus(t *testing.T) {
	r := newTestRenderer(t)

	html, err := r.Render(TemplateOrderConfirmation, OrderConfirmationData{
		CustomerName:    "Mina",
		Number:          "RS-1",
		FulfillmentType: "delivery",
		DeliveryAddress: "12 Noodle St\nApt 3",
		DeliveryFee:     decimal.Zero,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "12 Noodle St<br>Apt 3<br>")
	assert.Contains(t, html, "Free")

	html, err = r.Render(TemplateOrderStatus, OrderStatusData{
		CustomerName: "Mina",
		Number:       "RS-1",
		NewStatus:    "cancelled",
		Reason:       "out of broth",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Cancelled")
	assert.Contains(t, html, "out of broth")
}

func TestRenderer_OtherTemplates(t *testing.T) {
	r := newTestRenderer(t)
	at := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)

	html, err := r.Render(TemplateShiftPublished, ShiftPublishedData{
		EmployeeName: "Kenji", StartsAt: at, EndsAt: at.Add(8 * time.Hour), Station: "broth",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "9:00 AM to 5:00 PM")
	assert.Contains(t, html, "broth")

	html, err = r.Render(TemplateContactNotification, ContactNotificationData{
		Name: "Ana", Email: "ana@example.com", Subject: "Catering", Body: "Hello\nDo you cater?", ReceivedAt: at,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Hello<br>Do you cater?")

	html, err = r.Render(TemplateStockDigest, StockDigestData{GeneratedAt: at})
	require.NoError(t, err)
	assert.Contains(t, html, "Nothing to report")

	html, err = r.Render(TemplateStockDigest, StockDigestData{
		GeneratedAt: at,
		Expiring:    []ExpiringStock{{Fridge: "Walk-in", Item: "Chashu", Portions: 40, ExpiresAt: at.Add(12 * time.Hour)}},
		BelowPar:    []BelowPar{{Item: "Tare", SKU: "TARE-01", OnHandCases: decimal.RequireFromString("0.5"), ParCases: 2, ShortByCases: decimal.RequireFromString("1.5")}},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Chashu")
	assert.Contains(t, html, "1.50")
	assert.NotContains(t, html, "Nothing to report")

	html, err = r.Render(TemplateClassBooked, ClassBookedData{CustomerName: "Mina", ClassTitle: "Hand-pulled noodles", StartsAt: at, Seats: 2, Total: decimal.NewFromInt(90)})
	require.NoError(t, err)
	assert.Contains(t, html, "$90.00")

	_, err = r.Render("missing.html", nil)
	assert.Error(t, err)
}

func TestRenderer_WithFuncsOverrides(t *testing.T) {
	r := newTestRenderer(t, WithFuncs(map[string]any{"shopName": func() string { return "Override" }}))
	html, err := r.Render(TemplateOrderStatus, OrderStatusData{Number: "RS-1", NewStatus: "ready"})
	require.NoError(t, err)
	assert.Contains(t, html, "Override")
}
