package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	TemplateOrderConfirmation   = "order_confirmation.html"
	TemplateOrderStatus         = "order_status.html"
	TemplateContactNotification = "contact_notification.html"
	TemplateShiftPublished      = "shift_published.html"
	TemplateStockDigest         = "stock_digest.html"
	TemplateClassBooked         = "class_booked.html"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"AUD": "A$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// Renderer renders the HTML email templates
type Renderer struct {
	templates *template.Template
	currency  string
	location  *time.Location
	printer   *message.Printer
	shopName  string
	extra     template.FuncMap
}

// RendererOption configures a Renderer
type RendererOption func(*Renderer)

// WithCurrency sets the ISO currency code used by the money helper
func WithCurrency(code string) RendererOption {
	return func(r *Renderer) {
		r.currency = strings.ToUpper(code)
	}
}

// WithLocation sets the zone dates are shown in
func WithLocation(loc *time.Location) RendererOption {
	return func(r *Renderer) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithShopName sets the name shown in headers and footers
func WithShopName(name string) RendererOption {
	return func(r *Renderer) {
		r.shopName = name
	}
}

// WithFuncs adds template helpers, overriding the built-in ones
func WithFuncs(funcs template.FuncMap) RendererOption {
	return func(r *Renderer) {
		if r.extra == nil {
			r.extra = template.FuncMap{}
		}
		maps.Copy(r.extra, funcs)
	}
}

// NewRenderer parses the embedded templates
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{
		currency: "USD",
		location: time.UTC,
		printer:  message.NewPrinter(language.English),
		shopName: "Ramen Shop",
	}
	for _, opt := range opts {
		opt(r)
	}
	funcs := r.funcMap()
	maps.Copy(funcs, r.extra)
	tmpl, err := template.New("mail").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}
	r.templates = tmpl
	return r, nil
}

// Render executes the named template with data. Templates reach the shop
// name through {{shopName}}.
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// FormatMoney formats an amount with the renderer's currency, e.g. $1,234.50
func (r *Renderer) FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	symbol, ok := currencySymbols[r.currency]
	if !ok {
		symbol = r.currency + " "
	}
	return sign + symbol + r.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// FormatDate formats t as "Mon, Mar 14 2026" in the renderer's zone
func (r *Renderer) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(r.location).Format("Mon, Jan 2 2006")
}

// FormatDateTime formats t as "Mon, Mar 14 2026 3:04 PM"
func (r *Renderer) FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(r.location).Format("Mon, Jan 2 2006 3:04 PM")
}

func (r *Renderer) funcMap() template.FuncMap {
	return template.FuncMap{
		"money":    r.FormatMoney,
		"date":     r.FormatDate,
		"datetime": r.FormatDateTime,
		"clock": func(t time.Time) string {
			return t.In(r.location).Format("3:04 PM")
		},
		"deref": func(t *time.Time) time.Time {
			if t == nil {
				return time.Time{}
			}
			return *t
		},
		"title":    TitleCase,
		"shopName": func() string { return r.shopName },
		"lines":    strings.Split,
	}
}

// TitleCase turns identifiers such as "out_for_delivery" into "Out For Delivery"
func TitleCase(s string) string {
	// a Caser keeps state and cannot be shared between goroutines
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}
