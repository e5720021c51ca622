package catalog

import (
	"strings"

	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is an item sold in the storefront
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Slug        string          `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	Category    string          `gorm:"type:varchar(50);index"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	Available   bool            `gorm:"not null;default:true;index"`
	Featured    bool            `gorm:"not null;default:false"`
	SortOrder   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductDetails carries the editable fields of a product
type ProductDetails struct {
	Name        string
	Slug        string
	Description string
	Category    string
	Price       decimal.Decimal
	ImageURL    string
	Featured    bool
	SortOrder   int
}

// NewProduct creates an available product
func NewProduct(d ProductDetails) (*Product, error) {
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Available:         true,
	}
	if err := p.apply(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable fields
func (p *Product) Update(d ProductDetails) error {
	if err := p.apply(d); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// SetAvailable toggles whether the product can be ordered
func (p *Product) SetAvailable(available bool) {
	if p.Available == available {
		return
	}
	p.Available = available
	p.IncrementVersion()
}

func (p *Product) apply(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if d.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	slug, err := resolveSlug(d.Slug, name)
	if err != nil {
		return err
	}
	p.Name = name
	p.Slug = slug
	p.Description = strings.TrimSpace(d.Description)
	p.Category = strings.ToLower(strings.TrimSpace(d.Category))
	p.Price = shared.RoundMoney(d.Price)
	p.ImageURL = strings.TrimSpace(d.ImageURL)
	p.Featured = d.Featured
	p.SortOrder = d.SortOrder
	return nil
}
