package inventory

import (
	"strings"
	"time"

	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductionItem is a kitchen-made SKU (tare, broth, chashu...) tracked in
// cases and portions
type ProductionItem struct {
	shared.BaseAggregateRoot
	Name            string `gorm:"type:varchar(150);not null"`
	SKU             string `gorm:"column:sku;type:varchar(50);not null;uniqueIndex"`
	Category        string `gorm:"type:varchar(50);index"`
	PortionsPerCase int    `gorm:"not null"`
	ParLevelCases   int    `gorm:"not null;default:0"`
	ShelfLifeDays   int    `gorm:"not null;default:0"`
	Active          bool   `gorm:"not null;default:true"`
	QRToken         string `gorm:"column:qr_token;type:varchar(64);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (ProductionItem) TableName() string {
	return "production_items"
}

// NewProductionItem creates an active production item with a QR token
func NewProductionItem(name, sku, category string, portionsPerCase, parLevelCases, shelfLifeDays int) (*ProductionItem, error) {
	item := &ProductionItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Active:            true,
		QRToken:           shared.NewToken(),
	}
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	item.SKU = sku
	if err := item.apply(name, category, portionsPerCase, parLevelCases, shelfLifeDays); err != nil {
		return nil, err
	}
	return item, nil
}

// Update changes the descriptive and stocking fields. The SKU is immutable.
func (i *ProductionItem) Update(name, category string, portionsPerCase, parLevelCases, shelfLifeDays int) error {
	if err := i.apply(name, category, portionsPerCase, parLevelCases, shelfLifeDays); err != nil {
		return err
	}
	i.IncrementVersion()
	return nil
}

// SetActive toggles whether the item can still be produced
func (i *ProductionItem) SetActive(active bool) {
	i.Active = active
	i.IncrementVersion()
}

// RotateQR invalidates printed labels by issuing a new token
func (i *ProductionItem) RotateQR() string {
	i.QRToken = shared.NewToken()
	i.IncrementVersion()
	return i.QRToken
}

// ExpiresAt returns when a batch produced at producedAt expires, or nil
// when the item has no shelf life configured
func (i *ProductionItem) ExpiresAt(producedAt time.Time) *time.Time {
	if i.ShelfLifeDays <= 0 {
		return nil
	}
	t := producedAt.AddDate(0, 0, i.ShelfLifeDays)
	return &t
}

// Portions converts cases plus loose portions to portions
func (i *ProductionItem) Portions(cases, loose int) int {
	return cases*i.PortionsPerCase + loose
}

// Cases converts portions to fractional cases
func (i *ProductionItem) Cases(portions int) decimal.Decimal {
	return CasesOf(portions, i.PortionsPerCase)
}

// ParLevelPortions is the par level expressed in portions
func (i *ProductionItem) ParLevelPortions() int {
	return i.ParLevelCases * i.PortionsPerCase
}

func (i *ProductionItem) apply(name, category string, portionsPerCase, parLevelCases, shelfLifeDays int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 150 characters")
	}
	if portionsPerCase <= 0 {
		return shared.NewDomainError("INVALID_PORTIONS_PER_CASE", "Portions per case must be positive")
	}
	if parLevelCases < 0 {
		return shared.NewDomainError("INVALID_PAR_LEVEL", "Par level cannot be negative")
	}
	if shelfLifeDays < 0 {
		return shared.NewDomainError("INVALID_SHELF_LIFE", "Shelf life cannot be negative")
	}
	i.Name = name
	i.Category = strings.ToLower(strings.TrimSpace(category))
	i.PortionsPerCase = portionsPerCase
	i.ParLevelCases = parLevelCases
	i.ShelfLifeDays = shelfLifeDays
	return nil
}
