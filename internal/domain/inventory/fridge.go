package inventory

import (
	"fmt"
	"strings"

	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FridgeKind classifies a storage unit
type FridgeKind string

const (
	FridgeKindWalkIn  FridgeKind = "walk_in"
	FridgeKindReachIn FridgeKind = "reach_in"
	FridgeKindFreezer FridgeKind = "freezer"
	FridgeKindDry     FridgeKind = "dry"
)

// IsValid reports whether k is a known kind
func (k FridgeKind) IsValid() bool {
	switch k {
	case FridgeKindWalkIn, FridgeKindReachIn, FridgeKindFreezer, FridgeKindDry:
		return true
	}
	return false
}

// Fridge is a storage unit with a capacity measured in cases
type Fridge struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(100);not null"`
	Location      string          `gorm:"type:varchar(200)"`
	Kind          FridgeKind      `gorm:"type:varchar(20);not null"`
	CapacityCases decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Active        bool            `gorm:"not null;default:true"`
	QRToken       string          `gorm:"column:qr_token;type:varchar(64);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Fridge) TableName() string {
	return "fridges"
}

// NewFridge creates an active fridge with a QR token
func NewFridge(name, location string, kind FridgeKind, capacityCases decimal.Decimal) (*Fridge, error) {
	f := &Fridge{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Active:            true,
		QRToken:           shared.NewToken(),
	}
	if err := f.apply(name, location, kind, capacityCases); err != nil {
		return nil, err
	}
	return f, nil
}

// Update changes the fridge details. Shrinking capacity below the current
// load is rejected by the caller via EnsureCapacity.
func (f *Fridge) Update(name, location string, kind FridgeKind, capacityCases decimal.Decimal) error {
	if err := f.apply(name, location, kind, capacityCases); err != nil {
		return err
	}
	f.IncrementVersion()
	return nil
}

// SetActive toggles whether stock may be put into the fridge
func (f *Fridge) SetActive(active bool) {
	f.Active = active
	f.IncrementVersion()
}

// RotateQR issues a new label token
func (f *Fridge) RotateQR() string {
	f.QRToken = shared.NewToken()
	f.IncrementVersion()
	return f.QRToken
}

// EnsureCapacity fails when the given load exceeds the fridge capacity
func (f *Fridge) EnsureCapacity(lines []StockLine) error {
	used := UsedCases(lines)
	if used.GreaterThan(f.CapacityCases) {
		return shared.NewDomainError("CAPACITY_EXCEEDED", fmt.Sprintf(
			"%s holds %s cases, this change needs %s", f.Name, f.CapacityCases.StringFixed(2), used.StringFixed(2)))
	}
	return nil
}

// Utilization returns the used share of capacity as a percentage
func (f *Fridge) Utilization(lines []StockLine) decimal.Decimal {
	if !f.CapacityCases.IsPositive() {
		return decimal.Zero
	}
	return UsedCases(lines).Div(f.CapacityCases).Mul(decimal.NewFromInt(100)).Round(1)
}

func (f *Fridge) apply(name, location string, kind FridgeKind, capacityCases decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_KIND", "Kind must be walk_in, reach_in, freezer or dry")
	}
	if !capacityCases.IsPositive() {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity must be positive")
	}
	f.Name = name
	f.Location = strings.TrimSpace(location)
	f.Kind = kind
	f.CapacityCases = capacityCases.Round(2)
	return nil
}
