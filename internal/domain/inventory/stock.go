package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockAction is the kind of manual stock change
type StockAction string

const (
	StockActionAdd    StockAction = "add"
	StockActionRemove StockAction = "remove"
	StockActionSet    StockAction = "set"
)

// IsValid reports whether a is a known action
func (a StockAction) IsValid() bool {
	return a == StockActionAdd || a == StockActionRemove || a == StockActionSet
}

// FridgeStock is the number of portions of one item held in one fridge
type FridgeStock struct {
	shared.BaseEntity
	FridgeID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fridge_stock_fridge_item,priority:1"`
	ProductionItemID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fridge_stock_fridge_item,priority:2;index"`
	Portions         int       `gorm:"not null;default:0"`
	// EarliestExpiry is the expiry of the oldest batch still stocked
	EarliestExpiry *time.Time
}

// TableName returns the table name for GORM
func (FridgeStock) TableName() string {
	return "fridge_stocks"
}

// NewFridgeStock creates an empty stock row
func NewFridgeStock(fridgeID, itemID uuid.UUID) *FridgeStock {
	return &FridgeStock{
		BaseEntity:       shared.NewBaseEntity(),
		FridgeID:         fridgeID,
		ProductionItemID: itemID,
	}
}

// Apply performs action with qty portions and returns the signed delta
func (s *FridgeStock) Apply(action StockAction, qty int) (int, error) {
	if qty < 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	before := s.Portions
	switch action {
	case StockActionAdd:
		if qty == 0 {
			return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		s.Portions += qty
	case StockActionRemove:
		if qty == 0 {
			return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if qty > s.Portions {
			return 0, shared.NewDomainError("INSUFFICIENT_STOCK", "Cannot remove more portions than are stocked")
		}
		s.Portions -= qty
	case StockActionSet:
		s.Portions = qty
	default:
		return 0, shared.NewDomainError("INVALID_ACTION", "Action must be add, remove or set")
	}
	if s.Portions == 0 {
		s.EarliestExpiry = nil
	}
	s.Touch()
	return s.Portions - before, nil
}

// NoteExpiry keeps the earliest expiry of stocked batches
func (s *FridgeStock) NoteExpiry(expiresAt *time.Time) {
	if expiresAt == nil {
		return
	}
	if s.EarliestExpiry == nil || expiresAt.Before(*s.EarliestExpiry) {
		t := *expiresAt
		s.EarliestExpiry = &t
	}
}

// StockLine is one item's contribution to a fridge load
type StockLine struct {
	Portions        int
	PortionsPerCase int
}

// CasesOf converts portions to fractional cases, rounded to 2 decimals
func CasesOf(portions, portionsPerCase int) decimal.Decimal {
	if portionsPerCase <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(portions)).Div(decimal.NewFromInt(int64(portionsPerCase))).Round(2)
}

// UsedCases sums the fractional cases of lines at six decimal places
func UsedCases(lines []StockLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.PortionsPerCase <= 0 || l.Portions <= 0 {
			continue
		}
		total = total.Add(decimal.NewFromInt(int64(l.Portions)).DivRound(decimal.NewFromInt(int64(l.PortionsPerCase)), 6))
	}
	return total
}
