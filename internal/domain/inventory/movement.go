package inventory

import (
	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
)

// MovementKind classifies an inventory audit row
type MovementKind string

const (
	MovementAdd         MovementKind = "add"
	MovementRemove      MovementKind = "remove"
	MovementSet         MovementKind = "set"
	MovementProduction  MovementKind = "production"
	MovementTransferIn  MovementKind = "transfer_in"
	MovementTransferOut MovementKind = "transfer_out"
)

// InventoryMovement is the append-only audit trail of stock changes
type InventoryMovement struct {
	shared.BaseEntity
	FridgeID         uuid.UUID    `gorm:"type:uuid;not null;index"`
	ProductionItemID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Kind             MovementKind `gorm:"type:varchar(20);not null"`
	DeltaPortions    int          `gorm:"not null"`
	BalanceAfter     int          `gorm:"not null"`
	ActorID          *uuid.UUID   `gorm:"type:uuid"`
	Reference        string       `gorm:"type:varchar(100)"`
	Notes            string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InventoryMovement) TableName() string {
	return "inventory_movements"
}

// NewMovement creates an audit row for a change already applied to stock
func NewMovement(stock *FridgeStock, kind MovementKind, delta int, actorID uuid.UUID, reference, notes string) *InventoryMovement {
	m := &InventoryMovement{
		BaseEntity:       shared.NewBaseEntity(),
		FridgeID:         stock.FridgeID,
		ProductionItemID: stock.ProductionItemID,
		Kind:             kind,
		DeltaPortions:    delta,
		BalanceAfter:     stock.Portions,
		Reference:        reference,
		Notes:            notes,
	}
	if actorID != uuid.Nil {
		m.ActorID = &actorID
	}
	return m
}

// MovementKindFor maps a manual action to its audit kind
func MovementKindFor(action StockAction) MovementKind {
	switch action {
	case StockActionAdd:
		return MovementAdd
	case StockActionRemove:
		return MovementRemove
	default:
		return MovementSet
	}
}
