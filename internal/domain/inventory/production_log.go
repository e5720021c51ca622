package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
)

// ProductionLog records a batch made in the kitchen and stored in a fridge
type ProductionLog struct {
	shared.BaseAggregateRoot
	ProductionItemID uuid.UUID  `gorm:"type:uuid;not null;index"`
	FridgeID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Cases            int        `gorm:"not null;default:0"`
	LoosePortions    int        `gorm:"not null;default:0"`
	TotalPortions    int        `gorm:"not null"`
	ProducedBy       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProducedAt       time.Time  `gorm:"not null;index"`
	BatchCode        string     `gorm:"type:varchar(60);not null"`
	ExpiresAt        *time.Time `gorm:"index"`
	Notes            string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProductionLog) TableName() string {
	return "production_logs"
}

// NewProductionLog records cases plus loose portions of item made at producedAt
func NewProductionLog(item *ProductionItem, fridgeID uuid.UUID, cases, loose int, producedBy uuid.UUID, producedAt time.Time, batchCode, notes string) (*ProductionLog, error) {
	if item == nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Production item is required")
	}
	if !item.Active {
		return nil, shared.NewDomainError("ITEM_INACTIVE", "Production item is not active")
	}
	if fridgeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FRIDGE", "Fridge ID cannot be empty")
	}
	if cases < 0 || loose < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}
	total := item.Portions(cases, loose)
	if total == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Produce at least one portion")
	}
	if producedAt.IsZero() {
		producedAt = time.Now()
	}
	if producedAt.After(time.Now().Add(5 * time.Minute)) {
		return nil, shared.NewDomainError("INVALID_TIME", "Production time cannot be in the future")
	}
	batchCode = strings.TrimSpace(batchCode)
	if batchCode == "" {
		batchCode = fmt.Sprintf("%s-%s", item.SKU, producedAt.Format("20060102-1504"))
	}

	log := &ProductionLog{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductionItemID:  item.ID,
		FridgeID:          fridgeID,
		Cases:             cases,
		LoosePortions:     loose,
		TotalPortions:     total,
		ProducedBy:        producedBy,
		ProducedAt:        producedAt,
		BatchCode:         batchCode,
		ExpiresAt:         item.ExpiresAt(producedAt),
		Notes:             strings.TrimSpace(notes),
	}
	log.AddDomainEvent(NewProductionLoggedEvent(log, item))
	return log, nil
}
