package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
)

// Aggregate and event type names
const (
	AggregateTypeProductionLog = "ProductionLog"
	EventTypeProductionLogged  = "ProductionLogged"
)

// ProductionLoggedEvent is published when a batch is logged
type ProductionLoggedEvent struct {
	shared.BaseDomainEvent
	ProductionItemID uuid.UUID  `json:"production_item_id"`
	ItemName         string     `json:"item_name"`
	FridgeID         uuid.UUID  `json:"fridge_id"`
	Portions         int        `json:"portions"`
	BatchCode        string     `json:"batch_code"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// NewProductionLoggedEvent creates a ProductionLoggedEvent
func NewProductionLoggedEvent(log *ProductionLog, item *ProductionItem) *ProductionLoggedEvent {
	return &ProductionLoggedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeProductionLogged, AggregateTypeProductionLog, log.ID),
		ProductionItemID: item.ID,
		ItemName:         item.Name,
		FridgeID:         log.FridgeID,
		Portions:         log.TotalPortions,
		BatchCode:        log.BatchCode,
		ExpiresAt:        log.ExpiresAt,
	}
}
