package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ========== Fridges ==========

// FridgeRequest creates or replaces a fridge
type FridgeRequest struct {
	Name          string          `json:"name" binding:"required,max=100"`
	Location      string          `json:"location" binding:"max=200"`
	Kind          string          `json:"kind" binding:"required,oneof=walk_in reach_in freezer dry"`
	CapacityCases decimal.Decimal `json:"capacity_cases" swaggertype:"string" example:"40"`
	Active        *bool           `json:"active"`
}

// FridgeResponse is a fridge with its current load
type FridgeResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	Kind          string          `json:"kind"`
	CapacityCases decimal.Decimal `json:"capacity_cases" swaggertype:"string"`
	UsedCases     decimal.Decimal `json:"used_cases" swaggertype:"string"`
	Utilization   decimal.Decimal `json:"utilization_percent" swaggertype:"string"`
	Active        bool            `json:"active"`
	QRURL         string          `json:"qr_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockLineResponse is one item's stock in a fridge
type StockLineResponse struct {
	ProductionItemID uuid.UUID       `json:"production_item_id"`
	ItemName         string          `json:"item_name"`
	SKU              string          `json:"sku"`
	Portions         int             `json:"portions"`
	Cases            decimal.Decimal `json:"cases" swaggertype:"string"`
	PortionsPerCase  int             `json:"portions_per_case"`
	EarliestExpiry   *time.Time      `json:"earliest_expiry,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// FridgeInventoryResponse is the content of one fridge
type FridgeInventoryResponse struct {
	Fridge FridgeResponse      `json:"fridge"`
	Items  []StockLineResponse `json:"items"`
}

// StockActionRequest adjusts one item in a fridge. The quantity is
// cases * portions_per_case + portions.
type StockActionRequest struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Action   string    `json:"action" binding:"required,oneof=add remove set"`
	Cases    int       `json:"cases" binding:"min=0,max=10000"`
	Portions int       `json:"portions" binding:"min=0,max=100000"`
	Notes    string    `json:"notes" binding:"max=500"`
}

// TransferRequest moves portions of an item to another fridge
type TransferRequest struct {
	ToFridgeID uuid.UUID `json:"to_fridge_id" binding:"required"`
	ItemID     uuid.UUID `json:"item_id" binding:"required"`
	Cases      int       `json:"cases" binding:"min=0,max=10000"`
	Portions   int       `json:"portions" binding:"min=0,max=100000"`
	Notes      string    `json:"notes" binding:"max=500"`
}

// TransferResponse reports both sides of a transfer
type TransferResponse struct {
	Portions int               `json:"portions"`
	From     StockLineResponse `json:"from"`
	To       StockLineResponse `json:"to"`
}

// MovementResponse is one audit row
type MovementResponse struct {
	ID               uuid.UUID  `json:"id"`
	FridgeID         uuid.UUID  `json:"fridge_id"`
	ProductionItemID uuid.UUID  `json:"production_item_id"`
	Kind             string     `json:"kind"`
	DeltaPortions    int        `json:"delta_portions"`
	BalanceAfter     int        `json:"balance_after"`
	ActorID          *uuid.UUID `json:"actor_id,omitempty"`
	Reference        string     `json:"reference,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ========== Production items ==========

// ProductionItemRequest creates or replaces a production item. SKU is
// ignored on update.
type ProductionItemRequest struct {
	Name            string `json:"name" binding:"required,max=150"`
	SKU             string `json:"sku" binding:"omitempty,max=50"`
	Category        string `json:"category" binding:"max=50"`
	PortionsPerCase int    `json:"portions_per_case" binding:"required,min=1,max=10000"`
	ParLevelCases   int    `json:"par_level_cases" binding:"min=0,max=10000"`
	ShelfLifeDays   int    `json:"shelf_life_days" binding:"min=0,max=3650"`
	Active          *bool  `json:"active"`
}

// ProductionItemListFilter narrows the production item listing
type ProductionItemListFilter struct {
	Search   string `form:"search" binding:"omitempty,max=100"`
	Category string `form:"category" binding:"omitempty,max=50"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,max=30"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductionItemResponse is the API view of a production item
type ProductionItemResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	SKU             string    `json:"sku"`
	Category        string    `json:"category"`
	PortionsPerCase int       `json:"portions_per_case"`
	ParLevelCases   int       `json:"par_level_cases"`
	ShelfLifeDays   int       `json:"shelf_life_days"`
	Active          bool      `json:"active"`
	QRURL           string    `json:"qr_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ========== Production logs ==========

// ProductionLogRequest logs a batch into a fridge
type ProductionLogRequest struct {
	ItemID     uuid.UUID  `json:"item_id" binding:"required"`
	FridgeID   uuid.UUID  `json:"fridge_id" binding:"required"`
	Cases      int        `json:"cases" binding:"min=0,max=10000"`
	Portions   int        `json:"portions" binding:"min=0,max=100000"`
	ProducedAt *time.Time `json:"produced_at"`
	BatchCode  string     `json:"batch_code" binding:"max=60"`
	Notes      string     `json:"notes" binding:"max=1000"`
}

// ProductionLogListFilter narrows the production log listing. To is
// inclusive.
type ProductionLogListFilter struct {
	ItemID   *uuid.UUID `form:"item_id"`
	FridgeID *uuid.UUID `form:"fridge_id"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductionLogResponse is the API view of a production log
type ProductionLogResponse struct {
	ID               uuid.UUID  `json:"id"`
	ProductionItemID uuid.UUID  `json:"production_item_id"`
	ItemName         string     `json:"item_name,omitempty"`
	FridgeID         uuid.UUID  `json:"fridge_id"`
	FridgeName       string     `json:"fridge_name,omitempty"`
	Cases            int        `json:"cases"`
	LoosePortions    int        `json:"loose_portions"`
	TotalPortions    int        `json:"total_portions"`
	ProducedBy       uuid.UUID  `json:"produced_by"`
	ProducedAt       time.Time  `json:"produced_at"`
	BatchCode        string     `json:"batch_code"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ========== QR ==========

// QR target kinds
const (
	QRKindFridge         = "fridge"
	QRKindProductionItem = "production_item"
)

// QRTarget is what a scanned token points at
type QRTarget struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// QRRotateResponse carries the new token's URL
type QRRotateResponse struct {
	ID    uuid.UUID `json:"id"`
	QRURL string    `json:"qr_url"`
}

// ========== Status ==========

// FridgeStatus is one fridge's load in the status report
type FridgeStatus struct {
	FridgeID      uuid.UUID       `json:"fridge_id"`
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	CapacityCases decimal.Decimal `json:"capacity_cases" swaggertype:"string"`
	UsedCases     decimal.Decimal `json:"used_cases" swaggertype:"string"`
	Utilization   decimal.Decimal `json:"utilization_percent" swaggertype:"string"`
}

// BelowParItem is an item whose total stock is under its par level
type BelowParItem struct {
	ProductionItemID uuid.UUID       `json:"production_item_id"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	OnHandCases      decimal.Decimal `json:"on_hand_cases" swaggertype:"string"`
	ParLevelCases    int             `json:"par_level_cases"`
	ShortByCases     decimal.Decimal `json:"short_by_cases" swaggertype:"string"`
}

// ExpiringLine is a stock row whose oldest batch expires soon
type ExpiringLine struct {
	FridgeID         uuid.UUID `json:"fridge_id"`
	FridgeName       string    `json:"fridge_name"`
	ProductionItemID uuid.UUID `json:"production_item_id"`
	ItemName         string    `json:"item_name"`
	Portions         int       `json:"portions"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// StatusResponse is the inventory status report
type StatusResponse struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Window      string         `json:"expiry_window"`
	Fridges     []FridgeStatus `json:"fridges"`
	BelowPar    []BelowParItem `json:"below_par"`
	Expiring    []ExpiringLine `json:"expiring"`
}

// ========== Mapping ==========

// ToFridgeResponse maps a fridge and its stock lines
func ToFridgeResponse(f *inventory.Fridge, lines []inventory.StockLine, qrURL string) FridgeResponse {
	return FridgeResponse{
		ID:            f.ID,
		Name:          f.Name,
		Location:      f.Location,
		Kind:          string(f.Kind),
		CapacityCases: f.CapacityCases,
		UsedCases:     inventory.UsedCases(lines).Round(2),
		Utilization:   f.Utilization(lines),
		Active:        f.Active,
		QRURL:         qrURL,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// ToProductionItemResponse maps a production item
func ToProductionItemResponse(i *inventory.ProductionItem, qrURL string) ProductionItemResponse {
	return ProductionItemResponse{
		ID:              i.ID,
		Name:            i.Name,
		SKU:             i.SKU,
		Category:        i.Category,
		PortionsPerCase: i.PortionsPerCase,
		ParLevelCases:   i.ParLevelCases,
		ShelfLifeDays:   i.ShelfLifeDays,
		Active:          i.Active,
		QRURL:           qrURL,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// ToStockLineResponse maps a stock row. item may be nil for rows whose
// item was removed.
func ToStockLineResponse(s *inventory.FridgeStock, item *inventory.ProductionItem) StockLineResponse {
	resp := StockLineResponse{
		ProductionItemID: s.ProductionItemID,
		Portions:         s.Portions,
		EarliestExpiry:   s.EarliestExpiry,
		UpdatedAt:        s.UpdatedAt,
	}
	if item != nil {
		resp.ItemName = item.Name
		resp.SKU = item.SKU
		resp.PortionsPerCase = item.PortionsPerCase
		resp.Cases = item.Cases(s.Portions)
	}
	return resp
}

// ToMovementResponse maps an audit row
func ToMovementResponse(m *inventory.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		FridgeID:         m.FridgeID,
		ProductionItemID: m.ProductionItemID,
		Kind:             string(m.Kind),
		DeltaPortions:    m.DeltaPortions,
		BalanceAfter:     m.BalanceAfter,
		ActorID:          m.ActorID,
		Reference:        m.Reference,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
	}
}

// ToProductionLogResponse maps a production log
func ToProductionLogResponse(l *inventory.ProductionLog) ProductionLogResponse {
	return ProductionLogResponse{
		ID:               l.ID,
		ProductionItemID: l.ProductionItemID,
		FridgeID:         l.FridgeID,
		Cases:            l.Cases,
		LoosePortions:    l.LoosePortions,
		TotalPortions:    l.TotalPortions,
		ProducedBy:       l.ProducedBy,
		ProducedAt:       l.ProducedAt,
		BatchCode:        l.BatchCode,
		ExpiresAt:        l.ExpiresAt,
		Notes:            l.Notes,
		CreatedAt:        l.CreatedAt,
	}
}
