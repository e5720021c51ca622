package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StatusService reports fridge load, items under par and stock about to
// expire
type StatusService struct {
	fridgeRepo inventory.FridgeRepository
	itemRepo   inventory.ProductionItemRepository
	stockRepo  inventory.StockRepository
	now        func() time.Time
}

// NewStatusService creates a new StatusService
func NewStatusService(
	fridgeRepo inventory.FridgeRepository,
	itemRepo inventory.ProductionItemRepository,
	stockRepo inventory.StockRepository,
) *StatusService {
	return &StatusService{fridgeRepo: fridgeRepo, itemRepo: itemRepo, stockRepo: stockRepo, now: time.Now}
}

// Status builds the report. Stock expiring within window is listed.
func (s *StatusService) Status(ctx context.Context, window time.Duration) (*StatusResponse, error) {
	now := s.now()
	fridges, err := s.fridgeRepo.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}
	items, err := s.activeItems(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	expiring, err := s.stockRepo.FindExpiringBefore(ctx, now.Add(window))
	if err != nil {
		return nil, err
	}

	itemByID, err := itemsOf(ctx, s.itemRepo, rows)
	if err != nil {
		return nil, err
	}
	fridgeByID := make(map[uuid.UUID]*inventory.Fridge, len(fridges))
	for i := range fridges {
		fridgeByID[fridges[i].ID] = &fridges[i]
	}

	resp := &StatusResponse{
		GeneratedAt: now,
		Window:      window.String(),
		Fridges:     make([]FridgeStatus, 0, len(fridges)),
		BelowPar:    []BelowParItem{},
		Expiring:    []ExpiringLine{},
	}

	byFridge := make(map[uuid.UUID][]inventory.FridgeStock)
	onHand := make(map[uuid.UUID]int)
	for _, r := range rows {
		byFridge[r.FridgeID] = append(byFridge[r.FridgeID], r)
		if _, ok := fridgeByID[r.FridgeID]; ok {
			onHand[r.ProductionItemID] += r.Portions
		}
	}
	for i := range fridges {
		f := &fridges[i]
		lines := stockLines(byFridge[f.ID], itemByID)
		resp.Fridges = append(resp.Fridges, FridgeStatus{
			FridgeID:      f.ID,
			Name:          f.Name,
			Kind:          string(f.Kind),
			CapacityCases: f.CapacityCases,
			UsedCases:     inventory.UsedCases(lines).Round(2),
			Utilization:   f.Utilization(lines),
		})
	}

	for i := range items {
		item := &items[i]
		if item.ParLevelCases <= 0 {
			continue
		}
		portions := onHand[item.ID]
		if portions >= item.ParLevelPortions() {
			continue
		}
		have := item.Cases(portions)
		resp.BelowPar = append(resp.BelowPar, BelowParItem{
			ProductionItemID: item.ID,
			Name:             item.Name,
			SKU:              item.SKU,
			OnHandCases:      have,
			ParLevelCases:    item.ParLevelCases,
			ShortByCases:     decimal.NewFromInt(int64(item.ParLevelCases)).Sub(have),
		})
	}
	sort.Slice(resp.BelowPar, func(a, b int) bool {
		return resp.BelowPar[a].ShortByCases.GreaterThan(resp.BelowPar[b].ShortByCases)
	})

	for _, r := range expiring {
		f, ok := fridgeByID[r.FridgeID]
		if !ok || r.EarliestExpiry == nil {
			continue
		}
		line := ExpiringLine{
			FridgeID:         f.ID,
			FridgeName:       f.Name,
			ProductionItemID: r.ProductionItemID,
			Portions:         r.Portions,
			ExpiresAt:        *r.EarliestExpiry,
		}
		if item, ok := itemByID[r.ProductionItemID]; ok {
			line.ItemName = item.Name
		}
		resp.Expiring = append(resp.Expiring, line)
	}
	return resp, nil
}

func (s *StatusService) activeItems(ctx context.Context) ([]inventory.ProductionItem, error) {
	filter := shared.DefaultFilter().WithFilter("active", true)
	filter.PageSize = 100
	filter.OrderBy, filter.OrderDir = "name", "asc"

	var all []inventory.ProductionItem
	for {
		page, total, err := s.itemRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			return all, nil
		}
		filter.Page++
	}
}
