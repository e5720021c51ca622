package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/application/tx"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductionService logs kitchen batches into fridges
type ProductionService struct {
	logRepo    inventory.ProductionLogRepository
	itemRepo   inventory.ProductionItemRepository
	fridgeRepo inventory.FridgeRepository
	txScope    tx.TransactionScope
	events     shared.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	logRepo inventory.ProductionLogRepository,
	itemRepo inventory.ProductionItemRepository,
	fridgeRepo inventory.FridgeRepository,
	txScope tx.TransactionScope,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProductionService {
	return &ProductionService{
		logRepo:    logRepo,
		itemRepo:   itemRepo,
		fridgeRepo: fridgeRepo,
		txScope:    txScope,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// Log records a batch and puts it into the fridge. The log, the stock
// change and the movement commit together.
func (s *ProductionService) Log(ctx context.Context, req ProductionLogRequest) (*ProductionLogResponse, error) {
	actor := shared.ActorFrom(ctx)
	if actor.IsAnonymous() {
		return nil, shared.ErrUnauthorized
	}
	producedAt := s.now()
	if req.ProducedAt != nil {
		producedAt = *req.ProducedAt
	}

	var (
		logged *inventory.ProductionLog
		item   *inventory.ProductionItem
		fridge *inventory.Fridge
		stock  *inventory.FridgeStock
	)
	err := s.txScope.Execute(ctx, func(repos tx.TransactionalRepositories) error {
		var err error
		item, err = repos.ProductionItems().FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}
		fridge, err = repos.Fridges().FindByIDForUpdate(ctx, req.FridgeID)
		if err != nil {
			return err
		}
		if !fridge.Active {
			return fridgeInactive(fridge)
		}

		logged, err = inventory.NewProductionLog(item, fridge.ID, req.Cases, req.Portions, actor.UserID, producedAt, req.BatchCode, req.Notes)
		if err != nil {
			return err
		}
		stock, err = repos.Stock().GetForUpdate(ctx, fridge.ID, item.ID)
		if err != nil {
			return err
		}
		if _, err := stock.Apply(inventory.StockActionAdd, logged.TotalPortions); err != nil {
			return err
		}
		stock.NoteExpiry(logged.ExpiresAt)
		if err := ensureCapacity(ctx, repos, fridge, stock, item); err != nil {
			return err
		}

		if err := repos.ProductionLogs().Save(ctx, logged); err != nil {
			return err
		}
		if err := repos.Stock().Save(ctx, stock); err != nil {
			return err
		}
		movement := inventory.NewMovement(stock, inventory.MovementProduction, logged.TotalPortions, actor.UserID, logged.BatchCode, logged.Notes)
		return repos.Movements().Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Production logged",
		zap.String("batch_code", logged.BatchCode),
		zap.String("sku", item.SKU),
		zap.String("fridge", fridge.Name),
		zap.Int("portions", logged.TotalPortions),
		zap.Int("balance", stock.Portions))
	if err := shared.PublishAndClear(ctx, s.events, logged); err != nil {
		s.logger.Warn("Failed to publish production events", zap.String("batch_code", logged.BatchCode), zap.Error(err))
	}

	resp := ToProductionLogResponse(logged)
	resp.ItemName = item.Name
	resp.FridgeName = fridge.Name
	return &resp, nil
}

// List returns a page of production logs, newest first
func (s *ProductionService) List(ctx context.Context, f ProductionLogListFilter) (*shared.Paginated[ProductionLogResponse], error) {
	filter := inventory.ProductionLogFilter{
		Filter:   shared.DefaultFilter(),
		ItemID:   f.ItemID,
		FridgeID: f.FridgeID,
		From:     f.From,
	}
	filter.OrderBy, filter.OrderDir = "produced_at", "desc"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.To != nil {
		end := f.To.AddDate(0, 0, 1)
		filter.To = &end
	}

	logs, total, err := s.logRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	names, err := s.names(ctx, logs)
	if err != nil {
		return nil, err
	}

	result := make([]ProductionLogResponse, len(logs))
	for i := range logs {
		result[i] = ToProductionLogResponse(&logs[i])
		result[i].ItemName = names.items[logs[i].ProductionItemID]
		result[i].FridgeName = names.fridges[logs[i].FridgeID]
	}
	page := shared.NewPaginated(result, total, filter.Page, filter.Limit())
	return &page, nil
}

type logNames struct {
	items   map[uuid.UUID]string
	fridges map[uuid.UUID]string
}

func (s *ProductionService) names(ctx context.Context, logs []inventory.ProductionLog) (logNames, error) {
	n := logNames{items: map[uuid.UUID]string{}, fridges: map[uuid.UUID]string{}}
	if len(logs) == 0 {
		return n, nil
	}
	var ids []uuid.UUID
	for _, l := range logs {
		if _, ok := n.items[l.ProductionItemID]; !ok {
			n.items[l.ProductionItemID] = ""
			ids = append(ids, l.ProductionItemID)
		}
	}
	items, err := s.itemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return n, err
	}
	for _, it := range items {
		n.items[it.ID] = it.Name
	}
	fridges, err := s.fridgeRepo.FindAll(ctx, false)
	if err != nil {
		return n, err
	}
	for _, f := range fridges {
		n.fridges[f.ID] = f.Name
	}
	return n, nil
}
