package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/application/tx"
	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// QRCodes renders label links and images for tokens
type QRCodes interface {
	URLFor(token string) string
	PNG(token string, size int) ([]byte, error)
}

const defaultMovementLimit = 50

// FridgeService manages fridges and the stock inside them
type FridgeService struct {
	fridgeRepo   inventory.FridgeRepository
	itemRepo     inventory.ProductionItemRepository
	stockRepo    inventory.StockRepository
	movementRepo inventory.MovementRepository
	txScope      tx.TransactionScope
	qr           QRCodes
	logger       *zap.Logger
}

// NewFridgeService creates a new FridgeService
func NewFridgeService(
	fridgeRepo inventory.FridgeRepository,
	itemRepo inventory.ProductionItemRepository,
	stockRepo inventory.StockRepository,
	movementRepo inventory.MovementRepository,
	txScope tx.TransactionScope,
	qr QRCodes,
	logger *zap.Logger,
) *FridgeService {
	return &FridgeService{
		fridgeRepo:   fridgeRepo,
		itemRepo:     itemRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		qr:           qr,
		logger:       logger,
	}
}

// List returns fridges with their utilization
func (s *FridgeService) List(ctx context.Context, activeOnly bool) ([]FridgeResponse, error) {
	fridges, err := s.fridgeRepo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	rows, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items, err := itemsOf(ctx, s.itemRepo, rows)
	if err != nil {
		return nil, err
	}

	byFridge := make(map[uuid.UUID][]inventory.FridgeStock)
	for _, r := range rows {
		byFridge[r.FridgeID] = append(byFridge[r.FridgeID], r)
	}
	result := make([]FridgeResponse, len(fridges))
	for i := range fridges {
		f := &fridges[i]
		result[i] = ToFridgeResponse(f, stockLines(byFridge[f.ID], items), s.qr.URLFor(f.QRToken))
	}
	return result, nil
}

// Get returns one fridge with its utilization
func (s *FridgeService) Get(ctx context.Context, id uuid.UUID) (*FridgeResponse, error) {
	f, err := s.fridgeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, items, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToFridgeResponse(f, stockLines(rows, items), s.qr.URLFor(f.QRToken))
	return &resp, nil
}

// Create adds a fridge
func (s *FridgeService) Create(ctx context.Context, req FridgeRequest) (*FridgeResponse, error) {
	f, err := inventory.NewFridge(req.Name, req.Location, inventory.FridgeKind(req.Kind), req.CapacityCases)
	if err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		f.SetActive(false)
	}
	if err := s.fridgeRepo.Save(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info("Fridge created", zap.String("fridge_id", f.ID.String()), zap.String("name", f.Name))
	resp := ToFridgeResponse(f, nil, s.qr.URLFor(f.QRToken))
	return &resp, nil
}

// Update replaces the fridge details. Capacity cannot shrink below the
// current load.
func (s *FridgeService) Update(ctx context.Context, id uuid.UUID, req FridgeRequest) (*FridgeResponse, error) {
	var (
		f     *inventory.Fridge
		lines []inventory.StockLine
	)
	err := s.txScope.Execute(ctx, func(repos tx.TransactionalRepositories) error {
		var err error
		f, err = repos.Fridges().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := f.Update(req.Name, req.Location, inventory.FridgeKind(req.Kind), req.CapacityCases); err != nil {
			return err
		}
		if req.Active != nil && *req.Active != f.Active {
			f.SetActive(*req.Active)
		}

		rows, err := repos.Stock().FindByFridge(ctx, id)
		if err != nil {
			return err
		}
		items, err := itemsOf(ctx, repos.ProductionItems(), rows)
		if err != nil {
			return err
		}
		lines = stockLines(rows, items)
		if err := f.EnsureCapacity(lines); err != nil {
			return err
		}
		return repos.Fridges().Save(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	resp := ToFridgeResponse(f, lines, s.qr.URLFor(f.QRToken))
	return &resp, nil
}

// Inventory returns the per-item content of a fridge
func (s *FridgeService) Inventory(ctx context.Context, id uuid.UUID) (*FridgeInventoryResponse, error) {
	f, err := s.fridgeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, items, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &FridgeInventoryResponse{
		Fridge: ToFridgeResponse(f, stockLines(rows, items), s.qr.URLFor(f.QRToken)),
		Items:  make([]StockLineResponse, 0, len(rows)),
	}
	for i := range rows {
		if rows[i].Portions == 0 {
			continue
		}
		resp.Items = append(resp.Items, ToStockLineResponse(&rows[i], items[rows[i].ProductionItemID]))
	}
	sort.Slice(resp.Items, func(a, b int) bool {
		return resp.Items[a].ItemName < resp.Items[b].ItemName
	})
	return resp, nil
}

// AdjustStock adds, removes or sets the portions of one item in a fridge
// and records the movement
func (s *FridgeService) AdjustStock(ctx context.Context, fridgeID uuid.UUID, req StockActionRequest) (*StockLineResponse, error) {
	action := inventory.StockAction(req.Action)
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Action must be add, remove or set")
	}
	actor := shared.ActorFrom(ctx)

	var (
		stock *inventory.FridgeStock
		item  *inventory.ProductionItem
		delta int
	)
	err := s.txScope.Execute(ctx, func(repos tx.TransactionalRepositories) error {
		fridge, err := repos.Fridges().FindByIDForUpdate(ctx, fridgeID)
		if err != nil {
			return err
		}
		item, err = repos.ProductionItems().FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if action != inventory.StockActionRemove && !fridge.Active {
			return fridgeInactive(fridge)
		}

		stock, err = repos.Stock().GetForUpdate(ctx, fridgeID, item.ID)
		if err != nil {
			return err
		}
		delta, err = stock.Apply(action, item.Portions(req.Cases, req.Portions))
		if err != nil {
			return err
		}
		if delta > 0 {
			if err := ensureCapacity(ctx, repos, fridge, stock, item); err != nil {
				return err
			}
		}
		if err := repos.Stock().Save(ctx, stock); err != nil {
			return err
		}
		movement := inventory.NewMovement(stock, inventory.MovementKindFor(action), delta, actor.UserID, "", req.Notes)
		return repos.Movements().Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock adjusted",
		zap.String("fridge_id", fridgeID.String()),
		zap.String("sku", item.SKU),
		zap.String("action", req.Action),
		zap.Int("delta", delta),
		zap.Int("balance", stock.Portions))
	resp := ToStockLineResponse(stock, item)
	return &resp, nil
}

// Transfer moves portions of an item from one fridge to another in a
// single transaction. Capacity is checked on the target only.
func (s *FridgeService) Transfer(ctx context.Context, fromID uuid.UUID, req TransferRequest) (*TransferResponse, error) {
	if fromID == req.ToFridgeID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and target fridge must differ")
	}
	actor := shared.ActorFrom(ctx)
	reference := "TRF-" + strings.ToUpper(uuid.NewString()[:8])

	var (
		from, to *inventory.FridgeStock
		item     *inventory.ProductionItem
		qty      int
	)
	err := s.txScope.Execute(ctx, func(repos tx.TransactionalRepositories) error {
		_, target, err := lockFridges(ctx, repos.Fridges(), fromID, req.ToFridgeID)
		if err != nil {
			return err
		}
		if !target.Active {
			return fridgeInactive(target)
		}
		item, err = repos.ProductionItems().FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}
		qty = item.Portions(req.Cases, req.Portions)
		if qty <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}

		from, to, err = lockPair(ctx, repos.Stock(), fromID, req.ToFridgeID, item.ID)
		if err != nil {
			return err
		}
		// the moved portions may come from the oldest batch, and emptying
		// the source clears its expiry
		expiry := from.EarliestExpiry
		if _, err := from.Apply(inventory.StockActionRemove, qty); err != nil {
			return err
		}
		if _, err := to.Apply(inventory.StockActionAdd, qty); err != nil {
			return err
		}
		to.NoteExpiry(expiry)
		if err := ensureCapacity(ctx, repos, target, to, item); err != nil {
			return err
		}

		if err := repos.Stock().Save(ctx, from); err != nil {
			return err
		}
		if err := repos.Stock().Save(ctx, to); err != nil {
			return err
		}
		out := inventory.NewMovement(from, inventory.MovementTransferOut, -qty, actor.UserID, reference, req.Notes)
		if err := repos.Movements().Create(ctx, out); err != nil {
			return err
		}
		in := inventory.NewMovement(to, inventory.MovementTransferIn, qty, actor.UserID, reference, req.Notes)
		return repos.Movements().Create(ctx, in)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock transferred",
		zap.String("reference", reference),
		zap.String("from_fridge_id", fromID.String()),
		zap.String("to_fridge_id", req.ToFridgeID.String()),
		zap.String("sku", item.SKU),
		zap.Int("portions", qty))
	return &TransferResponse{
		Portions: qty,
		From:     ToStockLineResponse(from, item),
		To:       ToStockLineResponse(to, item),
	}, nil
}

// Movements returns the latest audit rows of a fridge
func (s *FridgeService) Movements(ctx context.Context, fridgeID uuid.UUID, limit int) ([]MovementResponse, error) {
	if _, err := s.fridgeRepo.FindByID(ctx, fridgeID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = defaultMovementLimit
	}
	rows, err := s.movementRepo.FindByFridge(ctx, fridgeID, limit)
	if err != nil {
		return nil, err
	}
	result := make([]MovementResponse, len(rows))
	for i := range rows {
		result[i] = ToMovementResponse(&rows[i])
	}
	return result, nil
}

// RotateQR issues a new label token. Printed labels with the old token
// stop resolving.
func (s *FridgeService) RotateQR(ctx context.Context, id uuid.UUID) (*QRRotateResponse, error) {
	f, err := s.fridgeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	token := f.RotateQR()
	if err := s.fridgeRepo.Save(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info("Fridge QR rotated", zap.String("fridge_id", id.String()))
	return &QRRotateResponse{ID: f.ID, QRURL: s.qr.URLFor(token)}, nil
}

// QRCode renders the fridge label as PNG
func (s *FridgeService) QRCode(ctx context.Context, id uuid.UUID, size int) ([]byte, error) {
	f, err := s.fridgeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.qr.PNG(f.QRToken, size)
}

func (s *FridgeService) load(ctx context.Context, fridgeID uuid.UUID) ([]inventory.FridgeStock, map[uuid.UUID]*inventory.ProductionItem, error) {
	rows, err := s.stockRepo.FindByFridge(ctx, fridgeID)
	if err != nil {
		return nil, nil, err
	}
	items, err := itemsOf(ctx, s.itemRepo, rows)
	if err != nil {
		return nil, nil, err
	}
	return rows, items, nil
}

// ensureCapacity checks the fridge load with changed replacing its stored
// row. The caller must hold the fridge lock, otherwise a concurrent write
// of another item can slip past the check.
func ensureCapacity(ctx context.Context, repos tx.TransactionalRepositories, fridge *inventory.Fridge, changed *inventory.FridgeStock, item *inventory.ProductionItem) error {
	rows, err := repos.Stock().FindByFridge(ctx, fridge.ID)
	if err != nil {
		return err
	}
	others := make([]inventory.FridgeStock, 0, len(rows))
	for _, r := range rows {
		if r.ProductionItemID != changed.ProductionItemID {
			others = append(others, r)
		}
	}
	items, err := itemsOf(ctx, repos.ProductionItems(), others)
	if err != nil {
		return err
	}
	lines := stockLines(others, items)
	lines = append(lines, inventory.StockLine{Portions: changed.Portions, PortionsPerCase: item.PortionsPerCase})
	return fridge.EnsureCapacity(lines)
}

// lockFridges locks two fridge rows in a fixed order and returns them as
// (from, to)
func lockFridges(ctx context.Context, fridges inventory.FridgeRepository, fromID, toID uuid.UUID) (*inventory.Fridge, *inventory.Fridge, error) {
	first, second := fromID, toID
	swapped := first.String() > second.String()
	if swapped {
		first, second = second, first
	}
	a, err := fridges.FindByIDForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := fridges.FindByIDForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}
	if swapped {
		return b, a, nil
	}
	return a, b, nil
}

// lockPair locks both stock rows in a fixed order so two opposite
// transfers cannot deadlock
func lockPair(ctx context.Context, stock inventory.StockRepository, fromID, toID, itemID uuid.UUID) (*inventory.FridgeStock, *inventory.FridgeStock, error) {
	first, second := fromID, toID
	swapped := first.String() > second.String()
	if swapped {
		first, second = second, first
	}
	a, err := stock.GetForUpdate(ctx, first, itemID)
	if err != nil {
		return nil, nil, err
	}
	b, err := stock.GetForUpdate(ctx, second, itemID)
	if err != nil {
		return nil, nil, err
	}
	if swapped {
		return b, a, nil
	}
	return a, b, nil
}

func itemsOf(ctx context.Context, repo inventory.ProductionItemRepository, rows []inventory.FridgeStock) (map[uuid.UUID]*inventory.ProductionItem, error) {
	items := make(map[uuid.UUID]*inventory.ProductionItem)
	if len(rows) == 0 {
		return items, nil
	}
	seen := make(map[uuid.UUID]bool, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		if !seen[r.ProductionItemID] {
			seen[r.ProductionItemID] = true
			ids = append(ids, r.ProductionItemID)
		}
	}
	found, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range found {
		items[found[i].ID] = &found[i]
	}
	return items, nil
}

func stockLines(rows []inventory.FridgeStock, items map[uuid.UUID]*inventory.ProductionItem) []inventory.StockLine {
	lines := make([]inventory.StockLine, 0, len(rows))
	for _, r := range rows {
		item, ok := items[r.ProductionItemID]
		if !ok {
			continue
		}
		lines = append(lines, inventory.StockLine{Portions: r.Portions, PortionsPerCase: item.PortionsPerCase})
	}
	return lines
}

func fridgeInactive(f *inventory.Fridge) error {
	return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("%s is not in service", f.Name))
}
