package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/ramenshop/backend/internal/domain/inventory"
	"github.com/ramenshop/backend/internal/domain/shared"
)

// QRService resolves scanned label tokens
type QRService struct {
	fridgeRepo inventory.FridgeRepository
	itemRepo   inventory.ProductionItemRepository
}

// NewQRService creates a new QRService
func NewQRService(fridgeRepo inventory.FridgeRepository, itemRepo inventory.ProductionItemRepository) *QRService {
	return &QRService{fridgeRepo: fridgeRepo, itemRepo: itemRepo}
}

// Resolve maps a token to the fridge or production item it labels
func (s *QRService) Resolve(ctx context.Context, token string) (*QRTarget, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, shared.ErrNotFound
	}

	f, err := s.fridgeRepo.FindByQRToken(ctx, token)
	if err == nil {
		return &QRTarget{Kind: QRKindFridge, ID: f.ID, Name: f.Name}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err := s.itemRepo.FindByQRToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &QRTarget{Kind: QRKindProductionItem, ID: item.ID, Name: item.Name}, nil
}
