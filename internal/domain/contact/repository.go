package contact

import (
	"context"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
)

// Repository persists contact messages
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	// FindAll supports filter "status"; Search matches name, email and subject
	FindAll(ctx context.Context, filter shared.Filter) ([]Message, int64, error)
	Save(ctx context.Context, m *Message) error
}
