package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/contact"
	"github.com/ramenshop/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormContactRepository implements contact.Repository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a message by ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Message, error) {
	var m contact.Message
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// FindAll lists messages, newest first by default
func (r *GormContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contact.Message, int64, error) {
	query := r.db.WithContext(ctx).Model(&contact.Message{})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(subject) LIKE ?", pattern, pattern, pattern)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	var messages []contact.Message
	total, err := listPage(query, paginate(filter, ContactSortFields, "created_at"), &messages)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// Save creates or updates a message
func (r *GormContactRepository) Save(ctx context.Context, m *contact.Message) error {
	return translate(r.db.WithContext(ctx).Save(m).Error)
}

var _ contact.Repository = (*GormContactRepository)(nil)
