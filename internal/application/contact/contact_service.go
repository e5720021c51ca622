package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/contact"
	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SubmitRequest is the public contact form
type SubmitRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,min=5,max=5000"`
}

// StatusRequest triages a message
type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=read archived"`
}

// ListFilter narrows the staff inbox
type ListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=new read archived"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// MessageResponse is the staff view of a contact message
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubmitResponse acknowledges a submission without echoing it back
type SubmitResponse struct {
	ID       uuid.UUID `json:"id"`
	Received bool      `json:"received"`
}

// ToMessageResponse maps a message
func ToMessageResponse(m *contact.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Body,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ContactService stores contact form messages
type ContactService struct {
	repo   contact.Repository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(repo contact.Repository, events shared.EventPublisher, logger *zap.Logger) *ContactService {
	return &ContactService{repo: repo, events: events, logger: logger}
}

// Submit stores a message from the public form and notifies the shop
func (s *ContactService) Submit(ctx context.Context, req SubmitRequest, ip string) (*SubmitResponse, error) {
	m, err := contact.NewMessage(req.Name, req.Email, req.Subject, req.Message, ip)
	if err != nil {
		return nil, err
	}
	// visitors are anonymous; the row is written on their behalf
	if err := s.repo.Save(shared.WithActor(ctx, shared.ServiceActor()), m); err != nil {
		return nil, err
	}
	s.logger.Info("Contact message received", zap.String("message_id", m.ID.String()), zap.String("subject", m.Subject))
	if err := shared.PublishAndClear(ctx, s.events, m); err != nil {
		s.logger.Warn("Failed to publish contact events", zap.String("message_id", m.ID.String()), zap.Error(err))
	}
	return &SubmitResponse{ID: m.ID, Received: true}, nil
}

// List returns the inbox, newest first
func (s *ContactService) List(ctx context.Context, f ListFilter) (*shared.Paginated[MessageResponse], error) {
	filter := shared.DefaultFilter()
	filter.OrderBy, filter.OrderDir = "created_at", "desc"
	filter.Search = f.Search
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.Status != "" {
		filter = filter.WithFilter("status", f.Status)
	}

	msgs, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := make([]MessageResponse, len(msgs))
	for i := range msgs {
		result[i] = ToMessageResponse(&msgs[i])
	}
	page := shared.NewPaginated(result, total, filter.Page, filter.Limit())
	return &page, nil
}

// SetStatus marks a message read or archived
func (s *ContactService) SetStatus(ctx context.Context, id uuid.UUID, req StatusRequest) (*MessageResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.SetStatus(contact.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMessageResponse(m)
	return &resp, nil
}
