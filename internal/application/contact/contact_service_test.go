package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/contact"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Message), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contact.Message, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]contact.Message), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Save(ctx context.Context, msg *contact.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type recordingPublisher struct {
	events []shared.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return p.err
}

func TestContactService_Submit(t *testing.T) {
	repo := new(MockRepository)
	events := &recordingPublisher{}
	repo.On("Save", mock.MatchedBy(func(ctx context.Context) bool {
		return shared.ActorFrom(ctx).Service
	}), mock.AnythingOfType("*contact.Message")).Return(nil)
	svc := NewContactService(repo, events, zap.NewNop())

	resp, err := svc.Submit(context.Background(), SubmitRequest{
		Name:    "Aki",
		Email:   "aki@example.com",
		Message: "Can I book the back room for twelve?",
	}, "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, resp.Received)
	require.Len(t, events.events, 1)
	received := events.events[0].(*contact.MessageReceivedEvent)
	assert.Equal(t, "General enquiry", received.Subject)
	repo.AssertExpectations(t)
}

func TestContactService_SubmitSurvivesPublishFailure(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	svc := NewContactService(repo, &recordingPublisher{err: errors.New("mail down")}, zap.NewNop())

	_, err := svc.Submit(context.Background(), SubmitRequest{Name: "Aki", Email: "aki@example.com", Message: "Hello there"}, "")
	assert.NoError(t, err)
}

func TestContactService_SubmitValidates(t *testing.T) {
	repo := new(MockRepository)
	svc := NewContactService(repo, &recordingPublisher{}, zap.NewNop())

	_, err := svc.Submit(context.Background(), SubmitRequest{Name: "Aki", Email: "nope", Message: "Hello there"}, "")
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_EMAIL", de.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestContactService_ListFiltersByStatus(t *testing.T) {
	repo := new(MockRepository)
	m, err := contact.NewMessage("Aki", "aki@example.com", "Catering", "Hello there", "")
	require.NoError(t, err)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "new" && f.OrderDir == "desc" && f.Search == "aki"
	})).Return([]contact.Message{*m}, int64(1), nil)
	svc := NewContactService(repo, &recordingPublisher{}, zap.NewNop())

	page, err := svc.List(context.Background(), ListFilter{Status: "new", Search: "aki"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Hello there", page.Items[0].Message)
}

func TestContactService_SetStatus(t *testing.T) {
	repo := new(MockRepository)
	m, err := contact.NewMessage("Aki", "aki@example.com", "", "Hello there", "")
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	repo.On("Save", mock.Anything, m).Return(nil)
	svc := NewContactService(repo, &recordingPublisher{}, zap.NewNop())

	resp, err := svc.SetStatus(context.Background(), m.ID, StatusRequest{Status: "archived"})
	require.NoError(t, err)
	assert.Equal(t, "archived", resp.Status)

	_, err = svc.SetStatus(context.Background(), m.ID, StatusRequest{Status: "new"})
	assert.Error(t, err)
}
