package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) Generate(ctx context.Context, system string, messages []Message) (*Completion, error) {
	args := m.Called(ctx, system, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Completion), args.Error(1)
}

func TestAssistantService_Unavailable(t *testing.T) {
	svc := NewAssistantService(nil, zap.NewNop())
	assert.False(t, svc.Available())

	_, err := svc.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = svc.Draft(context.Background(), DraftRequest{Kind: DraftProduct, Title: "Shoyu"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAssistantService_Chat(t *testing.T) {
	model := new(MockLanguageModel)
	model.On("Generate", mock.Anything, mock.MatchedBy(func(system string) bool {
		return strings.HasSuffix(system, "about: winter menu.")
	}), mock.Anything).Return(&Completion{Text: "  Try: rich pork broth.  ", Model: "gemini-test", PromptTokens: 120, OutputTokens: 8}, nil)
	svc := NewAssistantService(model, zap.NewNop())

	reply, err := svc.Chat(context.Background(), ChatRequest{
		Topic:    "winter menu",
		Messages: []Message{{Role: RoleUser, Content: "Describe tonkotsu in five words"}},
	})
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, reply.Message.Role)
	assert.Equal(t, "Try: rich pork broth.", reply.Message.Content)
	assert.Equal(t, 120, reply.Usage.PromptTokens)
}

func TestAssistantService_ChatNeedsUserTurnLast(t *testing.T) {
	svc := NewAssistantService(new(MockLanguageModel), zap.NewNop())
	_, err := svc.Chat(context.Background(), ChatRequest{Messages: []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_CONVERSATION", de.Code)
}

func TestAssistantService_Draft(t *testing.T) {
	model := new(MockLanguageModel)
	model.On("Generate", mock.Anything, systemPrompt, mock.MatchedBy(func(msgs []Message) bool {
		return len(msgs) == 1 && msgs[0].Role == RoleUser &&
			strings.Contains(msgs[0].Content, "Title: Miso Butter Corn") &&
			strings.Contains(msgs[0].Content, "charred corn")
	})).Return(&Completion{Text: "Sweet corn, miso, butter.", Model: "gemini-test"}, nil)
	svc := NewAssistantService(model, zap.NewNop())

	reply, err := svc.Draft(context.Background(), DraftRequest{Kind: DraftProduct, Title: "Miso Butter Corn", Notes: "charred corn"})
	require.NoError(t, err)
	assert.Equal(t, "Sweet corn, miso, butter.", reply.Message.Content)
	model.AssertExpectations(t)
}

func TestAssistantService_ModelFailure(t *testing.T) {
	model := new(MockLanguageModel)
	model.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))
	svc := NewAssistantService(model, zap.NewNop())

	_, err := svc.Draft(context.Background(), DraftRequest{Kind: DraftClass, Title: "Gyoza night"})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "ASSISTANT_FAILED", de.Code)
}
