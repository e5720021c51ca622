package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const maxTurns = 30

// ErrUnavailable is returned when no language model is configured
var ErrUnavailable = shared.NewDomainError("ASSISTANT_UNAVAILABLE", "The assistant is not configured")

const systemPrompt = `You are the content assistant for a small ramen shop's back office.
Staff use you to write and polish menu item descriptions, recipe summaries
and steps, workshop (class) listings, newsletter blurbs and replies to
customer messages.
Keep a warm, direct voice. Prefer short sentences. Never invent prices,
allergens, dates or opening hours: leave a clearly marked placeholder
such as [PRICE] when a fact is missing. Answer in the language the staff
member writes in.`

// Draft kinds
const (
	DraftProduct = "product"
	DraftRecipe  = "recipe"
	DraftClass   = "class"
)

var draftBriefs = map[string]string{
	DraftProduct: "Write a menu description of 40 to 70 words for the dish below. Mention texture and the main flavours. No headline.",
	DraftRecipe:  "Write a two sentence summary for the recipe below, then a numbered list of concise steps a home cook can follow.",
	DraftClass:   "Write a workshop listing of 60 to 100 words for the class below: what participants make, what they take home, who it suits.",
}

// ChatRequest is a conversation with the assistant. The last message must
// come from the user.
type ChatRequest struct {
	Messages []Message `json:"messages" binding:"required,min=1,max=30,dive"`
	Topic    string    `json:"topic" binding:"max=100"`
}

// DraftRequest asks for a description draft
type DraftRequest struct {
	Kind  string `json:"kind" binding:"required,oneof=product recipe class"`
	Title string `json:"title" binding:"required,max=200"`
	Notes string `json:"notes" binding:"max=2000"`
}

// Reply is the assistant's answer
type Reply struct {
	Message Message `json:"message"`
	Model   string  `json:"model"`
	Usage   Usage   `json:"usage"`
}

// Usage counts tokens spent on a reply
type Usage struct {
	PromptTokens int `json:"prompt_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// AssistantService helps staff write shop content
type AssistantService struct {
	model  LanguageModel
	logger *zap.Logger
}

// NewAssistantService creates a new AssistantService. A nil model makes
// every call fail with ErrUnavailable.
func NewAssistantService(model LanguageModel, logger *zap.Logger) *AssistantService {
	return &AssistantService{model: model, logger: logger}
}

// Available reports whether a model is configured
func (s *AssistantService) Available() bool {
	return s.model != nil
}

// Chat continues a conversation
func (s *AssistantService) Chat(ctx context.Context, req ChatRequest) (*Reply, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	msgs := req.Messages
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != RoleUser {
		return nil, shared.NewDomainError("INVALID_CONVERSATION", "The last message must come from the user")
	}
	if len(msgs) > maxTurns {
		msgs = msgs[len(msgs)-maxTurns:]
	}
	system := systemPrompt
	if t := strings.TrimSpace(req.Topic); t != "" {
		system += "\nThe conversation is about: " + t + "."
	}
	return s.generate(ctx, "chat", system, msgs)
}

// Draft writes a first version of a product, recipe or class description
func (s *AssistantService) Draft(ctx context.Context, req DraftRequest) (*Reply, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	brief, ok := draftBriefs[req.Kind]
	if !ok {
		return nil, shared.NewDomainError("INVALID_KIND", "Kind must be product, recipe or class")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nTitle: %s\n", brief, strings.TrimSpace(req.Title))
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		fmt.Fprintf(&b, "Notes from the kitchen:\n%s\n", notes)
	}
	return s.generate(ctx, "draft:"+req.Kind, systemPrompt, []Message{{Role: RoleUser, Content: b.String()}})
}

func (s *AssistantService) generate(ctx context.Context, purpose, system string, msgs []Message) (*Reply, error) {
	out, err := s.model.Generate(ctx, system, msgs)
	if err != nil {
		s.logger.Error("Assistant request failed", zap.String("purpose", purpose), zap.Error(err))
		return nil, shared.NewDomainError("ASSISTANT_FAILED", "The assistant could not answer right now")
	}
	s.logger.Info("Assistant replied",
		zap.String("purpose", purpose),
		zap.String("model", out.Model),
		zap.Int("prompt_tokens", out.PromptTokens),
		zap.Int("output_tokens", out.OutputTokens),
		zap.String("user_id", shared.ActorFrom(ctx).UserID.String()))
	return &Reply{
		Message: Message{Role: RoleAssistant, Content: strings.TrimSpace(out.Text)},
		Model:   out.Model,
		Usage:   Usage{PromptTokens: out.PromptTokens, OutputTokens: out.OutputTokens},
	}, nil
}
