// Package llm adapts hosted language models to the assistant.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ramenshop/backend/internal/application/assistant"
	"github.com/ramenshop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model produced no text
var ErrEmptyResponse = errors.New("model returned no text")

// generator is the part of genai.Models used here
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini generates text through the Gemini API
type Gemini struct {
	models          generator
	model           string
	maxOutputTokens int32
	temperature     float32
	timeout         time.Duration
	logger          *zap.Logger
}

// NewGemini creates a client for cfg. It fails without an API key.
func NewGemini(ctx context.Context, cfg config.AssistantConfig, logger *zap.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("assistant API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGemini(client.Models, cfg, logger), nil
}

func newGemini(models generator, cfg config.AssistantConfig, logger *zap.Logger) *Gemini {
	return &Gemini{
		models:          models,
		model:           cfg.Model,
		maxOutputTokens: int32(cfg.MaxOutputTokens),
		temperature:     float32(cfg.Temperature),
		timeout:         cfg.Timeout,
		logger:          logger,
	}
}

// Generate sends the conversation with system as the system instruction
func (g *Gemini) Generate(ctx context.Context, system string, messages []assistant.Message) (*assistant.Completion, error) {
	if len(messages) == 0 {
		return nil, errors.New("conversation is empty")
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == assistant.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxOutputTokens,
	}
	if strings.TrimSpace(system) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, ErrEmptyResponse
	}

	out := &assistant.Completion{Text: text, Model: g.model}
	if u := resp.UsageMetadata; u != nil {
		out.PromptTokens = int(u.PromptTokenCount)
		out.OutputTokens = int(u.CandidatesTokenCount)
	}
	g.logger.Info("Assistant completion",
		zap.String("model", g.model),
		zap.Int("prompt_tokens", out.PromptTokens),
		zap.Int("output_tokens", out.OutputTokens),
		zap.Duration("latency", time.Since(start)),
	)
	return out, nil
}

var _ assistant.LanguageModel = (*Gemini)(nil)
