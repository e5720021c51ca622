package assistant

import "context"

// Roles of a chat turn
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation
type Message struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required,max=8000"`
}

// Completion is the model's answer
type Completion struct {
	Text         string `json:"text"`
	Model        string `json:"model"`
	PromptTokens int    `json:"prompt_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// LanguageModel generates a reply to a conversation under a system prompt
type LanguageModel interface {
	Generate(ctx context.Context, system string, messages []Message) (*Completion, error)
}
