package handler

import (
	"github.com/gin-gonic/gin"
	assistantapp "github.com/ramenshop/backend/internal/application/assistant"
)

// AssistantHandler exposes the staff writing assistant
type AssistantHandler struct {
	BaseHandler
	assistantService *assistantapp.AssistantService
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(assistantService *assistantapp.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// AssistantStatus tells the back office whether to show the assistant
type AssistantStatus struct {
	Available bool `json:"available"`
}

// Status godoc
// @ID           getAssistantStatus
// @Summary      Is the assistant configured
// @Tags         assistant
// @Produce      json
// @Success      200 {object} APIResponse[AssistantStatus]
// @Security     BearerAuth
// @Router       /assistant [get]
func (h *AssistantHandler) Status(c *gin.Context) {
	h.Success(c, AssistantStatus{Available: h.assistantService.Available()})
}

// Chat godoc
// @ID           assistantChat
// @Summary      Continue a conversation
// @Description  Only the most recent turns are sent to the model
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        request body assistantapp.ChatRequest true "Conversation"
// @Success      200 {object} APIResponse[assistantapp.Reply]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assistant/chat [post]
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req assistantapp.ChatRequest
	if !h.bindJSON(c, &req) {
		return
	}
	reply, err := h.assistantService.Chat(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reply)
}

// Draft godoc
// @ID           assistantDraft
// @Summary      Draft a description
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        request body assistantapp.DraftRequest true "What to describe"
// @Success      200 {object} APIResponse[assistantapp.Reply]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assistant/draft [post]
func (h *AssistantHandler) Draft(c *gin.Context) {
	var req assistantapp.DraftRequest
	if !h.bindJSON(c, &req) {
		return
	}
	reply, err := h.assistantService.Draft(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reply)
}
