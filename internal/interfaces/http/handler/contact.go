package handler

import (
	"github.com/gin-gonic/gin"
	contactapp "github.com/ramenshop/backend/internal/application/contact"
)

// ContactHandler handles the public contact form and the staff inbox
type ContactHandler struct {
	BaseHandler
	contactService *contactapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *contactapp.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit godoc
// @ID           submitContact
// @Summary      Send a message to the shop
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        request body contactapp.SubmitRequest true "Message"
// @Success      201 {object} APIResponse[contactapp.SubmitResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactapp.SubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.contactService.Submit(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listContactMessages
// @Summary      Contact inbox
// @Tags         contact
// @Produce      json
// @Param        status    query string false "new, read or archived"
// @Param        search    query string false "Name, email or subject contains"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]contactapp.MessageResponse]
// @Security     BearerAuth
// @Router       /contact-messages [get]
func (h *ContactHandler) List(c *gin.Context) {
	var f contactapp.ListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.contactService.List(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// SetStatus godoc
// @ID           setContactMessageStatus
// @Summary      Mark a message read or archived
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Message ID" format(uuid)
// @Param        request body contactapp.StatusRequest true "Status"
// @Success      200 {object} APIResponse[contactapp.MessageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contact-messages/{id} [patch]
func (h *ContactHandler) SetStatus(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req contactapp.StatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	msg, err := h.contactService.SetStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, msg)
}
