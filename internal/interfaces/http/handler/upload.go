package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	mediaapp "github.com/ramenshop/backend/internal/application/media"
	"github.com/ramenshop/backend/internal/interfaces/http/dto"
)

// multipartOverhead is room for the form boundaries and the folder field
const multipartOverhead = 64 << 10

// UploadHandler handles image uploads for products, recipes and classes
type UploadHandler struct {
	BaseHandler
	mediaService *mediaapp.MediaService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(mediaService *mediaapp.MediaService) *UploadHandler {
	return &UploadHandler{mediaService: mediaService}
}

// Presign godoc
// @ID           presignImageUpload
// @Summary      Get a direct upload URL
// @Description  The browser PUTs the image to upload_url with the returned headers, then saves public_url on the product, recipe or class
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        request body mediaapp.PresignRequest true "File"
// @Success      200 {object} APIResponse[mediaapp.PresignResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /uploads/images/presign [post]
func (h *UploadHandler) Presign(c *gin.Context) {
	var req mediaapp.PresignRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.mediaService.Presign(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Upload godoc
// @ID           uploadImage
// @Summary      Upload an image
// @Description  JPEG, PNG, WebP or GIF. The type is detected from the content, not the file name.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData file   true  "Image"
// @Param        folder formData string false "products, recipes, classes or misc"
// @Success      201 {object} APIResponse[mediaapp.UploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /uploads/images [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	limit := h.mediaService.MaxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
				fmt.Sprintf("Images cannot exceed %d KiB", limit>>10))
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Missing file field")
		return
	}
	f, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()

	resp, err := h.mediaService.Upload(c.Request.Context(), c.PostForm("folder"), header.Filename, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
