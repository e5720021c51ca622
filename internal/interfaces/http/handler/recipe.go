package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/ramenshop/backend/internal/application/catalog"
)

// RecipeHandler handles recipes
type RecipeHandler struct {
	BaseHandler
	recipeService *catalogapp.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeService *catalogapp.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// List godoc
// @ID           listRecipes
// @Summary      List recipes
// @Description  Drafts are only listed for staff
// @Tags         recipes
// @Produce      json
// @Param        search    query string false "Title contains"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalogapp.RecipeResponse]
// @Router       /recipes [get]
func (h *RecipeHandler) List(c *gin.Context) {
	var p catalogapp.ListParams
	if !h.bindQuery(c, &p) {
		return
	}
	page, err := h.recipeService.List(c.Request.Context(), p)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetBySlug godoc
// @ID           getRecipe
// @Summary      Get a recipe
// @Tags         recipes
// @Produce      json
// @Param        slug path string true "Recipe slug"
// @Success      200 {object} APIResponse[catalogapp.RecipeResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /recipes/{slug} [get]
func (h *RecipeHandler) GetBySlug(c *gin.Context) {
	recipe, err := h.recipeService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recipe)
}

// Create godoc
// @ID           createRecipe
// @Summary      Create a recipe
// @Description  New recipes start unpublished
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.RecipeRequest true "Recipe"
// @Success      201 {object} APIResponse[catalogapp.RecipeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recipes [post]
func (h *RecipeHandler) Create(c *gin.Context) {
	var req catalogapp.RecipeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, recipe)
}

// Update godoc
// @ID           updateRecipe
// @Summary      Replace a recipe
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        id      path string                 true "Recipe ID" format(uuid)
// @Param        request body catalogapp.RecipeRequest true "Recipe"
// @Success      200 {object} APIResponse[catalogapp.RecipeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recipes/{id} [put]
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.RecipeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipeService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recipe)
}

// SetPublished godoc
// @ID           publishRecipe
// @Summary      Publish or hide a recipe
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Recipe ID" format(uuid)
// @Param        request body catalogapp.PublishRequest true "Published flag"
// @Success      200 {object} APIResponse[catalogapp.RecipeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recipes/{id}/publish [patch]
func (h *RecipeHandler) SetPublished(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.PublishRequest
	if !h.bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipeService.SetPublished(c.Request.Context(), id, *req.Published)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recipe)
}

// Delete godoc
// @ID           deleteRecipe
// @Summary      Delete a recipe
// @Tags         recipes
// @Param        id path string true "Recipe ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recipes/{id} [delete]
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.recipeService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
