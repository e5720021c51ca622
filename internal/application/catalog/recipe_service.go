package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RecipeService manages published recipes
type RecipeService struct {
	recipeRepo catalog.RecipeRepository
	logger     *zap.Logger
}

// NewRecipeService creates a new RecipeService
func NewRecipeService(recipeRepo catalog.RecipeRepository, logger *zap.Logger) *RecipeService {
	return &RecipeService{recipeRepo: recipeRepo, logger: logger}
}

// List returns a page of recipes; drafts are listed for staff only
func (s *RecipeService) List(ctx context.Context, p ListParams) (*shared.Paginated[RecipeResponse], error) {
	filter := catalog.RecipeFilter{
		Filter:        p.filter("created_at", "desc"),
		PublishedOnly: !shared.ActorFrom(ctx).IsStaff(),
	}
	recipes, total, err := s.recipeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		items[i] = ToRecipeResponse(&recipes[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// GetBySlug returns one recipe
func (s *RecipeService) GetBySlug(ctx context.Context, slug string) (*RecipeResponse, error) {
	recipe, err := s.recipeRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !recipe.Published && !shared.ActorFrom(ctx).IsStaff() {
		return nil, shared.ErrNotFound
	}
	resp := ToRecipeResponse(recipe)
	return &resp, nil
}

// Create adds an unpublished recipe
func (s *RecipeService) Create(ctx context.Context, req RecipeRequest) (*RecipeResponse, error) {
	recipe, err := catalog.NewRecipe(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, recipe.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.Save(ctx, recipe); err != nil {
		return nil, err
	}
	s.logger.Info("Recipe created", zap.String("recipe_id", recipe.ID.String()), zap.String("slug", recipe.Slug))
	resp := ToRecipeResponse(recipe)
	return &resp, nil
}

// Update replaces a recipe's content
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, req RecipeRequest) (*RecipeResponse, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := recipe.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, recipe.Slug, recipe.ID); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.Save(ctx, recipe); err != nil {
		return nil, err
	}
	resp := ToRecipeResponse(recipe)
	return &resp, nil
}

// SetPublished publishes or unpublishes a recipe
func (s *RecipeService) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*RecipeResponse, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := recipe.SetPublished(published); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.Save(ctx, recipe); err != nil {
		return nil, err
	}
	s.logger.Info("Recipe visibility changed",
		zap.String("recipe_id", recipe.ID.String()),
		zap.Bool("published", published))
	resp := ToRecipeResponse(recipe)
	return &resp, nil
}

// Delete removes a recipe
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.recipeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Recipe deleted", zap.String("recipe_id", id.String()))
	return nil
}

func (s *RecipeService) ensureSlugFree(ctx context.Context, slug string, self uuid.UUID) error {
	taken, err := s.recipeRepo.ExistsBySlug(ctx, slug, self)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError("SLUG_TAKEN", "Another recipe already uses slug "+slug)
	}
	return nil
}
