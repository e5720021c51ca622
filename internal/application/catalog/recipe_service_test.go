package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRecipeService_List_PublishedOnlyForPublic(t *testing.T) {
	repo := new(MockRecipeRepository)
	svc := NewRecipeService(repo, zap.NewNop())

	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f catalog.RecipeFilter) bool {
		return f.PublishedOnly
	})).Return([]catalog.Recipe{}, int64(0), nil).Once()
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f catalog.RecipeFilter) bool {
		return !f.PublishedOnly
	})).Return([]catalog.Recipe{}, int64(0), nil).Once()

	_, err := svc.List(context.Background(), ListParams{})
	require.NoError(t, err)
	_, err = svc.List(staffCtx(), ListParams{})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecipeService_PublishNeedsSteps(t *testing.T) {
	repo := new(MockRecipeRepository)
	svc := NewRecipeService(repo, zap.NewNop())

	draft, err := catalog.NewRecipe(catalog.RecipeDetails{Title: "Ajitama", Servings: 6})
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, draft.ID).Return(draft, nil)

	_, err = svc.SetPublished(staffCtx(), draft.ID, true)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_STATE", de.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRecipeService_CreateAndPublish(t *testing.T) {
	repo := new(MockRecipeRepository)
	svc := NewRecipeService(repo, zap.NewNop())

	repo.On("ExistsBySlug", mock.Anything, "ajitama-eggs", uuid.Nil).Return(false, nil)
	var saved *catalog.Recipe
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Recipe")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*catalog.Recipe) }).
		Return(nil)

	created, err := svc.Create(staffCtx(), RecipeRequest{
		Title:       "Ajitama Eggs",
		Ingredients: []string{"6 eggs", " ", "100ml shoyu tare"},
		Steps:       []string{"Boil for 6:30", "Marinate overnight"},
		PrepMinutes: 10,
		CookMinutes: 7,
		Servings:    6,
	})
	require.NoError(t, err)
	assert.False(t, created.Published)
	assert.Equal(t, 17, created.TotalMinutes)
	assert.Len(t, created.Ingredients, 2)

	repo.On("FindByID", mock.Anything, saved.ID).Return(saved, nil)
	published, err := svc.SetPublished(staffCtx(), saved.ID, true)
	require.NoError(t, err)
	assert.True(t, published.Published)
}

func TestRecipeService_GetBySlug_HidesDrafts(t *testing.T) {
	repo := new(MockRecipeRepository)
	svc := NewRecipeService(repo, zap.NewNop())

	draft, err := catalog.NewRecipe(catalog.RecipeDetails{Title: "Chili Oil", Servings: 10})
	require.NoError(t, err)
	repo.On("FindBySlug", mock.Anything, "chili-oil").Return(draft, nil)

	_, err = svc.GetBySlug(context.Background(), "chili-oil")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
