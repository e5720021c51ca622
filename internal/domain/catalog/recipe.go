package catalog

import (
	"strings"

	"github.com/ramenshop/backend/internal/domain/shared"
)

// Recipe is a published how-to shown in the storefront
type Recipe struct {
	shared.BaseAggregateRoot
	Title       string   `gorm:"type:varchar(200);not null"`
	Slug        string   `gorm:"type:varchar(120);not null;uniqueIndex"`
	Summary     string   `gorm:"type:text"`
	Ingredients []string `gorm:"type:jsonb;serializer:json;not null"`
	Steps       []string `gorm:"type:jsonb;serializer:json;not null"`
	PrepMinutes int      `gorm:"not null;default:0"`
	CookMinutes int      `gorm:"not null;default:0"`
	Servings    int      `gorm:"not null;default:1"`
	ImageURL    string   `gorm:"type:varchar(500)"`
	Published   bool     `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeDetails carries the editable fields of a recipe
type RecipeDetails struct {
	Title       string
	Slug        string
	Summary     string
	Ingredients []string
	Steps       []string
	PrepMinutes int
	CookMinutes int
	Servings    int
	ImageURL    string
}

// NewRecipe creates an unpublished recipe
func NewRecipe(d RecipeDetails) (*Recipe, error) {
	r := &Recipe{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := r.apply(d); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the editable fields
func (r *Recipe) Update(d RecipeDetails) error {
	if err := r.apply(d); err != nil {
		return err
	}
	r.IncrementVersion()
	return nil
}

// SetPublished publishes or hides the recipe
func (r *Recipe) SetPublished(published bool) error {
	if published && (len(r.Ingredients) == 0 || len(r.Steps) == 0) {
		return shared.NewDomainError("INVALID_STATE", "A recipe needs ingredients and steps before publishing")
	}
	r.Published = published
	r.IncrementVersion()
	return nil
}

// TotalMinutes is prep plus cook time
func (r *Recipe) TotalMinutes() int {
	return r.PrepMinutes + r.CookMinutes
}

func (r *Recipe) apply(d RecipeDetails) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Recipe title cannot be empty")
	}
	if d.PrepMinutes < 0 || d.CookMinutes < 0 {
		return shared.NewDomainError("INVALID_DURATION", "Times cannot be negative")
	}
	if d.Servings < 1 {
		return shared.NewDomainError("INVALID_SERVINGS", "Servings must be at least 1")
	}
	slug, err := resolveSlug(d.Slug, title)
	if err != nil {
		return err
	}
	ingredients, steps := compact(d.Ingredients), compact(d.Steps)
	if r.Published && (len(ingredients) == 0 || len(steps) == 0) {
		return shared.NewDomainError("INVALID_STATE", "A published recipe needs ingredients and steps")
	}
	r.Title = title
	r.Slug = slug
	r.Summary = strings.TrimSpace(d.Summary)
	r.Ingredients = ingredients
	r.Steps = steps
	r.PrepMinutes = d.PrepMinutes
	r.CookMinutes = d.CookMinutes
	r.Servings = d.Servings
	r.ImageURL = strings.TrimSpace(d.ImageURL)
	return nil
}

func compact(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
