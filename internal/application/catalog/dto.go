package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ListParams are the paging and ordering query parameters shared by the
// catalog listings
type ListParams struct {
	Search   string `form:"search" binding:"omitempty,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,max=30"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (p ListParams) filter(defaultBy, defaultDir string) shared.Filter {
	f := shared.DefaultFilter()
	f.OrderBy, f.OrderDir = defaultBy, defaultDir
	if p.Page > 0 {
		f.Page = p.Page
	}
	if p.PageSize > 0 {
		f.PageSize = p.PageSize
	}
	if p.OrderBy != "" {
		f.OrderBy = p.OrderBy
		f.OrderDir = p.OrderDir
	}
	f.Search = p.Search
	return f
}

// ========== Products ==========

// ProductRequest creates or replaces a product
type ProductRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Slug        string          `json:"slug" binding:"omitempty,max=120"`
	Description string          `json:"description" binding:"max=5000"`
	Category    string          `json:"category" binding:"max=50"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"14.50"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url,max=500"`
	Featured    bool            `json:"featured"`
	SortOrder   int             `json:"sort_order"`
}

func (r ProductRequest) details() catalog.ProductDetails {
	return catalog.ProductDetails{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Featured:    r.Featured,
		SortOrder:   r.SortOrder,
	}
}

// AvailabilityRequest toggles a product
type AvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// ProductListFilter are the product listing query parameters
type ProductListFilter struct {
	ListParams
	Category string `form:"category" binding:"omitempty,max=50"`
	Featured *bool  `form:"featured"`
	// Available is honoured for staff only; everyone else sees available products
	Available *bool `form:"available"`
}

// ProductResponse is a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	ImageURL    string          `json:"image_url,omitempty"`
	Available   bool            `json:"available"`
	Featured    bool            `json:"featured"`
	SortOrder   int             `json:"sort_order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Available:   p.Available,
		Featured:    p.Featured,
		SortOrder:   p.SortOrder,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ========== Recipes ==========

// RecipeRequest creates or replaces a recipe
type RecipeRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Slug        string   `json:"slug" binding:"omitempty,max=120"`
	Summary     string   `json:"summary" binding:"max=1000"`
	Ingredients []string `json:"ingredients" binding:"max=100,dive,max=300"`
	Steps       []string `json:"steps" binding:"max=100,dive,max=2000"`
	PrepMinutes int      `json:"prep_minutes" binding:"min=0"`
	CookMinutes int      `json:"cook_minutes" binding:"min=0"`
	Servings    int      `json:"servings" binding:"required,min=1"`
	ImageURL    string   `json:"image_url" binding:"omitempty,url,max=500"`
}

func (r RecipeRequest) details() catalog.RecipeDetails {
	return catalog.RecipeDetails{
		Title:       r.Title,
		Slug:        r.Slug,
		Summary:     r.Summary,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		PrepMinutes: r.PrepMinutes,
		CookMinutes: r.CookMinutes,
		Servings:    r.Servings,
		ImageURL:    r.ImageURL,
	}
}

// PublishRequest publishes or hides a recipe
type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// RecipeResponse is a recipe in API responses
type RecipeResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Summary      string    `json:"summary"`
	Ingredients  []string  `json:"ingredients"`
	Steps        []string  `json:"steps"`
	PrepMinutes  int       `json:"prep_minutes"`
	CookMinutes  int       `json:"cook_minutes"`
	TotalMinutes int       `json:"total_minutes"`
	Servings     int       `json:"servings"`
	ImageURL     string    `json:"image_url,omitempty"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToRecipeResponse converts a recipe
func ToRecipeResponse(r *catalog.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:           r.ID,
		Title:        r.Title,
		Slug:         r.Slug,
		Summary:      r.Summary,
		Ingredients:  r.Ingredients,
		Steps:        r.Steps,
		PrepMinutes:  r.PrepMinutes,
		CookMinutes:  r.CookMinutes,
		TotalMinutes: r.TotalMinutes(),
		Servings:     r.Servings,
		ImageURL:     r.ImageURL,
		Published:    r.Published,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ========== Classes ==========

// ClassRequest creates or replaces a class
type ClassRequest struct {
	Title           string          `json:"title" binding:"required,max=200"`
	Slug            string          `json:"slug" binding:"omitempty,max=120"`
	Description     string          `json:"description" binding:"max=5000"`
	Instructor      string          `json:"instructor" binding:"max=150"`
	StartsAt        time.Time       `json:"starts_at" binding:"required"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=1,max=720"`
	Capacity        int             `json:"capacity" binding:"required,min=1,max=500"`
	Price           decimal.Decimal `json:"price" swaggertype:"string" example:"65.00"`
	Location        string          `json:"location" binding:"max=200"`
	ImageURL        string          `json:"image_url" binding:"omitempty,url,max=500"`
}

func (r ClassRequest) details() catalog.ClassDetails {
	return catalog.ClassDetails{
		Title:           r.Title,
		Slug:            r.Slug,
		Description:     r.Description,
		Instructor:      r.Instructor,
		StartsAt:        r.StartsAt,
		DurationMinutes: r.DurationMinutes,
		Capacity:        r.Capacity,
		Price:           r.Price,
		Location:        r.Location,
		ImageURL:        r.ImageURL,
	}
}

// ClassListFilter are the class listing query parameters
type ClassListFilter struct {
	ListParams
	// IncludePast lists classes that already started; staff only
	IncludePast bool   `form:"include_past"`
	Status      string `form:"status" binding:"omitempty,oneof=scheduled cancelled"`
}

// ClassResponse is a class in API responses
type ClassResponse struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	Instructor      string          `json:"instructor"`
	StartsAt        time.Time       `json:"starts_at"`
	EndsAt          time.Time       `json:"ends_at"`
	DurationMinutes int             `json:"duration_minutes"`
	Capacity        int             `json:"capacity"`
	SeatsBooked     int             `json:"seats_booked"`
	SeatsLeft       int             `json:"seats_left"`
	Price           decimal.Decimal `json:"price" swaggertype:"string"`
	Location        string          `json:"location"`
	ImageURL        string          `json:"image_url,omitempty"`
	Status          string          `json:"status"`
}

// ToClassResponse converts a class
func ToClassResponse(c *catalog.Class) ClassResponse {
	return ClassResponse{
		ID:              c.ID,
		Title:           c.Title,
		Slug:            c.Slug,
		Description:     c.Description,
		Instructor:      c.Instructor,
		StartsAt:        c.StartsAt,
		EndsAt:          c.EndsAt(),
		DurationMinutes: c.DurationMinutes,
		Capacity:        c.Capacity,
		SeatsBooked:     c.SeatsBooked,
		SeatsLeft:       c.SeatsLeft(),
		Price:           c.Price,
		Location:        c.Location,
		ImageURL:        c.ImageURL,
		Status:          string(c.Status),
	}
}

// BookClassRequest books seats in a class
type BookClassRequest struct {
	Seats int `json:"seats" binding:"required,min=1,max=20"`
}

// BookingListFilter are the booking listing query parameters
type BookingListFilter struct {
	ListParams
	ClassID *uuid.UUID `form:"class_id"`
	Status  string     `form:"status" binding:"omitempty,oneof=confirmed cancelled"`
}

// BookingResponse is a class booking in API responses
type BookingResponse struct {
	ID          uuid.UUID       `json:"id"`
	ClassID     uuid.UUID       `json:"class_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Seats       int             `json:"seats"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Total       decimal.Decimal `json:"total" swaggertype:"string"`
	Status      string          `json:"status"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Class       *ClassResponse  `json:"class,omitempty"`
}

// ToBookingResponse converts a booking; class may be nil
func ToBookingResponse(b *catalog.ClassBooking, class *catalog.Class) BookingResponse {
	resp := BookingResponse{
		ID:          b.ID,
		ClassID:     b.ClassID,
		CustomerID:  b.OwnerID,
		Seats:       b.Seats,
		UnitPrice:   b.UnitPrice,
		Total:       b.Total,
		Status:      string(b.Status),
		CancelledAt: b.CancelledAt,
		CreatedAt:   b.CreatedAt,
	}
	if class != nil {
		c := ToClassResponse(class)
		resp.Class = &c
	}
	return resp
}
