package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/catalog"
	"github.com/ramenshop/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindBySlug finds a product by slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var p catalog.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindByIDs loads several products at once
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll lists products matching the filter with the total count
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.AvailableOnly {
		query = query.Where("available = ?", true)
	}

	var products []catalog.Product
	total, err := listPage(query, paginate(filter.Filter, ProductSortFields, "sort_order"), &products)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ExistsBySlug reports whether another product already uses slug
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return slugTaken(r.db.WithContext(ctx).Model(&catalog.Product{}), slug, excludeID)
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return translate(r.db.WithContext(ctx).Save(product).Error)
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormRecipeRepository implements catalog.RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// FindByID finds a recipe by ID
func (r *GormRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Recipe, error) {
	var rec catalog.Recipe
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// FindBySlug finds a recipe by slug
func (r *GormRecipeRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Recipe, error) {
	var rec catalog.Recipe
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// FindAll lists recipes with the total count
func (r *GormRecipeRepository) FindAll(ctx context.Context, filter catalog.RecipeFilter) ([]catalog.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Recipe{})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(summary) LIKE ?", pattern, pattern)
	}
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}

	var recipes []catalog.Recipe
	total, err := listPage(query, paginate(filter.Filter, RecipeSortFields, "created_at"), &recipes)
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ExistsBySlug reports whether another recipe already uses slug
func (r *GormRecipeRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return slugTaken(r.db.WithContext(ctx).Model(&catalog.Recipe{}), slug, excludeID)
}

// Save creates or updates a recipe
func (r *GormRecipeRepository) Save(ctx context.Context, recipe *catalog.Recipe) error {
	return translate(r.db.WithContext(ctx).Save(recipe).Error)
}

// Delete removes a recipe
func (r *GormRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormClassRepository implements catalog.ClassRepository using GORM
type GormClassRepository struct {
	db *gorm.DB
}

// NewGormClassRepository creates a new GormClassRepository
func NewGormClassRepository(db *gorm.DB) *GormClassRepository {
	return &GormClassRepository{db: db}
}

// FindByID finds a class by ID
func (r *GormClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Class, error) {
	var c catalog.Class
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// FindByIDForUpdate finds a class and locks its row (SELECT ... FOR UPDATE)
func (r *GormClassRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Class, error) {
	var c catalog.Class
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// FindBySlug finds a class by slug
func (r *GormClassRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Class, error) {
	var c catalog.Class
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// FindAll lists classes with the total count
func (r *GormClassRepository) FindAll(ctx context.Context, filter catalog.ClassFilter) ([]catalog.Class, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Class{})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(instructor) LIKE ?", pattern, pattern)
	}
	if filter.UpcomingAfter != nil {
		query = query.Where("starts_at >= ?", *filter.UpcomingAfter)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	f := filter.Filter
	if f.OrderBy == "" {
		f.OrderBy, f.OrderDir = "starts_at", "asc"
	}
	var classes []catalog.Class
	total, err := listPage(query, paginate(f, ClassSortFields, "starts_at"), &classes)
	if err != nil {
		return nil, 0, err
	}
	return classes, total, nil
}

// ExistsBySlug reports whether another class already uses slug
func (r *GormClassRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return slugTaken(r.db.WithContext(ctx).Model(&catalog.Class{}), slug, excludeID)
}

// Save creates or updates a class
func (r *GormClassRepository) Save(ctx context.Context, class *catalog.Class) error {
	return translate(r.db.WithContext(ctx).Save(class).Error)
}

// GormBookingRepository implements catalog.BookingRepository using GORM.
// Customers only read and write their own bookings.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID finds a booking visible to the actor
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ClassBooking, error) {
	var b catalog.ClassBooking
	if err := r.db.WithContext(ctx).
		Scopes(ownedRows(ctx, staffSees, "class_bookings")).
		First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// FindAll lists bookings visible to the actor
func (r *GormBookingRepository) FindAll(ctx context.Context, filter catalog.BookingFilter) ([]catalog.ClassBooking, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.ClassBooking{}).
		Scopes(ownedRows(ctx, staffSees, "class_bookings"))
	if filter.ClassID != nil {
		query = query.Where("class_id = ?", *filter.ClassID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var bookings []catalog.ClassBooking
	total, err := listPage(query, paginate(filter.Filter, BookingSortFields, "created_at"), &bookings)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// Save creates or updates a booking owned by the actor
func (r *GormBookingRepository) Save(ctx context.Context, booking *catalog.ClassBooking) error {
	if err := checkOwnedWrite(ctx, staffSees, booking.OwnerID); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Save(booking).Error)
}

func slugTaken(query *gorm.DB, slug string, excludeID uuid.UUID) (bool, error) {
	query = query.Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

var (
	_ catalog.ProductRepository = (*GormProductRepository)(nil)
	_ catalog.RecipeRepository  = (*GormRecipeRepository)(nil)
	_ catalog.ClassRepository   = (*GormClassRepository)(nil)
	_ catalog.BookingRepository = (*GormBookingRepository)(nil)
)
