package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"gorm.io/gorm"
)

// GormTimeEntryRepository implements workforce.TimeEntryRepository.
// Employees only see their own entries; admins and the service role see all.
type GormTimeEntryRepository struct {
	db *gorm.DB
}

// NewGormTimeEntryRepository creates a new GormTimeEntryRepository
func NewGormTimeEntryRepository(db *gorm.DB) *GormTimeEntryRepository {
	return &GormTimeEntryRepository{db: db}
}

func (r *GormTimeEntryRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Scopes(ownedRows(ctx, adminSees, "time_entries"))
}

// FindByID finds a time entry visible to the actor
func (r *GormTimeEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.TimeEntry, error) {
	var e workforce.TimeEntry
	if err := r.scoped(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// FindOpen returns the employee's entry without a clock-out
func (r *GormTimeEntryRepository) FindOpen(ctx context.Context, employeeID uuid.UUID) (*workforce.TimeEntry, error) {
	var e workforce.TimeEntry
	if err := r.scoped(ctx).
		Where("owner_id = ? AND clock_out IS NULL", employeeID).
		Order("clock_in DESC").
		First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// FindAll lists time entries, latest clock-in first by default
func (r *GormTimeEntryRepository) FindAll(ctx context.Context, filter workforce.TimeEntryFilter) ([]workforce.TimeEntry, int64, error) {
	query := r.scoped(ctx).Model(&workforce.TimeEntry{})
	if filter.EmployeeID != nil {
		query = query.Where("owner_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		query = query.Where("clock_in >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("clock_in < ?", *filter.To)
	}
	if filter.OpenOnly {
		query = query.Where("clock_out IS NULL")
	}

	var entries []workforce.TimeEntry
	total, err := listPage(query, paginate(filter.Filter, TimeEntrySortFields, "clock_in"), &entries)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindOpenSince returns entries still open that started before cutoff
func (r *GormTimeEntryRepository) FindOpenSince(ctx context.Context, cutoff time.Time) ([]workforce.TimeEntry, error) {
	var entries []workforce.TimeEntry
	if err := r.scoped(ctx).
		Where("clock_out IS NULL AND clock_in < ?", cutoff).
		Order("clock_in ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Save inserts a new entry or updates an existing one guarded by its version.
// A second open entry for the same employee violates a unique index and is
// reported as ALREADY_CLOCKED_IN.
func (r *GormTimeEntryRepository) Save(ctx context.Context, entry *workforce.TimeEntry) error {
	if err := checkOwnedWrite(ctx, adminSees, entry.OwnerID); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	if entry.Version <= 1 {
		if err := db.Create(entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return workforce.ErrAlreadyClockedIn
			}
			return err
		}
		return nil
	}
	return saveVersioned(db, entry, entry.ID, entry.Version)
}

// GormShiftRepository implements workforce.ShiftRepository
type GormShiftRepository struct {
	db *gorm.DB
}

// NewGormShiftRepository creates a new GormShiftRepository
func NewGormShiftRepository(db *gorm.DB) *GormShiftRepository {
	return &GormShiftRepository{db: db}
}

// FindByID finds a shift by ID
func (r *GormShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.Shift, error) {
	var s workforce.Shift
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// FindAll lists shifts intersecting the filter range, earliest first by default
func (r *GormShiftRepository) FindAll(ctx context.Context, filter workforce.ShiftFilter) ([]workforce.Shift, int64, error) {
	query := r.db.WithContext(ctx).Model(&workforce.Shift{})
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		query = query.Where("ends_at > ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("starts_at < ?", *filter.To)
	}
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}

	f := filter.Filter
	if f.OrderBy == "" {
		f.OrderBy, f.OrderDir = "starts_at", "asc"
	}
	var shifts []workforce.Shift
	total, err := listPage(query, paginate(f, ShiftSortFields, "starts_at"), &shifts)
	if err != nil {
		return nil, 0, err
	}
	return shifts, total, nil
}

// FindOverlapping returns the employee's shifts intersecting [start, end)
func (r *GormShiftRepository) FindOverlapping(ctx context.Context, employeeID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]workforce.Shift, error) {
	query := r.db.WithContext(ctx).
		Where("employee_id = ? AND starts_at < ? AND ends_at > ?", employeeID, end, start)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var shifts []workforce.Shift
	if err := query.Order("starts_at ASC").Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

// Save creates or updates a shift. The shifts table carries an exclusion
// constraint, so an overlap that slipped past FindOverlapping under
// concurrency is still rejected as SHIFT_OVERLAP.
func (r *GormShiftRepository) Save(ctx context.Context, shift *workforce.Shift) error {
	err := r.db.WithContext(ctx).Save(shift).Error
	if isExclusionViolation(err) {
		return workforce.ErrShiftOverlap
	}
	return translate(err)
}

// Delete removes a shift
func (r *GormShiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&workforce.Shift{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormEmployeeRepository implements workforce.EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds a profile by ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.EmployeeProfile, error) {
	var p workforce.EmployeeProfile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindByUserID finds the profile of a user
func (r *GormEmployeeRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*workforce.EmployeeProfile, error) {
	var p workforce.EmployeeProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindByBadgeToken resolves a scanned badge
func (r *GormEmployeeRepository) FindByBadgeToken(ctx context.Context, token string) (*workforce.EmployeeProfile, error) {
	var p workforce.EmployeeProfile
	if err := r.db.WithContext(ctx).Where("badge_token = ?", token).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindAll lists profiles ordered by display name
func (r *GormEmployeeRepository) FindAll(ctx context.Context, activeOnly bool) ([]workforce.EmployeeProfile, error) {
	query := r.db.WithContext(ctx).Order("display_name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var profiles []workforce.EmployeeProfile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Save creates or updates a profile
func (r *GormEmployeeRepository) Save(ctx context.Context, profile *workforce.EmployeeProfile) error {
	return translate(r.db.WithContext(ctx).Save(profile).Error)
}

var (
	_ workforce.TimeEntryRepository = (*GormTimeEntryRepository)(nil)
	_ workforce.ShiftRepository     = (*GormShiftRepository)(nil)
	_ workforce.EmployeeRepository  = (*GormEmployeeRepository)(nil)
)
