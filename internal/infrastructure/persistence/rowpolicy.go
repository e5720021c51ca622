package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ramenshop/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// policy selects who may see rows of an owned table
type policy int

const (
	// staffSees lets employees and admins read every row (orders, carts, bookings)
	staffSees policy = iota
	// adminSees limits employees to their own rows (time entries)
	adminSees
)

func (p policy) allowsAll(actor shared.Actor) bool {
	if p == adminSees {
		return actor.BypassesRowPolicy()
	}
	return actor.IsStaff()
}

// ownedRows is a GORM scope restricting an owned table to the actor in ctx
func ownedRows(ctx context.Context, p policy, table string) func(*gorm.DB) *gorm.DB {
	actor := shared.ActorFrom(ctx)
	return func(db *gorm.DB) *gorm.DB {
		if p.allowsAll(actor) {
			return db
		}
		if actor.UserID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where(clause.Eq{Column: clause.Column{Table: table, Name: "owner_id"}, Value: actor.UserID})
	}
}

// checkOwnedWrite rejects writes to rows the actor does not own
func checkOwnedWrite(ctx context.Context, p policy, ownerID uuid.UUID) error {
	actor := shared.ActorFrom(ctx)
	if p.allowsAll(actor) {
		return nil
	}
	if actor.UserID == uuid.Nil || actor.UserID != ownerID {
		return shared.ErrForbidden
	}
	return nil
}

// translate maps driver errors to domain errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.WrapDomainError(shared.ErrAlreadyExists.Code, shared.ErrAlreadyExists.Message, err)
	default:
		return err
	}
}

// pgExclusionViolation is the SQLSTATE raised by EXCLUDE constraints
const pgExclusionViolation = "23P01"

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// paginate applies ordering and paging from a shared filter
func paginate(f shared.Filter, allowed map[string]bool, defaultField string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := ValidateSortField(f.OrderBy, allowed, defaultField)
		dir := ValidateSortOrder(f.OrderDir)
		return db.Order(field + " " + dir).Offset(f.Offset()).Limit(f.Limit())
	}
}

// saveVersioned writes an aggregate whose Version was bumped by the caller.
// The row is only updated when the stored version is the previous one.
func saveVersioned(db *gorm.DB, model any, id uuid.UUID, version int) error {
	result := db.Model(model).
		Where("id = ? AND version = ?", id, version-1).
		Select("*").
		Omit(clause.Associations).
		Updates(model)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// listPage counts the filtered rows and loads one page of them
func listPage(query *gorm.DB, page func(*gorm.DB) *gorm.DB, dest any) (int64, error) {
	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	if err := query.Scopes(page).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}
