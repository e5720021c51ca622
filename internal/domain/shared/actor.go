package shared

import (
	"context"

	"github.com/google/uuid"
)

// Role is the coarse access role of a user
type Role string

const (
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether r belongs to the back office
func (r Role) IsStaff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// Actor identifies who is performing an operation. Repositories consult the
// actor in the context to apply row-level access rules.
type Actor struct {
	UserID  uuid.UUID
	Role    Role
	Service bool
}

// ServiceActor returns the privileged actor used by flows that run without
// a logged-in session (QR badge clock-in, background jobs). It bypasses
// row-level rules.
func ServiceActor() Actor {
	return Actor{Service: true, Role: RoleAdmin}
}

// IsAnonymous reports whether no user is attached
func (a Actor) IsAnonymous() bool {
	return !a.Service && a.UserID == uuid.Nil
}

// IsStaff reports whether the actor may see back-office rows
func (a Actor) IsStaff() bool {
	return a.Service || a.Role.IsStaff()
}

// IsAdmin reports whether the actor is an admin or the service role
func (a Actor) IsAdmin() bool {
	return a.Service || a.Role == RoleAdmin
}

// CanAccessOwned reports whether the actor may read or write a row owned
// by ownerID. Staff see every owned row; customers only their own.
func (a Actor) CanAccessOwned(ownerID uuid.UUID) bool {
	if a.IsStaff() {
		return true
	}
	return a.UserID != uuid.Nil && a.UserID == ownerID
}

// BypassesRowPolicy reports whether owned-row filters should be skipped
// for this actor. Only admins and the service role see every employee's
// time entries; employees are limited to their own rows like customers.
func (a Actor) BypassesRowPolicy() bool {
	return a.IsAdmin()
}

type actorKey struct{}

// WithActor stores the actor in ctx
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored in ctx, or an anonymous actor
func ActorFrom(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}
