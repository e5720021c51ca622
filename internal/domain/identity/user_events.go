package identity

import (
	"github.com/ramenshop/backend/internal/domain/shared"
)

// AggregateTypeUser is the aggregate type name for users
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserRegistered  = "UserRegistered"
	EventTypeUserRoleChanged = "UserRoleChanged"
)

// UserRegisteredEvent is published when an account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Role     shared.Role `json:"role"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		Email:           user.Email,
		FullName:        user.FullName,
		Role:            user.Role,
	}
}

// UserRoleChangedEvent is published when an account changes role
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	OldRole shared.Role `json:"old_role"`
	NewRole shared.Role `json:"new_role"`
}

// NewUserRoleChangedEvent creates a new UserRoleChangedEvent
func NewUserRoleChangedEvent(user *User, old shared.Role) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, user.ID),
		OldRole:         old,
		NewRole:         user.Role,
	}
}
