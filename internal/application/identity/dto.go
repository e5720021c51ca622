package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/identity"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RegisterInput is a customer self-signup
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"required,min=1,max=200"`
	Phone    string `json:"phone" binding:"max=50"`
}

// LoginInput carries credentials; IP is filled by the handler
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// RefreshInput exchanges a refresh token
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the access token to revoke
type LogoutInput struct {
	UserID uuid.UUID
	JTI    string
	TTL    time.Duration
}

// ChangePasswordInput changes the caller's password
type ChangePasswordInput struct {
	UserID      uuid.UUID `json:"-"`
	OldPassword string    `json:"old_password" binding:"required"`
	NewPassword string    `json:"new_password" binding:"required,min=8,max=72"`
}

// UpdateProfileInput changes the caller's name and phone
type UpdateProfileInput struct {
	UserID   uuid.UUID `json:"-"`
	FullName string    `json:"full_name" binding:"required,min=1,max=200"`
	Phone    string    `json:"phone" binding:"max=50"`
}

// CreateStaffInput creates an employee or admin account
type CreateStaffInput struct {
	Email      string           `json:"email" binding:"required,email,max=255"`
	Password   string           `json:"password" binding:"required,min=8,max=72"`
	FullName   string           `json:"full_name" binding:"required,min=1,max=200"`
	Phone      string           `json:"phone" binding:"max=50"`
	Role       shared.Role      `json:"role" binding:"required,oneof=employee admin"`
	HourlyRate *decimal.Decimal `json:"hourly_rate"`
}

// SetRoleInput changes a user's role
type SetRoleInput struct {
	Role shared.Role `json:"role" binding:"required,oneof=customer employee admin"`
}

// UserListFilter filters the admin user list
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=customer employee admin"`
	Status   string `form:"status" binding:"omitempty,oneof=active locked disabled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UserDTO is a user in API responses
type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	Phone       string      `json:"phone,omitempty"`
	Role        shared.Role `json:"role"`
	Status      string      `json:"status"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  *UserDTO  `json:"user,omitempty"`
	Permissions           []string  `json:"permissions"`
}

// MeResult is the caller's account and permissions
type MeResult struct {
	User        UserDTO    `json:"user"`
	Permissions []string   `json:"permissions"`
	EmployeeID  *uuid.UUID `json:"employee_id,omitempty"`
}

func toUserDTO(u *identity.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		Role:        u.Role,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
