package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/identity"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"github.com/ramenshop/backend/internal/infrastructure/auth"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UserService is the admin side of account management
type UserService struct {
	userRepo     identity.UserRepository
	employeeRepo workforce.EmployeeRepository
	blacklist    auth.TokenBlacklist
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	employeeRepo workforce.EmployeeRepository,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		blacklist:    blacklist,
		events:       events,
		logger:       logger,
	}
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, f UserListFilter) (*shared.Paginated[UserDTO], error) {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	filter.Search = f.Search
	if f.Role != "" {
		filter = filter.WithFilter("role", f.Role)
	}
	if f.Status != "" {
		filter = filter.WithFilter("status", f.Status)
	}

	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]UserDTO, len(users))
	for i := range users {
		items[i] = toUserDTO(&users[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// CreateStaff creates an employee or admin together with the payroll
// profile used by the time clock
func (s *UserService) CreateStaff(ctx context.Context, input CreateStaffInput) (*UserDTO, error) {
	if !input.Role.IsStaff() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Staff accounts must be employee or admin")
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Password, input.FullName, input.Role)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := user.UpdateProfile(user.FullName, input.Phone); err != nil {
			return nil, err
		}
	}
	rate := decimal.Zero
	if input.HourlyRate != nil {
		rate = *input.HourlyRate
	}
	profile, err := workforce.NewEmployeeProfile(user.ID, user.FullName, rate)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.events, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}

	s.logger.Info("Staff account created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	dto := toUserDTO(user)
	return &dto, nil
}

// SetRole changes a user's role. Promoting to staff creates the payroll
// profile if missing; demoting to customer deactivates it.
func (s *UserService) SetRole(ctx context.Context, id uuid.UUID, input SetRoleInput) (*UserDTO, error) {
	if actor := shared.ActorFrom(ctx); actor.UserID == id && input.Role != shared.RoleAdmin {
		return nil, shared.NewDomainError("CANNOT_DEMOTE_SELF", "Admins cannot remove their own admin role")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.SetRole(input.Role); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.syncEmployeeProfile(ctx, user); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.events, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
	// tokens carry the role; force a fresh login
	s.revokeSessions(ctx, user.ID)

	s.logger.Info("User role changed",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	dto := toUserDTO(user)
	return &dto, nil
}

// Disable blocks a user from logging in and revokes their sessions
func (s *UserService) Disable(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	if shared.ActorFrom(ctx).UserID == id {
		return nil, shared.NewDomainError("CANNOT_DISABLE_SELF", "You cannot disable your own account")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Disable(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.revokeSessions(ctx, user.ID)
	s.logger.Info("User disabled", zap.String("user_id", user.ID.String()))
	dto := toUserDTO(user)
	return &dto, nil
}

// Enable re-activates a disabled or locked user
func (s *UserService) Enable(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Enable(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User enabled", zap.String("user_id", user.ID.String()))
	dto := toUserDTO(user)
	return &dto, nil
}

func (s *UserService) syncEmployeeProfile(ctx context.Context, user *identity.User) error {
	profile, err := s.employeeRepo.FindByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		if !user.IsStaff() {
			return nil
		}
		profile, err = workforce.NewEmployeeProfile(user.ID, user.FullName, decimal.Zero)
		if err != nil {
			return err
		}
		return s.employeeRepo.Save(ctx, profile)
	case err != nil:
		return err
	}
	if profile.Active != user.IsStaff() {
		profile.SetActive(user.IsStaff())
		return s.employeeRepo.Save(ctx, profile)
	}
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.RevokeUser(ctx, userID.String(), 0); err != nil {
		s.logger.Warn("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
