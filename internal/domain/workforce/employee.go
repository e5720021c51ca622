package workforce

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EmployeeProfile holds the payroll data of a staff user
type EmployeeProfile struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	DisplayName     string          `gorm:"type:varchar(200);not null"`
	HourlyRate      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	BadgeToken      string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Active          bool            `gorm:"not null;default:true"`
	LastBadgeScanAt *time.Time
}

// TableName returns the table name for GORM
func (EmployeeProfile) TableName() string {
	return "employee_profiles"
}

// NewEmployeeProfile creates an active profile with a fresh badge token
func NewEmployeeProfile(userID uuid.UUID, displayName string, hourlyRate decimal.Decimal) (*EmployeeProfile, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "User ID cannot be empty")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Display name cannot be empty")
	}
	if hourlyRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}
	return &EmployeeProfile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		DisplayName:       displayName,
		HourlyRate:        shared.RoundMoney(hourlyRate),
		BadgeToken:        shared.NewToken(),
		Active:            true,
	}, nil
}

// SetHourlyRate changes the pay rate used for new time entries
func (p *EmployeeProfile) SetHourlyRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}
	p.HourlyRate = shared.RoundMoney(rate)
	p.IncrementVersion()
	return nil
}

// RotateBadge issues a new badge token, invalidating printed badges
func (p *EmployeeProfile) RotateBadge() string {
	p.BadgeToken = shared.NewToken()
	p.IncrementVersion()
	return p.BadgeToken
}

// SetActive enables or disables clocking for the employee
func (p *EmployeeProfile) SetActive(active bool) {
	p.Active = active
	p.IncrementVersion()
}

// RecordBadgeScan rejects scans that repeat within cooldown
func (p *EmployeeProfile) RecordBadgeScan(at time.Time, cooldown time.Duration) error {
	if !p.Active {
		return shared.NewDomainError("EMPLOYEE_INACTIVE", "Employee is not active")
	}
	if p.LastBadgeScanAt != nil && cooldown > 0 && at.Sub(*p.LastBadgeScanAt) < cooldown {
		return shared.NewDomainError("SCAN_TOO_SOON", "Badge was scanned moments ago")
	}
	p.LastBadgeScanAt = &at
	p.Touch()
	return nil
}
