package workforce

import (
	"time"

	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuarterHour is the rounding increment for worked time, in minutes
const QuarterHour = 15

// AllowedBreakMinutes lists the break lengths an employee may pick
var AllowedBreakMinutes = []int{0, 15, 30, 45, 60}

// BreakPolicy decides which break is suggested for a shift length
type BreakPolicy struct {
	// SuggestAfter is the elapsed time after which a break is suggested
	SuggestAfter time.Duration
	// SuggestedMinutes is the break suggested once SuggestAfter is passed
	SuggestedMinutes int
}

// DefaultBreakPolicy suggests a 30 minute break for shifts longer than 5 hours
func DefaultBreakPolicy() BreakPolicy {
	return BreakPolicy{SuggestAfter: 5 * time.Hour, SuggestedMinutes: 30}
}

// Suggest returns the suggested break for elapsedMinutes
func (p BreakPolicy) Suggest(elapsedMinutes int) int {
	if elapsedMinutes > int(p.SuggestAfter/time.Minute) {
		return p.SuggestedMinutes
	}
	return 0
}

// ValidateBreak checks that minutes is one of AllowedBreakMinutes
func ValidateBreak(minutes int) error {
	for _, m := range AllowedBreakMinutes {
		if m == minutes {
			return nil
		}
	}
	return shared.NewDomainError("INVALID_BREAK", "Break must be 0, 15, 30, 45 or 60 minutes")
}

// ElapsedMinutes returns the whole minutes between clockIn and clockOut
func ElapsedMinutes(clockIn, clockOut time.Time) (int, error) {
	if clockOut.Before(clockIn) {
		return 0, shared.NewDomainError("INVALID_TIME_RANGE", "Clock-out cannot be before clock-in")
	}
	return int(clockOut.Sub(clockIn) / time.Minute), nil
}

// RoundToQuarterHour rounds minutes to the nearest multiple of 15, halves up
func RoundToQuarterHour(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return (minutes + QuarterHour/2) / QuarterHour * QuarterHour
}

// HoursFromMinutes converts minutes to hours rounded to two decimals
func HoursFromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

// PayFor returns hours × rate rounded to cents
func PayFor(hours, rate decimal.Decimal) decimal.Decimal {
	return shared.RoundMoney(hours.Mul(rate))
}

// WorkedTime is the outcome of a clock-out calculation
type WorkedTime struct {
	ElapsedMinutes int
	BreakMinutes   int
	WorkedMinutes  int
	Rounded        bool
	Hours          decimal.Decimal
}

// CalculateWorked computes worked time for a closed entry. A nil
// breakMinutes applies the policy's suggested break.
func CalculateWorked(clockIn, clockOut time.Time, breakMinutes *int, roundToQuarter bool, policy BreakPolicy) (WorkedTime, error) {
	elapsed, err := ElapsedMinutes(clockIn, clockOut)
	if err != nil {
		return WorkedTime{}, err
	}

	brk := policy.Suggest(elapsed)
	if breakMinutes != nil {
		if err := ValidateBreak(*breakMinutes); err != nil {
			return WorkedTime{}, err
		}
		brk = *breakMinutes
	}

	worked := elapsed - brk
	if worked < 0 {
		worked = 0
	}
	if roundToQuarter {
		worked = RoundToQuarterHour(worked)
	}

	return WorkedTime{
		ElapsedMinutes: elapsed,
		BreakMinutes:   brk,
		WorkedMinutes:  worked,
		Rounded:        roundToQuarter,
		Hours:          HoursFromMinutes(worked),
	}, nil
}
