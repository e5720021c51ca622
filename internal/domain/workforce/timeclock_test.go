package workforce

import (
	"testing"
	"time"

	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCalculateWorked(t *testing.T) {
	in := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	policy := DefaultBreakPolicy()

	tests := []struct {
		name        string
		elapsed     time.Duration
		brk         *int
		round       bool
		wantBreak   int
		wantWorked  int
		wantHours   string
		wantRounded bool
	}{
		{"long shift gets suggested break", 8 * time.Hour, nil, false, 30, 450, "7.5", false},
		{"exactly five hours has no suggestion", 5 * time.Hour, nil, false, 0, 300, "5", false},
		{"one minute past five hours", 301 * time.Minute, nil, false, 30, 271, "4.52", false},
		{"rounding to quarter hour", 301 * time.Minute, nil, true, 30, 270, "4.5", true},
		{"explicit zero break overrides suggestion", 8 * time.Hour, intPtr(0), false, 0, 480, "8", false},
		{"explicit break on short shift", 4 * time.Hour, intPtr(15), false, 15, 225, "3.75", false},
		{"break longer than shift clamps to zero", 30 * time.Minute, intPtr(60), false, 60, 0, "0", false},
		{"rounding rounds up past the midpoint", 7*time.Hour + 38*time.Minute, intPtr(0), true, 0, 465, "7.75", true},
		{"rounding rounds down below half", 7*time.Hour + 7*time.Minute, intPtr(0), true, 0, 420, "7", true},
		{"hours are rounded to two decimals", 100 * time.Minute, intPtr(0), false, 0, 100, "1.67", false},
		{"seconds are dropped", 59*time.Minute + 59*time.Second, intPtr(0), false, 0, 59, "0.98", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := CalculateWorked(in, in.Add(tt.elapsed), tt.brk, tt.round, policy)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBreak, w.BreakMinutes)
			assert.Equal(t, tt.wantWorked, w.WorkedMinutes)
			assert.Equal(t, tt.wantRounded, w.Rounded)
			assert.True(t, decimal.RequireFromString(tt.wantHours).Equal(w.Hours), "hours = %s", w.Hours)
		})
	}
}

func TestCalculateWorked_Errors(t *testing.T) {
	in := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	_, err := CalculateWorked(in, in.Add(-time.Minute), nil, false, DefaultBreakPolicy())
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_TIME_RANGE", de.Code)

	_, err = CalculateWorked(in, in.Add(time.Hour), intPtr(20), false, DefaultBreakPolicy())
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_BREAK", de.Code)
}

func TestRoundToQuarterHour(t *testing.T) {
	cases := map[int]int{0: 0, -5: 0, 7: 0, 8: 15, 22: 15, 23: 30, 52: 45, 53: 60, 60: 60}
	for in, want := range cases {
		assert.Equal(t, want, RoundToQuarterHour(in), "minutes=%d", in)
	}
}

func TestBreakPolicy_Custom(t *testing.T) {
	p := BreakPolicy{SuggestAfter: 6 * time.Hour, SuggestedMinutes: 45}
	assert.Equal(t, 0, p.Suggest(360))
	assert.Equal(t, 45, p.Suggest(361))
}

func TestPayFor(t *testing.T) {
	pay := PayFor(decimal.RequireFromString("1.67"), decimal.RequireFromString("17.50"))
	assert.Equal(t, "29.23", pay.StringFixed(2))

	pay = PayFor(decimal.RequireFromString("7.5"), decimal.RequireFromString("18"))
	assert.Equal(t, "135.00", pay.StringFixed(2))
}
