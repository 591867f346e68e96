package finance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nexabank/corebanking/internal/utils/finance"
)

func TestWholeDaysBetween(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, finance.WholeDaysBetween(base, base))
	assert.Equal(t, 0, finance.WholeDaysBetween(base, base.Add(23*time.Hour)))
	assert.Equal(t, 1, finance.WholeDaysBetween(base, base.Add(24*time.Hour)))
	assert.Equal(t, 3, finance.WholeDaysBetween(base, base.Add(3*24*time.Hour+6*time.Hour)))
	// Negative intervals never accrue.
	assert.Equal(t, 0, finance.WholeDaysBetween(base, base.Add(-48*time.Hour)))
}

func TestCeilDaysBetween(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, finance.CeilDaysBetween(base, base))
	// A partial day counts as a full remaining day.
	assert.Equal(t, 1, finance.CeilDaysBetween(base, base.Add(time.Minute)))
	assert.Equal(t, 1, finance.CeilDaysBetween(base, base.Add(23*time.Hour)))
	assert.Equal(t, 1, finance.CeilDaysBetween(base, base.Add(24*time.Hour)))
	assert.Equal(t, 2, finance.CeilDaysBetween(base, base.Add(24*time.Hour+time.Second)))
	assert.Equal(t, 4, finance.CeilDaysBetween(base, base.Add(3*24*time.Hour+6*time.Hour)))
	assert.Equal(t, 0, finance.CeilDaysBetween(base, base.Add(-48*time.Hour)))
}

func TestDailyInterest(t *testing.T) {
	balance := decimal.NewFromInt(1000)
	rate := decimal.NewFromFloat(0.05)

	// 1000 * 0.05 / 365 for a single day
	oneDay := finance.DailyInterest(balance, rate, 1)
	expected := decimal.NewFromInt(50).Div(decimal.NewFromInt(365))
	assert.True(t, oneDay.Equal(expected), "got %s want %s", oneDay, expected)

	// Ten days is exactly ten times one day.
	tenDays := finance.DailyInterest(balance, rate, 10)
	assert.True(t, tenDays.Equal(oneDay.Mul(decimal.NewFromInt(10))))

	assert.True(t, finance.DailyInterest(balance, rate, 0).IsZero())
}

func TestExpectedReturn(t *testing.T) {
	// 10000 * (5/100/365) * 365 = 500
	got := finance.ExpectedReturn(decimal.NewFromInt(10000), decimal.NewFromInt(5), 365)
	assert.True(t, got.Equal(decimal.NewFromInt(500)), "got %s", got)

	assert.True(t, finance.ExpectedReturn(decimal.NewFromInt(10000), decimal.NewFromInt(5), 0).IsZero())
}

func TestEarlyCancellationPenalty(t *testing.T) {
	principal := decimal.NewFromInt(10000)

	// Half the term remaining: 10000 * 0.5 * 0.10 = 500 (5% of principal).
	half := finance.EarlyCancellationPenalty(principal, 90, 180)
	assert.True(t, half.Equal(decimal.NewFromInt(500)), "got %s", half)

	// Full term remaining caps at 10% of principal.
	full := finance.EarlyCancellationPenalty(principal, 180, 180)
	assert.True(t, full.Equal(decimal.NewFromInt(1000)), "got %s", full)

	// Ratio above 1 is clamped, never exceeding the 10% cap.
	over := finance.EarlyCancellationPenalty(principal, 400, 180)
	assert.True(t, over.Equal(decimal.NewFromInt(1000)), "got %s", over)

	assert.True(t, finance.EarlyCancellationPenalty(principal, 0, 180).IsZero())
	assert.True(t, finance.EarlyCancellationPenalty(principal, 10, 0).IsZero())
}

func TestMaturityPayout(t *testing.T) {
	got := finance.MaturityPayout(decimal.NewFromInt(10000), decimal.NewFromInt(500))
	assert.True(t, got.Equal(decimal.NewFromInt(10500)))
}
