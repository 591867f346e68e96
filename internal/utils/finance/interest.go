package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	daysPerYear        = decimal.NewFromInt(365)
	percentDivisor     = decimal.NewFromInt(100)
	maxPenaltyFraction = decimal.NewFromFloat(0.10)
)

// WholeDaysBetween returns the number of whole days elapsed between from and to.
// Partial days are truncated; a negative interval yields zero.
func WholeDaysBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

// CeilDaysBetween returns the number of days between from and to with any
// partial day counting as a full one; a negative interval yields zero. The
// cancellation penalty charges started days in full.
func CeilDaysBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	const day = 24 * time.Hour
	d := to.Sub(from)
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}

// DailyInterest computes simple interest on a balance at an annual rate over
// a number of whole days: balance * (annualRate/365) * days.
func DailyInterest(balance, annualRate decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return balance.Mul(annualRate).Mul(decimal.NewFromInt(int64(days))).Div(daysPerYear)
}

// ExpectedReturn computes the projected yield of an investment:
// amount * (annualRatePercent/100/365) * termDays.
func ExpectedReturn(amount, annualRatePercent decimal.Decimal, termDays int) decimal.Decimal {
	if termDays <= 0 {
		return decimal.Zero
	}
	return amount.
		Mul(annualRatePercent).
		Mul(decimal.NewFromInt(int64(termDays))).
		Div(percentDivisor.Mul(daysPerYear))
}

// EarlyCancellationPenalty computes the penalty for cancelling an investment
// before maturity: principal * min(daysRemaining/totalDays, 1) * 0.10.
// The contribution is capped so the penalty never exceeds 10% of principal.
func EarlyCancellationPenalty(principal decimal.Decimal, daysRemaining, totalDays int) decimal.Decimal {
	if totalDays <= 0 || daysRemaining <= 0 {
		return decimal.Zero
	}
	ratio := decimal.NewFromInt(int64(daysRemaining)).Div(decimal.NewFromInt(int64(totalDays)))
	if ratio.GreaterThan(decimal.NewFromInt(1)) {
		ratio = decimal.NewFromInt(1)
	}
	return principal.Mul(ratio).Mul(maxPenaltyFraction)
}

// MaturityPayout is the total credited back when an investment completes at
// or after maturity. Actual return is defined equal to the expected return;
// no market-variability model exists.
func MaturityPayout(principal, expectedReturn decimal.Decimal) decimal.Decimal {
	return principal.Add(expectedReturn)
}
