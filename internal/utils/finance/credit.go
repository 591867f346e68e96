package finance

import "github.com/shopspring/decimal"

var (
	creditBaseRate       = decimal.NewFromFloat(0.15)
	amountFactorCeiling  = decimal.NewFromFloat(0.05)
	termFactorCeiling    = decimal.NewFromFloat(0.05)
	termFactorStep       = decimal.NewFromFloat(0.01)
	amountFactorDivisor  = decimal.NewFromInt(1_000_000)
	monthsPerYearDecimal = decimal.NewFromInt(12)
)

// CreditInterestRate computes the annual rate for a credit request.
// Larger principal erodes the amount factor down to a floor of zero; longer
// terms add up to 0.05 annual on top of the 0.15 base.
func CreditInterestRate(amount decimal.Decimal, termMonths int) decimal.Decimal {
	amountFactor := amountFactorCeiling.Sub(amount.Div(amountFactorDivisor))
	if amountFactor.IsNegative() {
		amountFactor = decimal.Zero
	}

	termFactor := decimal.NewFromInt(int64(termMonths)).
		Div(monthsPerYearDecimal).
		Mul(termFactorStep)
	if termFactor.GreaterThan(termFactorCeiling) {
		termFactor = termFactorCeiling
	}

	return creditBaseRate.Add(amountFactor).Add(termFactor)
}

// MonthlyPayment computes the fixed amortized payment that retires the loan
// over its term: P = A * r * (1+r)^n / ((1+r)^n - 1) with r = annualRate/12.
// The result is rounded to 2 decimal places.
func MonthlyPayment(amount, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(termMonths))

	monthlyRate := annualRate.Div(monthsPerYearDecimal)
	if monthlyRate.IsZero() {
		return amount.Div(n).Round(2)
	}

	growth := decimal.NewFromInt(1).Add(monthlyRate).Pow(n)
	payment := amount.Mul(monthlyRate).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
	return payment.Round(2)
}
