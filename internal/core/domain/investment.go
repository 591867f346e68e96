package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentType identifies the investment product.
type InvestmentType string

const (
	FixedTerm  InvestmentType = "fixed_term"
	MutualFund InvestmentType = "mutual_fund"
	Bonds      InvestmentType = "bonds"
)

// InvestmentStatus is the lifecycle state of an investment. Active is the
// only state from which cancel/complete are reachable; both are terminal.
type InvestmentStatus string

const (
	InvestmentActive    InvestmentStatus = "active"
	InvestmentCompleted InvestmentStatus = "completed"
	InvestmentCancelled InvestmentStatus = "cancelled"
)

// Investment is a funded position drawn from a customer account. Creation
// debits the funding account by the principal; completion or cancellation
// credits the payout back.
type Investment struct {
	InvestmentID   string           `json:"investmentID"` // Primary key (UUID)
	OwnerID        string           `json:"ownerID"`      // FK -> users.user_id
	AccountID      string           `json:"accountID"`    // Funding account
	Type           InvestmentType   `json:"type"`
	Amount         decimal.Decimal  `json:"amount"` // Principal
	Currency       string           `json:"currency"`
	TermDays       int              `json:"termDays"`
	InterestRate   decimal.Decimal  `json:"interestRate"`   // Annual percent, e.g. 5 for 5%
	ExpectedReturn decimal.Decimal  `json:"expectedReturn"` // Computed at creation
	ActualReturn   *decimal.Decimal `json:"actualReturn,omitempty"`
	Status         InvestmentStatus `json:"status"`
	StartDate      time.Time        `json:"startDate"`
	EndDate        time.Time        `json:"endDate"`
	AuditFields
}

// Matured reports whether the investment has reached its end date.
func (i Investment) Matured(now time.Time) bool {
	return !now.Before(i.EndDate)
}
