package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType identifies the product type of a customer account.
type AccountType string

const (
	Savings           AccountType = "savings"
	Checking          AccountType = "checking"
	InvestmentAccount AccountType = "investment"
)

// AccountStatus is the lifecycle state of an account. Balance-affecting
// operations require Active; other transitions happen only through explicit
// administrative action.
type AccountStatus string

const (
	AccountPending  AccountStatus = "pending"
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
	AccountFrozen   AccountStatus = "frozen"
)

// Account is a customer account holding a balance in a single currency.
// The balance is mutated only by the movement engine and the interest
// accrual flow, and never goes negative for savings/checking accounts.
type Account struct {
	AccountID               string          `json:"accountID"` // Primary key (UUID)
	OwnerID                 string          `json:"ownerID"`   // FK -> users.user_id
	AccountNumber           string          `json:"accountNumber"`
	Type                    AccountType     `json:"type"`
	Currency                string          `json:"currency"`
	Balance                 decimal.Decimal `json:"balance"`
	Status                  AccountStatus   `json:"status"`
	InterestRate            decimal.Decimal `json:"interestRate"` // Annual rate, e.g. 0.025
	LastInterestCalculation time.Time       `json:"lastInterestCalculation"`
	AuditFields
}

// IsActive reports whether the account can participate in movements.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}
