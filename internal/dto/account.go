package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	OwnerID      string             `json:"ownerID" binding:"required"`
	Type         domain.AccountType `json:"type" binding:"required,oneof=savings checking investment"`
	Currency     string             `json:"currency" binding:"omitempty,len=3,uppercase"`
	InterestRate *decimal.Decimal   `json:"interestRate"` // Optional: per-type default applies when absent
}

// UpdateAccountStatusRequest carries an explicit administrative status change.
type UpdateAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=pending active inactive frozen"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID               string               `json:"accountID"`
	OwnerID                 string               `json:"ownerID"`
	AccountNumber           string               `json:"accountNumber"`
	Type                    domain.AccountType   `json:"type"`
	Currency                string               `json:"currency"`
	Balance                 decimal.Decimal      `json:"balance"`
	Status                  domain.AccountStatus `json:"status"`
	InterestRate            decimal.Decimal      `json:"interestRate"`
	LastInterestCalculation time.Time            `json:"lastInterestCalculation"`
	CreatedAt               time.Time            `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:               acc.AccountID,
		OwnerID:                 acc.OwnerID,
		AccountNumber:           acc.AccountNumber,
		Type:                    acc.Type,
		Currency:                acc.Currency,
		Balance:                 acc.Balance,
		Status:                  acc.Status,
		InterestRate:            acc.InterestRate,
		LastInterestCalculation: acc.LastInterestCalculation,
		CreatedAt:               acc.CreatedAt,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
