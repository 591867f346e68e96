package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// CreateInvestmentRequest funds a new investment from an account.
type CreateInvestmentRequest struct {
	AccountID    string                `json:"accountID" binding:"required"`
	Type         domain.InvestmentType `json:"type" binding:"required,oneof=fixed_term mutual_fund bonds"`
	Amount       decimal.Decimal       `json:"amount" binding:"required"`
	Currency     string                `json:"currency" binding:"omitempty,len=3,uppercase"`
	TermDays     int                   `json:"termDays" binding:"required,gt=0"`
	InterestRate decimal.Decimal       `json:"interestRate" binding:"required"` // Annual percent
}

// InvestmentResponse is the investment state returned to callers.
type InvestmentResponse struct {
	InvestmentID   string                  `json:"investmentID"`
	OwnerID        string                  `json:"ownerID"`
	AccountID      string                  `json:"accountID"`
	Type           domain.InvestmentType   `json:"type"`
	Amount         decimal.Decimal         `json:"amount"`
	Currency       string                  `json:"currency"`
	TermDays       int                     `json:"termDays"`
	InterestRate   decimal.Decimal         `json:"interestRate"`
	ExpectedReturn decimal.Decimal         `json:"expectedReturn"`
	ActualReturn   *decimal.Decimal        `json:"actualReturn,omitempty"`
	Status         domain.InvestmentStatus `json:"status"`
	StartDate      time.Time               `json:"startDate"`
	EndDate        time.Time               `json:"endDate"`
}

// CancelInvestmentResponse reports the cancellation payout breakdown.
type CancelInvestmentResponse struct {
	Investment   InvestmentResponse `json:"investment"`
	ReturnAmount decimal.Decimal    `json:"returnAmount"`
	Penalty      decimal.Decimal    `json:"penalty"`
}

// CompleteInvestmentResponse reports the maturity payout breakdown.
type CompleteInvestmentResponse struct {
	Investment   InvestmentResponse `json:"investment"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	ActualReturn decimal.Decimal    `json:"actualReturn"`
}

// ToInvestmentResponse converts a domain.Investment to its response DTO.
func ToInvestmentResponse(inv *domain.Investment) InvestmentResponse {
	return InvestmentResponse{
		InvestmentID:   inv.InvestmentID,
		OwnerID:        inv.OwnerID,
		AccountID:      inv.AccountID,
		Type:           inv.Type,
		Amount:         inv.Amount,
		Currency:       inv.Currency,
		TermDays:       inv.TermDays,
		InterestRate:   inv.InterestRate,
		ExpectedReturn: inv.ExpectedReturn,
		ActualReturn:   inv.ActualReturn,
		Status:         inv.Status,
		StartDate:      inv.StartDate,
		EndDate:        inv.EndDate,
	}
}

// ToInvestmentResponses converts a slice of investments.
func ToInvestmentResponses(invs []domain.Investment) []InvestmentResponse {
	out := make([]InvestmentResponse, len(invs))
	for i := range invs {
		out[i] = ToInvestmentResponse(&invs[i])
	}
	return out
}
