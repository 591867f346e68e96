package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// CreateCreditRequest is a customer's loan application.
type CreateCreditRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Currency   string          `json:"currency" binding:"omitempty,len=3,uppercase"`
	TermMonths int             `json:"termMonths" binding:"required,gt=0,lte=360"`
	Purpose    string          `json:"purpose"`
	Documents  []string        `json:"documents" binding:"omitempty,dive,url"`
}

// UpdateCreditDocumentsRequest replaces the supporting documents on a
// pending credit request.
type UpdateCreditDocumentsRequest struct {
	Documents []string `json:"documents" binding:"required,min=1,dive,url"`
}

// RejectCreditRequest carries the rejection reason.
type RejectCreditRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CreditRequestResponse is the underwriting state returned to callers.
type CreditRequestResponse struct {
	CreditRequestID string              `json:"creditRequestID"`
	OwnerID         string              `json:"ownerID"`
	Amount          decimal.Decimal     `json:"amount"`
	Currency        string              `json:"currency"`
	TermMonths      int                 `json:"termMonths"`
	InterestRate    decimal.Decimal     `json:"interestRate"`
	MonthlyPayment  decimal.Decimal     `json:"monthlyPayment"`
	Purpose         string              `json:"purpose"`
	Documents       []string            `json:"documents,omitempty"`
	Status          domain.CreditStatus `json:"status"`
	ApprovedBy      string              `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time          `json:"approvedAt,omitempty"`
	RejectedBy      string              `json:"rejectedBy,omitempty"`
	RejectedAt      *time.Time          `json:"rejectedAt,omitempty"`
	RejectionReason string              `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// ToCreditRequestResponse converts a domain.CreditRequest to its response DTO.
func ToCreditRequestResponse(req *domain.CreditRequest) CreditRequestResponse {
	return CreditRequestResponse{
		CreditRequestID: req.CreditRequestID,
		OwnerID:         req.OwnerID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		TermMonths:      req.TermMonths,
		InterestRate:    req.InterestRate,
		MonthlyPayment:  req.MonthlyPayment,
		Purpose:         req.Purpose,
		Documents:       req.Documents,
		Status:          req.Status,
		ApprovedBy:      req.ApprovedBy,
		ApprovedAt:      req.ApprovedAt,
		RejectedBy:      req.RejectedBy,
		RejectedAt:      req.RejectedAt,
		RejectionReason: req.RejectionReason,
		CreatedAt:       req.CreatedAt,
	}
}

// ToCreditRequestResponses converts a slice of credit requests.
func ToCreditRequestResponses(reqs []domain.CreditRequest) []CreditRequestResponse {
	out := make([]CreditRequestResponse, len(reqs))
	for i := range reqs {
		out[i] = ToCreditRequestResponse(&reqs[i])
	}
	return out
}
