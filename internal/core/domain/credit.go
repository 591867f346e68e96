package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditStatus is the underwriting state of a credit request. Both
// transitions out of pending are one-way and terminal.
type CreditStatus string

const (
	CreditPending  CreditStatus = "pending"
	CreditApproved CreditStatus = "approved"
	CreditRejected CreditStatus = "rejected"
)

// CreditRequest is a customer's application for a loan. Rate and monthly
// payment are computed at request time; approval disburses the amount to
// the borrower's checking account.
type CreditRequest struct {
	CreditRequestID string          `json:"creditRequestID"` // Primary key (UUID)
	OwnerID         string          `json:"ownerID"`         // FK -> users.user_id
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	TermMonths      int             `json:"termMonths"`
	InterestRate    decimal.Decimal `json:"interestRate"`   // Annual, computed
	MonthlyPayment  decimal.Decimal `json:"monthlyPayment"` // Amortized, computed
	Purpose         string          `json:"purpose"`
	Documents       []string        `json:"documents,omitempty"` // Supporting document URLs
	Status          CreditStatus    `json:"status"`
	ApprovedBy      string          `json:"approvedBy,omitempty"` // Admin UserID
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	RejectedBy      string          `json:"rejectedBy,omitempty"` // Admin UserID
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	AuditFields
}
