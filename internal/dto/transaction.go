package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// TransferRequest moves money between two accounts.
type TransferRequest struct {
	SourceAccountID      string          `json:"sourceAccountID" binding:"required"`
	DestinationAccountID string          `json:"destinationAccountID" binding:"required,nefield=SourceAccountID"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	Description          string          `json:"description"`
}

// TransactionHistoryParams filters a transaction history query.
type TransactionHistoryParams struct {
	StartDate *time.Time                `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time                `form:"endDate" time_format:"2006-01-02"`
	Kind      *domain.TransactionKind   `form:"type"`
	Status    *domain.TransactionStatus `form:"status"`
	Limit     int                       `form:"limit"`
}

// TransactionResponse is the ledger record returned to callers.
type TransactionResponse struct {
	TransactionID        string                   `json:"transactionID"`
	Reference            string                   `json:"reference"`
	Kind                 domain.TransactionKind   `json:"kind"`
	Amount               decimal.Decimal          `json:"amount"`
	Currency             string                   `json:"currency"`
	SourceAccountID      *string                  `json:"sourceAccountID,omitempty"`
	DestinationAccountID *string                  `json:"destinationAccountID,omitempty"`
	Status               domain.TransactionStatus `json:"status"`
	Risk                 domain.RiskTier          `json:"risk"`
	Description          string                   `json:"description"`
	CreatedAt            time.Time                `json:"createdAt"`
	CompletedAt          *time.Time               `json:"completedAt,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		Reference:            txn.Reference,
		Kind:                 txn.Kind,
		Amount:               txn.Amount,
		Currency:             txn.Currency,
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		Status:               txn.Status,
		Risk:                 txn.Risk,
		Description:          txn.Description,
		CreatedAt:            txn.CreatedAt,
		CompletedAt:          txn.CompletedAt,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
