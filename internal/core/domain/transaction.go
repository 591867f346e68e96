package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the closed set of movement variants. The kind decides
// which side of the debit/credit pair is applied; it never changes the
// balance arithmetic itself.
type TransactionKind string

const (
	KindTransfer   TransactionKind = "transfer"
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindPayment    TransactionKind = "payment"
)

// TransactionStatus is the lifecycle state of a ledger transaction.
// A transaction is immutable once completed.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionReversed  TransactionStatus = "reversed"
	TransactionFlagged   TransactionStatus = "flagged"
)

// RiskTier is the coarse size classification assigned once at creation.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Transaction is a single ledger record of money moved between accounts.
// SourceAccountID is nil for pure deposits, DestinationAccountID is nil for
// pure withdrawals. The reference is globally unique, assigned once at
// creation, and never reused even if the transaction later fails.
type Transaction struct {
	TransactionID        string            `json:"transactionID"` // Primary key (UUID)
	Reference            string            `json:"reference"`     // Unique business reference (TX...)
	Kind                 TransactionKind   `json:"kind"`
	Amount               decimal.Decimal   `json:"amount"` // Always positive
	Currency             string            `json:"currency"`
	SourceAccountID      *string           `json:"sourceAccountID,omitempty"`
	DestinationAccountID *string           `json:"destinationAccountID,omitempty"`
	Status               TransactionStatus `json:"status"`
	Risk                 RiskTier          `json:"risk"`
	Description          string            `json:"description"`
	CompletedAt          *time.Time        `json:"completedAt,omitempty"`
	AuditFields
}
