package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// TransactionFilter narrows transaction history queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Kind      *domain.TransactionKind
	Status    *domain.TransactionStatus
	Limit     int
}

// TransactionRepository persists ledger transactions and applies the atomic
// debit/credit pair of a movement.
type TransactionRepository interface {
	// SaveTransaction inserts a pending transaction. The reference carries a
	// uniqueness constraint; a collision surfaces as ErrDuplicate.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)

	// CompleteMovement applies the balance side of a movement as one unit of
	// work: it locks the involved accounts, re-checks status and funds under
	// the lock, applies the debit and/or credit, and stamps the transaction
	// completed. Any failure rolls back everything and the transaction row
	// stays pending for the caller to mark failed.
	CompleteMovement(ctx context.Context, transactionID string, debitAccountID, creditAccountID *string, amount decimal.Decimal, userID string, completedAt time.Time) error
	// MarkTransactionFailed finalizes a transaction whose movement could not
	// be applied; the reference is burned, never reused.
	MarkTransactionFailed(ctx context.Context, transactionID string, userID string, now time.Time) error

	ListTransactionsByAccount(ctx context.Context, accountID string, filter TransactionFilter) ([]domain.Transaction, error)
}
