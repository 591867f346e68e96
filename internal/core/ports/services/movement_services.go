package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
)

// MovementParams describes one money movement. The kind decides which side
// of the debit/credit pair is applied:
//
//	transfer   debit source, credit destination (both required, distinct)
//	withdrawal debit source; destination is record-only
//	deposit    credit destination; source is record-only
//	payment    credit destination; debit source when present, unless the
//	           source is record-only (the draw happened elsewhere, e.g. a
//	           credit card limit)
type MovementParams struct {
	SourceAccountID      *string
	DestinationAccountID *string
	// SourceRecordOnly keeps the source on the transaction row without
	// debiting it. Set for payments whose draw happened outside account
	// balances, e.g. against a credit card limit.
	SourceRecordOnly bool
	Amount           decimal.Decimal
	Currency         string
	Kind             domain.TransactionKind
	Description      string
	InitiatedBy      string
}

// MovementSvcFacade is the money movement engine: the single primitive
// underlying transfers, payments, disbursements and investment flows.
type MovementSvcFacade interface {
	Move(ctx context.Context, params MovementParams) (*domain.Transaction, error)
	Transfer(ctx context.Context, sourceAccountID, destinationAccountID string, amount decimal.Decimal, description, initiatedBy string) (*domain.Transaction, error)
	GetTransactionHistory(ctx context.Context, accountID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, error)
}
