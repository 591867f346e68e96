package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/apperrors"
	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
	portssvc "github.com/nexabank/corebanking/internal/core/ports/services"
	"github.com/nexabank/corebanking/internal/middleware"
	"github.com/nexabank/corebanking/internal/utils/finance"
	"github.com/nexabank/corebanking/internal/utils/identifier"
)

// movementService is the money movement engine. Every balance mutation in
// the system funnels through Move: transfers, payments, interest deposits,
// credit disbursements and investment funding all build MovementParams and
// delegate here.
type movementService struct {
	txnRepo     portsrepo.TransactionRepository
	accountRepo portsrepo.AccountRepository
	idGen       *identifier.Generator
	notifier    portssvc.Notifier
	now         func() time.Time
}

// NewMovementService creates the movement engine.
func NewMovementService(txnRepo portsrepo.TransactionRepository, accountRepo portsrepo.AccountRepository, idGen *identifier.Generator, notifier portssvc.Notifier) portssvc.MovementSvcFacade {
	return &movementService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		idGen:       idGen,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.MovementSvcFacade = (*movementService)(nil)

// movementSides resolves which account is debited and which is credited for
// the given kind. Record-only references stay on the transaction row but
// produce no balance change.
func movementSides(params portssvc.MovementParams) (debitID, creditID *string, err error) {
	switch params.Kind {
	case domain.KindTransfer:
		if params.SourceAccountID == nil || params.DestinationAccountID == nil {
			return nil, nil, fmt.Errorf("%w: transfer requires source and destination accounts", apperrors.ErrValidation)
		}
		if *params.SourceAccountID == *params.DestinationAccountID {
			return nil, nil, fmt.Errorf("%w: transfer source and destination must differ", apperrors.ErrValidation)
		}
		return params.SourceAccountID, params.DestinationAccountID, nil
	case domain.KindWithdrawal:
		if params.SourceAccountID == nil {
			return nil, nil, fmt.Errorf("%w: withdrawal requires a source account", apperrors.ErrValidation)
		}
		return params.SourceAccountID, nil, nil
	case domain.KindDeposit:
		if params.DestinationAccountID == nil {
			return nil, nil, fmt.Errorf("%w: deposit requires a destination account", apperrors.ErrValidation)
		}
		return nil, params.DestinationAccountID, nil
	case domain.KindPayment:
		if params.DestinationAccountID == nil {
			return nil, nil, fmt.Errorf("%w: payment requires a destination account", apperrors.ErrValidation)
		}
		// A record-only source means the funds were drawn outside the
		// ledger, e.g. against a credit card limit: it stays on the row
		// but produces no balance change.
		if params.SourceRecordOnly {
			return nil, params.DestinationAccountID, nil
		}
		return params.SourceAccountID, params.DestinationAccountID, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, params.Kind)
	}
}

// Move records and applies one money movement. The transaction row is
// inserted pending first so its reference is burned even when the balance
// application fails afterwards.
func (s *movementService) Move(ctx context.Context, params portssvc.MovementParams) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if params.Currency == "" {
		params.Currency = domain.DefaultCurrency
	}
	if params.InitiatedBy == "" {
		return nil, fmt.Errorf("%w: initiator is required", apperrors.ErrValidation)
	}

	debitID, creditID, err := movementSides(params)
	if err != nil {
		return nil, err
	}

	// Fast pre-checks outside the lock. The authoritative re-check happens
	// inside CompleteMovement under FOR UPDATE; this only rejects the
	// obviously doomed movement without burning a transaction row.
	if err := s.precheckAccount(ctx, debitID, params.Amount, params.Currency, true); err != nil {
		return nil, err
	}
	if err := s.precheckAccount(ctx, creditID, params.Amount, params.Currency, false); err != nil {
		return nil, err
	}

	now := s.now()
	txn, err := s.insertPending(ctx, params, now)
	if err != nil {
		return nil, err
	}
	reference := txn.Reference

	completedAt := s.now()
	if err := s.txnRepo.CompleteMovement(ctx, txn.TransactionID, debitID, creditID, params.Amount, params.InitiatedBy, completedAt); err != nil {
		logger.Warn("Movement failed, marking transaction failed",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("reference", reference),
			slog.String("error", err.Error()))
		if markErr := s.txnRepo.MarkTransactionFailed(ctx, txn.TransactionID, params.InitiatedBy, s.now()); markErr != nil {
			logger.Error("Failed to mark transaction failed", slog.String("transaction_id", txn.TransactionID), slog.String("error", markErr.Error()))
		}
		return nil, err
	}

	txn.Status = domain.TransactionCompleted
	txn.CompletedAt = &completedAt
	txn.LastUpdatedAt = completedAt

	logger.Info("Movement completed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reference", reference),
		slog.String("kind", string(params.Kind)),
		slog.String("amount", params.Amount.String()),
		slog.String("risk", string(txn.Risk)))

	if s.notifier != nil {
		s.notifier.Notify(ctx, portssvc.Event{
			Kind:       "transaction.completed",
			EntityID:   txn.TransactionID,
			UserID:     params.InitiatedBy,
			Detail:     fmt.Sprintf("%s of %s %s (%s)", params.Kind, params.Amount.String(), params.Currency, reference),
			OccurredAt: completedAt,
		})
	}

	return &txn, nil
}

// insertPending generates a reference and inserts the pending transaction
// row. A uniqueness collision between the reference pre-check and the insert
// regenerates the reference and retries, bounded by the generator's cap.
func (s *movementService) insertPending(ctx context.Context, params portssvc.MovementParams, now time.Time) (domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	for attempt := 1; ; attempt++ {
		reference, err := s.idGen.TransactionReference(ctx, now)
		if err != nil {
			logger.Error("Failed to generate transaction reference", slog.String("error", err.Error()))
			return domain.Transaction{}, err
		}

		txn := domain.Transaction{
			TransactionID:        uuid.NewString(),
			Reference:            reference,
			Kind:                 params.Kind,
			Amount:               params.Amount,
			Currency:             params.Currency,
			SourceAccountID:      params.SourceAccountID,
			DestinationAccountID: params.DestinationAccountID,
			Status:               domain.TransactionPending,
			Risk:                 finance.ClassifyRisk(params.Amount),
			Description:          params.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     params.InitiatedBy,
				LastUpdatedAt: now,
				LastUpdatedBy: params.InitiatedBy,
			},
		}

		err = s.txnRepo.SaveTransaction(ctx, txn)
		if err == nil {
			return txn, nil
		}
		if errors.Is(err, apperrors.ErrDuplicate) && attempt < identifier.MaxAttempts {
			logger.Warn("Transaction reference collided on insert, regenerating",
				slog.String("reference", reference),
				slog.Int("attempt", attempt))
			continue
		}
		logger.Error("Failed to save pending transaction", slog.String("reference", reference), slog.String("error", err.Error()))
		if errors.Is(err, apperrors.ErrDuplicate) {
			return domain.Transaction{}, fmt.Errorf("%w: gave up on transaction reference after %d attempts", apperrors.ErrGenerationExhausted, identifier.MaxAttempts)
		}
		return domain.Transaction{}, err
	}
}

// precheckAccount validates an involved account before the movement row is
// created. isDebit additionally checks the balance can cover the amount.
func (s *movementService) precheckAccount(ctx context.Context, accountID *string, amount decimal.Decimal, currency string, isDebit bool) error {
	if accountID == nil {
		return nil
	}
	account, err := s.accountRepo.FindAccountByID(ctx, *accountID)
	if err != nil {
		return err
	}
	if !account.IsActive() {
		return fmt.Errorf("%w: account %s is %s", apperrors.ErrAccountNotActive, account.AccountID, account.Status)
	}
	if account.Currency != currency {
		return fmt.Errorf("%w: account %s holds %s, movement is %s", apperrors.ErrCurrencyMismatch, account.AccountID, account.Currency, currency)
	}
	if isDebit && account.Balance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s cannot cover %s", apperrors.ErrInsufficientFunds, account.Balance.String(), amount.String())
	}
	return nil
}

// Transfer is the customer-facing wrapper over Move for account-to-account
// movements.
func (s *movementService) Transfer(ctx context.Context, sourceAccountID, destinationAccountID string, amount decimal.Decimal, description, initiatedBy string) (*domain.Transaction, error) {
	return s.Move(ctx, portssvc.MovementParams{
		SourceAccountID:      &sourceAccountID,
		DestinationAccountID: &destinationAccountID,
		Amount:               amount,
		Kind:                 domain.KindTransfer,
		Description:          description,
		InitiatedBy:          initiatedBy,
	})
}

// GetTransactionHistory returns the account's ledger records, newest first.
func (s *movementService) GetTransactionHistory(ctx context.Context, accountID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.txnRepo.ListTransactionsByAccount(ctx, accountID, filter)
}
