package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/apperrors"
	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
)

const transactionColumns = `transaction_id, reference, kind, amount, currency, source_account_id, destination_account_id, status, risk, description, completed_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepository
}

// newPgxTransactionRepository creates a new repository for ledger
// transactions. It needs the account repository for the tx-scoped lock and
// balance operations of CompleteMovement.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepository) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}, accountRepo: accountRepo}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := row.Scan(
		&txn.TransactionID,
		&txn.Reference,
		&txn.Kind,
		&txn.Amount,
		&txn.Currency,
		&txn.SourceAccountID,
		&txn.DestinationAccountID,
		&txn.Status,
		&txn.Risk,
		&txn.Description,
		&txn.CompletedAt,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// SaveTransaction inserts a pending transaction. A reference collision
// surfaces as ErrDuplicate via the unique constraint.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		txn.TransactionID,
		txn.Reference,
		txn.Kind,
		txn.Amount,
		txn.Currency,
		txn.SourceAccountID,
		txn.DestinationAccountID,
		txn.Status,
		txn.Risk,
		txn.Description,
		txn.CompletedAt,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("transaction %s", txn.Reference))
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("transaction %s", transactionID))
	}
	return txn, nil
}

// FindTransactionByReference retrieves a transaction by its business reference.
func (r *PgxTransactionRepository) FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, reference))
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("transaction reference %s", reference))
	}
	return txn, nil
}

// ReferenceExists reports whether a transaction reference is already taken.
func (r *PgxTransactionRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM transactions WHERE reference = $1);`, reference).Scan(&exists)
	if err != nil {
		return false, mapStoreError(err, "transaction reference probe")
	}
	return exists, nil
}

// CompleteMovement applies the balance side of a movement as one unit of
// work. The involved accounts are locked in sorted-ID order, status and
// funds are re-checked under the lock, then the debit and/or credit is
// applied and the transaction stamped completed. Any failure rolls the
// whole unit back and leaves the transaction row pending.
func (r *PgxTransactionRepository) CompleteMovement(ctx context.Context, transactionID string, debitAccountID, creditAccountID *string, amount decimal.Decimal, userID string, completedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	var ids []string
	if debitAccountID != nil {
		ids = append(ids, *debitAccountID)
	}
	if creditAccountID != nil {
		ids = append(ids, *creditAccountID)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: movement touches no accounts", apperrors.ErrValidation)
	}

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	deltas := make(map[string]decimal.Decimal, 2)
	if debitAccountID != nil {
		debit := locked[*debitAccountID]
		if !debit.IsActive() {
			return fmt.Errorf("%w: account %s is %s", apperrors.ErrAccountNotActive, debit.AccountID, debit.Status)
		}
		if debit.Balance.LessThan(amount) {
			return fmt.Errorf("%w: balance %s cannot cover %s", apperrors.ErrInsufficientFunds, debit.Balance.String(), amount.String())
		}
		deltas[*debitAccountID] = amount.Neg()
	}
	if creditAccountID != nil {
		credit := locked[*creditAccountID]
		if !credit.IsActive() {
			return fmt.Errorf("%w: account %s is %s", apperrors.ErrAccountNotActive, credit.AccountID, credit.Status)
		}
		deltas[*creditAccountID] = deltas[*creditAccountID].Add(amount)
	}

	if err := r.accountRepo.ApplyBalanceDeltasInTx(ctx, tx, deltas, userID, completedAt); err != nil {
		return err
	}

	stamp := `
		UPDATE transactions
		SET status = $1, completed_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $4 AND status = $5;
	`
	tag, err := tx.Exec(ctx, stamp, domain.TransactionCompleted, completedAt, userID, transactionID, domain.TransactionPending)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("transaction %s", transactionID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is not pending", apperrors.ErrInvalidState, transactionID)
	}

	return r.Commit(ctx, tx)
}

// MarkTransactionFailed finalizes a transaction whose movement could not be
// applied. The reference stays burned.
func (r *PgxTransactionRepository) MarkTransactionFailed(ctx context.Context, transactionID string, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $4 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, domain.TransactionFailed, now, userID, transactionID, domain.TransactionPending)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("transaction %s", transactionID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is not pending", apperrors.ErrInvalidState, transactionID)
	}
	return nil
}

// ListTransactionsByAccount returns transactions touching the account,
// newest first, narrowed by the filter.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (source_account_id = $1 OR destination_account_id = $1)
	`
	args := []any{accountID}

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("transactions of account %s", accountID))
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, mapStoreError(err, "transaction row")
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err, "transaction rows")
	}
	return txns, nil
}
