package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/apperrors"
	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
)

const accountColumns = `account_id, owner_id, account_number, account_type, currency, balance, status, interest_rate, last_interest_calculation, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.OwnerID,
		&acc.AccountNumber,
		&acc.Type,
		&acc.Currency,
		&acc.Balance,
		&acc.Status,
		&acc.InterestRate,
		&acc.LastInterestCalculation,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.OwnerID,
		account.AccountNumber,
		account.Type,
		account.Currency,
		account.Balance,
		account.Status,
		account.InterestRate,
		account.LastInterestCalculation,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("account %s", account.AccountID))
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("account %s", accountID))
	}
	return acc, nil
}

// FindAccountByNumber retrieves an account by its business account number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountNumber))
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("account number %s", accountNumber))
	}
	return acc, nil
}

// FindCheckingAccountByOwner returns the owner's oldest checking account,
// used as the default disbursement and collection target.
func (r *PgxAccountRepository) FindCheckingAccountByOwner(ctx context.Context, ownerID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE owner_id = $1 AND account_type = $2
		ORDER BY created_at ASC
		LIMIT 1;
	`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, ownerID, domain.Checking))
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("checking account of owner %s", ownerID))
	}
	return acc, nil
}

// ListAccountsByOwner returns all accounts of an owner, oldest first.
func (r *PgxAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("accounts of owner %s", ownerID))
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, mapStoreError(err, "account row")
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err, "account rows")
	}
	return accounts, nil
}

// AccountNumberExists reports whether an account number is already taken.
func (r *PgxAccountRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = $1);`, accountNumber).Scan(&exists)
	if err != nil {
		return false, mapStoreError(err, "account number probe")
	}
	return exists, nil
}

// UpdateAccountStatus applies an explicit administrative status change.
func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, status, now, userID, accountID)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("account %s", accountID))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountsByIDsForUpdate locks the account rows inside tx. IDs are
// locked in sorted order so two concurrent movements touching the same pair
// cannot deadlock. Missing accounts fail with ErrNotFound.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	sorted := make([]string, len(accountIDs))
	copy(sorted, accountIDs)
	sort.Strings(sorted)

	accounts := make(map[string]domain.Account, len(sorted))
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`
	for _, id := range sorted {
		acc, err := scanAccount(tx.QueryRow(ctx, query, id))
		if err != nil {
			return nil, mapStoreError(err, fmt.Sprintf("account %s", id))
		}
		accounts[id] = *acc
	}
	return accounts, nil
}

// ApplyBalanceDeltasInTx adds each delta to its account balance within tx.
// Callers must hold the row locks from FindAccountsByIDsForUpdate.
func (r *PgxAccountRepository) ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	batch := &pgx.Batch{}
	query := `
		UPDATE accounts
		SET balance = balance + $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;
	`
	for _, id := range ids {
		batch.Queue(query, deltas[id], now, userID, id)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for _, id := range ids {
		tag, err := results.Exec()
		if err != nil {
			return mapStoreError(err, fmt.Sprintf("balance update for account %s", id))
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %s vanished during balance update", apperrors.ErrNotFound, id)
		}
	}
	return nil
}

// ClaimInterestCheckpoint advances last_interest_calculation from previous
// to next under an optimistic check-and-set. Reports false when another
// accrual got there first.
func (r *PgxAccountRepository) ClaimInterestCheckpoint(ctx context.Context, accountID string, previous, next time.Time, userID string) (bool, error) {
	query := `
		UPDATE accounts
		SET last_interest_calculation = $1, last_updated_at = $1, last_updated_by = $2
		WHERE account_id = $3 AND last_interest_calculation = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, next, userID, accountID, previous)
	if err != nil {
		return false, mapStoreError(err, fmt.Sprintf("interest checkpoint of account %s", accountID))
	}
	return tag.RowsAffected() > 0, nil
}

// RestoreInterestCheckpoint puts the checkpoint back after a failed accrual
// deposit.
func (r *PgxAccountRepository) RestoreInterestCheckpoint(ctx context.Context, accountID string, previous time.Time, userID string) error {
	query := `
		UPDATE accounts
		SET last_interest_calculation = $1, last_updated_by = $2
		WHERE account_id = $3;
	`
	tag, err := r.Pool.Exec(ctx, query, previous, userID, accountID)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("interest checkpoint of account %s", accountID))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
