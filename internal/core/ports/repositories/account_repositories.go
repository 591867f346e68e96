package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// AccountRepository persists customer accounts. Balance mutation happens
// only through the tx-scoped methods so the movement engine can apply a
// debit/credit pair as one atomic unit, or through the conditional
// interest-checkpoint claim.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	// FindCheckingAccountByOwner returns the owner's checking account, used
	// as the default disbursement and merchant collection target.
	FindCheckingAccountByOwner(ctx context.Context, ownerID string) (*domain.Account, error)
	ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)
	// UpdateAccountStatus applies an explicit administrative status change.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error

	// FindAccountsByIDsForUpdate locks the account rows inside tx so no
	// concurrent movement can read a stale balance. Missing accounts fail
	// with ErrNotFound.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)
	// ApplyBalanceDeltasInTx adds each delta to its account balance within tx.
	ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, userID string, now time.Time) error

	// ClaimInterestCheckpoint advances last_interest_calculation from
	// previous to next under an optimistic check-and-set. It reports false
	// when another accrual got there first.
	ClaimInterestCheckpoint(ctx context.Context, accountID string, previous, next time.Time, userID string) (bool, error)
	// RestoreInterestCheckpoint puts the checkpoint back after a failed
	// accrual deposit.
	RestoreInterestCheckpoint(ctx context.Context, accountID string, previous time.Time, userID string) error
}
