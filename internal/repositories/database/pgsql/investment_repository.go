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

const investmentColumns = `investment_id, owner_id, account_id, investment_type, amount, currency, term_days, interest_rate, expected_return, actual_return, status, start_date, end_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxInvestmentRepository struct {
	BaseRepository
}

// newPgxInvestmentRepository creates a new repository for investments.
func newPgxInvestmentRepository(pool *pgxpool.Pool) portsrepo.InvestmentRepository {
	return &PgxInvestmentRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.InvestmentRepository = (*PgxInvestmentRepository)(nil)

func scanInvestment(row pgx.Row) (*domain.Investment, error) {
	var inv domain.Investment
	err := row.Scan(
		&inv.InvestmentID,
		&inv.OwnerID,
		&inv.AccountID,
		&inv.Type,
		&inv.Amount,
		&inv.Currency,
		&inv.TermDays,
		&inv.InterestRate,
		&inv.ExpectedReturn,
		&inv.ActualReturn,
		&inv.Status,
		&inv.StartDate,
		&inv.EndDate,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// SaveInvestment inserts a new investment.
func (r *PgxInvestmentRepository) SaveInvestment(ctx context.Context, inv domain.Investment) error {
	query := `
		INSERT INTO investments (` + investmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		inv.InvestmentID,
		inv.OwnerID,
		inv.AccountID,
		inv.Type,
		inv.Amount,
		inv.Currency,
		inv.TermDays,
		inv.InterestRate,
		inv.ExpectedReturn,
		inv.ActualReturn,
		inv.Status,
		inv.StartDate,
		inv.EndDate,
		inv.CreatedAt,
		inv.CreatedBy,
		inv.LastUpdatedAt,
		inv.LastUpdatedBy,
	)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("investment %s", inv.InvestmentID))
	}
	return nil
}

// FindInvestmentByID retrieves an investment by its ID.
func (r *PgxInvestmentRepository) FindInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE investment_id = $1;`
	inv, err := scanInvestment(r.Pool.QueryRow(ctx, query, investmentID))
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("investment %s", investmentID))
	}
	return inv, nil
}

// FindInvestmentByIDAndOwner retrieves an investment scoped to its owner.
func (r *PgxInvestmentRepository) FindInvestmentByIDAndOwner(ctx context.Context, investmentID, ownerID string) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE investment_id = $1 AND owner_id = $2;`
	inv, err := scanInvestment(r.Pool.QueryRow(ctx, query, investmentID, ownerID))
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("investment %s", investmentID))
	}
	return inv, nil
}

// ListInvestmentsByOwner returns an owner's investments, newest first.
func (r *PgxInvestmentRepository) ListInvestmentsByOwner(ctx context.Context, ownerID string, filter portsrepo.InvestmentFilter) ([]domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND investment_type = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("investments of owner %s", ownerID))
	}
	defer rows.Close()

	var invs []domain.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, mapStoreError(err, "investment row")
		}
		invs = append(invs, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err, "investment rows")
	}
	return invs, nil
}

func (r *PgxInvestmentRepository) markTerminal(ctx context.Context, investmentID string, status domain.InvestmentStatus, actualReturn decimal.Decimal, userID string, now time.Time) (bool, error) {
	query := `
		UPDATE investments
		SET status = $1, actual_return = $2, last_updated_at = $3, last_updated_by = $4
		WHERE investment_id = $5 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, status, actualReturn, now, userID, investmentID, domain.InvestmentActive)
	if err != nil {
		return false, mapStoreError(err, fmt.Sprintf("investment %s", investmentID))
	}
	return tag.RowsAffected() > 0, nil
}

// MarkCancelled claims the active -> cancelled transition. Reports false on
// a lost race.
func (r *PgxInvestmentRepository) MarkCancelled(ctx context.Context, investmentID string, actualReturn decimal.Decimal, userID string, now time.Time) (bool, error) {
	return r.markTerminal(ctx, investmentID, domain.InvestmentCancelled, actualReturn, userID, now)
}

// MarkCompleted claims the active -> completed transition. Reports false on
// a lost race.
func (r *PgxInvestmentRepository) MarkCompleted(ctx context.Context, investmentID string, actualReturn decimal.Decimal, userID string, now time.Time) (bool, error) {
	return r.markTerminal(ctx, investmentID, domain.InvestmentCompleted, actualReturn, userID, now)
}

// Reactivate undoes a terminal claim whose payout movement failed.
func (r *PgxInvestmentRepository) Reactivate(ctx context.Context, investmentID string, userID string, now time.Time) error {
	query := `
		UPDATE investments
		SET status = $1, actual_return = NULL, last_updated_at = $2, last_updated_by = $3
		WHERE investment_id = $4 AND status <> $1;
	`
	tag, err := r.Pool.Exec(ctx, query, domain.InvestmentActive, now, userID, investmentID)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("investment %s", investmentID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: investment %s is already active", apperrors.ErrInvalidState, investmentID)
	}
	return nil
}

// DeleteInvestment removes an investment whose funding movement failed
// before the position ever became visible.
func (r *PgxInvestmentRepository) DeleteInvestment(ctx context.Context, investmentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM investments WHERE investment_id = $1;`, investmentID)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("investment %s", investmentID))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
