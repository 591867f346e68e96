package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexabank/corebanking/internal/apperrors"
	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
)

const creditColumns = `credit_request_id, owner_id, amount, currency, term_months, interest_rate, monthly_payment, purpose, documents, status, approved_by, approved_at, rejected_by, rejected_at, rejection_reason, created_at, created_by, last_updated_at, last_updated_by`

type PgxCreditRepository struct {
	BaseRepository
}

// newPgxCreditRepository creates a new repository for credit requests.
func newPgxCreditRepository(pool *pgxpool.Pool) portsrepo.CreditRepository {
	return &PgxCreditRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CreditRepository = (*PgxCreditRepository)(nil)

func scanCreditRequest(row pgx.Row) (*domain.CreditRequest, error) {
	var req domain.CreditRequest
	var approvedBy, rejectedBy, rejectionReason *string
	err := row.Scan(
		&req.CreditRequestID,
		&req.OwnerID,
		&req.Amount,
		&req.Currency,
		&req.TermMonths,
		&req.InterestRate,
		&req.MonthlyPayment,
		&req.Purpose,
		&req.Documents,
		&req.Status,
		&approvedBy,
		&req.ApprovedAt,
		&rejectedBy,
		&req.RejectedAt,
		&rejectionReason,
		&req.CreatedAt,
		&req.CreatedBy,
		&req.LastUpdatedAt,
		&req.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if approvedBy != nil {
		req.ApprovedBy = *approvedBy
	}
	if rejectedBy != nil {
		req.RejectedBy = *rejectedBy
	}
	if rejectionReason != nil {
		req.RejectionReason = *rejectionReason
	}
	return &req, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SaveCreditRequest inserts a new pending credit request.
func (r *PgxCreditRepository) SaveCreditRequest(ctx context.Context, req domain.CreditRequest) error {
	query := `
		INSERT INTO credit_requests (` + creditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.Pool.Exec(ctx, query,
		req.CreditRequestID,
		req.OwnerID,
		req.Amount,
		req.Currency,
		req.TermMonths,
		req.InterestRate,
		req.MonthlyPayment,
		req.Purpose,
		req.Documents,
		req.Status,
		nullable(req.ApprovedBy),
		req.ApprovedAt,
		nullable(req.RejectedBy),
		req.RejectedAt,
		nullable(req.RejectionReason),
		req.CreatedAt,
		req.CreatedBy,
		req.LastUpdatedAt,
		req.LastUpdatedBy,
	)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("credit request %s", req.CreditRequestID))
	}
	return nil
}

// FindCreditRequestByID retrieves a credit request by its ID.
func (r *PgxCreditRepository) FindCreditRequestByID(ctx context.Context, creditRequestID string) (*domain.CreditRequest, error) {
	query := `SELECT ` + creditColumns + ` FROM credit_requests WHERE credit_request_id = $1;`
	req, err := scanCreditRequest(r.Pool.QueryRow(ctx, query, creditRequestID))
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("credit request %s", creditRequestID))
	}
	return req, nil
}

// ListCreditRequests returns credit requests matching the filter, newest first.
func (r *PgxCreditRepository) ListCreditRequests(ctx context.Context, filter portsrepo.CreditFilter) ([]domain.CreditRequest, error) {
	query := `SELECT ` + creditColumns + ` FROM credit_requests WHERE 1=1`
	var args []any

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		query += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError(err, "credit requests")
	}
	defer rows.Close()

	var reqs []domain.CreditRequest
	for rows.Next() {
		req, err := scanCreditRequest(rows)
		if err != nil {
			return nil, mapStoreError(err, "credit request row")
		}
		reqs = append(reqs, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err, "credit request rows")
	}
	return reqs, nil
}

// MarkApproved claims the pending -> approved transition. Reports false
// when the request was no longer pending.
func (r *PgxCreditRepository) MarkApproved(ctx context.Context, creditRequestID, adminID string, now time.Time) (bool, error) {
	query := `
		UPDATE credit_requests
		SET status = $1, approved_by = $2, approved_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE credit_request_id = $4 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, domain.CreditApproved, adminID, now, creditRequestID, domain.CreditPending)
	if err != nil {
		return false, mapStoreError(err, fmt.Sprintf("credit request %s", creditRequestID))
	}
	return tag.RowsAffected() > 0, nil
}

// MarkRejected claims the pending -> rejected transition. Reports false
// when the request was no longer pending.
func (r *PgxCreditRepository) MarkRejected(ctx context.Context, creditRequestID, adminID, reason string, now time.Time) (bool, error) {
	query := `
		UPDATE credit_requests
		SET status = $1, rejected_by = $2, rejected_at = $3, rejection_reason = $4, last_updated_at = $3, last_updated_by = $2
		WHERE credit_request_id = $5 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, domain.CreditRejected, adminID, now, reason, creditRequestID, domain.CreditPending)
	if err != nil {
		return false, mapStoreError(err, fmt.Sprintf("credit request %s", creditRequestID))
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateCreditDocuments replaces the submitted documents while the request
// is still pending. Reports false when the request already left pending.
func (r *PgxCreditRepository) UpdateCreditDocuments(ctx context.Context, creditRequestID string, documents []string, userID string, now time.Time) (bool, error) {
	query := `
		UPDATE credit_requests
		SET documents = $1, last_updated_at = $2, last_updated_by = $3
		WHERE credit_request_id = $4 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, documents, now, userID, creditRequestID, domain.CreditPending)
	if err != nil {
		return false, mapStoreError(err, fmt.Sprintf("credit request %s", creditRequestID))
	}
	return tag.RowsAffected() > 0, nil
}

// RevertToPending undoes an approval claim whose disbursement failed.
func (r *PgxCreditRepository) RevertToPending(ctx context.Context, creditRequestID string, userID string, now time.Time) error {
	query := `
		UPDATE credit_requests
		SET status = $1, approved_by = NULL, approved_at = NULL, last_updated_at = $2, last_updated_by = $3
		WHERE credit_request_id = $4 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, domain.CreditPending, now, userID, creditRequestID, domain.CreditApproved)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("credit request %s", creditRequestID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: credit request %s is not approved", apperrors.ErrInvalidState, creditRequestID)
	}
	return nil
}
