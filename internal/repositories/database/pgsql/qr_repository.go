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

const qrColumns = `qr_code_id, merchant_id, qr_type, amount, currency, description, status, expires_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxQRCodeRepository struct {
	BaseRepository
}

// newPgxQRCodeRepository creates a new repository for QR payment codes.
func newPgxQRCodeRepository(pool *pgxpool.Pool) portsrepo.QRCodeRepository {
	return &PgxQRCodeRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.QRCodeRepository = (*PgxQRCodeRepository)(nil)

func scanQRCode(row pgx.Row) (*domain.QRCode, error) {
	var qr domain.QRCode
	err := row.Scan(
		&qr.QRCodeID,
		&qr.MerchantID,
		&qr.Type,
		&qr.Amount,
		&qr.Currency,
		&qr.Description,
		&qr.Status,
		&qr.ExpiresAt,
		&qr.CreatedAt,
		&qr.CreatedBy,
		&qr.LastUpdatedAt,
		&qr.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

// SaveQRCode inserts a new QR code.
func (r *PgxQRCodeRepository) SaveQRCode(ctx context.Context, qr domain.QRCode) error {
	query := `
		INSERT INTO qr_codes (` + qrColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		qr.QRCodeID,
		qr.MerchantID,
		qr.Type,
		qr.Amount,
		qr.Currency,
		qr.Description,
		qr.Status,
		qr.ExpiresAt,
		qr.CreatedAt,
		qr.CreatedBy,
		qr.LastUpdatedAt,
		qr.LastUpdatedBy,
	)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("QR code %s", qr.QRCodeID))
	}
	return nil
}

// FindQRCodeByID retrieves a QR code by its ID.
func (r *PgxQRCodeRepository) FindQRCodeByID(ctx context.Context, qrCodeID string) (*domain.QRCode, error) {
	query := `SELECT ` + qrColumns + ` FROM qr_codes WHERE qr_code_id = $1;`
	qr, err := scanQRCode(r.Pool.QueryRow(ctx, query, qrCodeID))
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("QR code %s", qrCodeID))
	}
	return qr, nil
}

// ListQRCodesByMerchant returns a merchant's codes, newest first.
func (r *PgxQRCodeRepository) ListQRCodesByMerchant(ctx context.Context, merchantID string, filter portsrepo.QRFilter) ([]domain.QRCode, error) {
	query := `SELECT ` + qrColumns + ` FROM qr_codes WHERE merchant_id = $1`
	args := []any{merchantID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND qr_type = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("QR codes of merchant %s", merchantID))
	}
	defer rows.Close()

	var codes []domain.QRCode
	for rows.Next() {
		qr, err := scanQRCode(rows)
		if err != nil {
			return nil, mapStoreError(err, "QR code row")
		}
		codes = append(codes, *qr)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err, "QR code rows")
	}
	return codes, nil
}

// UpdateQRCodeStatus changes a code's lifecycle state.
func (r *PgxQRCodeRepository) UpdateQRCodeStatus(ctx context.Context, qrCodeID string, status domain.QRStatus, userID string, now time.Time) error {
	query := `
		UPDATE qr_codes
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE qr_code_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, status, now, userID, qrCodeID)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("QR code %s", qrCodeID))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ClaimDynamicQR flips an active dynamic code to inactive. The status guard
// makes the flip single-winner under concurrent scans.
func (r *PgxQRCodeRepository) ClaimDynamicQR(ctx context.Context, qrCodeID string, userID string, now time.Time) (bool, error) {
	query := `
		UPDATE qr_codes
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE qr_code_id = $4 AND qr_type = $5 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, domain.QRInactive, now, userID, qrCodeID, domain.DynamicQR, domain.QRActive)
	if err != nil {
		return false, mapStoreError(err, fmt.Sprintf("QR code %s", qrCodeID))
	}
	return tag.RowsAffected() > 0, nil
}

// ReleaseDynamicQR reopens a claimed code after its payment failed.
func (r *PgxQRCodeRepository) ReleaseDynamicQR(ctx context.Context, qrCodeID string, userID string, now time.Time) error {
	query := `
		UPDATE qr_codes
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE qr_code_id = $4 AND qr_type = $5 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, domain.QRActive, now, userID, qrCodeID, domain.DynamicQR, domain.QRInactive)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("QR code %s", qrCodeID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: QR code %s is not claimed", apperrors.ErrInvalidState, qrCodeID)
	}
	return nil
}
