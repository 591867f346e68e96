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

const cardColumns = `card_id, owner_id, account_id, card_number, cvv, expiration_date, card_type, status, credit_limit, used_limit, created_at, created_by, last_updated_at, last_updated_by`

type PgxCardRepository struct {
	BaseRepository
}

// newPgxCardRepository creates a new repository for virtual cards.
func newPgxCardRepository(pool *pgxpool.Pool) portsrepo.CardRepository {
	return &PgxCardRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CardRepository = (*PgxCardRepository)(nil)

func scanCard(row pgx.Row) (*domain.VirtualCard, error) {
	var card domain.VirtualCard
	err := row.Scan(
		&card.CardID,
		&card.OwnerID,
		&card.AccountID,
		&card.CardNumber,
		&card.CVV,
		&card.ExpirationDate,
		&card.Type,
		&card.Status,
		&card.CreditLimit,
		&card.UsedLimit,
		&card.CreatedAt,
		&card.CreatedBy,
		&card.LastUpdatedAt,
		&card.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// SaveCard inserts a new virtual card.
func (r *PgxCardRepository) SaveCard(ctx context.Context, card domain.VirtualCard) error {
	query := `
		INSERT INTO virtual_cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		card.CardID,
		card.OwnerID,
		card.AccountID,
		card.CardNumber,
		card.CVV,
		card.ExpirationDate,
		card.Type,
		card.Status,
		card.CreditLimit,
		card.UsedLimit,
		card.CreatedAt,
		card.CreatedBy,
		card.LastUpdatedAt,
		card.LastUpdatedBy,
	)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("card %s", card.CardID))
	}
	return nil
}

// FindCardByID retrieves a card by its ID.
func (r *PgxCardRepository) FindCardByID(ctx context.Context, cardID string) (*domain.VirtualCard, error) {
	query := `SELECT ` + cardColumns + ` FROM virtual_cards WHERE card_id = $1;`
	card, err := scanCard(r.Pool.QueryRow(ctx, query, cardID))
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("card %s", cardID))
	}
	return card, nil
}

// ListCardsByOwner returns an owner's cards, newest first.
func (r *PgxCardRepository) ListCardsByOwner(ctx context.Context, ownerID string, filter portsrepo.CardFilter) ([]domain.VirtualCard, error) {
	query := `SELECT ` + cardColumns + ` FROM virtual_cards WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND card_type = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError(err, fmt.Sprintf("cards of owner %s", ownerID))
	}
	defer rows.Close()

	var cards []domain.VirtualCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, mapStoreError(err, "card row")
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err, "card rows")
	}
	return cards, nil
}

// CardNumberExists reports whether a card number is already taken.
func (r *PgxCardRepository) CardNumberExists(ctx context.Context, cardNumber string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM virtual_cards WHERE card_number = $1);`, cardNumber).Scan(&exists)
	if err != nil {
		return false, mapStoreError(err, "card number probe")
	}
	return exists, nil
}

// UpdateCardStatus changes a card's lifecycle state.
func (r *PgxCardRepository) UpdateCardStatus(ctx context.Context, cardID string, status domain.CardStatus, userID string, now time.Time) error {
	query := `
		UPDATE virtual_cards
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE card_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, status, now, userID, cardID)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("card %s", cardID))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ClaimCreditDraw raises used_limit by amount in one conditional update that
// checks status, type and headroom at once, so used_limit can never exceed
// credit_limit under concurrency. Reports false when the claim lost.
func (r *PgxCardRepository) ClaimCreditDraw(ctx context.Context, cardID string, amount decimal.Decimal, userID string, now time.Time) (bool, error) {
	query := `
		UPDATE virtual_cards
		SET used_limit = used_limit + $1, last_updated_at = $2, last_updated_by = $3
		WHERE card_id = $4
		  AND card_type = $5
		  AND status = $6
		  AND used_limit + $1 <= credit_limit;
	`
	tag, err := r.Pool.Exec(ctx, query, amount, now, userID, cardID, domain.CreditCard, domain.CardActive)
	if err != nil {
		return false, mapStoreError(err, fmt.Sprintf("credit draw on card %s", cardID))
	}
	return tag.RowsAffected() > 0, nil
}

// ReleaseCreditDraw lowers used_limit after a failed payment movement. The
// floor guard keeps a stray release from driving used_limit negative.
func (r *PgxCardRepository) ReleaseCreditDraw(ctx context.Context, cardID string, amount decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE virtual_cards
		SET used_limit = used_limit - $1, last_updated_at = $2, last_updated_by = $3
		WHERE card_id = $4 AND used_limit >= $1;
	`
	tag, err := r.Pool.Exec(ctx, query, amount, now, userID, cardID)
	if err != nil {
		return mapStoreError(err, fmt.Sprintf("credit release on card %s", cardID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: card %s has no matching draw to release", apperrors.ErrInvalidState, cardID)
	}
	return nil
}
