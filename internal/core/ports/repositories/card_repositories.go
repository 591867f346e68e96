package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// CardFilter narrows card listings.
type CardFilter struct {
	Type   *domain.CardType
	Status *domain.CardStatus
}

// CardRepository persists virtual cards. Credit draws are claimed through a
// single conditional update that checks status, type and headroom at once,
// so usedLimit <= creditLimit holds under concurrency.
type CardRepository interface {
	SaveCard(ctx context.Context, card domain.VirtualCard) error
	FindCardByID(ctx context.Context, cardID string) (*domain.VirtualCard, error)
	ListCardsByOwner(ctx context.Context, ownerID string, filter CardFilter) ([]domain.VirtualCard, error)
	CardNumberExists(ctx context.Context, cardNumber string) (bool, error)
	UpdateCardStatus(ctx context.Context, cardID string, status domain.CardStatus, userID string, now time.Time) error

	// ClaimCreditDraw atomically raises used_limit by amount when the card is
	// an active credit card with enough headroom. Reports false otherwise.
	ClaimCreditDraw(ctx context.Context, cardID string, amount decimal.Decimal, userID string, now time.Time) (bool, error)
	// ReleaseCreditDraw lowers used_limit after a failed payment movement.
	ReleaseCreditDraw(ctx context.Context, cardID string, amount decimal.Decimal, userID string, now time.Time) error
}
