package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// InvestmentFilter narrows investment listings.
type InvestmentFilter struct {
	Type   *domain.InvestmentType
	Status *domain.InvestmentStatus
}

// InvestmentRepository persists investments. Terminal transitions out of
// active are conditional updates reporting false on a lost race.
type InvestmentRepository interface {
	SaveInvestment(ctx context.Context, inv domain.Investment) error
	FindInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error)
	FindInvestmentByIDAndOwner(ctx context.Context, investmentID, ownerID string) (*domain.Investment, error)
	ListInvestmentsByOwner(ctx context.Context, ownerID string, filter InvestmentFilter) ([]domain.Investment, error)

	MarkCancelled(ctx context.Context, investmentID string, actualReturn decimal.Decimal, userID string, now time.Time) (bool, error)
	MarkCompleted(ctx context.Context, investmentID string, actualReturn decimal.Decimal, userID string, now time.Time) (bool, error)
	// Reactivate undoes a terminal claim whose payout movement failed.
	Reactivate(ctx context.Context, investmentID string, userID string, now time.Time) error
	// DeleteInvestment removes an investment whose funding movement failed
	// before it ever became visible.
	DeleteInvestment(ctx context.Context, investmentID string) error
}
