package repositories

import (
	"context"
	"time"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// CreditFilter narrows credit request listings.
type CreditFilter struct {
	OwnerID   *string
	Status    *domain.CreditStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// CreditRepository persists credit requests. The pending -> approved and
// pending -> rejected transitions are conditional updates: they report false
// when the request was no longer pending, so concurrent decisions cannot
// both win.
type CreditRepository interface {
	SaveCreditRequest(ctx context.Context, req domain.CreditRequest) error
	FindCreditRequestByID(ctx context.Context, creditRequestID string) (*domain.CreditRequest, error)
	ListCreditRequests(ctx context.Context, filter CreditFilter) ([]domain.CreditRequest, error)

	MarkApproved(ctx context.Context, creditRequestID, adminID string, now time.Time) (bool, error)
	MarkRejected(ctx context.Context, creditRequestID, adminID, reason string, now time.Time) (bool, error)
	// UpdateCreditDocuments replaces the documents while the request is
	// still pending; it reports false once a decision has been made.
	UpdateCreditDocuments(ctx context.Context, creditRequestID string, documents []string, userID string, now time.Time) (bool, error)
	// RevertToPending undoes an approval claim whose disbursement failed.
	RevertToPending(ctx context.Context, creditRequestID string, userID string, now time.Time) error
}
