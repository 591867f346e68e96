package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
	"github.com/nexabank/corebanking/internal/dto"
)

// AccountSvcFacade manages account lifecycle and reads.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, adminID string) (*domain.Account, error)
}

// InterestSvcFacade accrues daily interest on accounts.
type InterestSvcFacade interface {
	// AccrueInterest credits interest for the whole days elapsed since the
	// last calculation. Calling it twice within the same day is a no-op the
	// second time and returns zero.
	AccrueInterest(ctx context.Context, accountID string, initiatedBy string) (decimal.Decimal, error)
}
