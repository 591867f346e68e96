package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/apperrors"
	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
	portssvc "github.com/nexabank/corebanking/internal/core/ports/services"
	"github.com/nexabank/corebanking/internal/dto"
	"github.com/nexabank/corebanking/internal/middleware"
	"github.com/nexabank/corebanking/internal/utils/identifier"
)

// defaultInterestRates are the per-type annual rates applied when account
// creation does not specify one.
var defaultInterestRates = map[domain.AccountType]decimal.Decimal{
	domain.Savings:           decimal.NewFromFloat(0.025),
	domain.Checking:          decimal.NewFromFloat(0.005),
	domain.InvestmentAccount: decimal.NewFromFloat(0.05),
}

// accountService manages account lifecycle and reads.
type accountService struct {
	accountRepo portsrepo.AccountRepository
	userRepo    portsrepo.UserRepository
	idGen       *identifier.Generator
	notifier    portssvc.Notifier
	now         func() time.Time
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepository, userRepo portsrepo.UserRepository, idGen *identifier.Generator, notifier portssvc.Notifier) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		idGen:       idGen,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens a new account for an existing active owner. The
// account number is generated with a uniqueness check, the balance starts
// at zero and the status at active.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	owner, err := s.userRepo.FindUserByID(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner.Status != domain.UserActive {
		return nil, fmt.Errorf("%w: owner %s is not active", apperrors.ErrValidation, owner.UserID)
	}

	currency := req.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	rate, ok := defaultInterestRates[req.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.Type)
	}
	if req.InterestRate != nil {
		if req.InterestRate.IsNegative() {
			return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrValidation)
		}
		rate = *req.InterestRate
	}

	accountNumber, err := s.idGen.AccountNumber(ctx)
	if err != nil {
		logger.Error("Failed to generate account number", slog.String("error", err.Error()))
		return nil, err
	}

	now := s.now()
	account := domain.Account{
		AccountID:               uuid.NewString(),
		OwnerID:                 owner.UserID,
		AccountNumber:           accountNumber,
		Type:                    req.Type,
		Currency:                currency,
		Balance:                 decimal.Zero,
		Status:                  domain.AccountActive,
		InterestRate:            rate,
		LastInterestCalculation: now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("account_number", accountNumber), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("owner_id", owner.UserID),
		slog.String("type", string(req.Type)))

	if s.notifier != nil {
		s.notifier.Notify(ctx, portssvc.Event{
			Kind:       "account.created",
			EntityID:   account.AccountID,
			UserID:     owner.UserID,
			Detail:     fmt.Sprintf("%s account %s opened", account.Type, account.AccountNumber),
			OccurredAt: now,
		})
	}

	return &account, nil
}

// GetAccount fetches a single account by ID.
func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountBalance returns only the current balance.
func (s *accountService) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// ListAccounts returns all accounts of an owner.
func (s *accountService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	if _, err := s.userRepo.FindUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccountsByOwner(ctx, ownerID)
}

// UpdateAccountStatus applies an explicit administrative status change and
// returns the updated account.
func (s *accountService) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, adminID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status == status {
		return account, nil
	}

	now := s.now()
	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, status, adminID, now); err != nil {
		logger.Error("Failed to update account status", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, err
	}

	account.Status = status
	account.LastUpdatedAt = now
	account.LastUpdatedBy = adminID

	logger.Info("Account status updated",
		slog.String("account_id", accountID),
		slog.String("status", string(status)))

	return account, nil
}
