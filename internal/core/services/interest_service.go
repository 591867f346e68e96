package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/apperrors"
	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
	portssvc "github.com/nexabank/corebanking/internal/core/ports/services"
	"github.com/nexabank/corebanking/internal/middleware"
	"github.com/nexabank/corebanking/internal/utils/finance"
)

// interestService accrues simple daily interest as deposit movements so
// every credited cent has a ledger transaction behind it.
type interestService struct {
	accountRepo portsrepo.AccountRepository
	movementSvc portssvc.MovementSvcFacade
	now         func() time.Time
}

// NewInterestService creates a new interest accrual service.
func NewInterestService(accountRepo portsrepo.AccountRepository, movementSvc portssvc.MovementSvcFacade) portssvc.InterestSvcFacade {
	return &interestService{
		accountRepo: accountRepo,
		movementSvc: movementSvc,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.InterestSvcFacade = (*interestService)(nil)

// AccrueInterest credits interest for the whole days elapsed since the last
// calculation. The checkpoint is claimed first so two concurrent accruals
// cannot both deposit; a failed deposit puts the checkpoint back.
func (s *interestService) AccrueInterest(ctx context.Context, accountID string, initiatedBy string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if !account.IsActive() {
		return decimal.Zero, fmt.Errorf("%w: account %s is %s", apperrors.ErrAccountNotActive, accountID, account.Status)
	}

	now := s.now()
	days := finance.WholeDaysBetween(account.LastInterestCalculation, now)
	if days == 0 {
		// Same-day repeat; nothing to accrue.
		return decimal.Zero, nil
	}

	interest := finance.DailyInterest(account.Balance, account.InterestRate, days)
	if !interest.IsPositive() {
		// A zero balance still advances the checkpoint so the idle span is
		// not re-inspected on every call.
		if _, err := s.accountRepo.ClaimInterestCheckpoint(ctx, accountID, account.LastInterestCalculation, now, initiatedBy); err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, nil
	}

	claimed, err := s.accountRepo.ClaimInterestCheckpoint(ctx, accountID, account.LastInterestCalculation, now, initiatedBy)
	if err != nil {
		return decimal.Zero, err
	}
	if !claimed {
		// Another accrual advanced the checkpoint first.
		return decimal.Zero, nil
	}

	// Both sides reference the accruing account; the source is record-only
	// on deposits.
	_, err = s.movementSvc.Move(ctx, portssvc.MovementParams{
		SourceAccountID:      &accountID,
		DestinationAccountID: &accountID,
		Amount:               interest,
		Currency:             account.Currency,
		Kind:                 domain.KindDeposit,
		Description:          fmt.Sprintf("Interest accrual for %d day(s)", days),
		InitiatedBy:          initiatedBy,
	})
	if err != nil {
		logger.Warn("Interest deposit failed, restoring checkpoint",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
		if restoreErr := s.accountRepo.RestoreInterestCheckpoint(ctx, accountID, account.LastInterestCalculation, initiatedBy); restoreErr != nil {
			logger.Error("Failed to restore interest checkpoint", slog.String("account_id", accountID), slog.String("error", restoreErr.Error()))
		}
		return decimal.Zero, err
	}

	logger.Info("Interest accrued",
		slog.String("account_id", accountID),
		slog.Int("days", days),
		slog.String("interest", interest.String()))

	return interest, nil
}
