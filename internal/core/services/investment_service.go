package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nexabank/corebanking/internal/apperrors"
	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
	portssvc "github.com/nexabank/corebanking/internal/core/ports/services"
	"github.com/nexabank/corebanking/internal/dto"
	"github.com/nexabank/corebanking/internal/middleware"
	"github.com/nexabank/corebanking/internal/utils/finance"
)

// investmentService manages investment funding, early cancellation and
// maturity completion. Every payout runs through the movement engine so the
// funding account's ledger stays complete.
type investmentService struct {
	investmentRepo portsrepo.InvestmentRepository
	accountRepo    portsrepo.AccountRepository
	movementSvc    portssvc.MovementSvcFacade
	notifier       portssvc.Notifier
	now            func() time.Time
}

// NewInvestmentService creates a new investment service.
func NewInvestmentService(investmentRepo portsrepo.InvestmentRepository, accountRepo portsrepo.AccountRepository, movementSvc portssvc.MovementSvcFacade, notifier portssvc.Notifier) portssvc.InvestmentSvcFacade {
	return &investmentService{
		investmentRepo: investmentRepo,
		accountRepo:    accountRepo,
		movementSvc:    movementSvc,
		notifier:       notifier,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.InvestmentSvcFacade = (*investmentService)(nil)

// CreateInvestment funds a new position: the principal is withdrawn from
// the funding account and the position becomes active. When the withdrawal
// fails the just-saved row is removed again so no unfunded position exists.
func (s *investmentService) CreateInvestment(ctx context.Context, ownerID string, req dto.CreateInvestmentRequest) (*domain.Investment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.InterestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: account %s does not belong to owner", apperrors.ErrValidation, req.AccountID)
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: account %s is %s", apperrors.ErrAccountNotActive, req.AccountID, account.Status)
	}

	currency := req.Currency
	if currency == "" {
		currency = account.Currency
	}
	if currency != account.Currency {
		return nil, fmt.Errorf("%w: account holds %s, investment is %s", apperrors.ErrCurrencyMismatch, account.Currency, currency)
	}
	if account.Balance.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: balance %s cannot fund %s", apperrors.ErrInsufficientFunds, account.Balance.String(), req.Amount.String())
	}

	now := s.now()
	inv := domain.Investment{
		InvestmentID:   uuid.NewString(),
		OwnerID:        ownerID,
		AccountID:      req.AccountID,
		Type:           req.Type,
		Amount:         req.Amount,
		Currency:       currency,
		TermDays:       req.TermDays,
		InterestRate:   req.InterestRate,
		ExpectedReturn: finance.ExpectedReturn(req.Amount, req.InterestRate, req.TermDays),
		Status:         domain.InvestmentActive,
		StartDate:      now,
		EndDate:        now.AddDate(0, 0, req.TermDays),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.investmentRepo.SaveInvestment(ctx, inv); err != nil {
		logger.Error("Failed to save investment", slog.String("owner_id", ownerID), slog.String("error", err.Error()))
		return nil, err
	}

	// The funding account appears on both sides of the row, matching the
	// deposit entries written at payout; the destination is record-only.
	_, err = s.movementSvc.Move(ctx, portssvc.MovementParams{
		SourceAccountID:      &inv.AccountID,
		DestinationAccountID: &inv.AccountID,
		Amount:               req.Amount,
		Currency:             currency,
		Kind:                 domain.KindWithdrawal,
		Description:          fmt.Sprintf("Investment funding %s", inv.InvestmentID),
		InitiatedBy:          ownerID,
	})
	if err != nil {
		logger.Warn("Investment funding failed, removing position",
			slog.String("investment_id", inv.InvestmentID),
			slog.String("error", err.Error()))
		if delErr := s.investmentRepo.DeleteInvestment(ctx, inv.InvestmentID); delErr != nil {
			logger.Error("Failed to remove unfunded investment", slog.String("investment_id", inv.InvestmentID), slog.String("error", delErr.Error()))
		}
		return nil, err
	}

	logger.Info("Investment created",
		slog.String("investment_id", inv.InvestmentID),
		slog.String("type", string(req.Type)),
		slog.String("amount", req.Amount.String()))

	if s.notifier != nil {
		s.notifier.Notify(ctx, portssvc.Event{
			Kind:       "investment.created",
			EntityID:   inv.InvestmentID,
			UserID:     ownerID,
			Detail:     fmt.Sprintf("%s investment of %s %s over %d days", req.Type, req.Amount.String(), currency, req.TermDays),
			OccurredAt: now,
		})
	}

	return &inv, nil
}

// CancelInvestment terminates an active position before maturity. An early
// cancellation penalty proportional to the remaining term, capped at 10% of
// principal, is withheld from the payout. The cancelled claim is reverted
// when the payout deposit fails.
func (s *investmentService) CancelInvestment(ctx context.Context, ownerID, investmentID string) (*portssvc.CancelInvestmentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	inv, err := s.investmentRepo.FindInvestmentByIDAndOwner(ctx, investmentID, ownerID)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvestmentActive {
		return nil, fmt.Errorf("%w: investment is %s", apperrors.ErrInvalidState, inv.Status)
	}

	now := s.now()
	daysRemaining := finance.CeilDaysBetween(now, inv.EndDate)
	penalty := finance.EarlyCancellationPenalty(inv.Amount, daysRemaining, inv.TermDays)
	payout := inv.Amount.Sub(penalty)

	claimed, err := s.investmentRepo.MarkCancelled(ctx, investmentID, payout.Sub(inv.Amount), ownerID, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("%w: investment already left the active state", apperrors.ErrInvalidState)
	}

	_, err = s.movementSvc.Move(ctx, portssvc.MovementParams{
		SourceAccountID:      &inv.AccountID,
		DestinationAccountID: &inv.AccountID,
		Amount:               payout,
		Currency:             inv.Currency,
		Kind:                 domain.KindDeposit,
		Description:          fmt.Sprintf("Investment cancellation payout %s", investmentID),
		InitiatedBy:          ownerID,
	})
	if err != nil {
		logger.Warn("Cancellation payout failed, reactivating investment",
			slog.String("investment_id", investmentID),
			slog.String("error", err.Error()))
		if reErr := s.investmentRepo.Reactivate(ctx, investmentID, ownerID, s.now()); reErr != nil {
			logger.Error("Failed to reactivate investment", slog.String("investment_id", investmentID), slog.String("error", reErr.Error()))
		}
		return nil, err
	}

	actualReturn := payout.Sub(inv.Amount) // Negative when a penalty applied.
	inv.Status = domain.InvestmentCancelled
	inv.ActualReturn = &actualReturn
	inv.LastUpdatedAt = now
	inv.LastUpdatedBy = ownerID

	logger.Info("Investment cancelled",
		slog.String("investment_id", investmentID),
		slog.String("payout", payout.String()),
		slog.String("penalty", penalty.String()))

	if s.notifier != nil {
		s.notifier.Notify(ctx, portssvc.Event{
			Kind:       "investment.cancelled",
			EntityID:   investmentID,
			UserID:     ownerID,
			Detail:     fmt.Sprintf("payout %s %s after penalty %s", payout.String(), inv.Currency, penalty.String()),
			OccurredAt: now,
		})
	}

	return &portssvc.CancelInvestmentResult{
		Investment:   inv,
		ReturnAmount: payout,
		Penalty:      penalty,
	}, nil
}

// CompleteInvestment pays out a matured position: principal plus the
// expected return. Completion before the end date is not allowed.
func (s *investmentService) CompleteInvestment(ctx context.Context, investmentID string) (*portssvc.CompleteInvestmentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	inv, err := s.investmentRepo.FindInvestmentByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvestmentActive {
		return nil, fmt.Errorf("%w: investment is %s", apperrors.ErrInvalidState, inv.Status)
	}

	now := s.now()
	if !inv.Matured(now) {
		return nil, fmt.Errorf("%w: investment matures at %s", apperrors.ErrInvalidState, inv.EndDate.Format(time.RFC3339))
	}

	payout := finance.MaturityPayout(inv.Amount, inv.ExpectedReturn)

	claimed, err := s.investmentRepo.MarkCompleted(ctx, investmentID, inv.ExpectedReturn, inv.OwnerID, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("%w: investment already left the active state", apperrors.ErrInvalidState)
	}

	_, err = s.movementSvc.Move(ctx, portssvc.MovementParams{
		SourceAccountID:      &inv.AccountID,
		DestinationAccountID: &inv.AccountID,
		Amount:               payout,
		Currency:             inv.Currency,
		Kind:                 domain.KindDeposit,
		Description:          fmt.Sprintf("Investment maturity payout %s", investmentID),
		InitiatedBy:          inv.OwnerID,
	})
	if err != nil {
		logger.Warn("Maturity payout failed, reactivating investment",
			slog.String("investment_id", investmentID),
			slog.String("error", err.Error()))
		if reErr := s.investmentRepo.Reactivate(ctx, investmentID, inv.OwnerID, s.now()); reErr != nil {
			logger.Error("Failed to reactivate investment", slog.String("investment_id", investmentID), slog.String("error", reErr.Error()))
		}
		return nil, err
	}

	actualReturn := inv.ExpectedReturn
	inv.Status = domain.InvestmentCompleted
	inv.ActualReturn = &actualReturn
	inv.LastUpdatedAt = now

	logger.Info("Investment completed",
		slog.String("investment_id", investmentID),
		slog.String("payout", payout.String()))

	if s.notifier != nil {
		s.notifier.Notify(ctx, portssvc.Event{
			Kind:       "investment.completed",
			EntityID:   investmentID,
			UserID:     inv.OwnerID,
			Detail:     fmt.Sprintf("maturity payout %s %s", payout.String(), inv.Currency),
			OccurredAt: now,
		})
	}

	return &portssvc.CompleteInvestmentResult{
		Investment:   inv,
		TotalAmount:  payout,
		ActualReturn: actualReturn,
	}, nil
}

// ListInvestments returns an owner's investments matching the filter.
func (s *investmentService) ListInvestments(ctx context.Context, ownerID string, filter portsrepo.InvestmentFilter) ([]domain.Investment, error) {
	return s.investmentRepo.ListInvestmentsByOwner(ctx, ownerID, filter)
}
