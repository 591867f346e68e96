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

// creditService underwrites credit requests and disburses approved loans to
// the borrower's checking account.
type creditService struct {
	creditRepo  portsrepo.CreditRepository
	accountRepo portsrepo.AccountRepository
	userRepo    portsrepo.UserRepository
	movementSvc portssvc.MovementSvcFacade
	notifier    portssvc.Notifier
	now         func() time.Time
}

// NewCreditService creates a new credit underwriting service.
func NewCreditService(creditRepo portsrepo.CreditRepository, accountRepo portsrepo.AccountRepository, userRepo portsrepo.UserRepository, movementSvc portssvc.MovementSvcFacade, notifier portssvc.Notifier) portssvc.CreditSvcFacade {
	return &creditService{
		creditRepo:  creditRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		movementSvc: movementSvc,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.CreditSvcFacade = (*creditService)(nil)

// RequestCredit creates a pending credit request. Rate and monthly payment
// are computed once here and fixed for the life of the request. The
// borrower must already hold a checking account so an eventual approval has
// somewhere to disburse to.
func (s *creditService) RequestCredit(ctx context.Context, ownerID string, req dto.CreateCreditRequest) (*domain.CreditRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	owner, err := s.userRepo.FindUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Status != domain.UserActive {
		return nil, fmt.Errorf("%w: owner %s is not active", apperrors.ErrValidation, ownerID)
	}

	checking, err := s.accountRepo.FindCheckingAccountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("borrower has no checking account for disbursement: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = checking.Currency
	}
	if currency != checking.Currency {
		return nil, fmt.Errorf("%w: checking account holds %s, request is %s", apperrors.ErrCurrencyMismatch, checking.Currency, currency)
	}

	rate := finance.CreditInterestRate(req.Amount, req.TermMonths)
	payment := finance.MonthlyPayment(req.Amount, rate, req.TermMonths)

	documents := req.Documents
	if documents == nil {
		documents = []string{}
	}

	now := s.now()
	credit := domain.CreditRequest{
		CreditRequestID: uuid.NewString(),
		OwnerID:         ownerID,
		Amount:          req.Amount,
		Currency:        currency,
		TermMonths:      req.TermMonths,
		InterestRate:    rate,
		MonthlyPayment:  payment,
		Purpose:         req.Purpose,
		Documents:       documents,
		Status:          domain.CreditPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.creditRepo.SaveCreditRequest(ctx, credit); err != nil {
		logger.Error("Failed to save credit request", slog.String("owner_id", ownerID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Credit requested",
		slog.String("credit_request_id", credit.CreditRequestID),
		slog.String("amount", req.Amount.String()),
		slog.String("rate", rate.String()))

	if s.notifier != nil {
		s.notifier.Notify(ctx, portssvc.Event{
			Kind:       "credit.requested",
			EntityID:   credit.CreditRequestID,
			UserID:     ownerID,
			Detail:     fmt.Sprintf("credit request for %s %s over %d months", req.Amount.String(), currency, req.TermMonths),
			OccurredAt: now,
		})
	}

	return &credit, nil
}

// ApproveCredit decides a pending request and disburses the amount to the
// borrower's checking account. The pending -> approved transition is a
// conditional claim; when the disbursement fails the claim is reverted so
// the request can be decided again.
func (s *creditService) ApproveCredit(ctx context.Context, creditRequestID, adminID string) (*domain.CreditRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	admin, err := s.userRepo.FindUserByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins can decide credit requests", apperrors.ErrValidation)
	}

	credit, err := s.creditRepo.FindCreditRequestByID(ctx, creditRequestID)
	if err != nil {
		return nil, err
	}
	if credit.Status != domain.CreditPending {
		return nil, fmt.Errorf("%w: credit request is %s", apperrors.ErrAlreadyProcessed, credit.Status)
	}

	checking, err := s.accountRepo.FindCheckingAccountByOwner(ctx, credit.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("borrower has no checking account for disbursement: %w", err)
	}

	now := s.now()
	claimed, err := s.creditRepo.MarkApproved(ctx, creditRequestID, adminID, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("%w: credit request already decided", apperrors.ErrAlreadyProcessed)
	}

	_, err = s.movementSvc.Move(ctx, portssvc.MovementParams{
		SourceAccountID:      &checking.AccountID,
		DestinationAccountID: &checking.AccountID,
		Amount:               credit.Amount,
		Currency:             credit.Currency,
		Kind:                 domain.KindDeposit,
		Description:          fmt.Sprintf("Credit disbursement %s", creditRequestID),
		InitiatedBy:          adminID,
	})
	if err != nil {
		logger.Warn("Disbursement failed, reverting approval",
			slog.String("credit_request_id", creditRequestID),
			slog.String("error", err.Error()))
		if revertErr := s.creditRepo.RevertToPending(ctx, creditRequestID, adminID, s.now()); revertErr != nil {
			logger.Error("Failed to revert credit approval", slog.String("credit_request_id", creditRequestID), slog.String("error", revertErr.Error()))
		}
		return nil, err
	}

	credit.Status = domain.CreditApproved
	credit.ApprovedBy = adminID
	credit.ApprovedAt = &now
	credit.LastUpdatedAt = now
	credit.LastUpdatedBy = adminID

	logger.Info("Credit approved",
		slog.String("credit_request_id", creditRequestID),
		slog.String("admin_id", adminID),
		slog.String("amount", credit.Amount.String()))

	if s.notifier != nil {
		s.notifier.Notify(ctx, portssvc.Event{
			Kind:       "credit.approved",
			EntityID:   creditRequestID,
			UserID:     credit.OwnerID,
			Detail:     fmt.Sprintf("credit of %s %s approved and disbursed", credit.Amount.String(), credit.Currency),
			OccurredAt: now,
		})
	}

	return credit, nil
}

// RejectCredit decides a pending request negatively. Terminal; no money moves.
func (s *creditService) RejectCredit(ctx context.Context, creditRequestID, adminID, reason string) (*domain.CreditRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	admin, err := s.userRepo.FindUserByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins can decide credit requests", apperrors.ErrValidation)
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	credit, err := s.creditRepo.FindCreditRequestByID(ctx, creditRequestID)
	if err != nil {
		return nil, err
	}
	if credit.Status != domain.CreditPending {
		return nil, fmt.Errorf("%w: credit request is %s", apperrors.ErrAlreadyProcessed, credit.Status)
	}

	now := s.now()
	claimed, err := s.creditRepo.MarkRejected(ctx, creditRequestID, adminID, reason, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("%w: credit request already decided", apperrors.ErrAlreadyProcessed)
	}

	credit.Status = domain.CreditRejected
	credit.RejectedBy = adminID
	credit.RejectedAt = &now
	credit.RejectionReason = reason
	credit.LastUpdatedAt = now
	credit.LastUpdatedBy = adminID

	logger.Info("Credit rejected",
		slog.String("credit_request_id", creditRequestID),
		slog.String("admin_id", adminID))

	if s.notifier != nil {
		s.notifier.Notify(ctx, portssvc.Event{
			Kind:       "credit.rejected",
			EntityID:   creditRequestID,
			UserID:     credit.OwnerID,
			Detail:     reason,
			OccurredAt: now,
		})
	}

	return credit, nil
}

// UpdateCreditDocuments replaces the supporting documents on a request the
// caller owns. Only pending requests can be amended; once a decision has
// been made the submission is frozen.
func (s *creditService) UpdateCreditDocuments(ctx context.Context, creditRequestID, ownerID string, documents []string) (*domain.CreditRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: at least one document is required", apperrors.ErrValidation)
	}

	credit, err := s.creditRepo.FindCreditRequestByID(ctx, creditRequestID)
	if err != nil {
		return nil, err
	}
	if credit.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: credit request does not belong to caller", apperrors.ErrValidation)
	}
	if credit.Status != domain.CreditPending {
		return nil, fmt.Errorf("%w: credit request is %s", apperrors.ErrAlreadyProcessed, credit.Status)
	}

	now := s.now()
	updated, err := s.creditRepo.UpdateCreditDocuments(ctx, creditRequestID, documents, ownerID, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: credit request already decided", apperrors.ErrAlreadyProcessed)
	}

	credit.Documents = documents
	credit.LastUpdatedAt = now
	credit.LastUpdatedBy = ownerID

	logger.Info("Credit documents updated",
		slog.String("credit_request_id", creditRequestID),
		slog.Int("documents", len(documents)))

	return credit, nil
}

// ListCreditRequests returns credit requests matching the filter; intended
// for the admin review queue.
func (s *creditService) ListCreditRequests(ctx context.Context, filter portsrepo.CreditFilter) ([]domain.CreditRequest, error) {
	return s.creditRepo.ListCreditRequests(ctx, filter)
}

// GetCreditHistory returns all of an owner's credit requests.
func (s *creditService) GetCreditHistory(ctx context.Context, ownerID string) ([]domain.CreditRequest, error) {
	if _, err := s.userRepo.FindUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.creditRepo.ListCreditRequests(ctx, portsrepo.CreditFilter{OwnerID: &ownerID})
}
