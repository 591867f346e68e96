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

const cardValidityYears = 3

var (
	creditLimitBase      = decimal.NewFromInt(50_000)
	creditLimitAgeCap    = decimal.NewFromInt(2)
	monthsPerYearDivisor = decimal.NewFromInt(12)
)

// creditLimitFor scales the base limit by account age:
// 50000 * (1 + min(accountAgeMonths/12, 2)).
func creditLimitFor(accountCreatedAt, now time.Time) decimal.Decimal {
	months := 0
	for cursor := accountCreatedAt.AddDate(0, 1, 0); !cursor.After(now); cursor = cursor.AddDate(0, 1, 0) {
		months++
	}
	ageFactor := decimal.NewFromInt(int64(months)).Div(monthsPerYearDivisor)
	if ageFactor.GreaterThan(creditLimitAgeCap) {
		ageFactor = creditLimitAgeCap
	}
	return creditLimitBase.Mul(decimal.NewFromInt(1).Add(ageFactor))
}

// cardService issues and charges virtual cards. Raw card numbers and CVVs
// exist only in the issuance response; every later read is masked.
type cardService struct {
	cardRepo    portsrepo.CardRepository
	accountRepo portsrepo.AccountRepository
	movementSvc portssvc.MovementSvcFacade
	idGen       *identifier.Generator
	notifier    portssvc.Notifier
	now         func() time.Time
}

// NewCardService creates a new card service.
func NewCardService(cardRepo portsrepo.CardRepository, accountRepo portsrepo.AccountRepository, movementSvc portssvc.MovementSvcFacade, idGen *identifier.Generator, notifier portssvc.Notifier) portssvc.CardSvcFacade {
	return &cardService{
		cardRepo:    cardRepo,
		accountRepo: accountRepo,
		movementSvc: movementSvc,
		idGen:       idGen,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.CardSvcFacade = (*cardService)(nil)

// IssueCard creates a new virtual card against a funding account. The
// response is the only place the full number and CVV ever appear.
func (s *cardService) IssueCard(ctx context.Context, ownerID string, req dto.IssueCardRequest) (*dto.CardResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

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

	cardNumber, err := s.idGen.CardNumber(ctx)
	if err != nil {
		logger.Error("Failed to generate card number", slog.String("error", err.Error()))
		return nil, err
	}
	cvv, err := s.idGen.CVV()
	if err != nil {
		return nil, err
	}

	now := s.now()
	creditLimit := decimal.Zero
	if req.Type == domain.CreditCard {
		creditLimit = creditLimitFor(account.CreatedAt, now)
	}

	card := domain.VirtualCard{
		CardID:         uuid.NewString(),
		OwnerID:        ownerID,
		AccountID:      account.AccountID,
		CardNumber:     cardNumber,
		CVV:            cvv,
		ExpirationDate: now.AddDate(cardValidityYears, 0, 0),
		Type:           req.Type,
		Status:         domain.CardActive,
		CreditLimit:    creditLimit,
		UsedLimit:      decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.cardRepo.SaveCard(ctx, card); err != nil {
		logger.Error("Failed to save card", slog.String("owner_id", ownerID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Card issued",
		slog.String("card_id", card.CardID),
		slog.String("type", string(req.Type)),
		slog.String("masked_number", card.MaskedNumber()))

	if s.notifier != nil {
		s.notifier.Notify(ctx, portssvc.Event{
			Kind:       "card.issued",
			EntityID:   card.CardID,
			UserID:     ownerID,
			Detail:     fmt.Sprintf("%s card %s issued", req.Type, card.MaskedNumber()),
			OccurredAt: now,
		})
	}

	// Issuance is the single disclosure point for the raw credentials.
	resp := dto.ToCardResponse(&card)
	resp.CardNumber = cardNumber
	resp.CVV = cvv
	return &resp, nil
}

// ChargeCard pays a merchant from a card. Debit cards debit the funding
// account directly; credit cards claim headroom on the issued limit and the
// funding account stays on the row as a record-only source.
func (s *cardService) ChargeCard(ctx context.Context, cardID string, amount decimal.Decimal, merchantAccountID, merchantName, initiatedBy string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	card, err := s.cardRepo.FindCardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.Status != domain.CardActive {
		return nil, fmt.Errorf("%w: card is %s", apperrors.ErrInvalidState, card.Status)
	}
	if s.now().After(card.ExpirationDate) {
		return nil, fmt.Errorf("%w: card expired %s", apperrors.ErrExpired, card.ExpirationDate.Format("2006-01"))
	}

	description := fmt.Sprintf("Card payment %s", card.MaskedNumber())
	if merchantName != "" {
		description = fmt.Sprintf("Card payment %s to %s", card.MaskedNumber(), merchantName)
	}

	merchant, err := s.accountRepo.FindAccountByID(ctx, merchantAccountID)
	if err != nil {
		return nil, err
	}

	switch card.Type {
	case domain.DebitCard:
		return s.movementSvc.Move(ctx, portssvc.MovementParams{
			SourceAccountID:      &card.AccountID,
			DestinationAccountID: &merchant.AccountID,
			Amount:               amount,
			Currency:             merchant.Currency,
			Kind:                 domain.KindPayment,
			Description:          description,
			InitiatedBy:          initiatedBy,
		})

	case domain.CreditCard:
		now := s.now()
		claimed, err := s.cardRepo.ClaimCreditDraw(ctx, cardID, amount, initiatedBy, now)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, fmt.Errorf("%w: available credit %s cannot cover %s", apperrors.ErrCreditLimitExceeded, card.AvailableCredit().String(), amount.String())
		}

		// The draw lives on the card limit; only the merchant balance
		// changes. The funding account still goes on the row so its
		// history shows the charge.
		txn, err := s.movementSvc.Move(ctx, portssvc.MovementParams{
			SourceAccountID:      &card.AccountID,
			DestinationAccountID: &merchant.AccountID,
			SourceRecordOnly:     true,
			Amount:               amount,
			Currency:             merchant.Currency,
			Kind:                 domain.KindPayment,
			Description:          description,
			InitiatedBy:          initiatedBy,
		})
		if err != nil {
			logger.Warn("Credit card payment failed, releasing draw",
				slog.String("card_id", cardID),
				slog.String("error", err.Error()))
			if relErr := s.cardRepo.ReleaseCreditDraw(ctx, cardID, amount, initiatedBy, s.now()); relErr != nil {
				logger.Error("Failed to release credit draw", slog.String("card_id", cardID), slog.String("error", relErr.Error()))
			}
			return nil, err
		}
		return txn, nil

	default:
		return nil, fmt.Errorf("%w: unknown card type %q", apperrors.ErrValidation, card.Type)
	}
}

// ListCards returns sanitized views of an owner's cards.
func (s *cardService) ListCards(ctx context.Context, ownerID string, filter portsrepo.CardFilter) ([]dto.CardResponse, error) {
	cards, err := s.cardRepo.ListCardsByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	return dto.ToCardResponses(cards), nil
}

// UpdateCardStatus changes a card's lifecycle state.
func (s *cardService) UpdateCardStatus(ctx context.Context, cardID string, status domain.CardStatus, userID string) (*dto.CardResponse, error) {
	card, err := s.cardRepo.FindCardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if card.Status != status {
		if err := s.cardRepo.UpdateCardStatus(ctx, cardID, status, userID, now); err != nil {
			return nil, err
		}
		card.Status = status
		card.LastUpdatedAt = now
		card.LastUpdatedBy = userID
	}

	resp := dto.ToCardResponse(card)
	return &resp, nil
}
