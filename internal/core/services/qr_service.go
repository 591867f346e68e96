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
	"github.com/nexabank/corebanking/internal/middleware"
)

const dynamicQRValidity = 24 * time.Hour

// qrService creates and collects QR payment codes. Collections land on the
// merchant's checking account through the movement engine.
type qrService struct {
	qrRepo      portsrepo.QRCodeRepository
	accountRepo portsrepo.AccountRepository
	userRepo    portsrepo.UserRepository
	movementSvc portssvc.MovementSvcFacade
	notifier    portssvc.Notifier
	now         func() time.Time
}

// NewQRService creates a new QR payment service.
func NewQRService(qrRepo portsrepo.QRCodeRepository, accountRepo portsrepo.AccountRepository, userRepo portsrepo.UserRepository, movementSvc portssvc.MovementSvcFacade, notifier portssvc.Notifier) portssvc.QRSvcFacade {
	return &qrService{
		qrRepo:      qrRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		movementSvc: movementSvc,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.QRSvcFacade = (*qrService)(nil)

// merchantCollectionAccount resolves where a merchant's QR collections land.
func (s *qrService) merchantCollectionAccount(ctx context.Context, merchantID string) (*domain.Account, error) {
	if _, err := s.userRepo.FindUserByID(ctx, merchantID); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindCheckingAccountByOwner(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("merchant has no checking account for collection: %w", err)
	}
	return account, nil
}

// CreateStaticQR creates a reusable collection code; the payer chooses the
// amount at scan time.
func (s *qrService) CreateStaticQR(ctx context.Context, merchantID, description string) (*domain.QRCode, error) {
	account, err := s.merchantCollectionAccount(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	qr := domain.QRCode{
		QRCodeID:    uuid.NewString(),
		MerchantID:  merchantID,
		Type:        domain.StaticQR,
		Currency:    account.Currency,
		Description: description,
		Status:      domain.QRActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     merchantID,
			LastUpdatedAt: now,
			LastUpdatedBy: merchantID,
		},
	}

	if err := s.qrRepo.SaveQRCode(ctx, qr); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Static QR created",
		slog.String("qr_code_id", qr.QRCodeID),
		slog.String("merchant_id", merchantID))

	return &qr, nil
}

// CreateDynamicQR creates a single-use code carrying a fixed amount, valid
// for 24 hours.
func (s *qrService) CreateDynamicQR(ctx context.Context, merchantID string, amount decimal.Decimal, currency, description string) (*domain.QRCode, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.merchantCollectionAccount(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	if currency == "" {
		currency = account.Currency
	}
	if currency != account.Currency {
		return nil, fmt.Errorf("%w: merchant account holds %s, code is %s", apperrors.ErrCurrencyMismatch, account.Currency, currency)
	}

	now := s.now()
	expiresAt := now.Add(dynamicQRValidity)
	qr := domain.QRCode{
		QRCodeID:    uuid.NewString(),
		MerchantID:  merchantID,
		Type:        domain.DynamicQR,
		Amount:      &amount,
		Currency:    currency,
		Description: description,
		Status:      domain.QRActive,
		ExpiresAt:   &expiresAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     merchantID,
			LastUpdatedAt: now,
			LastUpdatedBy: merchantID,
		},
	}

	if err := s.qrRepo.SaveQRCode(ctx, qr); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Dynamic QR created",
		slog.String("qr_code_id", qr.QRCodeID),
		slog.String("merchant_id", merchantID),
		slog.String("amount", amount.String()))

	return &qr, nil
}

// PayQR collects a payment against a QR code. Static codes take the payer's
// amount and stay active; dynamic codes are claimed single-use and released
// again if the payment movement fails.
func (s *qrService) PayQR(ctx context.Context, qrCodeID, payerAccountID string, amount *decimal.Decimal, initiatedBy string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	qr, err := s.qrRepo.FindQRCodeByID(ctx, qrCodeID)
	if err != nil {
		return nil, err
	}
	if qr.Status != domain.QRActive {
		return nil, fmt.Errorf("%w: QR code is %s", apperrors.ErrInvalidState, qr.Status)
	}

	now := s.now()
	if qr.Expired(now) {
		return nil, fmt.Errorf("%w: QR code expired at %s", apperrors.ErrExpired, qr.ExpiresAt.Format(time.RFC3339))
	}

	merchantAccount, err := s.accountRepo.FindCheckingAccountByOwner(ctx, qr.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("merchant has no checking account for collection: %w", err)
	}

	var payAmount decimal.Decimal
	switch qr.Type {
	case domain.StaticQR:
		if amount == nil {
			return nil, fmt.Errorf("%w: static QR payment requires an amount", apperrors.ErrValidation)
		}
		payAmount = *amount
	case domain.DynamicQR:
		if amount != nil {
			return nil, fmt.Errorf("%w: dynamic QR carries its own amount", apperrors.ErrValidation)
		}
		payAmount = *qr.Amount
	default:
		return nil, fmt.Errorf("%w: unknown QR type %q", apperrors.ErrValidation, qr.Type)
	}

	description := fmt.Sprintf("QR payment %s", qrCodeID)
	if qr.Description != "" {
		description = fmt.Sprintf("QR payment: %s", qr.Description)
	}

	if qr.Type == domain.DynamicQR {
		claimed, err := s.qrRepo.ClaimDynamicQR(ctx, qrCodeID, initiatedBy, now)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, fmt.Errorf("%w: QR code already used", apperrors.ErrInvalidState)
		}
	}

	txn, err := s.movementSvc.Move(ctx, portssvc.MovementParams{
		SourceAccountID:      &payerAccountID,
		DestinationAccountID: &merchantAccount.AccountID,
		Amount:               payAmount,
		Currency:             qr.Currency,
		Kind:                 domain.KindPayment,
		Description:          description,
		InitiatedBy:          initiatedBy,
	})
	if err != nil {
		if qr.Type == domain.DynamicQR {
			logger.Warn("QR payment failed, releasing code",
				slog.String("qr_code_id", qrCodeID),
				slog.String("error", err.Error()))
			if relErr := s.qrRepo.ReleaseDynamicQR(ctx, qrCodeID, initiatedBy, s.now()); relErr != nil {
				logger.Error("Failed to release dynamic QR", slog.String("qr_code_id", qrCodeID), slog.String("error", relErr.Error()))
			}
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, portssvc.Event{
			Kind:       "qr.paid",
			EntityID:   qrCodeID,
			UserID:     qr.MerchantID,
			Detail:     fmt.Sprintf("collected %s %s", payAmount.String(), qr.Currency),
			OccurredAt: now,
		})
	}

	return txn, nil
}

// ListQRCodes returns a merchant's codes matching the filter.
func (s *qrService) ListQRCodes(ctx context.Context, merchantID string, filter portsrepo.QRFilter) ([]domain.QRCode, error) {
	return s.qrRepo.ListQRCodesByMerchant(ctx, merchantID, filter)
}

// UpdateQRStatus changes a code's lifecycle state, e.g. a merchant retiring
// a static code.
func (s *qrService) UpdateQRStatus(ctx context.Context, qrCodeID string, status domain.QRStatus, userID string) (*domain.QRCode, error) {
	qr, err := s.qrRepo.FindQRCodeByID(ctx, qrCodeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if qr.Status != status {
		if err := s.qrRepo.UpdateQRCodeStatus(ctx, qrCodeID, status, userID, now); err != nil {
			return nil, err
		}
		qr.Status = status
		qr.LastUpdatedAt = now
		qr.LastUpdatedBy = userID
	}

	return qr, nil
}
