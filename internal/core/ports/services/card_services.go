package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
	"github.com/nexabank/corebanking/internal/dto"
)

// CardSvcFacade issues and charges virtual cards. All reads return
// sanitized views: masked number, no CVV.
type CardSvcFacade interface {
	IssueCard(ctx context.Context, ownerID string, req dto.IssueCardRequest) (*dto.CardResponse, error)
	ChargeCard(ctx context.Context, cardID string, amount decimal.Decimal, merchantAccountID, merchantName, initiatedBy string) (*domain.Transaction, error)
	ListCards(ctx context.Context, ownerID string, filter portsrepo.CardFilter) ([]dto.CardResponse, error)
	UpdateCardStatus(ctx context.Context, cardID string, status domain.CardStatus, userID string) (*dto.CardResponse, error)
}

// QRSvcFacade creates and collects QR payment codes.
type QRSvcFacade interface {
	CreateStaticQR(ctx context.Context, merchantID, description string) (*domain.QRCode, error)
	CreateDynamicQR(ctx context.Context, merchantID string, amount decimal.Decimal, currency, description string) (*domain.QRCode, error)
	// PayQR collects a payment. Amount is required for static codes and must
	// be nil for dynamic ones (the code carries its own amount).
	PayQR(ctx context.Context, qrCodeID, payerAccountID string, amount *decimal.Decimal, initiatedBy string) (*domain.Transaction, error)
	ListQRCodes(ctx context.Context, merchantID string, filter portsrepo.QRFilter) ([]domain.QRCode, error)
	UpdateQRStatus(ctx context.Context, qrCodeID string, status domain.QRStatus, userID string) (*domain.QRCode, error)
}
