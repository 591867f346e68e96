package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// CreateStaticQRRequest creates a reusable merchant collection code without
// a fixed amount.
type CreateStaticQRRequest struct {
	Description string `json:"description" binding:"required"`
}

// CreateDynamicQRRequest creates a single-use, time-boxed payment request
// with a fixed amount.
type CreateDynamicQRRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,len=3,uppercase"`
	Description string          `json:"description"`
}

// PayQRRequest pays a QR code from the payer's account. Amount is required
// for static codes and ignored for dynamic ones.
type PayQRRequest struct {
	PayerAccountID string           `json:"payerAccountID" binding:"required"`
	Amount         *decimal.Decimal `json:"amount"`
}

// UpdateQRStatusRequest changes a QR code's lifecycle state.
type UpdateQRStatusRequest struct {
	Status domain.QRStatus `json:"status" binding:"required,oneof=active inactive"`
}

// QRCodeResponse is the QR code view returned to merchants.
type QRCodeResponse struct {
	QRCodeID    string           `json:"qrCodeID"`
	MerchantID  string           `json:"merchantID"`
	Type        domain.QRType    `json:"type"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    string           `json:"currency"`
	Description string           `json:"description"`
	Status      domain.QRStatus  `json:"status"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ToQRCodeResponse converts a domain.QRCode to its response DTO.
func ToQRCodeResponse(qr *domain.QRCode) QRCodeResponse {
	return QRCodeResponse{
		QRCodeID:    qr.QRCodeID,
		MerchantID:  qr.MerchantID,
		Type:        qr.Type,
		Amount:      qr.Amount,
		Currency:    qr.Currency,
		Description: qr.Description,
		Status:      qr.Status,
		ExpiresAt:   qr.ExpiresAt,
		CreatedAt:   qr.CreatedAt,
	}
}

// ToQRCodeResponses converts a slice of QR codes.
func ToQRCodeResponses(qrs []domain.QRCode) []QRCodeResponse {
	out := make([]QRCodeResponse, len(qrs))
	for i := range qrs {
		out[i] = ToQRCodeResponse(&qrs[i])
	}
	return out
}
