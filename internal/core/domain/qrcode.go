package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QRType distinguishes static collection codes (amount chosen by the payer)
// from dynamic single-use codes carrying a fixed amount.
type QRType string

const (
	StaticQR  QRType = "static"
	DynamicQR QRType = "dynamic"
)

// QRStatus is the lifecycle state of a QR code. A dynamic code flips
// active -> inactive exactly once, at the moment its single payment succeeds.
type QRStatus string

const (
	QRActive   QRStatus = "active"
	QRInactive QRStatus = "inactive"
)

// QRCode is a merchant payment request. Amount is nil for static codes;
// ExpiresAt is set only for dynamic codes (24h from creation).
type QRCode struct {
	QRCodeID    string           `json:"qrCodeID"`   // Primary key (UUID)
	MerchantID  string           `json:"merchantID"` // FK -> users.user_id (merchant owner)
	Type        QRType           `json:"type"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    string           `json:"currency"`
	Description string           `json:"description"`
	Status      QRStatus         `json:"status"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty"`
	AuditFields
}

// Expired reports whether a dynamic code is past its expiry window.
func (q QRCode) Expired(now time.Time) bool {
	return q.Type == DynamicQR && q.ExpiresAt != nil && now.After(*q.ExpiresAt)
}
