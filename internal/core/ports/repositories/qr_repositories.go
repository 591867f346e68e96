package repositories

import (
	"context"
	"time"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// QRFilter narrows QR code listings.
type QRFilter struct {
	Type   *domain.QRType
	Status *domain.QRStatus
}

// QRCodeRepository persists QR payment codes. The dynamic single-use flip is
// a conditional update so two concurrent scans cannot both succeed.
type QRCodeRepository interface {
	SaveQRCode(ctx context.Context, qr domain.QRCode) error
	FindQRCodeByID(ctx context.Context, qrCodeID string) (*domain.QRCode, error)
	ListQRCodesByMerchant(ctx context.Context, merchantID string, filter QRFilter) ([]domain.QRCode, error)
	UpdateQRCodeStatus(ctx context.Context, qrCodeID string, status domain.QRStatus, userID string, now time.Time) error

	// ClaimDynamicQR flips an active dynamic code to inactive, reporting
	// false when the code was already claimed or inactive.
	ClaimDynamicQR(ctx context.Context, qrCodeID string, userID string, now time.Time) (bool, error)
	// ReleaseDynamicQR reopens a claimed code after its payment failed.
	ReleaseDynamicQR(ctx context.Context, qrCodeID string, userID string, now time.Time) error
}
