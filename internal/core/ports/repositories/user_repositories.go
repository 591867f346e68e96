package repositories

import (
	"context"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// UserRepository is the owner-identity lookup consumed from the excluded
// identity layer: existence, role and status checks only.
type UserRepository interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
}
