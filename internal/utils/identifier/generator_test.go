package identifier_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexabank/corebanking/internal/apperrors"
	"github.com/nexabank/corebanking/internal/utils/identifier"
)

func neverExists(ctx context.Context, kind identifier.Kind, candidate string) (bool, error) {
	return false, nil
}

func TestAccountNumber_Format(t *testing.T) {
	gen := identifier.New(neverExists)

	number, err := gen.AccountNumber(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^10\d{8}$`), number)
}

func TestTransactionReference_Format(t *testing.T) {
	gen := identifier.New(neverExists)

	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	ref, err := gen.TransactionReference(context.Background(), at)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^TX202603\d{6}$`), ref)
}

func TestCardNumber_Format(t *testing.T) {
	gen := identifier.New(neverExists)

	number, err := gen.CardNumber(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^4532\d{12}$`), number)
}

func TestCVV_Format(t *testing.T) {
	gen := identifier.New(neverExists)

	for i := 0; i < 50; i++ {
		cvv, err := gen.CVV()
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{2}$`), cvv)
	}
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	collisions := 0
	exists := func(ctx context.Context, kind identifier.Kind, candidate string) (bool, error) {
		if collisions < 3 {
			collisions++
			return true, nil
		}
		return false, nil
	}

	gen := identifier.New(exists)
	number, err := gen.AccountNumber(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, number)
	assert.Equal(t, 3, collisions)
}

func TestGenerate_ExhaustsAfterCap(t *testing.T) {
	attempts := 0
	alwaysTaken := func(ctx context.Context, kind identifier.Kind, candidate string) (bool, error) {
		attempts++
		return true, nil
	}

	gen := identifier.New(alwaysTaken)
	_, err := gen.AccountNumber(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrGenerationExhausted)
	assert.Equal(t, 10, attempts)
}

func TestGenerate_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	failing := func(ctx context.Context, kind identifier.Kind, candidate string) (bool, error) {
		return false, storeErr
	}

	gen := identifier.New(failing)
	_, err := gen.CardNumber(context.Background())
	assert.ErrorIs(t, err, storeErr)
}

func TestAccountNumber_Distinct(t *testing.T) {
	gen := identifier.New(neverExists)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		number, err := gen.AccountNumber(context.Background())
		require.NoError(t, err)
		seen[number] = struct{}{}
	}
	// 1000 draws from 10^8 candidates collide with negligible probability.
	assert.Greater(t, len(seen), 990)
}
