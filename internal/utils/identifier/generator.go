// Package identifier produces the human-readable business identifiers used
// across the ledger: account numbers, transaction references and card
// numbers. Candidates are built from fixed prefixes plus cryptographically
// random digits and collision-checked against the store; generation is
// retried a bounded number of times instead of recursing on collision.
package identifier

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/nexabank/corebanking/internal/apperrors"
)

// Kind names the identifier family being generated, so a single store probe
// can route the uniqueness check to the right table.
type Kind string

const (
	KindAccountNumber        Kind = "account_number"
	KindTransactionReference Kind = "transaction_reference"
	KindCardNumber           Kind = "card_number"
)

const (
	accountNumberPrefix = "10"
	cardNumberPrefix    = "4532"
)

// MaxAttempts caps collision retries for one identifier. Callers that hit a
// uniqueness constraint on insert reuse the same cap when regenerating.
const MaxAttempts = 10

// ExistsFunc reports whether a candidate identifier of the given kind is
// already present in the store.
type ExistsFunc func(ctx context.Context, kind Kind, candidate string) (bool, error)

// Generator builds collision-checked identifiers.
type Generator struct {
	exists ExistsFunc
}

// New returns a Generator backed by the given store probe.
func New(exists ExistsFunc) *Generator {
	return &Generator{exists: exists}
}

// AccountNumber returns a unique 10-digit account number: the fixed "10"
// prefix followed by 8 random digits.
func (g *Generator) AccountNumber(ctx context.Context) (string, error) {
	return g.generate(ctx, KindAccountNumber, func() (string, error) {
		digits, err := randomDigits(8)
		if err != nil {
			return "", err
		}
		return accountNumberPrefix + digits, nil
	})
}

// TransactionReference returns a unique transaction reference of the form
// TX<year><month><6 random digits>, e.g. TX202603481276.
func (g *Generator) TransactionReference(ctx context.Context, at time.Time) (string, error) {
	return g.generate(ctx, KindTransactionReference, func() (string, error) {
		digits, err := randomDigits(6)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("TX%d%02d%s", at.Year(), int(at.Month()), digits), nil
	})
}

// CardNumber returns a unique 16-digit card number with the fixed virtual
// card network prefix.
func (g *Generator) CardNumber(ctx context.Context) (string, error) {
	return g.generate(ctx, KindCardNumber, func() (string, error) {
		digits, err := randomDigits(12)
		if err != nil {
			return "", err
		}
		return cardNumberPrefix + digits, nil
	})
}

// CVV returns a uniform random 3-digit CVV. CVVs are not collision-checked;
// uniqueness is not required for them.
func (g *Generator) CVV() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900))
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return fmt.Sprintf("%03d", n.Int64()+100), nil
}

func (g *Generator) generate(ctx context.Context, kind Kind, build func() (string, error)) (string, error) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		candidate, err := build()
		if err != nil {
			return "", err
		}

		taken, err := g.exists(ctx, kind, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check %s candidate: %w", kind, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: gave up on %s after %d attempts", apperrors.ErrGenerationExhausted, kind, MaxAttempts)
}

func randomDigits(n int) (string, error) {
	const digits = "0123456789"
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = digits[idx.Int64()]
	}
	return string(buf), nil
}
