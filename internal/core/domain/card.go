package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardType distinguishes debit cards (draw against the funding account
// balance) from credit cards (draw against an issued limit).
type CardType string

const (
	DebitCard  CardType = "debit"
	CreditCard CardType = "credit"
)

// CardStatus is the lifecycle state of a virtual card.
type CardStatus string

const (
	CardActive   CardStatus = "active"
	CardInactive CardStatus = "inactive"
	CardBlocked  CardStatus = "blocked"
)

// VirtualCard is a card issued against a funding account. The full card
// number and CVV are only available at issuance; every read after that
// exposes the last four digits at most. Invariant for credit cards:
// UsedLimit <= CreditLimit at all times.
type VirtualCard struct {
	CardID         string          `json:"cardID"`    // Primary key (UUID)
	OwnerID        string          `json:"ownerID"`   // FK -> users.user_id
	AccountID      string          `json:"accountID"` // Funding account
	CardNumber     string          `json:"-"`         // Never serialized raw
	CVV            string          `json:"-"`
	ExpirationDate time.Time       `json:"expirationDate"`
	Type           CardType        `json:"type"`
	Status         CardStatus      `json:"status"`
	CreditLimit    decimal.Decimal `json:"creditLimit"` // Zero for debit cards
	UsedLimit      decimal.Decimal `json:"usedLimit"`
	AuditFields
}

// MaskedNumber returns the card number with all but the last four digits hidden.
func (c VirtualCard) MaskedNumber() string {
	if len(c.CardNumber) < 4 {
		return "****"
	}
	return "****" + c.CardNumber[len(c.CardNumber)-4:]
}

// AvailableCredit returns the remaining draw headroom for credit cards.
func (c VirtualCard) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.UsedLimit)
}
