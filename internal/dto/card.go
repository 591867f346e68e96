package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
)

// IssueCardRequest issues a new virtual card against a funding account.
type IssueCardRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Type      domain.CardType `json:"type" binding:"required,oneof=debit credit"`
}

// ChargeCardRequest charges a card in favor of a merchant account.
type ChargeCardRequest struct {
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	MerchantAccountID string          `json:"merchantAccountID" binding:"required"`
	MerchantName      string          `json:"merchantName"`
}

// UpdateCardStatusRequest changes a card's lifecycle state.
type UpdateCardStatusRequest struct {
	Status domain.CardStatus `json:"status" binding:"required,oneof=active inactive blocked"`
}

// CardResponse is the card view returned to callers. Outside of issuance it
// is sanitized: the number is masked to its last four digits and the CVV is
// absent.
type CardResponse struct {
	CardID         string            `json:"cardID"`
	OwnerID        string            `json:"ownerID"`
	AccountID      string            `json:"accountID"`
	MaskedNumber   string            `json:"maskedNumber"`
	CardNumber     string            `json:"cardNumber,omitempty"` // Populated only in the issuance response
	CVV            string            `json:"cvv,omitempty"`        // Populated only in the issuance response
	ExpirationDate time.Time         `json:"expirationDate"`
	Type           domain.CardType   `json:"type"`
	Status         domain.CardStatus `json:"status"`
	CreditLimit    decimal.Decimal   `json:"creditLimit"`
	UsedLimit      decimal.Decimal   `json:"usedLimit"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ToCardResponse converts a domain.VirtualCard to its sanitized DTO.
func ToCardResponse(card *domain.VirtualCard) CardResponse {
	return CardResponse{
		CardID:         card.CardID,
		OwnerID:        card.OwnerID,
		AccountID:      card.AccountID,
		MaskedNumber:   card.MaskedNumber(),
		ExpirationDate: card.ExpirationDate,
		Type:           card.Type,
		Status:         card.Status,
		CreditLimit:    card.CreditLimit,
		UsedLimit:      card.UsedLimit,
		CreatedAt:      card.CreatedAt,
	}
}

// ToCardResponses converts a slice of cards.
func ToCardResponses(cards []domain.VirtualCard) []CardResponse {
	out := make([]CardResponse, len(cards))
	for i := range cards {
		out[i] = ToCardResponse(&cards[i])
	}
	return out
}
