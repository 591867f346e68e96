package finance

import (
	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
)

var (
	riskHighThreshold   = decimal.NewFromInt(10000)
	riskMediumThreshold = decimal.NewFromInt(5000)
)

// ClassifyRisk maps a movement amount to its risk tier. Pure function,
// evaluated once at transaction creation and never re-evaluated.
func ClassifyRisk(amount decimal.Decimal) domain.RiskTier {
	switch {
	case amount.GreaterThanOrEqual(riskHighThreshold):
		return domain.RiskHigh
	case amount.GreaterThanOrEqual(riskMediumThreshold):
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
