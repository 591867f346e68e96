package finance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nexabank/corebanking/internal/core/domain"
	"github.com/nexabank/corebanking/internal/utils/finance"
)

func TestClassifyRisk(t *testing.T) {
	testCases := []struct {
		amount   int64
		expected domain.RiskTier
	}{
		{1, domain.RiskLow},
		{4999, domain.RiskLow},
		{5000, domain.RiskMedium},
		{9999, domain.RiskMedium},
		{10000, domain.RiskHigh},
		{250000, domain.RiskHigh},
	}

	for _, tc := range testCases {
		got := finance.ClassifyRisk(decimal.NewFromInt(tc.amount))
		assert.Equal(t, tc.expected, got, "amount %d", tc.amount)
	}
}

func TestClassifyRisk_FractionalBoundary(t *testing.T) {
	assert.Equal(t, domain.RiskLow, finance.ClassifyRisk(decimal.NewFromFloat(4999.99)))
	assert.Equal(t, domain.RiskMedium, finance.ClassifyRisk(decimal.NewFromFloat(9999.99)))
}
