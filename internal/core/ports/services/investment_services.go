package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
	"github.com/nexabank/corebanking/internal/dto"
)

// CancelInvestmentResult reports the payout breakdown of a cancellation.
type CancelInvestmentResult struct {
	Investment   *domain.Investment
	ReturnAmount decimal.Decimal
	Penalty      decimal.Decimal
}

// CompleteInvestmentResult reports the payout of a matured investment.
type CompleteInvestmentResult struct {
	Investment   *domain.Investment
	TotalAmount  decimal.Decimal
	ActualReturn decimal.Decimal
}

// InvestmentSvcFacade manages investment funding, cancellation and maturity.
type InvestmentSvcFacade interface {
	CreateInvestment(ctx context.Context, ownerID string, req dto.CreateInvestmentRequest) (*domain.Investment, error)
	CancelInvestment(ctx context.Context, ownerID, investmentID string) (*CancelInvestmentResult, error)
	// CompleteInvestment is only callable at or after maturity.
	CompleteInvestment(ctx context.Context, investmentID string) (*CompleteInvestmentResult, error)
	ListInvestments(ctx context.Context, ownerID string, filter portsrepo.InvestmentFilter) ([]domain.Investment, error)
}
