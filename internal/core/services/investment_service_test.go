package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nexabank/corebanking/internal/apperrors"
	"github.com/nexabank/corebanking/internal/core/domain"
	portssvc "github.com/nexabank/corebanking/internal/core/ports/services"
	"github.com/nexabank/corebanking/internal/core/services"
	"github.com/nexabank/corebanking/internal/dto"
)

type InvestmentServiceTestSuite struct {
	suite.Suite
	mockInvRepo     *MockInvestmentRepository
	mockAccountRepo *MockAccountRepository
	mockMovement    *MockMovementService
	mockNotifier    *MockNotifier
	service         portssvc.InvestmentSvcFacade

	ownerID string
	account domain.Account
}

func (suite *InvestmentServiceTestSuite) SetupTest() {
	suite.mockInvRepo = new(MockInvestmentRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockMovement = new(MockMovementService)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewInvestmentService(suite.mockInvRepo, suite.mockAccountRepo, suite.mockMovement, suite.mockNotifier)

	suite.ownerID = uuid.NewString()
	suite.account = domain.Account{
		AccountID: uuid.NewString(),
		OwnerID:   suite.ownerID,
		Type:      domain.InvestmentAccount,
		Currency:  "USD",
		Balance:   decimal.NewFromInt(50_000),
		Status:    domain.AccountActive,
	}

	suite.mockNotifier.On("Notify", mock.Anything, mock.AnythingOfType("services.Event")).Return().Maybe()
}

// activeInvestment builds a funded position that started half its term ago,
// leaving termDays/2 remaining after rounding partial days up.
func (suite *InvestmentServiceTestSuite) activeInvestment(amount int64, termDays int) *domain.Investment {
	start := time.Now().UTC().Add(-time.Duration(termDays/2) * 24 * time.Hour)
	principal := decimal.NewFromInt(amount)
	return &domain.Investment{
		InvestmentID:   uuid.NewString(),
		OwnerID:        suite.ownerID,
		AccountID:      suite.account.AccountID,
		Type:           domain.FixedTerm,
		Amount:         principal,
		Currency:       "USD",
		TermDays:       termDays,
		InterestRate:   decimal.NewFromInt(5),
		ExpectedReturn: principal.Mul(decimal.NewFromInt(5)).Mul(decimal.NewFromInt(int64(termDays))).Div(decimal.NewFromInt(36500)),
		Status:         domain.InvestmentActive,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, termDays),
	}
}

func (suite *InvestmentServiceTestSuite) TestCreateInvestment_Success() {
	ctx := context.Background()
	req := dto.CreateInvestmentRequest{
		AccountID:    suite.account.AccountID,
		Type:         domain.FixedTerm,
		Amount:       decimal.NewFromInt(10_000),
		TermDays:     365,
		InterestRate: decimal.NewFromInt(5),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockInvRepo.On("SaveInvestment", ctx, mock.AnythingOfType("domain.Investment")).Return(nil).Once()
	suite.mockMovement.On("Move", ctx, mock.MatchedBy(func(params portssvc.MovementParams) bool {
		// Both sides go on the row even though only the source is debited.
		return params.Kind == domain.KindWithdrawal &&
			params.SourceAccountID != nil &&
			*params.SourceAccountID == suite.account.AccountID &&
			params.DestinationAccountID != nil &&
			*params.DestinationAccountID == suite.account.AccountID &&
			params.Amount.Equal(req.Amount)
	})).Return(&domain.Transaction{TransactionID: uuid.NewString()}, nil).Once()

	inv, err := suite.service.CreateInvestment(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(inv)
	suite.Equal(domain.InvestmentActive, inv.Status)
	// 10000 * (5/100/365) * 365 = 500
	suite.True(inv.ExpectedReturn.Equal(decimal.NewFromInt(500)), "got %s", inv.ExpectedReturn)
	suite.Equal(inv.StartDate.AddDate(0, 0, 365), inv.EndDate)
	suite.mockInvRepo.AssertExpectations(suite.T())
	suite.mockMovement.AssertExpectations(suite.T())
}

func (suite *InvestmentServiceTestSuite) TestCreateInvestment_InsufficientFunds() {
	ctx := context.Background()
	req := dto.CreateInvestmentRequest{
		AccountID:    suite.account.AccountID,
		Type:         domain.Bonds,
		Amount:       decimal.NewFromInt(100_000),
		TermDays:     30,
		InterestRate: decimal.NewFromInt(3),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()

	_, err := suite.service.CreateInvestment(ctx, suite.ownerID, req)

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockInvRepo.AssertNotCalled(suite.T(), "SaveInvestment", mock.Anything, mock.Anything)
}

func (suite *InvestmentServiceTestSuite) TestCreateInvestment_WrongOwner() {
	ctx := context.Background()
	req := dto.CreateInvestmentRequest{
		AccountID:    suite.account.AccountID,
		Type:         domain.MutualFund,
		Amount:       decimal.NewFromInt(1000),
		TermDays:     90,
		InterestRate: decimal.NewFromInt(4),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()

	_, err := suite.service.CreateInvestment(ctx, uuid.NewString(), req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvestmentServiceTestSuite) TestCreateInvestment_FailedFundingRemovesPosition() {
	ctx := context.Background()
	fundingErr := errors.New("movement failed")
	req := dto.CreateInvestmentRequest{
		AccountID:    suite.account.AccountID,
		Type:         domain.FixedTerm,
		Amount:       decimal.NewFromInt(1000),
		TermDays:     30,
		InterestRate: decimal.NewFromInt(5),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockInvRepo.On("SaveInvestment", ctx, mock.AnythingOfType("domain.Investment")).Return(nil).Once()
	suite.mockMovement.On("Move", ctx, mock.AnythingOfType("services.MovementParams")).Return(nil, fundingErr).Once()
	suite.mockInvRepo.On("DeleteInvestment", ctx, mock.AnythingOfType("string")).Return(nil).Once()

	_, err := suite.service.CreateInvestment(ctx, suite.ownerID, req)

	suite.Require().ErrorIs(err, fundingErr)
	suite.mockInvRepo.AssertExpectations(suite.T())
}

func (suite *InvestmentServiceTestSuite) TestCancelInvestment_HalfTermPenalty() {
	ctx := context.Background()
	inv := suite.activeInvestment(10_000, 100)

	suite.mockInvRepo.On("FindInvestmentByIDAndOwner", ctx, inv.InvestmentID, suite.ownerID).Return(inv, nil).Once()
	suite.mockInvRepo.On("MarkCancelled", ctx, inv.InvestmentID, mock.AnythingOfType("decimal.Decimal"), suite.ownerID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	suite.mockMovement.On("Move", ctx, mock.MatchedBy(func(params portssvc.MovementParams) bool {
		return params.Kind == domain.KindDeposit &&
			params.SourceAccountID != nil &&
			*params.SourceAccountID == inv.AccountID &&
			params.DestinationAccountID != nil &&
			*params.DestinationAccountID == inv.AccountID
	})).Return(&domain.Transaction{TransactionID: uuid.NewString()}, nil).Once()

	result, err := suite.service.CancelInvestment(ctx, suite.ownerID, inv.InvestmentID)

	suite.Require().NoError(err)
	// Half the term remains: penalty 10000 * (50/100) * 0.10 = 500.
	suite.True(result.Penalty.Equal(decimal.NewFromInt(500)), "got %s", result.Penalty)
	suite.True(result.ReturnAmount.Equal(decimal.NewFromInt(9_500)), "got %s", result.ReturnAmount)
	suite.Equal(domain.InvestmentCancelled, result.Investment.Status)
}

func (suite *InvestmentServiceTestSuite) TestCancelInvestment_PartialDayCountsAsRemaining() {
	ctx := context.Background()
	inv := suite.activeInvestment(10_000, 100)
	// Shift the window so 50 days and a partial day remain.
	inv.StartDate = inv.StartDate.Add(12 * time.Hour)
	inv.EndDate = inv.EndDate.Add(12 * time.Hour)

	suite.mockInvRepo.On("FindInvestmentByIDAndOwner", ctx, inv.InvestmentID, suite.ownerID).Return(inv, nil).Once()
	suite.mockInvRepo.On("MarkCancelled", ctx, inv.InvestmentID, mock.AnythingOfType("decimal.Decimal"), suite.ownerID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	suite.mockMovement.On("Move", ctx, mock.AnythingOfType("services.MovementParams")).Return(&domain.Transaction{TransactionID: uuid.NewString()}, nil).Once()

	result, err := suite.service.CancelInvestment(ctx, suite.ownerID, inv.InvestmentID)

	suite.Require().NoError(err)
	// 51 days remain once the partial day rounds up:
	// penalty 10000 * (51/100) * 0.10 = 510.
	suite.True(result.Penalty.Equal(decimal.NewFromInt(510)), "got %s", result.Penalty)
}

func (suite *InvestmentServiceTestSuite) TestCancelInvestment_NotActive() {
	ctx := context.Background()
	inv := suite.activeInvestment(1000, 30)
	inv.Status = domain.InvestmentCompleted

	suite.mockInvRepo.On("FindInvestmentByIDAndOwner", ctx, inv.InvestmentID, suite.ownerID).Return(inv, nil).Once()

	_, err := suite.service.CancelInvestment(ctx, suite.ownerID, inv.InvestmentID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockMovement.AssertNotCalled(suite.T(), "Move", mock.Anything, mock.Anything)
}

func (suite *InvestmentServiceTestSuite) TestCancelInvestment_FailedPayoutReactivates() {
	ctx := context.Background()
	inv := suite.activeInvestment(1000, 30)
	payoutErr := errors.New("movement failed")

	suite.mockInvRepo.On("FindInvestmentByIDAndOwner", ctx, inv.InvestmentID, suite.ownerID).Return(inv, nil).Once()
	suite.mockInvRepo.On("MarkCancelled", ctx, inv.InvestmentID, mock.AnythingOfType("decimal.Decimal"), suite.ownerID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	suite.mockMovement.On("Move", ctx, mock.AnythingOfType("services.MovementParams")).Return(nil, payoutErr).Once()
	suite.mockInvRepo.On("Reactivate", ctx, inv.InvestmentID, suite.ownerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.service.CancelInvestment(ctx, suite.ownerID, inv.InvestmentID)

	suite.Require().ErrorIs(err, payoutErr)
	suite.mockInvRepo.AssertExpectations(suite.T())
}

func (suite *InvestmentServiceTestSuite) TestCompleteInvestment_BeforeMaturity() {
	ctx := context.Background()
	inv := suite.activeInvestment(1000, 30)

	suite.mockInvRepo.On("FindInvestmentByID", ctx, inv.InvestmentID).Return(inv, nil).Once()

	_, err := suite.service.CompleteInvestment(ctx, inv.InvestmentID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockMovement.AssertNotCalled(suite.T(), "Move", mock.Anything, mock.Anything)
}

func (suite *InvestmentServiceTestSuite) TestCompleteInvestment_PaysPrincipalPlusReturn() {
	ctx := context.Background()
	inv := suite.activeInvestment(10_000, 100)
	inv.EndDate = time.Now().UTC().Add(-time.Hour) // Already matured.
	payout := inv.Amount.Add(inv.ExpectedReturn)

	suite.mockInvRepo.On("FindInvestmentByID", ctx, inv.InvestmentID).Return(inv, nil).Once()
	suite.mockInvRepo.On("MarkCompleted", ctx, inv.InvestmentID, inv.ExpectedReturn, suite.ownerID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	suite.mockMovement.On("Move", ctx, mock.MatchedBy(func(params portssvc.MovementParams) bool {
		return params.Kind == domain.KindDeposit &&
			params.SourceAccountID != nil &&
			*params.SourceAccountID == inv.AccountID &&
			params.Amount.Equal(payout)
	})).Return(&domain.Transaction{TransactionID: uuid.NewString()}, nil).Once()

	result, err := suite.service.CompleteInvestment(ctx, inv.InvestmentID)

	suite.Require().NoError(err)
	suite.True(result.TotalAmount.Equal(payout), "got %s want %s", result.TotalAmount, payout)
	suite.True(result.ActualReturn.Equal(inv.ExpectedReturn))
	suite.Equal(domain.InvestmentCompleted, result.Investment.Status)
}

func TestInvestmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvestmentServiceTestSuite))
}
