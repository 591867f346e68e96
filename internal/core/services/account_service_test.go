package services_test

import (
	"context"
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
	"github.com/nexabank/corebanking/internal/utils/identifier"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockUserRepo    *MockUserRepository
	mockNotifier    *MockNotifier
	service         portssvc.AccountSvcFacade

	owner domain.User
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockNotifier = new(MockNotifier)

	idGen := identifier.New(func(ctx context.Context, kind identifier.Kind, candidate string) (bool, error) {
		return false, nil
	})
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockUserRepo, idGen, suite.mockNotifier)

	suite.owner = domain.User{
		UserID: uuid.NewString(),
		Name:   "Ada Lovelace",
		Role:   domain.RoleClient,
		Status: domain.UserActive,
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		OwnerID: suite.owner.UserID,
		Type:    domain.Savings,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, mock.AnythingOfType("services.Event")).Return().Maybe()

	account, err := suite.service.CreateAccount(ctx, req, suite.owner.UserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal(suite.owner.UserID, account.OwnerID)
	suite.Equal(domain.Savings, account.Type)
	suite.Equal(domain.AccountActive, account.Status)
	suite.Equal("USD", account.Currency)
	suite.True(account.Balance.IsZero())
	// Savings default annual rate.
	suite.True(account.InterestRate.Equal(decimal.NewFromFloat(0.025)), "got %s", account.InterestRate)
	suite.Regexp(`^10\d{8}$`, account.AccountNumber)
	suite.WithinDuration(time.Now(), account.LastInterestCalculation, time.Second)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ExplicitRateOverridesDefault() {
	ctx := context.Background()
	rate := decimal.NewFromFloat(0.04)
	req := dto.CreateAccountRequest{
		OwnerID:      suite.owner.UserID,
		Type:         domain.Checking,
		Currency:     "EUR",
		InterestRate: &rate,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockNotifier.On("Notify", mock.Anything, mock.AnythingOfType("services.Event")).Return().Maybe()

	account, err := suite.service.CreateAccount(ctx, req, suite.owner.UserID)

	suite.Require().NoError(err)
	suite.Equal("EUR", account.Currency)
	suite.True(account.InterestRate.Equal(rate))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InactiveOwner() {
	ctx := context.Background()
	suite.owner.Status = domain.UserInactive
	req := dto.CreateAccountRequest{OwnerID: suite.owner.UserID, Type: domain.Savings}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.owner.UserID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownOwner() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{OwnerID: uuid.NewString(), Type: domain.Savings}

	suite.mockUserRepo.On("FindUserByID", ctx, req.OwnerID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, req, req.OwnerID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountBalance() {
	ctx := context.Background()
	account := domain.Account{
		AccountID: uuid.NewString(),
		Balance:   decimal.NewFromFloat(123.45),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()

	balance, err := suite.service.GetAccountBalance(ctx, account.AccountID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(account.Balance))
}

func (suite *AccountServiceTestSuite) TestUpdateAccountStatus() {
	ctx := context.Background()
	adminID := uuid.NewString()
	account := domain.Account{
		AccountID: uuid.NewString(),
		Status:    domain.AccountActive,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountStatus", ctx, account.AccountID, domain.AccountFrozen, adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.UpdateAccountStatus(ctx, account.AccountID, domain.AccountFrozen, adminID)

	suite.Require().NoError(err)
	suite.Equal(domain.AccountFrozen, updated.Status)
	suite.Equal(adminID, updated.LastUpdatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccountStatus_NoopOnSameStatus() {
	ctx := context.Background()
	account := domain.Account{
		AccountID: uuid.NewString(),
		Status:    domain.AccountActive,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()

	_, err := suite.service.UpdateAccountStatus(ctx, account.AccountID, domain.AccountActive, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListAccounts() {
	ctx := context.Background()
	expected := []domain.Account{{AccountID: uuid.NewString(), OwnerID: suite.owner.UserID}}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()
	suite.mockAccountRepo.On("ListAccountsByOwner", ctx, suite.owner.UserID).Return(expected, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, suite.owner.UserID)

	suite.Require().NoError(err)
	suite.Equal(expected, accounts)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
