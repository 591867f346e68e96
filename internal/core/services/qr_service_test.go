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
)

type QRServiceTestSuite struct {
	suite.Suite
	mockQRRepo      *MockQRCodeRepository
	mockAccountRepo *MockAccountRepository
	mockUserRepo    *MockUserRepository
	mockMovement    *MockMovementService
	mockNotifier    *MockNotifier
	service         portssvc.QRSvcFacade

	merchant         domain.User
	merchantChecking domain.Account
	payerAccountID   string
}

func (suite *QRServiceTestSuite) SetupTest() {
	suite.mockQRRepo = new(MockQRCodeRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockMovement = new(MockMovementService)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewQRService(suite.mockQRRepo, suite.mockAccountRepo, suite.mockUserRepo, suite.mockMovement, suite.mockNotifier)

	suite.merchant = domain.User{UserID: uuid.NewString(), Role: domain.RoleClient, Status: domain.UserActive}
	suite.merchantChecking = domain.Account{
		AccountID: uuid.NewString(),
		OwnerID:   suite.merchant.UserID,
		Type:      domain.Checking,
		Currency:  "USD",
		Status:    domain.AccountActive,
	}
	suite.payerAccountID = uuid.NewString()

	suite.mockNotifier.On("Notify", mock.Anything, mock.AnythingOfType("services.Event")).Return().Maybe()
}

func (suite *QRServiceTestSuite) activeQR(qrType domain.QRType, amount *decimal.Decimal) *domain.QRCode {
	qr := &domain.QRCode{
		QRCodeID:    uuid.NewString(),
		MerchantID:  suite.merchant.UserID,
		Type:        qrType,
		Amount:      amount,
		Currency:    "USD",
		Description: "coffee",
		Status:      domain.QRActive,
	}
	if qrType == domain.DynamicQR {
		expires := time.Now().UTC().Add(12 * time.Hour)
		qr.ExpiresAt = &expires
	}
	return qr
}

func (suite *QRServiceTestSuite) TestCreateStaticQR() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByID", ctx, suite.merchant.UserID).Return(&suite.merchant, nil).Once()
	suite.mockAccountRepo.On("FindCheckingAccountByOwner", ctx, suite.merchant.UserID).Return(&suite.merchantChecking, nil).Once()
	suite.mockQRRepo.On("SaveQRCode", ctx, mock.AnythingOfType("domain.QRCode")).Return(nil).Once()

	qr, err := suite.service.CreateStaticQR(ctx, suite.merchant.UserID, "tips")

	suite.Require().NoError(err)
	suite.Equal(domain.StaticQR, qr.Type)
	suite.Equal(domain.QRActive, qr.Status)
	suite.Nil(qr.Amount)
	suite.Nil(qr.ExpiresAt)
	suite.Equal("USD", qr.Currency)
}

func (suite *QRServiceTestSuite) TestCreateDynamicQR() {
	ctx := context.Background()
	amount := decimal.NewFromInt(42)

	suite.mockUserRepo.On("FindUserByID", ctx, suite.merchant.UserID).Return(&suite.merchant, nil).Once()
	suite.mockAccountRepo.On("FindCheckingAccountByOwner", ctx, suite.merchant.UserID).Return(&suite.merchantChecking, nil).Once()
	suite.mockQRRepo.On("SaveQRCode", ctx, mock.AnythingOfType("domain.QRCode")).Return(nil).Once()

	qr, err := suite.service.CreateDynamicQR(ctx, suite.merchant.UserID, amount, "", "invoice 7")

	suite.Require().NoError(err)
	suite.Equal(domain.DynamicQR, qr.Type)
	suite.Require().NotNil(qr.Amount)
	suite.True(qr.Amount.Equal(amount))
	suite.Require().NotNil(qr.ExpiresAt)
	suite.WithinDuration(time.Now().Add(24*time.Hour), *qr.ExpiresAt, time.Minute)
}

func (suite *QRServiceTestSuite) TestCreateDynamicQR_NonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.CreateDynamicQR(ctx, suite.merchant.UserID, decimal.Zero, "USD", "")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *QRServiceTestSuite) TestPayQR_StaticRequiresAmount() {
	ctx := context.Background()
	qr := suite.activeQR(domain.StaticQR, nil)

	suite.mockQRRepo.On("FindQRCodeByID", ctx, qr.QRCodeID).Return(qr, nil).Once()
	suite.mockAccountRepo.On("FindCheckingAccountByOwner", ctx, suite.merchant.UserID).Return(&suite.merchantChecking, nil).Once()

	_, err := suite.service.PayQR(ctx, qr.QRCodeID, suite.payerAccountID, nil, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *QRServiceTestSuite) TestPayQR_StaticMovesPayerAmount() {
	ctx := context.Background()
	qr := suite.activeQR(domain.StaticQR, nil)
	payer := uuid.NewString()
	amount := decimal.NewFromInt(15)
	expected := &domain.Transaction{TransactionID: uuid.NewString()}

	suite.mockQRRepo.On("FindQRCodeByID", ctx, qr.QRCodeID).Return(qr, nil).Once()
	suite.mockAccountRepo.On("FindCheckingAccountByOwner", ctx, suite.merchant.UserID).Return(&suite.merchantChecking, nil).Once()
	suite.mockMovement.On("Move", ctx, mock.MatchedBy(func(params portssvc.MovementParams) bool {
		return params.Kind == domain.KindPayment &&
			params.SourceAccountID != nil &&
			*params.SourceAccountID == suite.payerAccountID &&
			params.DestinationAccountID != nil &&
			*params.DestinationAccountID == suite.merchantChecking.AccountID &&
			params.Amount.Equal(amount)
	})).Return(expected, nil).Once()

	txn, err := suite.service.PayQR(ctx, qr.QRCodeID, suite.payerAccountID, &amount, payer)

	suite.Require().NoError(err)
	suite.Equal(expected, txn)
	// Static codes stay active and reusable.
	suite.mockQRRepo.AssertNotCalled(suite.T(), "ClaimDynamicQR", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *QRServiceTestSuite) TestPayQR_DynamicUsesOwnAmountAndClaims() {
	ctx := context.Background()
	amount := decimal.NewFromInt(42)
	qr := suite.activeQR(domain.DynamicQR, &amount)
	payer := uuid.NewString()
	expected := &domain.Transaction{TransactionID: uuid.NewString()}

	suite.mockQRRepo.On("FindQRCodeByID", ctx, qr.QRCodeID).Return(qr, nil).Once()
	suite.mockAccountRepo.On("FindCheckingAccountByOwner", ctx, suite.merchant.UserID).Return(&suite.merchantChecking, nil).Once()
	suite.mockQRRepo.On("ClaimDynamicQR", ctx, qr.QRCodeID, payer, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	suite.mockMovement.On("Move", ctx, mock.MatchedBy(func(params portssvc.MovementParams) bool {
		return params.Amount.Equal(amount)
	})).Return(expected, nil).Once()

	txn, err := suite.service.PayQR(ctx, qr.QRCodeID, suite.payerAccountID, nil, payer)

	suite.Require().NoError(err)
	suite.Equal(expected, txn)
	suite.mockQRRepo.AssertExpectations(suite.T())
}

func (suite *QRServiceTestSuite) TestPayQR_DynamicRejectsCallerAmount() {
	ctx := context.Background()
	amount := decimal.NewFromInt(42)
	qr := suite.activeQR(domain.DynamicQR, &amount)
	callerAmount := decimal.NewFromInt(10)

	suite.mockQRRepo.On("FindQRCodeByID", ctx, qr.QRCodeID).Return(qr, nil).Once()
	suite.mockAccountRepo.On("FindCheckingAccountByOwner", ctx, suite.merchant.UserID).Return(&suite.merchantChecking, nil).Once()

	_, err := suite.service.PayQR(ctx, qr.QRCodeID, suite.payerAccountID, &callerAmount, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *QRServiceTestSuite) TestPayQR_DynamicSingleUse() {
	ctx := context.Background()
	amount := decimal.NewFromInt(42)
	qr := suite.activeQR(domain.DynamicQR, &amount)
	payer := uuid.NewString()

	suite.mockQRRepo.On("FindQRCodeByID", ctx, qr.QRCodeID).Return(qr, nil).Once()
	suite.mockAccountRepo.On("FindCheckingAccountByOwner", ctx, suite.merchant.UserID).Return(&suite.merchantChecking, nil).Once()
	suite.mockQRRepo.On("ClaimDynamicQR", ctx, qr.QRCodeID, payer, mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	_, err := suite.service.PayQR(ctx, qr.QRCodeID, suite.payerAccountID, nil, payer)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockMovement.AssertNotCalled(suite.T(), "Move", mock.Anything, mock.Anything)
}

func (suite *QRServiceTestSuite) TestPayQR_ExpiredDynamic() {
	ctx := context.Background()
	amount := decimal.NewFromInt(42)
	qr := suite.activeQR(domain.DynamicQR, &amount)
	expired := time.Now().UTC().Add(-time.Hour)
	qr.ExpiresAt = &expired

	suite.mockQRRepo.On("FindQRCodeByID", ctx, qr.QRCodeID).Return(qr, nil).Once()

	_, err := suite.service.PayQR(ctx, qr.QRCodeID, suite.payerAccountID, nil, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrExpired)
	suite.mockQRRepo.AssertNotCalled(suite.T(), "ClaimDynamicQR", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *QRServiceTestSuite) TestPayQR_FailedPaymentReleasesDynamic() {
	ctx := context.Background()
	amount := decimal.NewFromInt(42)
	qr := suite.activeQR(domain.DynamicQR, &amount)
	payer := uuid.NewString()
	paymentErr := errors.New("movement failed")

	suite.mockQRRepo.On("FindQRCodeByID", ctx, qr.QRCodeID).Return(qr, nil).Once()
	suite.mockAccountRepo.On("FindCheckingAccountByOwner", ctx, suite.merchant.UserID).Return(&suite.merchantChecking, nil).Once()
	suite.mockQRRepo.On("ClaimDynamicQR", ctx, qr.QRCodeID, payer, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	suite.mockMovement.On("Move", ctx, mock.AnythingOfType("services.MovementParams")).Return(nil, paymentErr).Once()
	suite.mockQRRepo.On("ReleaseDynamicQR", ctx, qr.QRCodeID, payer, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.service.PayQR(ctx, qr.QRCodeID, suite.payerAccountID, nil, payer)

	suite.Require().ErrorIs(err, paymentErr)
	suite.mockQRRepo.AssertExpectations(suite.T())
}

func (suite *QRServiceTestSuite) TestUpdateQRStatus() {
	ctx := context.Background()
	qr := suite.activeQR(domain.StaticQR, nil)
	userID := suite.merchant.UserID

	suite.mockQRRepo.On("FindQRCodeByID", ctx, qr.QRCodeID).Return(qr, nil).Once()
	suite.mockQRRepo.On("UpdateQRCodeStatus", ctx, qr.QRCodeID, domain.QRInactive, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.UpdateQRStatus(ctx, qr.QRCodeID, domain.QRInactive, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.QRInactive, updated.Status)
}

func TestQRServiceTestSuite(t *testing.T) {
	suite.Run(t, new(QRServiceTestSuite))
}
