package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
	portssvc "github.com/nexabank/corebanking/internal/core/ports/services"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindCheckingAccountByOwner(ctx context.Context, ownerID string) (*domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	args := m.Called(ctx, accountNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, status, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, deltas, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) ClaimInterestCheckpoint(ctx context.Context, accountID string, previous, next time.Time, userID string) (bool, error) {
	args := m.Called(ctx, accountID, previous, next, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) RestoreInterestCheckpoint(ctx context.Context, accountID string, previous time.Time, userID string) error {
	args := m.Called(ctx, accountID, previous, userID)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) CompleteMovement(ctx context.Context, transactionID string, debitAccountID, creditAccountID *string, amount decimal.Decimal, userID string, completedAt time.Time) error {
	args := m.Called(ctx, transactionID, debitAccountID, creditAccountID, amount, userID, completedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkTransactionFailed(ctx context.Context, transactionID string, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, userID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockCreditRepository is a mock type for the CreditRepository interface
type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) SaveCreditRequest(ctx context.Context, req domain.CreditRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockCreditRepository) FindCreditRequestByID(ctx context.Context, creditRequestID string) (*domain.CreditRequest, error) {
	args := m.Called(ctx, creditRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditRequest), args.Error(1)
}

func (m *MockCreditRepository) ListCreditRequests(ctx context.Context, filter portsrepo.CreditFilter) ([]domain.CreditRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditRequest), args.Error(1)
}

func (m *MockCreditRepository) MarkApproved(ctx context.Context, creditRequestID, adminID string, now time.Time) (bool, error) {
	args := m.Called(ctx, creditRequestID, adminID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockCreditRepository) MarkRejected(ctx context.Context, creditRequestID, adminID, reason string, now time.Time) (bool, error) {
	args := m.Called(ctx, creditRequestID, adminID, reason, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockCreditRepository) UpdateCreditDocuments(ctx context.Context, creditRequestID string, documents []string, userID string, now time.Time) (bool, error) {
	args := m.Called(ctx, creditRequestID, documents, userID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockCreditRepository) RevertToPending(ctx context.Context, creditRequestID string, userID string, now time.Time) error {
	args := m.Called(ctx, creditRequestID, userID, now)
	return args.Error(0)
}

// MockInvestmentRepository is a mock type for the InvestmentRepository interface
type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) SaveInvestment(ctx context.Context, inv domain.Investment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvestmentRepository) FindInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error) {
	args := m.Called(ctx, investmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) FindInvestmentByIDAndOwner(ctx context.Context, investmentID, ownerID string) (*domain.Investment, error) {
	args := m.Called(ctx, investmentID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) ListInvestmentsByOwner(ctx context.Context, ownerID string, filter portsrepo.InvestmentFilter) ([]domain.Investment, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) MarkCancelled(ctx context.Context, investmentID string, actualReturn decimal.Decimal, userID string, now time.Time) (bool, error) {
	args := m.Called(ctx, investmentID, actualReturn, userID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvestmentRepository) MarkCompleted(ctx context.Context, investmentID string, actualReturn decimal.Decimal, userID string, now time.Time) (bool, error) {
	args := m.Called(ctx, investmentID, actualReturn, userID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvestmentRepository) Reactivate(ctx context.Context, investmentID string, userID string, now time.Time) error {
	args := m.Called(ctx, investmentID, userID, now)
	return args.Error(0)
}

func (m *MockInvestmentRepository) DeleteInvestment(ctx context.Context, investmentID string) error {
	args := m.Called(ctx, investmentID)
	return args.Error(0)
}

// MockCardRepository is a mock type for the CardRepository interface
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) SaveCard(ctx context.Context, card domain.VirtualCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) FindCardByID(ctx context.Context, cardID string) (*domain.VirtualCard, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VirtualCard), args.Error(1)
}

func (m *MockCardRepository) ListCardsByOwner(ctx context.Context, ownerID string, filter portsrepo.CardFilter) ([]domain.VirtualCard, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VirtualCard), args.Error(1)
}

func (m *MockCardRepository) CardNumberExists(ctx context.Context, cardNumber string) (bool, error) {
	args := m.Called(ctx, cardNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardRepository) UpdateCardStatus(ctx context.Context, cardID string, status domain.CardStatus, userID string, now time.Time) error {
	args := m.Called(ctx, cardID, status, userID, now)
	return args.Error(0)
}

func (m *MockCardRepository) ClaimCreditDraw(ctx context.Context, cardID string, amount decimal.Decimal, userID string, now time.Time) (bool, error) {
	args := m.Called(ctx, cardID, amount, userID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardRepository) ReleaseCreditDraw(ctx context.Context, cardID string, amount decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, cardID, amount, userID, now)
	return args.Error(0)
}

// MockQRCodeRepository is a mock type for the QRCodeRepository interface
type MockQRCodeRepository struct {
	mock.Mock
}

func (m *MockQRCodeRepository) SaveQRCode(ctx context.Context, qr domain.QRCode) error {
	args := m.Called(ctx, qr)
	return args.Error(0)
}

func (m *MockQRCodeRepository) FindQRCodeByID(ctx context.Context, qrCodeID string) (*domain.QRCode, error) {
	args := m.Called(ctx, qrCodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QRCode), args.Error(1)
}

func (m *MockQRCodeRepository) ListQRCodesByMerchant(ctx context.Context, merchantID string, filter portsrepo.QRFilter) ([]domain.QRCode, error) {
	args := m.Called(ctx, merchantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QRCode), args.Error(1)
}

func (m *MockQRCodeRepository) UpdateQRCodeStatus(ctx context.Context, qrCodeID string, status domain.QRStatus, userID string, now time.Time) error {
	args := m.Called(ctx, qrCodeID, status, userID, now)
	return args.Error(0)
}

func (m *MockQRCodeRepository) ClaimDynamicQR(ctx context.Context, qrCodeID string, userID string, now time.Time) (bool, error) {
	args := m.Called(ctx, qrCodeID, userID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockQRCodeRepository) ReleaseDynamicQR(ctx context.Context, qrCodeID string, userID string, now time.Time) error {
	args := m.Called(ctx, qrCodeID, userID, now)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockMovementService is a mock type for the MovementSvcFacade interface
type MockMovementService struct {
	mock.Mock
}

func (m *MockMovementService) Move(ctx context.Context, params portssvc.MovementParams) (*domain.Transaction, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockMovementService) Transfer(ctx context.Context, sourceAccountID, destinationAccountID string, amount decimal.Decimal, description, initiatedBy string) (*domain.Transaction, error) {
	args := m.Called(ctx, sourceAccountID, destinationAccountID, amount, description, initiatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockMovementService) GetTransactionHistory(ctx context.Context, accountID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockNotifier is a mock type for the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, event portssvc.Event) {
	m.Called(ctx, event)
}
