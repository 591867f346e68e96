package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgsql repositories over one pool. The
// transaction repository carries the account repository so CompleteMovement
// can lock and mutate balances inside its own transaction.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, accountRepo)
	creditRepo := newPgxCreditRepository(dbPool)
	investmentRepo := newPgxInvestmentRepository(dbPool)
	cardRepo := newPgxCardRepository(dbPool)
	qrCodeRepo := newPgxQRCodeRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		CreditRepo:      creditRepo,
		InvestmentRepo:  investmentRepo,
		CardRepo:        cardRepo,
		QRCodeRepo:      qrCodeRepo,
		UserRepo:        userRepo,
	}
}
