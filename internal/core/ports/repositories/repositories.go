package repositories

// RepositoryProvider bundles all repository implementations for wiring.
type RepositoryProvider struct {
	AccountRepo     AccountRepository
	TransactionRepo TransactionRepository
	CreditRepo      CreditRepository
	InvestmentRepo  InvestmentRepository
	CardRepo        CardRepository
	QRCodeRepo      QRCodeRepository
	UserRepo        UserRepository
}
