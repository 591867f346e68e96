package services

// ServiceContainer bundles all service facades for handler wiring.
type ServiceContainer struct {
	Account    AccountSvcFacade
	Interest   InterestSvcFacade
	Movement   MovementSvcFacade
	Credit     CreditSvcFacade
	Investment InvestmentSvcFacade
	Card       CardSvcFacade
	QR         QRSvcFacade
}
