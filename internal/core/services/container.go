package services

import (
	"context"
	"fmt"

	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
	portssvc "github.com/nexabank/corebanking/internal/core/ports/services"
	"github.com/nexabank/corebanking/internal/utils/identifier"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. The movement engine is built first since every
// money-handling service delegates to it.
func NewServiceContainer(repos portsrepo.RepositoryProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	idGen := identifier.New(identifierExists(repos))

	container := &portssvc.ServiceContainer{}

	container.Movement = NewMovementService(repos.TransactionRepo, repos.AccountRepo, idGen, notifier)
	container.Account = NewAccountService(repos.AccountRepo, repos.UserRepo, idGen, notifier)
	container.Interest = NewInterestService(repos.AccountRepo, container.Movement)
	container.Credit = NewCreditService(repos.CreditRepo, repos.AccountRepo, repos.UserRepo, container.Movement, notifier)
	container.Investment = NewInvestmentService(repos.InvestmentRepo, repos.AccountRepo, container.Movement, notifier)
	container.Card = NewCardService(repos.CardRepo, repos.AccountRepo, container.Movement, idGen, notifier)
	container.QR = NewQRService(repos.QRCodeRepo, repos.AccountRepo, repos.UserRepo, container.Movement, notifier)

	return container
}

// identifierExists routes a candidate identifier's uniqueness probe to the
// table that owns its kind.
func identifierExists(repos portsrepo.RepositoryProvider) identifier.ExistsFunc {
	return func(ctx context.Context, kind identifier.Kind, candidate string) (bool, error) {
		switch kind {
		case identifier.KindAccountNumber:
			return repos.AccountRepo.AccountNumberExists(ctx, candidate)
		case identifier.KindTransactionReference:
			return repos.TransactionRepo.ReferenceExists(ctx, candidate)
		case identifier.KindCardNumber:
			return repos.CardRepo.CardNumberExists(ctx, candidate)
		default:
			return false, fmt.Errorf("unknown identifier kind %q", kind)
		}
	}
}
