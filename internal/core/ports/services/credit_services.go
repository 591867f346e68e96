package services

import (
	"context"

	"github.com/nexabank/corebanking/internal/core/domain"
	portsrepo "github.com/nexabank/corebanking/internal/core/ports/repositories"
	"github.com/nexabank/corebanking/internal/dto"
)

// CreditSvcFacade underwrites and decides credit requests.
type CreditSvcFacade interface {
	RequestCredit(ctx context.Context, ownerID string, req dto.CreateCreditRequest) (*domain.CreditRequest, error)
	ApproveCredit(ctx context.Context, creditRequestID, adminID string) (*domain.CreditRequest, error)
	RejectCredit(ctx context.Context, creditRequestID, adminID, reason string) (*domain.CreditRequest, error)
	UpdateCreditDocuments(ctx context.Context, creditRequestID, ownerID string, documents []string) (*domain.CreditRequest, error)
	ListCreditRequests(ctx context.Context, filter portsrepo.CreditFilter) ([]domain.CreditRequest, error)
	GetCreditHistory(ctx context.Context, ownerID string) ([]domain.CreditRequest, error)
}
