package services

import (
	portsrepo "github.com/fintrackhq/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
)

// NewServiceContainer creates the service container with its dependencies
// wired. The valuation service is built first; the batch runner drives it.
func NewServiceContainer(repos portsrepo.RepositoryProvider, prices portssvc.PriceSource) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.AccountRepo)
	container.Trade = NewTradeService(repos.TradeRepo, repos.AccountRepo)
	container.Transfer = NewTransferService(repos.LedgerRepo, repos.AccountRepo)
	container.Valuation = NewValuationService(repos.AccountRepo, repos.TradeRepo, repos.LedgerRepo, repos.ValuationRepo, prices)
	container.Batch = NewBatchService(repos.AccountRepo, repos.TradeRepo, repos.ValuationRepo, container.Valuation, prices)

	return container
}
