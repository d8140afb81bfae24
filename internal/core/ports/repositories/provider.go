package repositories

// RepositoryProvider bundles every repository facade for injection into the
// service container.
type RepositoryProvider struct {
	AccountRepo   AccountRepositoryFacade
	UserRepo      UserRepositoryFacade
	LedgerRepo    LedgerRepositoryFacade
	TradeRepo     TradeRepositoryFacade
	ValuationRepo ValuationRepositoryFacade
}
