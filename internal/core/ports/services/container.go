package services

// ServiceContainer bundles every service facade for injection into handlers
// and the scheduler.
type ServiceContainer struct {
	User      UserSvcFacade
	Account   AccountSvcFacade
	Ledger    LedgerSvcFacade
	Trade     TradeSvcFacade
	Transfer  TransferSvcFacade
	Valuation ValuationSvcFacade
	Batch     BatchSvcFacade
}
