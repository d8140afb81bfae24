package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	r.GET("/health", GetHealth)

	v1 := r.Group("/api/v1")

	registerUserRoutes(v1, services.User)
	registerAccountRoutes(v1, services)
	registerLedgerRoutes(v1, services.Ledger, services.Transfer)
	registerTradeRoutes(v1, services.Trade)
	registerValuationRoutes(v1, services.Valuation, services.Batch)
}

func registerUserRoutes(v1 *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	userHandler := NewUserHandler(userService)

	users := v1.Group("/users")
	{
		users.GET("/", userHandler.ListUsers)
		users.GET("/:userID", userHandler.GetUser)
	}
}

func registerAccountRoutes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer) {
	accountHandler := NewAccountHandler(services.Account, services.Ledger)
	ledgerHandler := NewLedgerHandler(services.Ledger)
	tradeHandler := NewTradeHandler(services.Trade)
	valuationHandler := NewValuationHandler(services.Valuation, services.Batch)

	accounts := v1.Group("/accounts")
	{
		accounts.POST("/", accountHandler.CreateAccount)
		accounts.GET("/", accountHandler.ListAccounts)
		accounts.GET("/:accountID", accountHandler.GetAccount)
		accounts.GET("/:accountID/entries", ledgerHandler.ListEntries)
		accounts.GET("/:accountID/balance", ledgerHandler.GetBalance)
		accounts.GET("/:accountID/trades", tradeHandler.ListTrades)
		accounts.GET("/:accountID/positions", valuationHandler.ListPositions)
		accounts.POST("/:accountID/valuation", valuationHandler.Reconcile)
	}
}

func registerLedgerRoutes(v1 *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, transferService portssvc.TransferSvcFacade) {
	ledgerHandler := NewLedgerHandler(ledgerService)
	transferHandler := NewTransferHandler(transferService)

	entries := v1.Group("/entries")
	{
		entries.POST("/", ledgerHandler.CreateEntry)
		entries.PUT("/:entryID", ledgerHandler.UpdateEntry)
		entries.DELETE("/:entryID", ledgerHandler.DeleteEntry)
		entries.GET("/:entryID/transfer-candidates", transferHandler.FindCandidates)
		entries.GET("/:entryID/transfer-match", transferHandler.BestMatch)
	}

	transfers := v1.Group("/transfers")
	{
		transfers.POST("/", transferHandler.CommitMatch)
	}
}

func registerTradeRoutes(v1 *gin.RouterGroup, tradeService portssvc.TradeSvcFacade) {
	tradeHandler := NewTradeHandler(tradeService)

	trades := v1.Group("/trades")
	{
		trades.POST("/", tradeHandler.RecordTrade)
		trades.DELETE("/:tradeID", tradeHandler.DeleteTrade)
	}
}

func registerValuationRoutes(v1 *gin.RouterGroup, valuationService portssvc.ValuationSvcFacade, batchService portssvc.BatchSvcFacade) {
	valuationHandler := NewValuationHandler(valuationService, batchService)

	valuations := v1.Group("/valuations")
	{
		valuations.POST("/refresh", valuationHandler.Refresh)
		valuations.DELETE("/:snapshotID", valuationHandler.DeleteSnapshot)
	}
}
