package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/fintrackhq/fintrack_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository onto one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
		LedgerRepo:    newPgxLedgerRepository(dbPool),
		TradeRepo:     newPgxTradeRepository(dbPool),
		ValuationRepo: newPgxValuationRepository(dbPool),
	}
}
