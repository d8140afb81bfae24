package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack_backend/internal/core/ports/repositories"
	"github.com/fintrackhq/fintrack_backend/internal/models"
	"github.com/fintrackhq/fintrack_backend/internal/utils/corrkey"
)

type PgxTradeRepository struct {
	BaseRepository
}

// newPgxTradeRepository creates a new repository for investment trades.
func newPgxTradeRepository(pool *pgxpool.Pool) portsrepo.TradeRepositoryFacade {
	return &PgxTradeRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TradeRepositoryFacade = (*PgxTradeRepository)(nil)

const tradeColumns = `trade_id, account_id, occurred_at, trade_type, asset_type, symbol, quantity, unit_price, amount, fees, import_batch_id, created_at, created_by, last_updated_at, last_updated_by`

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	return &nd.Decimal
}

func nullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

func int64PtrFromNull(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Int64
}

func toModelTrade(d domain.Trade) models.Trade {
	return models.Trade{
		TradeID:       d.TradeID,
		AccountID:     d.AccountID,
		OccurredAt:    d.OccurredAt,
		TradeType:     string(d.TradeType),
		AssetType:     string(d.AssetType),
		Symbol:        nullStringPtr(d.Symbol),
		Quantity:      nullDecimal(d.Quantity),
		UnitPrice:     nullDecimal(d.UnitPrice),
		Amount:        d.Amount,
		Fees:          nullInt64(d.Fees),
		ImportBatchID: nullStringPtr(d.ImportBatchID),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainTrade(m models.Trade) domain.Trade {
	return domain.Trade{
		TradeID:       m.TradeID,
		AccountID:     m.AccountID,
		OccurredAt:    m.OccurredAt,
		TradeType:     domain.TradeType(m.TradeType),
		AssetType:     domain.AssetType(m.AssetType),
		Symbol:        ptrFromNull(m.Symbol),
		Quantity:      decimalPtr(m.Quantity),
		UnitPrice:     decimalPtr(m.UnitPrice),
		Amount:        m.Amount,
		Fees:          int64PtrFromNull(m.Fees),
		ImportBatchID: ptrFromNull(m.ImportBatchID),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanTrade(row pgx.Row) (models.Trade, error) {
	var m models.Trade
	err := row.Scan(
		&m.TradeID,
		&m.AccountID,
		&m.OccurredAt,
		&m.TradeType,
		&m.AssetType,
		&m.Symbol,
		&m.Quantity,
		&m.UnitPrice,
		&m.Amount,
		&m.Fees,
		&m.ImportBatchID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTradeRepository) FindTradeByID(ctx context.Context, tradeID string) (*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE trade_id = $1;`

	m, err := scanTrade(r.Pool.QueryRow(ctx, query, tradeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("trade %s not found", tradeID))
		}
		return nil, fmt.Errorf("failed to find trade %s: %w", tradeID, err)
	}
	trade := toDomainTrade(m)
	return &trade, nil
}

// ListTradesByAccount retrieves trades dated at or before until, in ascending
// occurrence order. Creation time breaks ties so the projection fold is
// deterministic for same-instant trades.
func (r *PgxTradeRepository) ListTradesByAccount(ctx context.Context, accountID string, until time.Time) ([]domain.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE account_id = $1 AND occurred_at <= $2
		ORDER BY occurred_at, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var out []domain.Trade
	for rows.Next() {
		m, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		out = append(out, toDomainTrade(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return out, nil
}

// SaveTradeWithEntry persists a trade together with its paired ledger entry
// in one transaction.
func (r *PgxTradeRepository) SaveTradeWithEntry(ctx context.Context, trade domain.Trade, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := toModelTrade(trade)
	insertTrade := `
		INSERT INTO trades (` + tradeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, insertTrade,
		m.TradeID, m.AccountID, m.OccurredAt, m.TradeType, m.AssetType,
		m.Symbol, m.Quantity, m.UnitPrice, m.Amount, m.Fees, m.ImportBatchID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: trade %s already exists", apperrors.ErrDuplicate, m.TradeID)
		}
		return fmt.Errorf("failed to save trade %s: %w", m.TradeID, err)
	}

	e := toModelEntry(entry)
	insertEntry := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, insertEntry,
		e.EntryID, e.AccountID, e.EntryDate, e.Amount, e.Description,
		e.Reference, e.CategoryID, e.ImportBatchID, e.Cleared,
		e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save paired entry for trade %s: %w", m.TradeID, err)
	}

	return r.Commit(ctx, tx)
}

// DeleteTrade removes a trade and its paired ledger entry atomically.
func (r *PgxTradeRepository) DeleteTrade(ctx context.Context, tradeID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM trades WHERE trade_id = $1;`, tradeID)
	if err != nil {
		return fmt.Errorf("failed to delete trade %s: %w", tradeID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("trade %s not found", tradeID))
	}

	reference := corrkey.ForTrade(tradeID)
	if _, err := tx.Exec(ctx, `DELETE FROM ledger_entries WHERE reference = $1;`, reference); err != nil {
		return fmt.Errorf("failed to delete paired entry for trade %s: %w", tradeID, err)
	}

	return r.Commit(ctx, tx)
}
