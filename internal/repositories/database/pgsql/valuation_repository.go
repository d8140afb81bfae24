package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack_backend/internal/core/ports/repositories"
	"github.com/fintrackhq/fintrack_backend/internal/models"
	"github.com/fintrackhq/fintrack_backend/internal/utils/corrkey"
)

type PgxValuationRepository struct {
	BaseRepository
}

// newPgxValuationRepository creates a new repository for valuation snapshots.
func newPgxValuationRepository(pool *pgxpool.Pool) portsrepo.ValuationRepositoryFacade {
	return &PgxValuationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ValuationRepositoryFacade = (*PgxValuationRepository)(nil)

const snapshotColumns = `snapshot_id, account_id, as_of, value, created_at, created_by, last_updated_at, last_updated_by`

func toDomainSnapshot(m models.ValuationSnapshot) domain.ValuationSnapshot {
	return domain.ValuationSnapshot{
		SnapshotID: m.SnapshotID,
		AccountID:  m.AccountID,
		AsOf:       m.AsOf,
		Value:      m.Value,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanSnapshot(row pgx.Row) (models.ValuationSnapshot, error) {
	var m models.ValuationSnapshot
	err := row.Scan(
		&m.SnapshotID,
		&m.AccountID,
		&m.AsOf,
		&m.Value,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxValuationRepository) FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.ValuationSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM valuation_snapshots WHERE snapshot_id = $1;`

	m, err := scanSnapshot(r.Pool.QueryRow(ctx, query, snapshotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("snapshot %s not found", snapshotID))
		}
		return nil, fmt.Errorf("failed to find snapshot %s: %w", snapshotID, err)
	}
	snapshot := toDomainSnapshot(m)
	return &snapshot, nil
}

func (r *PgxValuationRepository) FindSnapshotByAccountAndAsOf(ctx context.Context, accountID string, asOf time.Time) (*domain.ValuationSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM valuation_snapshots WHERE account_id = $1 AND as_of = $2;`

	m, err := scanSnapshot(r.Pool.QueryRow(ctx, query, accountID, asOf))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no snapshot for account %s at %s", accountID, asOf))
		}
		return nil, fmt.Errorf("failed to find snapshot for account %s: %w", accountID, err)
	}
	snapshot := toDomainSnapshot(m)
	return &snapshot, nil
}

func (r *PgxValuationRepository) FindLatestSnapshotBefore(ctx context.Context, accountID string, before time.Time) (*domain.ValuationSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM valuation_snapshots
		WHERE account_id = $1 AND as_of < $2
		ORDER BY as_of DESC
		LIMIT 1;
	`
	m, err := scanSnapshot(r.Pool.QueryRow(ctx, query, accountID, before))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no snapshot for account %s before %s", accountID, before))
		}
		return nil, fmt.Errorf("failed to find latest snapshot for account %s: %w", accountID, err)
	}
	snapshot := toDomainSnapshot(m)
	return &snapshot, nil
}

func (r *PgxValuationRepository) ListPositionsByAccount(ctx context.Context, accountID string) ([]domain.AssetPosition, error) {
	query := `
		SELECT position_id, account_id, symbol, asset_type, quantity, total_cost,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM asset_positions
		WHERE account_id = $1
		ORDER BY symbol;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var out []domain.AssetPosition
	for rows.Next() {
		var m models.AssetPosition
		if err := rows.Scan(
			&m.PositionID, &m.AccountID, &m.Symbol, &m.AssetType, &m.Quantity, &m.TotalCost,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan position row: %w", err)
		}
		out = append(out, domain.AssetPosition{
			PositionID: m.PositionID,
			AccountID:  m.AccountID,
			Symbol:     m.Symbol,
			AssetType:  domain.AssetType(m.AssetType),
			Quantity:   m.Quantity,
			TotalCost:  m.TotalCost,
			AuditFields: domain.AuditFields{
				CreatedAt:     m.CreatedAt,
				CreatedBy:     m.CreatedBy,
				LastUpdatedAt: m.LastUpdatedAt,
				LastUpdatedBy: m.LastUpdatedBy,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position rows: %w", err)
	}
	return out, nil
}

// SaveSnapshotWithPlug writes the whole valuation aggregate in one
// transaction: the snapshot upsert keyed by (account_id, as_of), the paired
// plug entry keyed by the snapshot's correlation key, and the replaced
// derived rows.
//
// The snapshot ID is stable across re-runs: on conflict the existing row
// keeps its ID and the plug reference keeps pointing at it. The delta is
// added to an existing plug amount because the balance it was computed
// against already included that plug.
func (r *PgxValuationRepository) SaveSnapshotWithPlug(
	ctx context.Context,
	snapshot domain.ValuationSnapshot,
	delta int64,
	plug domain.LedgerEntry,
	positions []domain.AssetPosition,
	assetSnapshots []domain.AssetValuationSnapshot,
) (*domain.ValuationSnapshot, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	upsertSnapshot := `
		INSERT INTO valuation_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (account_id, as_of) DO UPDATE
		SET value = EXCLUDED.value,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by
		RETURNING ` + snapshotColumns + `;
	`
	m, err := scanSnapshot(tx.QueryRow(ctx, upsertSnapshot,
		snapshot.SnapshotID, snapshot.AccountID, snapshot.AsOf, snapshot.Value,
		snapshot.CreatedAt, snapshot.CreatedBy, snapshot.LastUpdatedAt, snapshot.LastUpdatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert snapshot for account %s: %w", snapshot.AccountID, err)
	}
	persisted := toDomainSnapshot(m)

	reference := corrkey.ForValuation(persisted.SnapshotID)
	upsertPlug := `
		INSERT INTO ledger_entries (entry_id, account_id, entry_date, amount, description, reference, cleared, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (reference) WHERE reference NOT LIKE 'transfer\_%' DO UPDATE
		SET amount = ledger_entries.amount + EXCLUDED.amount,
		    entry_date = EXCLUDED.entry_date,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err = tx.Exec(ctx, upsertPlug,
		plug.EntryID, plug.AccountID, plug.EntryDate, delta, plug.Description, reference, plug.Cleared,
		plug.CreatedAt, plug.CreatedBy, plug.LastUpdatedAt, plug.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert plug entry for snapshot %s: %w", persisted.SnapshotID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM asset_positions WHERE account_id = $1;`, snapshot.AccountID); err != nil {
		return nil, fmt.Errorf("failed to clear positions for account %s: %w", snapshot.AccountID, err)
	}
	insertPosition := `
		INSERT INTO asset_positions (position_id, account_id, symbol, asset_type, quantity, total_cost, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, p := range positions {
		if _, err := tx.Exec(ctx, insertPosition,
			p.PositionID, p.AccountID, p.Symbol, string(p.AssetType), p.Quantity, p.TotalCost,
			p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to insert position %s/%s: %w", p.AccountID, p.Symbol, err)
		}
	}

	deleteAssetSnapshots := `DELETE FROM asset_valuation_snapshots WHERE account_id = $1 AND as_of = $2;`
	if _, err := tx.Exec(ctx, deleteAssetSnapshots, snapshot.AccountID, snapshot.AsOf); err != nil {
		return nil, fmt.Errorf("failed to clear asset snapshots for account %s: %w", snapshot.AccountID, err)
	}
	insertAssetSnapshot := `
		INSERT INTO asset_valuation_snapshots (id, account_id, symbol, as_of, quantity, value, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, s := range assetSnapshots {
		if _, err := tx.Exec(ctx, insertAssetSnapshot,
			s.ID, s.AccountID, s.Symbol, s.AsOf, s.Quantity, s.Value,
			s.CreatedAt, s.CreatedBy, s.LastUpdatedAt, s.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to insert asset snapshot %s/%s: %w", s.AccountID, s.Symbol, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &persisted, nil
}

// DeleteSnapshot removes a snapshot, its paired plug entry and the per-symbol
// snapshot rows of the same run atomically.
func (r *PgxValuationRepository) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT TRUE FROM valuation_snapshots WHERE snapshot_id = $1 FOR UPDATE;`, snapshotID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError(fmt.Sprintf("snapshot %s not found", snapshotID))
		}
		return fmt.Errorf("failed to lock snapshot %s: %w", snapshotID, err)
	}

	reference := corrkey.ForValuation(snapshotID)
	if _, err := tx.Exec(ctx, `DELETE FROM ledger_entries WHERE reference = $1;`, reference); err != nil {
		return fmt.Errorf("failed to delete plug entry for snapshot %s: %w", snapshotID, err)
	}
	if err := deleteSnapshotInTx(ctx, tx, snapshotID); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// deleteSnapshotInTx removes a snapshot row and its per-symbol snapshot rows
// inside an existing transaction. A snapshot that is already gone is not an
// error; the caller is converging on the same end state.
func deleteSnapshotInTx(ctx context.Context, tx pgx.Tx, snapshotID string) error {
	var accountID string
	var asOf time.Time
	err := tx.QueryRow(ctx, `SELECT account_id, as_of FROM valuation_snapshots WHERE snapshot_id = $1;`, snapshotID).
		Scan(&accountID, &asOf)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to read snapshot %s: %w", snapshotID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM asset_valuation_snapshots WHERE account_id = $1 AND as_of = $2;`, accountID, asOf); err != nil {
		return fmt.Errorf("failed to delete asset snapshots for snapshot %s: %w", snapshotID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM valuation_snapshots WHERE snapshot_id = $1;`, snapshotID); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", snapshotID, err)
	}
	return nil
}
