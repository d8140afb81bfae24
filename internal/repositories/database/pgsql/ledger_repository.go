package pgsql

import (
	"context"
	"database/sql"
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

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const entryColumns = `entry_id, account_id, entry_date, amount, description, reference, category_id, import_batch_id, cleared, created_at, created_by, last_updated_at, last_updated_by`

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func ptrFromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func toModelEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		AccountID:     d.AccountID,
		EntryDate:     d.EntryDate,
		Amount:        d.Amount,
		Description:   d.Description,
		Reference:     nullString(d.Reference),
		CategoryID:    nullStringPtr(d.CategoryID),
		ImportBatchID: nullStringPtr(d.ImportBatchID),
		Cleared:       d.Cleared,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		AccountID:     m.AccountID,
		EntryDate:     m.EntryDate,
		Amount:        m.Amount,
		Description:   m.Description,
		Reference:     m.Reference.String,
		CategoryID:    ptrFromNull(m.CategoryID),
		ImportBatchID: ptrFromNull(m.ImportBatchID),
		Cleared:       m.Cleared,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.AccountID,
		&m.EntryDate,
		&m.Amount,
		&m.Description,
		&m.Reference,
		&m.CategoryID,
		&m.ImportBatchID,
		&m.Cleared,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		out = append(out, toDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}
	return out, nil
}

// FindEntryByID retrieves a single ledger entry.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %s not found", entryID))
		}
		return nil, fmt.Errorf("failed to find ledger entry %s: %w", entryID, err)
	}
	entry := toDomainEntry(m)
	return &entry, nil
}

// FindEntryByReference retrieves the entry carrying a correlation key.
func (r *PgxLedgerRepository) FindEntryByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE reference = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no entry carries reference %s", reference))
		}
		return nil, fmt.Errorf("failed to find entry by reference %s: %w", reference, err)
	}
	entry := toDomainEntry(m)
	return &entry, nil
}

// ListEntriesByAccount retrieves entries for an account ordered by date then
// creation time. Nil bounds mean unbounded.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR entry_date >= $2)
		  AND ($3::timestamptz IS NULL OR entry_date <= $3)
		ORDER BY entry_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetBalanceAsOf computes the derived balance: opening balance plus the signed
// sum of entries dated at or before asOf. Prior plug entries are part of the
// sum on purpose; the reconciliation engine converges because of it.
func (r *PgxLedgerRepository) GetBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (int64, error) {
	query := `
		SELECT a.opening_balance + COALESCE(SUM(le.amount), 0)
		FROM accounts a
		LEFT JOIN ledger_entries le ON le.account_id = a.account_id AND le.entry_date <= $2
		WHERE a.account_id = $1
		GROUP BY a.opening_balance;
	`
	var balance int64
	err := r.Pool.QueryRow(ctx, query, accountID, asOf).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
		}
		return 0, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}
	return balance, nil
}

// FindTransferCandidates returns entries inside the filter's date and amount
// band, excluding the source account and anything carrying an automated
// correlation key (transfer legs, valuation plugs, trade entries). Ranking
// happens in the service; the query only narrows.
func (r *PgxLedgerRepository) FindTransferCandidates(ctx context.Context, filter portsrepo.TransferCandidateFilter) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries le
		JOIN accounts a ON a.account_id = le.account_id
		WHERE le.account_id <> $1
		  AND a.currency_code = $2
		  AND le.entry_date BETWEEN $3 AND $4
		  AND le.amount BETWEEN $5 AND $6
		  AND (le.reference IS NULL
			       OR le.reference NOT SIMILAR TO '(investment\_valuation\_|investment\_trade\_|transfer\_)%')
		ORDER BY le.entry_date, le.created_at;
	`
	rows, err := r.Pool.Query(ctx, query,
		filter.ExcludeAccountID,
		filter.CurrencyCode,
		filter.DateFrom,
		filter.DateTo,
		filter.AmountMin,
		filter.AmountMax,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer candidates: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// SaveEntry inserts a new ledger entry.
func (r *PgxLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := toModelEntry(entry)
	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EntryID, m.AccountID, m.EntryDate, m.Amount, m.Description,
		m.Reference, m.CategoryID, m.ImportBatchID, m.Cleared,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save ledger entry %s: %w", m.EntryID, err)
	}
	return nil
}

// UpdateEntry replaces user-editable fields. The WHERE clause refuses to touch
// a row whose reference was changed away from an automated key; the service
// validates this too, this is the backstop.
func (r *PgxLedgerRepository) UpdateEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := toModelEntry(entry)
	query := `
		UPDATE ledger_entries
		SET entry_date = $2, amount = $3, description = $4, reference = $5,
		    category_id = $6, cleared = $7, last_updated_at = $8, last_updated_by = $9
		WHERE entry_id = $1
		  AND (reference IS NULL
		       OR reference NOT SIMILAR TO '(investment\_valuation\_|investment\_trade\_|transfer\_)%'
		       OR reference = $5);
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.EntryID, m.EntryDate, m.Amount, m.Description, m.Reference,
		m.CategoryID, m.Cleared, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger entry %s: %w", m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s missing or its correlation key is immutable", apperrors.ErrConflict, m.EntryID)
	}
	return nil
}

// DeleteEntry removes an entry. When the entry is a reconciliation plug, the
// paired snapshot and its per-symbol rows go with it in the same transaction
// so no orphan survives.
func (r *PgxLedgerRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var reference sql.NullString
	err = tx.QueryRow(ctx, `SELECT reference FROM ledger_entries WHERE entry_id = $1 FOR UPDATE;`, entryID).Scan(&reference)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %s not found", entryID))
		}
		return fmt.Errorf("failed to lock ledger entry %s: %w", entryID, err)
	}

	if key := corrkey.Parse(reference.String); key.Kind == corrkey.KindValuation {
		if err := deleteSnapshotInTx(ctx, tx, key.ID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM ledger_entries WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete ledger entry %s: %w", entryID, err)
	}

	return r.Commit(ctx, tx)
}

// CommitTransferMatch tags both legs with the shared transfer reference,
// clears their category and marks them cleared. Either both rows change or
// neither does. The WHERE clause refuses rows already carrying any automated
// correlation key; overwriting a valuation or trade key would orphan the
// record it pairs with.
func (r *PgxLedgerRepository) CommitTransferMatch(ctx context.Context, entryAID, entryBID, reference, updatedByUserID string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE ledger_entries
		SET reference = $2, category_id = NULL, cleared = TRUE,
		    last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1
		  AND (reference IS NULL
			       OR reference NOT SIMILAR TO '(investment\_valuation\_|investment\_trade\_|transfer\_)%');
	`
	for _, entryID := range []string{entryAID, entryBID} {
		tag, err := tx.Exec(ctx, query, entryID, reference, updatedAt, updatedByUserID)
		if err != nil {
			return fmt.Errorf("failed to tag transfer leg %s: %w", entryID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: entry %s missing, already matched, or carries an immutable key", apperrors.ErrConflict, entryID)
		}
	}

	return r.Commit(ctx, tx)
}
