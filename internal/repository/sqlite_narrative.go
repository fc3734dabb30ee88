package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DefaultNarrativeEntries bounds the persistent narrative cache.
const DefaultNarrativeEntries = 500

// SQLiteNarrativeRepo persists generated narratives by context key. The
// least recently used entries are pruned once the table grows past its
// limit.
type SQLiteNarrativeRepo struct {
	db         db.DBTX
	uow        db.UnitOfWork
	maxEntries int
	now        func() time.Time
}

// NewSQLiteNarrativeRepo creates a repo over database holding at most
// maxEntries narratives (DefaultNarrativeEntries when maxEntries <= 0).
func NewSQLiteNarrativeRepo(database *sql.DB, maxEntries int) *SQLiteNarrativeRepo {
	if maxEntries <= 0 {
		maxEntries = DefaultNarrativeEntries
	}
	return &SQLiteNarrativeRepo{
		db:         database,
		uow:        db.NewSQLiteUnitOfWork(database),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the narrative stored under key and marks it as used.
func (r *SQLiteNarrativeRepo) Get(ctx context.Context, key string) (*domain.NarrativeReport, bool, error) {
	query := `SELECT context_key, headline, markdown, provider, model, generated_at
		FROM narrative_cache WHERE context_key = ?`

	var n domain.NarrativeReport
	var generatedAt string
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&n.ContextKey,
		&n.Headline,
		&n.Markdown,
		&n.Provider,
		&n.Model,
		&generatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("scanning narrative: %w", err)
	}
	if n.GeneratedAt, err = time.Parse(timeLayout, generatedAt); err != nil {
		return nil, false, fmt.Errorf("parsing narrative generated_at: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE narrative_cache SET last_used_at = ?, hits = hits + 1 WHERE context_key = ?`,
		r.now().UTC().Format(timeLayout), key)
	if err != nil {
		return nil, false, fmt.Errorf("touching narrative: %w", err)
	}
	return &n, true, nil
}

// Put stores report under key, replacing any previous entry, and prunes the
// table back to its limit.
func (r *SQLiteNarrativeRepo) Put(ctx context.Context, key string, report *domain.NarrativeReport) error {
	if report == nil {
		return nil
	}
	now := r.now().UTC().Format(timeLayout)

	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO narrative_cache
			(context_key, headline, markdown, provider, model, generated_at, last_used_at, hits)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0)
			ON CONFLICT(context_key) DO UPDATE SET
				headline = excluded.headline,
				markdown = excluded.markdown,
				provider = excluded.provider,
				model = excluded.model,
				generated_at = excluded.generated_at,
				last_used_at = excluded.last_used_at`,
			key,
			report.Headline,
			report.Markdown,
			report.Provider,
			report.Model,
			report.GeneratedAt.UTC().Format(timeLayout),
			now,
		)
		if err != nil {
			return fmt.Errorf("storing narrative: %w", err)
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM narrative_cache WHERE context_key IN (
			SELECT context_key FROM narrative_cache
			ORDER BY last_used_at DESC, context_key
			LIMIT -1 OFFSET ?)`, r.maxEntries)
		if err != nil {
			return fmt.Errorf("pruning narrative cache: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored narratives.
func (r *SQLiteNarrativeRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM narrative_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting narratives: %w", err)
	}
	return n, nil
}
