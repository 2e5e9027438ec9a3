package memory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
	berrors "github.com/BatAIInc/bat-ai-core/pkg/errors"
)

// SQLiteContext persists exchanges in SQLite. Suitable for single-node
// deployments that need memory to survive restarts.
type SQLiteContext struct {
	db    *sql.DB
	limit int
}

// SQLiteOption configures a SQLiteContext.
type SQLiteOption func(*SQLiteContext)

// WithLoadLimit caps how many recent exchanges LoadContext returns per
// scope. Zero means unlimited.
func WithLoadLimit(n int) SQLiteOption {
	return func(s *SQLiteContext) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewSQLiteContext creates a SQLite-backed context store and ensures schema.
func NewSQLiteContext(db *sql.DB, opts ...SQLiteOption) (*SQLiteContext, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if err := ensureContextSchema(db); err != nil {
		return nil, err
	}
	s := &SQLiteContext{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// OpenSQLiteContext opens (or creates) a SQLite database at path and
// returns a context store over it.
func OpenSQLiteContext(path string, opts ...SQLiteOption) (*SQLiteContext, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, berrors.New(berrors.CodeMemoryError, "failed to open sqlite database", err).
			WithContext("path", path)
	}
	return NewSQLiteContext(db, opts...)
}

// LoadContext returns stored exchanges for a scope ordered oldest first.
func (s *SQLiteContext) LoadContext(ctx context.Context, scope string) ([]core.Exchange, error) {
	query := `
		SELECT input, output, created_at
		FROM context_exchanges
		WHERE scope = ?
		ORDER BY created_at ASC, id ASC
	`
	args := []any{scope}
	if s.limit > 0 {
		// Window over the most recent rows while preserving ascending order.
		query = `
			SELECT input, output, created_at FROM (
				SELECT id, input, output, created_at
				FROM context_exchanges
				WHERE scope = ?
				ORDER BY created_at DESC, id DESC
				LIMIT ?
			) ORDER BY created_at ASC, id ASC
		`
		args = append(args, s.limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, berrors.New(berrors.CodeMemoryError, "failed to load context", err).
			WithContext("scope", scope)
	}
	defer rows.Close()

	var exchanges []core.Exchange
	for rows.Next() {
		var (
			ex      core.Exchange
			created sql.NullTime
		)
		if err := rows.Scan(&ex.Input, &ex.Output, &created); err != nil {
			return nil, berrors.New(berrors.CodeMemoryError, "failed to scan exchange", err)
		}
		if created.Valid {
			ex.CreatedAt = created.Time
		}
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, berrors.New(berrors.CodeMemoryError, "failed to read exchanges", err)
	}
	return exchanges, nil
}

// SaveContext stores a single exchange.
func (s *SQLiteContext) SaveContext(ctx context.Context, scope string, exchange core.Exchange) error {
	created := exchange.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO context_exchanges (scope, input, output, created_at)
		VALUES (?, ?, ?, ?)
	`, scope, exchange.Input, exchange.Output, created)
	if err != nil {
		return berrors.New(berrors.CodeMemoryError, "failed to save context", err).
			WithContext("scope", scope)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteContext) Close() error {
	return s.db.Close()
}

func ensureContextSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS context_exchanges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scope TEXT NOT NULL,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_context_exchanges_scope ON context_exchanges(scope);
	`)
	return err
}

var _ core.Memory = (*SQLiteContext)(nil)
