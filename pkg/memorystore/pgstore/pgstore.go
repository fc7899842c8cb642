// Package pgstore is the PostgreSQL-backed memorystore.Store
// implementation, used by the evaluation framework's backend
// comparison reports and by any deployment that needs memory entries to
// outlive a single process. It uses database/sql over the pgx driver
// directly (hand-written SQL) rather than a code-generated ORM client.
package pgstore

import (
	"context"
	stdsql "database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/open-cogeval/cogeval/internal/apperr"
	"github.com/open-cogeval/cogeval/pkg/memorystore"
)

//go:embed migrations
var migrationsFS embed.FS

// Config holds connection and pool settings for the Postgres backend.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store is a memorystore.Store backed by Postgres.
type Store struct {
	db *stdsql.DB
}

// Open connects to Postgres, applies embedded migrations, and returns a
// ready-to-use Store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := stdsql.Open("pgx", dsn)
	if err != nil {
		return nil, apperr.NewConfigurationError("pgstore", "open: "+err.Error())
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperr.NewConfigurationError("pgstore", "ping: "+err.Error())
	}

	if err := runMigrations(db, cfg.Database); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// OpenFromDB wraps an already-open *sql.DB (migrations already applied),
// useful for tests that share a single testcontainers instance.
func OpenFromDB(db *stdsql.DB) *Store {
	return &Store{db: db}
}

func runMigrations(db *stdsql.DB, databaseName string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return apperr.NewConfigurationError("pgstore", "migration driver: "+err.Error())
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return apperr.NewConfigurationError("pgstore", "migration source: "+err.Error())
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, databaseName, driver)
	if err != nil {
		return apperr.NewConfigurationError("pgstore", "migration instance: "+err.Error())
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperr.NewConfigurationError("pgstore", "apply migrations: "+err.Error())
	}

	// Only close the source driver: calling m.Close() also closes the
	// *sql.DB shared with the caller.
	return sourceDriver.Close()
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// HealthStatus reports connectivity and pool statistics.
type HealthStatus struct {
	Status          string        `json:"status"`
	ResponseTime    time.Duration `json:"response_time_ms"`
	OpenConnections int           `json:"open_connections"`
	InUse           int           `json:"in_use"`
	Idle            int           `json:"idle"`
	WaitCount       int64         `json:"wait_count"`
	WaitDuration    time.Duration `json:"wait_duration_ms"`
	MaxOpenConns    int           `json:"max_open_conns"`
}

// Health pings the database and reports connection pool statistics.
func (s *Store) Health(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	if err := s.db.PingContext(ctx); err != nil {
		return &HealthStatus{Status: "unhealthy", ResponseTime: time.Since(start)}, err
	}

	stats := s.db.Stats()
	return &HealthStatus{
		Status:          "healthy",
		ResponseTime:    time.Since(start),
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		WaitCount:       stats.WaitCount,
		WaitDuration:    stats.WaitDuration,
		MaxOpenConns:    stats.MaxOpenConnections,
	}, nil
}

func (s *Store) Insert(ctx context.Context, entry memorystore.MemoryEntry) error {
	meta, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("pgstore: marshal metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memory_entries (id, session_id, agent_id, memory_type, title, content, metadata, importance, created_at, accessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.SessionID, entry.AgentID, string(entry.Type), entry.Title, entry.Content,
		meta, entry.Importance, entry.CreatedAt, nullableTime(entry.AccessedAt))
	if err != nil {
		return fmt.Errorf("pgstore: insert: %w", err)
	}
	return nil
}

func (s *Store) FindByFingerprint(ctx context.Context, sessionID string, fp memorystore.Fingerprint) (memorystore.MemoryEntry, bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, agent_id, memory_type, title, content, metadata, importance, created_at, accessed_at
		FROM memory_entries
		WHERE session_id = $1 AND length(content) = $2`, sessionID, fp.Length)
	if err != nil {
		return memorystore.MemoryEntry{}, false, fmt.Errorf("pgstore: fingerprint query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return memorystore.MemoryEntry{}, false, err
		}
		if memorystore.NewFingerprint(e.Content).Equal(fp) {
			return e, true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return memorystore.MemoryEntry{}, false, fmt.Errorf("pgstore: fingerprint scan: %w", err)
	}
	return memorystore.MemoryEntry{}, false, nil
}

func (s *Store) CandidatesForSession(ctx context.Context, sessionID string, limit int) ([]memorystore.MemoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, agent_id, memory_type, title, content, metadata, importance, created_at, accessed_at
		FROM memory_entries
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("pgstore: candidates query: %w", err)
	}
	defer rows.Close()

	var out []memorystore.MemoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) TouchAccessed(ctx context.Context, sessionID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE memory_entries SET accessed_at = $1
		WHERE session_id = $2 AND id = ANY($3::text[])`,
		time.Now(), sessionID, pqStringArray(ids))
	if err != nil {
		return fmt.Errorf("pgstore: touch accessed: %w", err)
	}
	return nil
}

func (s *Store) DeleteByType(ctx context.Context, sessionID string, memType memorystore.MemoryType) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM memory_entries WHERE session_id = $1 AND memory_type = $2`, sessionID, string(memType))
	if err != nil {
		return 0, fmt.Errorf("pgstore: delete by type: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *Store) DeleteByTaskID(ctx context.Context, sessionID, taskID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM memory_entries
		WHERE session_id = $1 AND memory_type = $2 AND metadata->>'task_id' = $3`,
		sessionID, string(memorystore.MemoryWorking), taskID)
	if err != nil {
		return 0, fmt.Errorf("pgstore: delete by task id: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// DeleteSession deletes every row for sessionID inside a transaction
// that first locks the matching rows with SELECT ... FOR UPDATE, giving
// the session-scoped composite-key locking the coordinator's clear_all
// integrity check relies on.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("pgstore: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM memory_entries WHERE session_id = $1 FOR UPDATE`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("pgstore: lock session rows: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("pgstore: scan locked id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("pgstore: iterate locked rows: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM memory_entries WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("pgstore: delete session: %w", err)
	}
	n, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("pgstore: commit delete session: %w", err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (memorystore.MemoryEntry, error) {
	var e memorystore.MemoryEntry
	var memType string
	var meta []byte
	var accessedAt stdsql.NullTime

	if err := r.Scan(&e.ID, &e.SessionID, &e.AgentID, &memType, &e.Title, &e.Content, &meta, &e.Importance, &e.CreatedAt, &accessedAt); err != nil {
		return memorystore.MemoryEntry{}, fmt.Errorf("pgstore: scan entry: %w", err)
	}
	e.Type = memorystore.MemoryType(memType)
	if accessedAt.Valid {
		e.AccessedAt = accessedAt.Time
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &e.Metadata); err != nil {
			return memorystore.MemoryEntry{}, fmt.Errorf("pgstore: unmarshal metadata: %w", err)
		}
	}
	return e, nil
}

func nullableTime(t time.Time) stdsql.NullTime {
	if t.IsZero() {
		return stdsql.NullTime{}
	}
	return stdsql.NullTime{Time: t, Valid: true}
}

// pqStringArray renders a Go string slice as a Postgres text[] literal,
// sufficient for the ANY($N) membership test used by TouchAccessed.
func pqStringArray(ss []string) string {
	out := "{"
	for i, s := range ss {
		if i > 0 {
			out += ","
		}
		out += `"` + s + `"`
	}
	return out + "}"
}
