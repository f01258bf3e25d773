// Package history persists CrabScore results in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/logging"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so created_at sorts lexically in time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store provides persistence for scores in a SQLite database.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
}

// OpenStore opens or creates the history database at dbPath
func OpenStore(dbPath string, logger *slog.Logger) (*Store, error) {
	logger = logging.OrDiscard(logger)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
	}

	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	logger.Debug("opened history database", "path", dbPath)
	return store, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			run_id TEXT PRIMARY KEY,
			project TEXT NOT NULL,
			overall REAL NOT NULL,
			performance REAL NOT NULL,
			energy REAL NOT NULL,
			cost REAL NOT NULL,
			bonuses REAL NOT NULL,
			certification TEXT NOT NULL,
			profile TEXT NOT NULL,
			mode TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scores_project ON scores(project, created_at DESC);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Save records a score for project. Saving the same run id twice replaces the row.
func (s *Store) Save(ctx context.Context, project string, score domain.CrabScore) error {
	query := `
		INSERT OR REPLACE INTO scores (run_id, project, overall, performance, energy, cost, bonuses, certification, profile, mode, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := score.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.conn.ExecContext(ctx, query,
		score.Metadata.RunID,
		project,
		score.Overall,
		score.Performance,
		score.Energy,
		score.Cost,
		score.Bonuses,
		score.Certification.String(),
		score.Metadata.Profile.String(),
		string(score.Metadata.Measurements.Mode),
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}

	s.logger.Debug("saved score", "project", project, "run_id", score.Metadata.RunID, "overall", score.Overall)
	return nil
}

// List returns the most recent scores for project, newest first.
// A non-positive limit returns every row.
func (s *Store) List(ctx context.Context, project string, limit int) ([]domain.HistoryEntry, error) {
	query := `
		SELECT run_id, project, overall, performance, energy, cost, bonuses, certification, profile, mode, created_at
		FROM scores
		WHERE project = ?
		ORDER BY created_at DESC
	`
	args := []interface{}{project}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (domain.HistoryEntry, error) {
	var (
		entry         domain.HistoryEntry
		certification string
		createdAt     string
	)

	err := rows.Scan(
		&entry.RunID,
		&entry.Project,
		&entry.Overall,
		&entry.Performance,
		&entry.Energy,
		&entry.Cost,
		&entry.Bonuses,
		&certification,
		&entry.Profile,
		&entry.Mode,
		&createdAt,
	)
	if err != nil {
		return entry, fmt.Errorf("failed to scan history row: %w", err)
	}

	entry.Certification, err = domain.ParseCertification(certification)
	if err != nil {
		return entry, fmt.Errorf("corrupt history row %s: %w", entry.RunID, err)
	}

	entry.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return entry, fmt.Errorf("corrupt history row %s: %w", entry.RunID, err)
	}

	return entry, nil
}
