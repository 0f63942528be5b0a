package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ideabot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IdeaStore = (*Store)(nil)

// DatabaseName is the file name of the idea database inside the data directory.
const DatabaseName = "ideas.db"

// Store persists generated ideas in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ideabot/data/ideas.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ideabot", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseName)

	// WAL lets the CLI read history while the bot is writing
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_ideas.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// apply runs one migration and records its version atomically.
func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Save stores or replaces an idea.
func (s *Store) Save(ctx context.Context, idea *domain.Idea) error {
	if idea == nil || idea.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ideas (id, chat_id, category_key, category_label, text, model, random, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			chat_id = excluded.chat_id,
			category_key = excluded.category_key,
			category_label = excluded.category_label,
			text = excluded.text,
			model = excluded.model,
			random = excluded.random,
			created_at = excluded.created_at
	`,
		idea.ID,
		idea.ChatID,
		idea.CategoryKey,
		idea.CategoryLabel,
		idea.Text,
		idea.Model,
		boolToInt(idea.Random),
		idea.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving idea: %w", err)
	}
	return nil
}

// Get retrieves an idea by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Idea, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, chat_id, category_key, category_label, text, model, random, created_at
		FROM ideas WHERE id = ?
	`, id)

	idea, err := scanIdea(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning idea: %w", err)
	}
	return idea, nil
}

// ListByChat returns the most recent ideas for a chat, newest first.
func (s *Store) ListByChat(ctx context.Context, chatID int64, limit int) ([]domain.Idea, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_id, category_key, category_label, text, model, random, created_at
		FROM ideas
		WHERE chat_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ideas: %w", err)
	}
	defer rows.Close()

	ideas := make([]domain.Idea, 0)
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning idea: %w", err)
		}
		ideas = append(ideas, *idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ideas: %w", err)
	}
	return ideas, nil
}

// Stats returns idea counts per category.
func (s *Store) Stats(ctx context.Context) (*domain.IdeaStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_key, COUNT(*) FROM ideas GROUP BY category_key
	`)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	stats := &domain.IdeaStats{ByCategory: make(map[string]int)}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		stats.ByCategory[key] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stats: %w", err)
	}
	return stats, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanIdea(row scanner) (*domain.Idea, error) {
	var (
		idea      domain.Idea
		random    int
		createdAt int64
	)
	err := row.Scan(
		&idea.ID,
		&idea.ChatID,
		&idea.CategoryKey,
		&idea.CategoryLabel,
		&idea.Text,
		&idea.Model,
		&random,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	idea.Random = random != 0
	idea.CreatedAt = time.Unix(0, createdAt).UTC()
	return &idea, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
