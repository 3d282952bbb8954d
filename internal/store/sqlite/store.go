// Package sqlite stores situation chains in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"billing-engine/internal/model"
	"billing-engine/internal/store"
)

var _ store.Repository = (*Store)(nil)

// Store is a SQLite-backed situation repository.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open situations db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping situations db: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate situations db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the project's chain, empty when nothing was saved yet.
func (s *Store) Load(ctx context.Context, projectID string) ([]model.Situation, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM situation_chains WHERE project_id = ?`, projectID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []model.Situation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load situations of %s: %w", projectID, err)
	}

	var situations []model.Situation
	if err := json.Unmarshal([]byte(payload), &situations); err != nil {
		return nil, fmt.Errorf("decode situations of %s: %w", projectID, err)
	}
	if situations == nil {
		situations = []model.Situation{}
	}
	return situations, nil
}

// Save replaces the project's chain in a single statement.
func (s *Store) Save(ctx context.Context, projectID string, situations []model.Situation) error {
	if situations == nil {
		situations = []model.Situation{}
	}
	payload, err := json.Marshal(situations)
	if err != nil {
		return fmt.Errorf("encode situations of %s: %w", projectID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO situation_chains (project_id, payload) VALUES (?, ?)
		 ON CONFLICT(project_id) DO UPDATE SET payload = excluded.payload, updated_at = datetime('now')`,
		projectID, string(payload),
	)
	if err != nil {
		return fmt.Errorf("save situations of %s: %w", projectID, err)
	}
	return nil
}
