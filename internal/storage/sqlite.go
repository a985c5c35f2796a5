package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/user/orderdesk/internal/model"
)

// FiltersFile is the SQLite database holding saved filters.
const FiltersFile = "filters.db"

// createdAtLayout keeps fractional seconds fixed-width so text order is
// chronological.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteFilterStore persists saved filters in SQLite.
type SQLiteFilterStore struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// NewSQLiteFilterStore opens (creating if needed) filters.db in baseDir.
func NewSQLiteFilterStore(baseDir string) (*SQLiteFilterStore, error) {
	dbPath := filepath.Join(baseDir, FiltersFile)

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteFilterStore{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if err := store.initTable(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initTable creates the saved_filters table if it doesn't exist.
func (s *SQLiteFilterStore) initTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS saved_filters (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			state_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create saved_filters table: %w", err)
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_saved_filters_name ON saved_filters(name)`); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteFilterStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores a snapshot of state under name.
func (s *SQLiteFilterStore) Save(name string, state model.FilterState) (model.SavedFilter, error) {
	saved, err := newSavedFilter(name, state, s.now())
	if err != nil {
		return model.SavedFilter{}, err
	}

	stateJSON, err := json.Marshal(saved.State)
	if err != nil {
		return model.SavedFilter{}, fmt.Errorf("failed to marshal filter state: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO saved_filters (id, name, state_json, created_at) VALUES (?, ?, ?, ?)`,
		saved.ID, saved.Name, string(stateJSON), saved.CreatedAt.Format(createdAtLayout),
	)
	if err != nil {
		return model.SavedFilter{}, fmt.Errorf("failed to insert saved filter: %w", err)
	}
	return saved, nil
}

// List returns every saved filter, oldest first.
func (s *SQLiteFilterStore) List() ([]model.SavedFilter, error) {
	rows, err := s.db.Query(`SELECT id, name, state_json, created_at FROM saved_filters ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved filters: %w", err)
	}
	defer rows.Close()

	out := []model.SavedFilter{}
	for rows.Next() {
		f, err := scanSaved(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved filters: %w", err)
	}
	return out, nil
}

// Get returns the saved filter with id.
func (s *SQLiteFilterStore) Get(id string) (model.SavedFilter, error) {
	row := s.db.QueryRow(`SELECT id, name, state_json, created_at FROM saved_filters WHERE id = ?`, id)
	f, err := scanSaved(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SavedFilter{}, fmt.Errorf("%w: %s", model.ErrSavedFilterNotFound, id)
	}
	return f, err
}

// Find resolves an id, or else the most recently saved filter named idOrName.
func (s *SQLiteFilterStore) Find(idOrName string) (model.SavedFilter, error) {
	list, err := s.List()
	if err != nil {
		return model.SavedFilter{}, err
	}
	return findSaved(list, idOrName)
}

// Delete removes the saved filter with id.
func (s *SQLiteFilterStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM saved_filters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved filter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete saved filter: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", model.ErrSavedFilterNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSaved(row rowScanner) (model.SavedFilter, error) {
	var (
		f         model.SavedFilter
		stateJSON string
		createdAt string
	)
	if err := row.Scan(&f.ID, &f.Name, &stateJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SavedFilter{}, err
		}
		return model.SavedFilter{}, fmt.Errorf("failed to scan saved filter: %w", err)
	}
	if err := json.Unmarshal([]byte(stateJSON), &f.State); err != nil {
		return model.SavedFilter{}, fmt.Errorf("failed to parse saved filter %s: %w", f.ID, err)
	}
	ts, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return model.SavedFilter{}, fmt.Errorf("failed to parse saved filter %s timestamp: %w", f.ID, err)
	}
	f.CreatedAt = ts
	return f, nil
}
