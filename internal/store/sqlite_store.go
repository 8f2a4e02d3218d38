// SQLite-backed persistence using ncruces/go-sqlite3/driver, which
// provides a database/sql interface. The sqlite-vec bindings add the
// vec_f32/vec_distance_l2 functions used for branch-point queries.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/forklab/gofork/internal/project"
)

// SQLiteStore is the SQLite-backed snapshot store.
// Thread-safe for concurrent WASM callbacks.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	editor *project.Editor
}

// schema defines the snapshot table plus the denormalized branch-point
// table used for nearest-point queries. Branch points are rewritten on
// every save; referential integrity is managed at application level.
const schema = `
CREATE TABLE IF NOT EXISTS systems (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    snapshot TEXT NOT NULL,
    updated_at TEXT
);

CREATE TABLE IF NOT EXISTS branch_points (
    system_id TEXT NOT NULL,
    branch_id TEXT NOT NULL,
    point_index INTEGER NOT NULL,
    dim INTEGER NOT NULL,
    embedding TEXT NOT NULL,
    PRIMARY KEY (system_id, branch_id, point_index)
);

CREATE INDEX IF NOT EXISTS idx_branch_points_system ON branch_points(system_id);
`

// NewSQLiteStore creates an in-memory store (the WASM default).
func NewSQLiteStore(editor *project.Editor) (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:", editor)
}

// NewSQLiteStoreWithDSN creates a store with a specific data source
// name. Use ":memory:" for in-memory or a file path for persistent
// storage.
func NewSQLiteStoreWithDSN(dsn string, editor *project.Editor) (*SQLiteStore, error) {
	if editor == nil {
		editor = project.NewEditor(nil, nil)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, editor: editor}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSystem upserts the snapshot and rebuilds its branch-point rows.
func (s *SQLiteStore) SaveSystem(sys *project.System) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := json.Marshal(sys)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO systems (id, name, snapshot, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at
	`, sys.ID, sys.Name, string(snapshot), sys.UpdatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM branch_points WHERE system_id = ?`, sys.ID); err != nil {
		return err
	}
	for branchID, br := range sys.Branches {
		for i, p := range br.Points {
			embedding, err := json.Marshal(p.State)
			if err != nil {
				return err
			}
			_, err = tx.Exec(`
				INSERT INTO branch_points (system_id, branch_id, point_index, dim, embedding)
				VALUES (?, ?, ?, ?, ?)
			`, sys.ID, branchID, i, len(p.State), string(embedding))
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetSystem retrieves and normalizes a snapshot. Returns nil when the
// id is unknown.
func (s *SQLiteStore) GetSystem(id string) (*project.System, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshot string
	err := s.db.QueryRow(`SELECT snapshot FROM systems WHERE id = ?`, id).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sys project.System
	if err := json.Unmarshal([]byte(snapshot), &sys); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	return s.editor.Normalize(&sys), nil
}

// DeleteSystem removes a snapshot and its branch points.
func (s *SQLiteStore) DeleteSystem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM systems WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM branch_points WHERE system_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListSystems returns metadata for every stored project, sorted by name.
func (s *SQLiteStore) ListSystems() ([]SystemMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, name, COALESCE(updated_at, '') FROM systems ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []SystemMeta
	for rows.Next() {
		var m SystemMeta
		if err := rows.Scan(&m.ID, &m.Name, &m.UpdatedAt); err != nil {
			return nil, err
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// CountSystems returns the number of stored projects.
func (s *SQLiteStore) CountSystems() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM systems`).Scan(&count)
	return count, err
}

// NearestBranchPoints returns the branch points closest to state in
// Euclidean distance, computed by sqlite-vec over the denormalized
// branch_points rows. Points of a different dimension are excluded.
func (s *SQLiteStore) NearestBranchPoints(systemID string, state []float64, limit int) ([]BranchPointHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}
	query, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT branch_id, point_index, vec_distance_l2(vec_f32(embedding), vec_f32(?)) AS dist
		FROM branch_points
		WHERE system_id = ? AND dim = ?
		ORDER BY dist, branch_id, point_index
		LIMIT ?
	`, string(query), systemID, len(state), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []BranchPointHit
	for rows.Next() {
		var h BranchPointHit
		if err := rows.Scan(&h.BranchID, &h.PointIndex, &h.Distance); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
