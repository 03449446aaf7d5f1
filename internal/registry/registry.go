// Package registry persists named meshes in a sqlite database.
package registry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/loamstudio/turtlemesh/pkg/mesh"
)

// Record is the stored metadata for a named mesh.
type Record struct {
	ID          int64
	Name        string
	VertexCount int
	FaceCount   int
	Closed      bool
	Warning     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Registry is a named-mesh store backed by sqlite.
type Registry struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the registry database at dbPath.
func Open(dbPath string) (*Registry, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create registry dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, err
	}

	reg := &Registry{db: db}
	if err := reg.initSchema(); err != nil {
		return nil, err
	}

	return reg, nil
}

func (r *Registry) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meshes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		vertex_count INTEGER NOT NULL,
		face_count INTEGER NOT NULL,
		closed INTEGER NOT NULL DEFAULT 0,
		warning TEXT NOT NULL DEFAULT '',
		data BLOB NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_meshes_name ON meshes(name);
	`

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Put stores a mesh under name, replacing any previous mesh with that
// name.
func (r *Registry) Put(name string, m *mesh.Mesh) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := EncodeMesh(m)
	if err != nil {
		return fmt.Errorf("encode mesh: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.Exec(`
		INSERT INTO meshes (name, vertex_count, face_count, closed, warning, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			vertex_count = excluded.vertex_count,
			face_count = excluded.face_count,
			closed = excluded.closed,
			warning = excluded.warning,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, name, len(m.Vertices), len(m.Faces), m.Closed, m.Warning, data, now, now)

	if err != nil {
		return fmt.Errorf("upsert mesh: %w", err)
	}

	return nil
}

// Get returns the mesh stored under name, or nil if no mesh has that
// name.
func (r *Registry) Get(name string) (*mesh.Mesh, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var data []byte
	err := r.db.QueryRow("SELECT data FROM meshes WHERE name = ?", name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get mesh: %w", err)
	}

	m, err := DecodeMesh(data)
	if err != nil {
		return nil, fmt.Errorf("decode mesh %s: %w", name, err)
	}

	return m, nil
}

// Info returns the stored metadata for name, or nil if no mesh has
// that name.
func (r *Registry) Info(name string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec := &Record{}
	var createdAt, updatedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, name, vertex_count, face_count, closed, warning, created_at, updated_at
		FROM meshes WHERE name = ?
	`, name).Scan(
		&rec.ID, &rec.Name, &rec.VertexCount, &rec.FaceCount,
		&rec.Closed, &rec.Warning, &createdAt, &updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get mesh info: %w", err)
	}

	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		rec.UpdatedAt = updatedAt.Time
	}

	return rec, nil
}

// List returns metadata for all stored meshes ordered by name.
func (r *Registry) List() ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.Query(`
		SELECT id, name, vertex_count, face_count, closed, warning, created_at, updated_at
		FROM meshes ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list meshes: %w", err)
	}
	defer rows.Close()

	var recs []*Record

	for rows.Next() {
		rec := &Record{}
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rec.ID, &rec.Name, &rec.VertexCount, &rec.FaceCount,
			&rec.Closed, &rec.Warning, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan mesh record: %w", err)
		}

		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			rec.UpdatedAt = updatedAt.Time
		}

		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// Delete removes the mesh stored under name. It reports whether a mesh
// was actually removed.
func (r *Registry) Delete(name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.Exec("DELETE FROM meshes WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("delete mesh: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
