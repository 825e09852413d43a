package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/cavern/internal/terrain"
)

// TerrainEntry describes a saved cave without its contents.
type TerrainEntry struct {
	Name      string
	Width     int
	Height    int
	Seed      int64
	Size      int // encoded bytes
	CreatedAt time.Time
}

// SaveTerrain stores t under name, replacing a cave of the same name. The
// seed is kept for display only.
func (s *Store) SaveTerrain(name string, seed int64, t *terrain.Terrain) error {
	if name == "" {
		return errors.New("storage: terrain name is empty")
	}
	data, err := terrain.Encode(t)
	if err != nil {
		return fmt.Errorf("storage: encode terrain %q: %w", name, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO terrains (name, width, height, seed, data) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			width = excluded.width, height = excluded.height, seed = excluded.seed,
			data = excluded.data, created_at = CURRENT_TIMESTAMP`,
		name, t.Width(), t.Height(), seed, data)
	if err != nil {
		return fmt.Errorf("storage: save terrain %q: %w", name, err)
	}
	return nil
}

// LoadTerrain decodes the cave saved under name. A missing name wraps
// ErrNotFound.
func (s *Store) LoadTerrain(name string) (*terrain.Terrain, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM terrains WHERE name = ?", name).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: terrain %q", ErrNotFound, name)
	case err != nil:
		return nil, fmt.Errorf("storage: load terrain %q: %w", name, err)
	}

	t, err := terrain.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("storage: terrain %q is corrupt: %w", name, err)
	}
	return t, nil
}

// ListTerrains describes every saved cave, newest first.
func (s *Store) ListTerrains() ([]TerrainEntry, error) {
	rows, err := s.db.Query(`
		SELECT name, width, height, seed, LENGTH(data), created_at
		FROM terrains ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("storage: list terrains: %w", err)
	}
	defer rows.Close()

	var out []TerrainEntry
	for rows.Next() {
		var (
			e  TerrainEntry
			at any
		)
		if err := rows.Scan(&e.Name, &e.Width, &e.Height, &e.Seed, &e.Size, &at); err != nil {
			return nil, fmt.Errorf("storage: scan terrain: %w", err)
		}
		e.CreatedAt = scanTime(at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list terrains: %w", err)
	}
	return out, nil
}

// DeleteTerrain removes a saved cave. A missing name wraps ErrNotFound.
func (s *Store) DeleteTerrain(name string) error {
	res, err := s.db.Exec("DELETE FROM terrains WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("storage: delete terrain %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: terrain %q", ErrNotFound, name)
	}
	return nil
}
