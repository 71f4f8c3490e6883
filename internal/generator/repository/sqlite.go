package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"floorplan3d/internal/generator/models"
)

// ============================================================
// SQLite Repository
// ============================================================

// schema применяется на старте; история генераций append-only.
const schema = `
CREATE TABLE IF NOT EXISTS generations (
    id             TEXT PRIMARY KEY,
    created_at     TEXT NOT NULL DEFAULT (datetime('now')),
    wall_height    REAL NOT NULL,
    wall_thickness REAL NOT NULL,
    num_vertices   INTEGER NOT NULL,
    num_faces      INTEGER NOT NULL,
    num_walls      INTEGER NOT NULL,
    num_doors      INTEGER NOT NULL,
    num_windows    INTEGER NOT NULL
);
`

// Generation — одна строка истории.
type Generation struct {
	ID            string  `json:"id"`
	CreatedAt     string  `json:"created_at"`
	WallHeight    float64 `json:"wall_height"`
	WallThickness float64 `json:"wall_thickness"`
	NumVertices   int     `json:"num_vertices"`
	NumFaces      int     `json:"num_faces"`
	NumWalls      int     `json:"num_walls"`
	NumDoors      int     `json:"num_doors"`
	NumWindows    int     `json:"num_windows"`
}

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет схему.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Save записывает метаданные успешной генерации.
func (r *Repository) Save(ctx context.Context, id string, meta models.Metadata) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO generations (id, wall_height, wall_thickness, num_vertices, num_faces, num_walls, num_doors, num_windows)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, id, meta.WallHeight, meta.WallThickness, meta.NumVertices, meta.NumFaces, meta.NumWalls, meta.NumDoors, meta.NumWindows)
	if err != nil {
		return fmt.Errorf("save generation: %w", err)
	}
	return nil
}

// List возвращает последние limit генераций, новые первыми.
func (r *Repository) List(ctx context.Context, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, created_at, wall_height, wall_thickness, num_vertices, num_faces, num_walls, num_doors, num_windows
        FROM generations
        ORDER BY created_at DESC, id
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(&g.ID, &g.CreatedAt, &g.WallHeight, &g.WallThickness,
			&g.NumVertices, &g.NumFaces, &g.NumWalls, &g.NumDoors, &g.NumWindows); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Ping — проверка соединения для readiness.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
