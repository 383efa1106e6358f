package save

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// The single-row key the document lives under. Kept for compatibility
// with saves exported by earlier releases.
const saveKey = "gemini-chat-app-save-data"

// ErrNoSave reports that no usable save exists.
var ErrNoSave = errors.New("no save data")

// Gateway stores the game document in an SQLite database.
type Gateway struct {
	db  *sql.DB
	now func() time.Time
	log *slog.Logger
}

// Open creates or opens the database at path and ensures the schema.
func Open(path string, log *slog.Logger) (*Gateway, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening save database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS saves (
			key        TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating saves table: %w", err)
	}

	return &Gateway{db: db, now: time.Now, log: log}, nil
}

// Save serializes doc and upserts it under the fixed key.
func (g *Gateway) Save(doc *Document) error {
	doc.LastPlayed = g.now()
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding save data: %w", err)
	}

	_, err = g.db.Exec(`
		INSERT INTO saves (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, saveKey, string(data), g.now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing save data: %w", err)
	}
	return nil
}

// Load reads and migrates the stored document. A corrupt row is purged
// so the next launch starts a fresh game instead of failing forever.
func (g *Gateway) Load() (*Document, error) {
	var data string
	err := g.db.QueryRow(`SELECT data FROM saves WHERE key = ?`, saveKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("reading save data: %w", err)
	}

	doc, err := decode([]byte(data))
	if err != nil {
		g.log.Warn("purging unreadable save", "error", err)
		if _, derr := g.db.Exec(`DELETE FROM saves WHERE key = ?`, saveKey); derr != nil {
			return nil, fmt.Errorf("purging unreadable save: %w", derr)
		}
		return nil, ErrNoSave
	}
	return doc, nil
}

// Delete removes the stored save.
func (g *Gateway) Delete() error {
	if _, err := g.db.Exec(`DELETE FROM saves WHERE key = ?`, saveKey); err != nil {
		return fmt.Errorf("deleting save data: %w", err)
	}
	return nil
}

// Export writes the current save as pretty-printed JSON into dir and
// returns the file path.
func (g *Gateway) Export(dir string) (string, error) {
	doc, err := g.Load()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}

	name := fmt.Sprintf("magic-train-save-%s.json", g.now().Format("2006-01-02"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// Import validates the file at path and, only when it parses as a real
// save, replaces the stored document. A bad file leaves the current
// save untouched.
func (g *Gateway) Import(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	doc, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("import rejected: %w", err)
	}
	if err := g.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Close releases the database handle.
func (g *Gateway) Close() error {
	return g.db.Close()
}
