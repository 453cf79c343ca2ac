// Package db persists prediction history in SQLite.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var ErrNotFound = errors.New("prediction not found")

// Prediction is one recorded identification.
type Prediction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	ImageName   string    `json:"image_name"`
	Prediction  string    `json:"prediction"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPrediction builds a record for label, filling category and description
// from the plant catalog.
func NewPrediction(userID, imageName, label string) *Prediction {
	info := LookupPlant(label)
	return &Prediction{
		UserID:      userID,
		ImageName:   imageName,
		Prediction:  label,
		Category:    info.Category,
		Description: info.Description,
	}
}

// Store is a SQLite-backed history with an LRU cache for single-record reads.
// It is safe for concurrent use.
type Store struct {
	database *sql.DB
	cache    *lru.Cache[string, Prediction]
	// mu keeps a read-then-cache in GetPrediction from resurrecting a row
	// that DeletePrediction is removing.
	mu sync.RWMutex
}

// Open creates the database file and schema if needed.
func Open(path string, cacheSize int) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database failed: %w", err)
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL DEFAULT '',
        image_name TEXT NOT NULL DEFAULT '',
        prediction TEXT NOT NULL,
        category TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_user_created ON predictions (user_id, created_at);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("create tables failed: %w", err)
	}

	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, err := lru.New[string, Prediction](cacheSize)
	if err != nil {
		database.Close()
		return nil, err
	}
	return &Store{database: database, cache: cache}, nil
}

func (s *Store) Close() error {
	return s.database.Close()
}

// SavePrediction inserts p, assigning ID and CreatedAt when they are empty.
func (s *Store) SavePrediction(ctx context.Context, p *Prediction) error {
	if p.Prediction == "" {
		return errors.New("prediction required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.database.ExecContext(ctx, `
        INSERT INTO predictions (id, user_id, image_name, prediction, category, description, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.ImageName, p.Prediction, string(p.Category), p.Description, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	s.cache.Add(p.ID, *p)
	return nil
}

// QueryPredictions lists records newest first. An empty userID matches all
// users; limit is clamped to [1, MaxLimit] with DefaultLimit for zero.
func (s *Store) QueryPredictions(ctx context.Context, userID string, limit int) ([]Prediction, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	rows, err := s.database.QueryContext(ctx, `
        SELECT id, user_id, image_name, prediction, category, description, created_at
        FROM predictions
        WHERE ? = '' OR user_id = ?
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?`, userID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := make([]Prediction, 0)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func (s *Store) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	if p, ok := s.cache.Get(id); ok {
		return &p, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.database.QueryRowContext(ctx, `
        SELECT id, user_id, image_name, prediction, category, description, created_at
        FROM predictions
        WHERE id = ?`, id)
	p, err := scanPrediction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.cache.Add(p.ID, p)
	return &p, nil
}

func (s *Store) DeletePrediction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(id)
	result, err := s.database.ExecContext(ctx, `DELETE FROM predictions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row scanner) (Prediction, error) {
	var p Prediction
	var category string
	if err := row.Scan(&p.ID, &p.UserID, &p.ImageName, &p.Prediction, &category, &p.Description, &p.CreatedAt); err != nil {
		return Prediction{}, err
	}
	p.Category = Category(category)
	return p, nil
}
