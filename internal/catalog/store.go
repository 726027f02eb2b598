package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/trivia"
)

// ErrNotFound is returned by Store.Get for ids that are not cached.
var ErrNotFound = errors.New("catalog: not found")

// Entry is one cached category.
type Entry struct {
	Category  trivia.Category
	FetchedAt time.Time
}

// Store reads and writes the categories table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Get loads a cached category by upstream id.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	var (
		title, cluesJSON string
		fetched          int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT title, clues_json, fetched_at FROM categories WHERE id=?`, id,
	).Scan(&title, &cluesJSON, &fetched)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	var clues []trivia.Clue
	if err := json.Unmarshal([]byte(cluesJSON), &clues); err != nil {
		return Entry{}, fmt.Errorf("catalog: decode clues for %s: %w", id, err)
	}
	return Entry{
		Category:  trivia.Category{ID: id, Title: title, Clues: clues},
		FetchedAt: time.Unix(fetched, 0),
	}, nil
}

// Put inserts or replaces a cached category.
func (s *Store) Put(ctx context.Context, c trivia.Category, at time.Time) error {
	b, err := json.Marshal(c.Clues)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO categories (id, title, clues_json, fetched_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Title, string(b), at.Unix(),
	)
	return err
}

// Purge deletes every cached category and reports how many rows went.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
