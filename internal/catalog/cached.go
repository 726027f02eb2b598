package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/trivia"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/upstream"
)

// Cached is an upstream.Fetcher that keeps category payloads in SQLite.
// CategoryIDs is never cached so every game still gets a fresh random pick.
type Cached struct {
	next  upstream.Fetcher
	store *Store
	ttl   time.Duration // 0 = entries never expire
	now   func() time.Time
}

var _ upstream.Fetcher = (*Cached)(nil)

// NewCached wraps next with a cache backed by store.
func NewCached(next upstream.Fetcher, store *Store, ttl time.Duration) *Cached {
	return &Cached{next: next, store: store, ttl: ttl, now: time.Now}
}

func (c *Cached) CategoryIDs(ctx context.Context, count int) ([]string, error) {
	return c.next.CategoryIDs(ctx, count)
}

// Category serves a fresh cache entry or fetches and stores one.
// Cache read/write failures fall back to upstream and are only logged.
func (c *Cached) Category(ctx context.Context, id string) (trivia.Category, error) {
	e, err := c.store.Get(ctx, id)
	switch {
	case err == nil && c.fresh(e):
		log.Debug().Str("category", id).Msg("category cache hit")
		return e.Category.TrimClues(), nil
	case err != nil && !errors.Is(err, ErrNotFound):
		log.Warn().Err(err).Str("category", id).Msg("category cache read")
	}

	cat, err := c.next.Category(ctx, id)
	if err != nil {
		return trivia.Category{}, err
	}
	if cat.ID == "" {
		cat.ID = id
	}
	if err := c.store.Put(ctx, cat, c.now()); err != nil {
		log.Warn().Err(err).Str("category", id).Msg("category cache write")
	}
	return cat, nil
}

// Purge empties the cache.
func (c *Cached) Purge(ctx context.Context) (int64, error) { return c.store.Purge(ctx) }

func (c *Cached) fresh(e Entry) bool {
	return c.ttl <= 0 || c.now().Sub(e.FetchedAt) < c.ttl
}
