// internal/upstream/client.go
//
// Client for the public trivia API the board pulls its categories from.
//
// Endpoints used:
//   GET {base}/categories?count=N&offset=O  → [{id, title, clues_count}, ...]
//   GET {base}/category?id=ID               → {id, title, clues: [{question, answer, ...}, ...]}
//
// The client does not retry, paginate or validate beyond keeping the first
// trivia.NumCluesPerCategory clues.

package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/trivia"
)

const (
	DefaultBaseURL = "http://jservice.io/api"
	DefaultTimeout = 10 * time.Second

	// maxOffset bounds the random page offset used when picking categories.
	maxOffset = 100
)

// ErrShortList is returned when upstream yields fewer distinct categories than requested.
var ErrShortList = errors.New("upstream: not enough categories")

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: %s returned %d", e.URL, e.Code)
}

// Fetcher is the source of category data consumed by the game controller.
type Fetcher interface {
	// CategoryIDs selects count distinct category ids.
	CategoryIDs(ctx context.Context, count int) ([]string, error)

	// Category returns a category's title and up to NumCluesPerCategory hidden clues.
	Category(ctx context.Context, id string) (trivia.Category, error)
}

// Client implements Fetcher over HTTP.
type Client struct {
	base string
	http *http.Client

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithRand sets the source used for the category offset.
func WithRand(r *rand.Rand) Option { return func(c *Client) { c.rnd = r } }

// New builds a Client for baseURL (DefaultBaseURL if empty).
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		base: baseURL,
		http: &http.Client{Timeout: timeout},
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type categoryRef struct {
	ID    json.Number `json:"id"`
	Title string      `json:"title"`
}

type categoryDoc struct {
	ID    json.Number `json:"id"`
	Title string      `json:"title"`
	Clues []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"clues"`
}

// CategoryIDs fetches count categories starting at a random offset in [0, 100].
func (c *Client) CategoryIDs(ctx context.Context, count int) ([]string, error) {
	c.mu.Lock()
	offset := c.rnd.Intn(maxOffset + 1)
	c.mu.Unlock()

	q := url.Values{}
	q.Set("count", strconv.Itoa(count))
	q.Set("offset", strconv.Itoa(offset))

	var refs []categoryRef
	if err := c.getJSON(ctx, "/categories", q, &refs); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(refs))
	ids := make([]string, 0, count)
	for _, r := range refs {
		id := r.ID.String()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		if len(ids) == count {
			break
		}
	}
	if len(ids) < count {
		return nil, fmt.Errorf("%w: got %d of %d", ErrShortList, len(ids), count)
	}
	return ids, nil
}

// Category fetches one category by id.
func (c *Client) Category(ctx context.Context, id string) (trivia.Category, error) {
	q := url.Values{}
	q.Set("id", id)

	var doc categoryDoc
	if err := c.getJSON(ctx, "/category", q, &doc); err != nil {
		return trivia.Category{}, err
	}
	cat := trivia.Category{ID: id, Title: doc.Title}
	for _, cl := range doc.Clues {
		cat.Clues = append(cat.Clues, trivia.Clue{Question: cl.Question, Answer: cl.Answer})
	}
	return cat.TrimClues(), nil
}

// getJSON issues a GET against base+path and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.base + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: GET %s: %w", path, err)
	}
	defer res.Body.Close()

	log.Debug().Str("url", u).Int("status", res.StatusCode).Dur("took", time.Since(start)).Msg("upstream request")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return &StatusError{URL: u, Code: res.StatusCode}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream: decode %s: %w", path, err)
	}
	return nil
}
