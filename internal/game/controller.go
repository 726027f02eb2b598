// internal/game/controller.go
//
// Game lifecycle controller and click handler for one board.
// Responsibilities:
//   - Start/restart: idle|ready|failed → loading → ready|failed.
//   - Fetch sequencing: category ids, then every category concurrently,
//     joined before the single render pass.
//   - Generation tagging: results from a superseded round are discarded,
//     clicks carrying an old generation are inert.
//   - Click handling: advance one clue, update one grid cell.
//
// Notes:
//   - Restart while loading is ignored; in-flight fetches are never cancelled
//     by a restart.
//   - Clicks gate strictly on fetch completion. MinSpinner only keeps the
//     loading indicator visible longer; it never delays clickability.

package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/board"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/trivia"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/upstream"
)

const (
	DefaultMinSpinner  = 1200 * time.Millisecond
	DefaultLoadTimeout = 30 * time.Second
)

// Controller owns the session of one board.
type Controller struct {
	fetch       upstream.Fetcher
	log         zerolog.Logger
	minSpinner  time.Duration
	loadTimeout time.Duration
	now         func() time.Time

	mu        sync.Mutex
	gen       trivia.Generation
	session   *trivia.Session // nil until the first Start
	grid      *board.Grid     // non-nil only while session is ready
	startedAt time.Time
	done      chan struct{} // closed when the current load settles
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }

// WithMinSpinner sets the minimum time the loading indicator stays up.
func WithMinSpinner(d time.Duration) Option { return func(c *Controller) { c.minSpinner = d } }

// WithLoadTimeout bounds the whole fetch sequence of one round.
func WithLoadTimeout(d time.Duration) Option { return func(c *Controller) { c.loadTimeout = d } }

// New returns an idle controller that pulls categories from f.
func New(f upstream.Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetch:       f,
		log:         log.Logger,
		minSpinner:  DefaultMinSpinner,
		loadTimeout: DefaultLoadTimeout,
		now:         time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start begins a new round. It returns the new generation and true, or the
// current generation and false when a round is already loading.
func (c *Controller) Start() (trivia.Generation, bool) {
	c.mu.Lock()
	if c.session != nil && c.session.Phase == trivia.PhaseLoading {
		gen := c.gen
		c.mu.Unlock()
		c.log.Debug().Uint64("gen", uint64(gen)).Msg("start ignored while loading")
		return gen, false
	}
	c.gen++
	gen := c.gen
	c.session = trivia.Loading(gen)
	c.grid = nil
	c.startedAt = c.now()
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	c.log.Info().Uint64("gen", uint64(gen)).Msg("loading board")
	go c.load(gen, done)
	return gen, true
}

// load runs the fetch sequence for gen and installs the result.
func (c *Controller) load(gen trivia.Generation, done chan struct{}) {
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), c.loadTimeout)
	defer cancel()

	cats, err := c.fetchAll(ctx)
	if err != nil {
		c.install(trivia.Failed(gen, err), nil)
		return
	}
	sess := trivia.Ready(gen, cats)
	c.install(sess, board.Render(gen, sess.Categories))
}

// fetchAll gets NumCategories ids and then every category in parallel.
func (c *Controller) fetchAll(ctx context.Context) ([]trivia.Category, error) {
	ids, err := c.fetch.CategoryIDs(ctx, trivia.NumCategories)
	if err != nil {
		return nil, fmt.Errorf("category ids: %w", err)
	}
	if len(ids) < trivia.NumCategories {
		return nil, fmt.Errorf("%w: got %d ids", upstream.ErrShortList, len(ids))
	}
	ids = ids[:trivia.NumCategories]

	cats := make([]trivia.Category, len(ids))
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			cats[i], errs[i] = c.fetch.Category(ctx, id)
		}(i, id)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", ids[i], err)
		}
	}
	return cats, nil
}

// install replaces the session if sess still belongs to the current generation.
func (c *Controller) install(sess *trivia.Session, grid *board.Grid) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sess.Generation != c.gen {
		c.log.Debug().
			Uint64("gen", uint64(sess.Generation)).
			Uint64("current", uint64(c.gen)).
			Msg("discarding stale round")
		return false
	}
	c.session = sess
	c.grid = grid
	if sess.Err != nil {
		c.log.Error().Err(sess.Err).Uint64("gen", uint64(sess.Generation)).Msg("board load failed")
	} else {
		c.log.Info().Uint64("gen", uint64(sess.Generation)).
			Dur("took", c.now().Sub(c.startedAt)).Msg("board ready")
	}
	return true
}

// Click advances the clue at pos for a click made on generation gen.
func (c *Controller) Click(gen trivia.Generation, pos trivia.Position) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := Outcome{Generation: c.gen, Result: Inert}
	if cell, ok := c.grid.Cell(pos); ok {
		out.Cell = cell
	}
	if !c.session.IsReady() || gen != c.gen {
		return out
	}

	text, res := c.session.Reveal(pos)
	if clue, ok := c.session.ClueAt(pos); ok {
		out.State = clue.State
	}
	switch res {
	case trivia.Revealed:
		out.Cell, _ = c.grid.SetText(pos, text)
		out.Result = Revealed
	case trivia.Terminal:
		clue, _ := c.session.ClueAt(pos)
		c.log.Info().
			Uint64("gen", uint64(gen)).
			Int("category", pos.Category).
			Int("clue", pos.Clue).
			Str("question", clue.Question).
			Str("answer", clue.Answer).
			Str("state", string(clue.State)).
			Msg("answer already shown")
		out.Result = AlreadyAnswered
	default:
		out.Result = NoClue
	}
	return out
}

// View returns a snapshot of the board for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{Generation: c.gen, Phase: trivia.PhaseIdle}
	if c.session == nil {
		return v
	}
	v.Phase = c.session.Phase
	v.Grid = c.grid.Clone()
	v.Spinner = v.Phase == trivia.PhaseLoading ||
		c.now().Before(c.startedAt.Add(c.minSpinner))
	if c.session.Err != nil {
		v.Error = c.session.Err.Error()
	}
	return v
}

// Wait blocks until the in-flight load (if any) has settled.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
