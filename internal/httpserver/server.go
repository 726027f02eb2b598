// internal/httpserver/server.go
//
// HTTP server wiring for the Jeopardy board.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     zerolog access log, CORS, board cookie).
//   - Public endpoints: "/", "/health".
//   - HTML board endpoints (HTMX fragments): /game/*.
//   - JSON API: /api/game/*.
//   - Admin cache purge (only when an admin password hash is configured).
//   - Idle board janitor.

package httpserver

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/apps/go-server/assets"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/config"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/game"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/store"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/upstream"
)

// Purger empties the category cache.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Deps are the collaborators a Server is built from.
type Deps struct {
	Config  config.Config
	Boards  store.Store
	Fetcher upstream.Fetcher
	Cache   Purger // nil when the cache is disabled
}

// Server bundles router, board registry and templates.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	boards  store.Store
	fetcher upstream.Fetcher
	cache   Purger
	tmpl    *template.Template
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) (*Server, error) {
	tmpl, err := assets.Templates(templateFuncs)
	if err != nil {
		return nil, err
	}
	if d.Boards == nil {
		d.Boards = store.NewMemoryStore()
	}
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     d.Config,
		boards:  d.Boards,
		fetcher: d.Fetcher,
		cache:   d.Cache,
		tmpl:    tmpl,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// HTML board
	s.r.Group(func(r chi.Router) {
		r.Use(s.withBoard)
		r.Get("/", s.handleIndex)
		r.Post("/game/start", s.handleStartHTML)
		r.Get("/game/board", s.handleBoardHTML)
		r.Post("/game/clue/{index}", s.handleClueHTML)
	})

	// JSON API
	s.r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentType)
		r.Use(s.withBoard)
		r.Get("/game", s.handleViewJSON)
		r.Post("/game/start", s.handleStartJSON)
		r.Post("/game/clue", s.handleClueJSON)
	})

	s.mountAdmin()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			http.Error(w, `{"error":"not_found","path":"`+template.JSEscapeString(r.URL.Path)+`"}`, http.StatusNotFound)
			return
		}
		http.NotFound(w, r)
	})

	return s, nil
}

// Run serves HTTP on addr until ctx is cancelled, pruning idle boards meanwhile.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	go s.janitor(ctx, time.Minute)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// newController builds the controller for a new board.
func (s *Server) newController(id string) *game.Controller {
	return game.New(s.fetcher,
		game.WithMinSpinner(s.cfg.MinSpinner),
		game.WithLogger(log.With().Str("board", id).Logger()),
	)
}

// janitor drops boards idle for longer than BoardIdleTTL.
func (s *Server) janitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.boards.Prune(ctx, s.cfg.BoardIdleTTL); n > 0 {
				log.Info().Int("pruned", n).Int("boards", s.boards.Len()).Msg("pruned idle boards")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, HX-Request, HX-Target, HX-Trigger")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
