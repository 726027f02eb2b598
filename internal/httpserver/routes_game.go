// internal/httpserver/routes_game.go
//
// Board routes.
//
// HTML (HTMX fragments):
//   - GET  /                  → full page
//   - POST /game/start        → start/restart; board fragment
//   - GET  /game/board        → board fragment (polled while the spinner shows)
//   - POST /game/clue/{index} → single cell fragment; ?gen=N or form field gen
//
// JSON:
//   - GET  /api/game          → board view (?wait=1 blocks until loading settles)
//   - POST /api/game/start    → {generation, started}
//   - POST /api/game/clue     → click outcome

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/board"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/game"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/trivia"
)

// ------------------------------- HTML --------------------------------------

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	b := boardFrom(r.Context())
	s.render(w, r, "index.html", pageData(b.Ctrl.View()))
}

func (s *Server) handleStartHTML(w http.ResponseWriter, r *http.Request) {
	b := boardFrom(r.Context())
	if _, started := b.Ctrl.Start(); !started {
		hlog.FromRequest(r).Debug().Str("board", b.ID).Msg("restart ignored while loading")
	}
	s.render(w, r, "board", pageData(b.Ctrl.View()))
}

func (s *Server) handleBoardHTML(w http.ResponseWriter, r *http.Request) {
	b := boardFrom(r.Context())
	s.render(w, r, "board", pageData(b.Ctrl.View()))
}

func (s *Server) handleClueHTML(w http.ResponseWriter, r *http.Request) {
	b := boardFrom(r.Context())
	pos, err := trivia.ParsePosition(chi.URLParam(r, "index"))
	if err != nil {
		// out of range cells are a no-op, never an error page
		w.WriteHeader(http.StatusNoContent)
		return
	}
	gen, _ := strconv.ParseUint(r.FormValue("gen"), 10, 64)
	out := b.Ctrl.Click(trivia.Generation(gen), pos)
	if out.Cell.Index == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.render(w, r, "cell", cellData{Cell: out.Cell, Generation: out.Generation})
}

// ------------------------------- JSON --------------------------------------

type startRes struct {
	Generation trivia.Generation `json:"generation"`
	Started    bool              `json:"started"`
}

type clueReq struct {
	Generation trivia.Generation `json:"generation"`
	Category   int               `json:"category"`
	Clue       int               `json:"clue"`
}

func (s *Server) handleViewJSON(w http.ResponseWriter, r *http.Request) {
	b := boardFrom(r.Context())
	if r.URL.Query().Get("wait") != "" {
		if err := b.Ctrl.Wait(r.Context()); err != nil {
			http.Error(w, `{"error":"timeout"}`, http.StatusGatewayTimeout)
			return
		}
	}
	_ = json.NewEncoder(w).Encode(b.Ctrl.View())
}

func (s *Server) handleStartJSON(w http.ResponseWriter, r *http.Request) {
	b := boardFrom(r.Context())
	gen, started := b.Ctrl.Start()
	status := http.StatusAccepted
	if !started {
		status = http.StatusConflict
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(startRes{Generation: gen, Started: started})
}

func (s *Server) handleClueJSON(w http.ResponseWriter, r *http.Request) {
	var req clueReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	b := boardFrom(r.Context())
	out := b.Ctrl.Click(req.Generation, trivia.Position{Category: req.Category, Clue: req.Clue})
	_ = json.NewEncoder(w).Encode(out)
}

// ------------------------------ view data ----------------------------------

// boardData feeds the "board" template.
type boardData struct {
	game.View
	Loading bool
	Label   string // start button label
}

func pageData(v game.View) boardData {
	label := "Start"
	if v.Generation > 0 {
		label = "Restart"
	}
	return boardData{View: v, Loading: v.Spinner, Label: label}
}

// cellData feeds the "cell" template.
type cellData struct {
	Cell       board.Cell
	Generation trivia.Generation
}
