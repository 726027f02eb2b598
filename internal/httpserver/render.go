package httpserver

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/board"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/trivia"
)

var templateFuncs = template.FuncMap{
	// clueURL is the hx-post target of a body cell.
	"clueURL": func(index string, gen trivia.Generation) string {
		return "/game/clue/" + index + "?gen=" + strconv.FormatUint(uint64(gen), 10)
	},
	"cellOf": func(c board.Cell, gen trivia.Generation) cellData {
		return cellData{Cell: c, Generation: gen}
	},
}

// render executes a page or partial into a buffer first so a template error
// never leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("render")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
