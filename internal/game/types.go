// internal/game/types.go
//
// Values the controller hands back to the HTTP layer.

package game

import (
	"github.com/robalobadob/jeopardy/apps/go-server/internal/board"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/trivia"
)

// ClickResult describes what a click did.
//   - "revealed":         cell text changed.
//   - "already_answered": answer was showing; nothing changed.
//   - "no_clue":          no clue backs the cell (shortfall or out of range).
//   - "inert":            board not ready, or the click was for an old round.
type ClickResult string

const (
	Revealed        ClickResult = "revealed"
	AlreadyAnswered ClickResult = "already_answered"
	NoClue          ClickResult = "no_clue"
	Inert           ClickResult = "inert"
)

// Outcome is the result of Controller.Click.
type Outcome struct {
	Generation trivia.Generation   `json:"generation"`
	Cell       board.Cell          `json:"cell"`
	State      trivia.DisplayState `json:"state,omitempty"`
	Result     ClickResult         `json:"result"`
}

// View is a point-in-time snapshot of a board.
type View struct {
	Generation trivia.Generation `json:"generation"`
	Phase      trivia.Phase      `json:"phase"`
	Grid       *board.Grid       `json:"grid,omitempty"`
	Spinner    bool              `json:"spinner"`
	Error      string            `json:"error,omitempty"`
}

// Ready reports whether the board accepts clicks.
func (v View) Ready() bool { return v.Phase == trivia.PhaseReady }
