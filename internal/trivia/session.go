// internal/trivia/session.go
//
// Session holds the categories of one game round.
//
// A session is created in one of three shapes and never changes shape:
//   - Loading(gen):          fetch in flight, no clue data.
//   - Ready(gen, cats):      fully resolved data; the only shape clicks act on.
//   - Failed(gen, err):      upstream failed, no clue data.
//
// Only Clue.State mutates after construction (through Reveal).

package trivia

// Phase is the lifecycle phase a session was built in.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// RevealResult describes what a click did.
type RevealResult string

const (
	Revealed RevealResult = "revealed" // text changed
	Terminal RevealResult = "terminal" // answer already showing
	NoClue   RevealResult = "no_clue"  // not ready, out of range or upstream shortfall
)

// Session is one game round.
type Session struct {
	Generation Generation
	Phase      Phase
	Categories []Category
	Err        error
}

// Loading returns a session for a round whose data is still being fetched.
func Loading(gen Generation) *Session {
	return &Session{Generation: gen, Phase: PhaseLoading}
}

// Ready returns a session holding resolved categories.
// Categories are trimmed to NumCluesPerCategory and reset to hidden.
func Ready(gen Generation, cats []Category) *Session {
	out := make([]Category, len(cats))
	for i, c := range cats {
		out[i] = c.TrimClues()
	}
	return &Session{Generation: gen, Phase: PhaseReady, Categories: out}
}

// Failed returns a session for a round whose fetch failed.
func Failed(gen Generation, err error) *Session {
	return &Session{Generation: gen, Phase: PhaseFailed, Err: err}
}

// IsReady reports whether clicks may act on this session.
func (s *Session) IsReady() bool {
	return s != nil && s.Phase == PhaseReady
}

// ClueAt returns the clue at p, or false if there is none.
func (s *Session) ClueAt(p Position) (*Clue, bool) {
	if !s.IsReady() || !p.Valid() || p.Category >= len(s.Categories) {
		return nil, false
	}
	clues := s.Categories[p.Category].Clues
	if p.Clue >= len(clues) {
		return nil, false
	}
	return &clues[p.Clue], true
}

// Reveal advances the clue at p and returns the text the cell should show.
// For Terminal the current (answer) text is returned; for NoClue text is empty.
func (s *Session) Reveal(p Position) (string, RevealResult) {
	c, ok := s.ClueAt(p)
	if !ok {
		return "", NoClue
	}
	next, emit := Advance(c.State)
	if !emit {
		return c.Text(c.State, ""), Terminal
	}
	c.State = next
	return c.Text(next, ""), Revealed
}
