// internal/trivia/types.go
//
// Core type definitions for the trivia board.
// Defines:
//   - DisplayState: what a clue cell currently shows (hidden/question/answer).
//   - Clue, Category: data fetched from the upstream quiz API.
//   - Position: (category, clue) coordinate of a board cell.
//   - Generation: tag distinguishing successive game rounds on one board.

package trivia

import (
	"fmt"
	"strconv"
)

// Board dimensions. Fixed for every game.
const (
	NumCategories       = 6
	NumCluesPerCategory = 5
)

// DisplayState is the visible state of a single clue.
// Possible values:
//   - "hidden":   placeholder glyph, nothing revealed yet.
//   - "question": question text is showing.
//   - "answer":   answer text is showing (terminal).
type DisplayState string

const (
	StateHidden   DisplayState = "hidden"
	StateQuestion DisplayState = "question"
	StateAnswer   DisplayState = "answer"
)

// Clue is one question/answer pair. Only State changes after fetch.
type Clue struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	State    DisplayState `json:"state"`
}

// Category is a titled group of up to NumCluesPerCategory clues.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Clues []Clue `json:"clues"`
}

// TrimClues caps the category at NumCluesPerCategory clues and resets every
// clue to StateHidden.
func (c Category) TrimClues() Category {
	n := len(c.Clues)
	if n > NumCluesPerCategory {
		n = NumCluesPerCategory
	}
	clues := make([]Clue, n)
	for i := 0; i < n; i++ {
		clues[i] = Clue{Question: c.Clues[i].Question, Answer: c.Clues[i].Answer, State: StateHidden}
	}
	c.Clues = clues
	return c
}

// Position identifies one cell (and at most one clue) on the board.
type Position struct {
	Category int `json:"category"`
	Clue     int `json:"clue"`
}

// Valid reports whether p lies inside the fixed board dimensions.
func (p Position) Valid() bool {
	return p.Category >= 0 && p.Category < NumCategories &&
		p.Clue >= 0 && p.Clue < NumCluesPerCategory
}

// Index encodes p as the two-digit cell tag used in the page ("03" = category 0, clue 3).
func (p Position) Index() string {
	return strconv.Itoa(p.Category) + strconv.Itoa(p.Clue)
}

// ParsePosition decodes a two-digit cell tag produced by Index.
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return Position{}, fmt.Errorf("trivia: bad cell index %q", s)
	}
	p := Position{Category: int(s[0] - '0'), Clue: int(s[1] - '0')}
	if !p.Valid() {
		return Position{}, fmt.Errorf("trivia: cell index %q out of range", s)
	}
	return p, nil
}

// Generation is a monotonically increasing round counter for one board.
// Zero means no game has been started.
type Generation uint64
