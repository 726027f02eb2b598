// internal/board/grid.go
//
// Board renderer.
// Builds the visual grid for one game round from a ready session:
//   - one header row of category titles (NumCategories cells),
//   - NumCluesPerCategory body rows of NumCategories cells each,
//   - every body cell starts as the placeholder glyph and carries its position.
//
// Render runs once per round. Afterwards only SetText touches the grid,
// one cell at a time, on behalf of the click handler.

package board

import "github.com/robalobadob/jeopardy/apps/go-server/internal/trivia"

// Placeholder is shown in every body cell until its clue is revealed.
const Placeholder = "?"

// Cell is one body cell.
type Cell struct {
	Pos    trivia.Position `json:"position"`
	Index  string          `json:"index"`  // two-digit tag, e.g. "03"
	Text   string          `json:"text"`
	Backed bool            `json:"backed"` // false when upstream sent too few clues
}

// Grid is the rendered board for one generation.
// Rows is indexed [clue][category] so it reads top to bottom like the table.
type Grid struct {
	Generation trivia.Generation `json:"generation"`
	Headers    []string          `json:"headers"`
	Rows       [][]Cell          `json:"rows"`
}

// Render builds the grid for gen from cats. Missing categories get an
// empty header and unbacked cells.
func Render(gen trivia.Generation, cats []trivia.Category) *Grid {
	g := &Grid{
		Generation: gen,
		Headers:    make([]string, trivia.NumCategories),
		Rows:       make([][]Cell, trivia.NumCluesPerCategory),
	}
	for i := 0; i < trivia.NumCategories && i < len(cats); i++ {
		g.Headers[i] = cats[i].Title
	}
	for clue := 0; clue < trivia.NumCluesPerCategory; clue++ {
		row := make([]Cell, trivia.NumCategories)
		for cat := 0; cat < trivia.NumCategories; cat++ {
			pos := trivia.Position{Category: cat, Clue: clue}
			row[cat] = Cell{
				Pos:    pos,
				Index:  pos.Index(),
				Text:   Placeholder,
				Backed: cat < len(cats) && clue < len(cats[cat].Clues),
			}
		}
		g.Rows[clue] = row
	}
	return g
}

// Cell returns the cell at p.
func (g *Grid) Cell(p trivia.Position) (Cell, bool) {
	if g == nil || !p.Valid() {
		return Cell{}, false
	}
	return g.Rows[p.Clue][p.Category], true
}

// SetText replaces the visible text of the cell at p.
func (g *Grid) SetText(p trivia.Position, text string) (Cell, bool) {
	if g == nil || !p.Valid() {
		return Cell{}, false
	}
	c := &g.Rows[p.Clue][p.Category]
	c.Text = text
	return *c, true
}

// Clone returns a deep copy safe to hand to a template while the original
// keeps receiving clicks.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	out := &Grid{
		Generation: g.Generation,
		Headers:    append([]string(nil), g.Headers...),
		Rows:       make([][]Cell, len(g.Rows)),
	}
	for i, r := range g.Rows {
		out.Rows[i] = append([]Cell(nil), r...)
	}
	return out
}

// CellCount returns the number of body cells.
func (g *Grid) CellCount() int {
	n := 0
	for _, r := range g.Rows {
		n += len(r)
	}
	return n
}
