package board

import (
	"testing"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/trivia"
)

func sixCategories(cluesIn0 int) []trivia.Category {
	cats := make([]trivia.Category, trivia.NumCategories)
	for i := range cats {
		n := trivia.NumCluesPerCategory
		if i == 0 {
			n = cluesIn0
		}
		cats[i] = trivia.Category{Title: string(rune('A' + i)), Clues: make([]trivia.Clue, n)}
	}
	return cats
}

func TestRenderShape(t *testing.T) {
	g := Render(3, sixCategories(5))
	if len(g.Headers) != 6 {
		t.Fatalf("headers = %d", len(g.Headers))
	}
	if g.Headers[0] != "A" || g.Headers[5] != "F" {
		t.Fatalf("headers = %v", g.Headers)
	}
	if g.CellCount() != 30 {
		t.Fatalf("cells = %d", g.CellCount())
	}
	seen := map[trivia.Position]bool{}
	for _, row := range g.Rows {
		for _, c := range row {
			if c.Text != Placeholder || !c.Backed {
				t.Fatalf("cell %v = %+v", c.Pos, c)
			}
			if seen[c.Pos] {
				t.Fatalf("duplicate position %v", c.Pos)
			}
			seen[c.Pos] = true
			if c.Index != c.Pos.Index() {
				t.Fatalf("index %q for %v", c.Index, c.Pos)
			}
		}
	}
}

func TestRenderShortfall(t *testing.T) {
	g := Render(1, sixCategories(3))
	for clue := 0; clue < 5; clue++ {
		c, _ := g.Cell(trivia.Position{Category: 0, Clue: clue})
		if want := clue < 3; c.Backed != want {
			t.Fatalf("clue %d backed = %v", clue, c.Backed)
		}
	}
}

func TestSetTextTouchesOneCell(t *testing.T) {
	g := Render(1, sixCategories(5))
	snap := g.Clone()
	p := trivia.Position{Category: 2, Clue: 4}
	if _, ok := g.SetText(p, "2+2"); !ok {
		t.Fatal("SetText failed")
	}
	for r := range g.Rows {
		for c := range g.Rows[r] {
			got, old := g.Rows[r][c], snap.Rows[r][c]
			if got.Pos == p {
				if got.Text != "2+2" {
					t.Fatalf("text = %q", got.Text)
				}
				continue
			}
			if got != old {
				t.Fatalf("cell %v changed", got.Pos)
			}
		}
	}
	if _, ok := g.SetText(trivia.Position{Category: 6}, "x"); ok {
		t.Fatal("out of range SetText succeeded")
	}
}
