package trivia

import "testing"

func mathSession() *Session {
	return Ready(1, []Category{
		{Title: "Math", Clues: []Clue{{Question: "2+2", Answer: "4"}}},
	})
}

func TestAdvanceIsTotal(t *testing.T) {
	cases := []struct {
		cur  DisplayState
		next DisplayState
		emit bool
	}{
		{StateHidden, StateQuestion, true},
		{StateQuestion, StateAnswer, true},
		{StateAnswer, StateAnswer, false},
		{DisplayState("bogus"), DisplayState("bogus"), false},
	}
	for _, c := range cases {
		next, emit := Advance(c.cur)
		if next != c.next || emit != c.emit {
			t.Errorf("Advance(%q) = %q,%v; want %q,%v", c.cur, next, emit, c.next, c.emit)
		}
	}
}

func TestRevealSequence(t *testing.T) {
	s := mathSession()
	p := Position{0, 0}

	want := []struct {
		text  string
		res   RevealResult
		state DisplayState
	}{
		{"2+2", Revealed, StateQuestion},
		{"4", Revealed, StateAnswer},
		{"4", Terminal, StateAnswer},
		{"4", Terminal, StateAnswer},
	}
	for i, w := range want {
		text, res := s.Reveal(p)
		c, _ := s.ClueAt(p)
		if text != w.text || res != w.res || c.State != w.state {
			t.Fatalf("click %d: got %q,%s,%s; want %q,%s,%s", i+1, text, res, c.State, w.text, w.res, w.state)
		}
	}
}

func TestRevealMissingClue(t *testing.T) {
	s := mathSession()
	for _, p := range []Position{{0, 1}, {0, 4}, {5, 0}, {6, 0}, {-1, 0}, {0, 5}} {
		for i := 0; i < 3; i++ {
			if text, res := s.Reveal(p); res != NoClue || text != "" {
				t.Fatalf("Reveal(%v) = %q,%s; want no clue", p, text, res)
			}
		}
	}
}

func TestRevealOnlyWhenReady(t *testing.T) {
	for _, s := range []*Session{Loading(2), Failed(3, nil), nil} {
		if _, res := s.Reveal(Position{0, 0}); res != NoClue {
			t.Fatalf("phase %v: got %s", s, res)
		}
	}
}

func TestReadyTrimsClues(t *testing.T) {
	clues := make([]Clue, 9)
	for i := range clues {
		clues[i] = Clue{Question: "q", Answer: "a", State: StateAnswer}
	}
	s := Ready(1, []Category{{Title: "Long", Clues: clues}})
	got := s.Categories[0].Clues
	if len(got) != NumCluesPerCategory {
		t.Fatalf("len = %d", len(got))
	}
	for _, c := range got {
		if c.State != StateHidden {
			t.Fatalf("state = %s, want hidden", c.State)
		}
	}
}

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition("53")
	if err != nil || p != (Position{5, 3}) {
		t.Fatalf("got %v, %v", p, err)
	}
	if p.Index() != "53" {
		t.Fatalf("Index = %q", p.Index())
	}
	for _, bad := range []string{"", "1", "123", "a1", "60", "05"} {
		if _, err := ParsePosition(bad); err == nil {
			t.Errorf("ParsePosition(%q) succeeded", bad)
		}
	}
}
