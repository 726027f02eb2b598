// internal/trivia/machine.go
//
// Clue state machine.
//
//   hidden   → question  (emit question text)
//   question → answer    (emit answer text)
//   answer   → answer    (no emission; click ignored)
//
// Advance is total: any state outside the enum is treated as terminal.

package trivia

// Advance returns the state that follows cur and whether a click in cur
// should change the visible text.
func Advance(cur DisplayState) (next DisplayState, emit bool) {
	switch cur {
	case StateHidden, "":
		return StateQuestion, true
	case StateQuestion:
		return StateAnswer, true
	default:
		return cur, false
	}
}

// Text returns what a cell in state st shows for clue c.
func (c Clue) Text(st DisplayState, placeholder string) string {
	switch st {
	case StateQuestion:
		return c.Question
	case StateAnswer:
		return c.Answer
	default:
		return placeholder
	}
}
