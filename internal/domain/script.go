package domain

// Step is one scripted move. To is the target recorded when the script was
// written; replay re-derives the real target from the live board.
type Step struct {
	Kind MoveKind
	From int
	To   int
}

// Script is an ordered list of steps. Treat it as read-only.
type Script []Step

// Moves returns the script as plain moves.
func (s Script) Moves() []Move {
	out := make([]Move, len(s))
	for i, st := range s {
		out[i] = Move{From: st.From, To: st.To}
	}
	return out
}
