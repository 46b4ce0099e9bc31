package domain

import (
	"errors"
	"testing"
)

// helper to apply a sequence of moves
func applyMoves(t *testing.T, p *Puzzle, moves [][2]int) {
	t.Helper()
	for i, m := range moves {
		if err := p.ApplyMove(m[0], m[1]); err != nil {
			t.Fatalf("move %d (%v) failed: %v", i, m, err)
		}
	}
}

func countSlots(b Board) (empty, black, white int) {
	for _, s := range b {
		switch s {
		case Empty:
			empty++
		case Black:
			black++
		case White:
			white++
		}
	}
	return
}

func TestNewPuzzleInitialState(t *testing.T) {
	p := New()
	want := Board{Black, Black, Black, Empty, White, White, White}
	if p.Board != want {
		t.Fatalf("expected %v, got %v", want, p.Board)
	}
	if p.EmptyIndex() != 3 {
		t.Fatalf("expected empty index 3, got %d", p.EmptyIndex())
	}
	if p.Moves != 0 {
		t.Fatalf("expected 0 moves, got %d", p.Moves)
	}
	if p.Solved() {
		t.Fatalf("initial board must not be solved")
	}
}

func TestSlideIntoEmpty(t *testing.T) {
	p := New()
	if !p.IsValidMove(2, 3) {
		t.Fatalf("expected 2->3 to be a valid slide")
	}
	if err := p.ApplyMove(2, 3); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	want := Board{Black, Black, Empty, Black, White, White, White}
	if p.Board != want {
		t.Fatalf("expected %v, got %v", want, p.Board)
	}
	if p.EmptyIndex() != 2 {
		t.Fatalf("expected empty index 2, got %d", p.EmptyIndex())
	}
}

func TestWhiteJumpsLeftOverBlack(t *testing.T) {
	p := New()
	applyMoves(t, &p, [][2]int{{2, 3}})
	if !p.IsValidMove(4, 2) {
		t.Fatalf("expected 4->2 to be a valid jump")
	}
	if err := p.ApplyMove(4, 2); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	want := Board{Black, Black, White, Black, Empty, White, White}
	if p.Board != want {
		t.Fatalf("expected %v, got %v", want, p.Board)
	}
}

func TestDistanceThreeIsInvalid(t *testing.T) {
	p := New()
	if p.IsValidMove(0, 3) {
		t.Fatalf("expected 0->3 to be invalid")
	}
}

func TestInvalidMoves(t *testing.T) {
	cases := []struct {
		name   string
		board  Board
		from   int
		to     int
		reason error
	}{
		{"from out of range", initialBoard, -1, 3, ErrOutOfBounds},
		{"to out of range", initialBoard, 2, 7, ErrOutOfBounds},
		{"target occupied", initialBoard, 1, 2, ErrNotEmptyTarget},
		{"from empty slot", initialBoard, 3, 3, ErrNoPiece},
		{"distance three", initialBoard, 6, 3, ErrIllegalMove},
		{"same kind jump black", initialBoard, 1, 3, ErrIllegalMove},
		{"same kind jump white", initialBoard, 5, 3, ErrIllegalMove},
		{"black jumps left", Board{Black, Empty, White, Black, Black, White, White}, 3, 1, ErrIllegalMove},
		{"white jumps right", Board{Black, White, Black, Empty, Black, White, White}, 1, 3, ErrIllegalMove},
	}
	for _, tc := range cases {
		p := Puzzle{Board: tc.board}
		if p.IsValidMove(tc.from, tc.to) {
			t.Fatalf("%s: expected invalid", tc.name)
		}
		err := p.ApplyMove(tc.from, tc.to)
		if !errors.Is(err, ErrInvalidMove) || !errors.Is(err, tc.reason) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.reason, err)
		}
		var ime *InvalidMoveError
		if !errors.As(err, &ime) || ime.From != tc.from || ime.To != tc.to {
			t.Fatalf("%s: expected InvalidMoveError with indices, got %v", tc.name, err)
		}
		if p.Board != tc.board || p.Moves != 0 {
			t.Fatalf("%s: board changed after rejected move: %v", tc.name, p.Board)
		}
	}
}

func TestJumpDirectionSymmetry(t *testing.T) {
	// Black at 0, White at 1, empty at 2: black may jump right.
	p := Puzzle{Board: Board{Black, White, Empty, Black, Black, White, White}}
	if !p.IsValidMove(0, 2) {
		t.Fatalf("black should jump right over white")
	}
	// Mirror: empty at 2, Black at 3, White at 4: white may jump left.
	p = Puzzle{Board: Board{Black, Black, Empty, Black, White, White, White}}
	if !p.IsValidMove(4, 2) {
		t.Fatalf("white should jump left over black")
	}
	// Swapped kinds never jump.
	p = Puzzle{Board: Board{White, Black, Empty, White, Black, Black, White}}
	if p.IsValidMove(0, 2) {
		t.Fatalf("white must not jump right")
	}
	if p.IsValidMove(4, 2) {
		t.Fatalf("black must not jump left")
	}
}

func TestSlideRoundTrip(t *testing.T) {
	p := New()
	before := p.Board
	applyMoves(t, &p, [][2]int{{4, 3}, {3, 4}})
	if p.Board != before {
		t.Fatalf("expected round trip to restore %v, got %v", before, p.Board)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	p := New()
	applyMoves(t, &p, [][2]int{{2, 3}, {4, 2}, {5, 4}})
	p.Reset()
	if p.Board != InitialBoard() || p.Moves != 0 {
		t.Fatalf("reset should restore initial board, got %v moves=%d", p.Board, p.Moves)
	}
	p.Reset()
	if p.Board != InitialBoard() {
		t.Fatalf("second reset changed board: %v", p.Board)
	}
}

func TestSolvedDetection(t *testing.T) {
	p := Puzzle{Board: Board{White, White, White, Empty, Black, Black, Black}}
	if !p.Solved() {
		t.Fatalf("expected solved board")
	}
	p = Puzzle{Board: Board{White, White, Empty, White, Black, Black, Black}}
	if p.Solved() {
		t.Fatalf("near-solved board must not be solved")
	}
}

func TestReferenceSequenceSolves(t *testing.T) {
	p := New()
	applyMoves(t, &p, [][2]int{
		{2, 3}, {4, 2}, {5, 4}, {3, 5}, {1, 3},
		{0, 1}, {2, 0}, {4, 2}, {6, 4}, {5, 6},
		{3, 5}, {1, 3}, {2, 1}, {4, 2}, {3, 4},
	})
	if !p.Solved() {
		t.Fatalf("expected solved board, got %v", p.Board)
	}
	if p.Moves != 15 {
		t.Fatalf("expected 15 moves, got %d", p.Moves)
	}
}

func TestClassify(t *testing.T) {
	p := New()
	if k, ok := p.Classify(2, 3); !ok || k != Slide {
		t.Fatalf("expected slide, got %v %v", k, ok)
	}
	applyMoves(t, &p, [][2]int{{2, 3}})
	if k, ok := p.Classify(4, 2); !ok || k != Jump {
		t.Fatalf("expected jump, got %v %v", k, ok)
	}
	if _, ok := p.Classify(0, 2); ok {
		t.Fatalf("same-kind jump must not classify")
	}
}

func TestLegalMovesFromInitial(t *testing.T) {
	p := New()
	got := p.LegalMoves()
	want := []Move{{From: 2, To: 3}, {From: 4, To: 3}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

// Walks every board reachable from the start and checks the piece counts.
func TestReachableBoardsKeepPieceCounts(t *testing.T) {
	seen := map[Board]bool{initialBoard: true}
	queue := []Board{initialBoard}
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		empty, black, white := countSlots(b)
		if empty != 1 || black != 3 || white != 3 {
			t.Fatalf("bad counts on %v: empty=%d black=%d white=%d", b, empty, black, white)
		}
		p := Puzzle{Board: b}
		for _, m := range p.LegalMoves() {
			next := p
			if err := next.ApplyMove(m.From, m.To); err != nil {
				t.Fatalf("legal move %v rejected on %v: %v", m, b, err)
			}
			if !seen[next.Board] {
				seen[next.Board] = true
				queue = append(queue, next.Board)
			}
		}
	}
	if !seen[solvedBoard] {
		t.Fatalf("solved board should be reachable")
	}
}

func TestBoardString(t *testing.T) {
	if got := InitialBoard().String(); got != "BBB_WWW" {
		t.Fatalf("unexpected board string %q", got)
	}
}
