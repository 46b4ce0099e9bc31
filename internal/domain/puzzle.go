package domain

import (
	"errors"
	"fmt"
)

// Slot represents the content of one board position.
type Slot uint8

const (
	Empty Slot = iota
	Black
	White
)

func (s Slot) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Size is the number of slots on the board.
const Size = 7

// Board is the row of seven slots, left to right.
type Board [Size]Slot

var (
	initialBoard = Board{Black, Black, Black, Empty, White, White, White}
	solvedBoard  = Board{White, White, White, Empty, Black, Black, Black}
)

// InitialBoard returns the starting configuration.
func InitialBoard() Board { return initialBoard }

// SolvedBoard returns the target configuration.
func SolvedBoard() Board { return solvedBoard }

// EmptyIndex returns the index of the empty slot, or -1 if there is none.
func (b Board) EmptyIndex() int {
	for i, s := range b {
		if s == Empty {
			return i
		}
	}
	return -1
}

func (b Board) String() string {
	out := make([]byte, 0, Size)
	for _, s := range b {
		switch s {
		case Black:
			out = append(out, 'B')
		case White:
			out = append(out, 'W')
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// MoveKind distinguishes slides from jumps.
type MoveKind uint8

const (
	Slide MoveKind = iota + 1
	Jump
)

func (k MoveKind) String() string {
	switch k {
	case Slide:
		return "move"
	case Jump:
		return "jump"
	default:
		return "unknown"
	}
}

// Move takes the piece at From into the empty slot To.
type Move struct {
	From int
	To   int
}

// Errors returned by domain operations.
var (
	ErrInvalidMove    = errors.New("invalid move")
	ErrOutOfBounds    = errors.New("out of bounds")
	ErrNotEmptyTarget = errors.New("target is not the empty slot")
	ErrNoPiece        = errors.New("no piece to move")
	ErrIllegalMove    = errors.New("neither a slide nor a legal jump")
)

// InvalidMoveError reports a rejected move. The board is left untouched.
type InvalidMoveError struct {
	From   int
	To     int
	Reason error
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move from %d to %d: %v", e.From, e.To, e.Reason)
}

func (e *InvalidMoveError) Unwrap() error { return e.Reason }

// Is makes every InvalidMoveError match ErrInvalidMove.
func (e *InvalidMoveError) Is(target error) bool { return target == ErrInvalidMove }

// Puzzle holds the live board of one game.
type Puzzle struct {
	Board Board
	Moves int
}

// New returns a puzzle in the initial configuration.
func New() Puzzle {
	return Puzzle{Board: initialBoard}
}

// Reset restores the initial configuration.
func (p *Puzzle) Reset() {
	p.Board = initialBoard
	p.Moves = 0
}

// EmptyIndex returns the index of the empty slot.
func (p *Puzzle) EmptyIndex() int { return p.Board.EmptyIndex() }

// Snapshot returns a copy of the board.
func (p *Puzzle) Snapshot() Board { return p.Board }

// IsValidMove reports whether the piece at from may move into to.
func (p *Puzzle) IsValidMove(from, to int) bool {
	return p.check(from, to) == nil
}

// Classify returns the kind of a valid move.
func (p *Puzzle) Classify(from, to int) (MoveKind, bool) {
	if p.check(from, to) != nil {
		return 0, false
	}
	if abs(from-to) == 1 {
		return Slide, true
	}
	return Jump, true
}

// ApplyMove moves the piece at from into the empty slot.
func (p *Puzzle) ApplyMove(from, to int) error {
	if err := p.check(from, to); err != nil {
		return &InvalidMoveError{From: from, To: to, Reason: err}
	}
	p.Board[to] = p.Board[from]
	p.Board[from] = Empty
	p.Moves++
	return nil
}

// Solved reports whether the board matches the solved configuration.
func (p *Puzzle) Solved() bool { return p.Board == solvedBoard }

// LegalMoves lists every move currently allowed, ordered by From.
func (p *Puzzle) LegalMoves() []Move {
	empty := p.EmptyIndex()
	var out []Move
	for from := empty - 2; from <= empty+2; from++ {
		if p.IsValidMove(from, empty) {
			out = append(out, Move{From: from, To: empty})
		}
	}
	return out
}

func (p *Puzzle) check(from, to int) error {
	if !inBounds(from) || !inBounds(to) {
		return ErrOutOfBounds
	}
	empty := p.EmptyIndex()
	if to != empty {
		return ErrNotEmptyTarget
	}
	piece := p.Board[from]
	if piece == Empty {
		return ErrNoPiece
	}
	if abs(from-empty) == 1 {
		return nil
	}
	// Black only jumps right over White; White only jumps left over Black.
	switch {
	case piece == Black && empty-from == 2 && p.Board[from+1] == White:
		return nil
	case piece == White && from-empty == 2 && p.Board[from-1] == Black:
		return nil
	}
	return ErrIllegalMove
}

func inBounds(i int) bool { return i >= 0 && i < Size }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
