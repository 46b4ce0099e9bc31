// Package replay plays a solution script against a live puzzle, one paced
// step at a time.
package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/jaminalder/codex-peg-jump/internal/domain"
)

// Engine is the part of the puzzle a replay drives.
type Engine interface {
	Reset()
	EmptyIndex() int
	IsValidMove(from, to int) bool
	ApplyMove(from, to int) error
	Solved() bool
	Snapshot() domain.Board
}

// ScriptAbortedError reports the scripted step that did not fit the live board.
// Step is 1-based.
type ScriptAbortedError struct {
	Step int
	From int
	To   int
	Err  error
}

func (e *ScriptAbortedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("script aborted at step %d (from %d to %d): %v", e.Step, e.From, e.To, e.Err)
	}
	return fmt.Sprintf("script aborted at step %d (from %d to %d)", e.Step, e.From, e.To)
}

func (e *ScriptAbortedError) Unwrap() error { return e.Err }

// Outcome summarises a finished run.
type Outcome struct {
	Solved  bool
	Applied int
	Total   int
}

// StepFunc observes the board after reset (step 0) and after each applied step.
type StepFunc func(board domain.Board, step int)

// Player replays Script against Engine.
type Player struct {
	Engine Engine
	Script domain.Script
	Delay  time.Duration
	OnStep StepFunc
}

// Run resets the engine and replays the script. It stops at the first step
// that is illegal on the live board or when ctx is done. The outcome is
// always filled in; the error is a *ScriptAbortedError or ctx.Err().
func (p *Player) Run(ctx context.Context) (Outcome, error) {
	out := Outcome{Total: len(p.Script)}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	p.Engine.Reset()
	p.notify(0)

	runErr := p.steps(ctx, &out)
	out.Solved = p.Engine.Solved()
	return out, runErr
}

func (p *Player) steps(ctx context.Context, out *Outcome) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for i, st := range p.Script {
		if err := ctx.Err(); err != nil {
			return err
		}
		to := p.Engine.EmptyIndex()
		if !p.Engine.IsValidMove(st.From, to) {
			return &ScriptAbortedError{Step: i + 1, From: st.From, To: to}
		}
		if err := p.Engine.ApplyMove(st.From, to); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return &ScriptAbortedError{Step: i + 1, From: st.From, To: to, Err: err}
		}
		out.Applied++
		p.notify(i + 1)

		if i == len(p.Script)-1 || p.Delay <= 0 {
			continue
		}
		if timer == nil {
			timer = time.NewTimer(p.Delay)
		} else {
			timer.Reset(p.Delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

func (p *Player) notify(step int) {
	if p.OnStep != nil {
		p.OnStep(p.Engine.Snapshot(), step)
	}
}
