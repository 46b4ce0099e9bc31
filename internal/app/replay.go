package app

import (
	"context"
	"errors"
	"time"

	"github.com/jaminalder/codex-peg-jump/internal/domain"
	"github.com/jaminalder/codex-peg-jump/internal/i18n"
	"github.com/jaminalder/codex-peg-jump/internal/replay"
	"go.uber.org/zap"
)

// Solve starts replaying the solution script on the game in the background.
// Any replay already running on the game is stopped first. Progress is
// delivered to subscribers.
func (s *Service) Solve(id string) (*GameState, error) {
	s.mu.Lock()
	g, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	s.interruptLocked(g)
	ctx, cancel := context.WithCancel(s.ctx)
	g.cancel = cancel
	g.Replaying = true
	g.Selected = NoSelection
	g.Notice = Notice{Kind: NoticeInfo, Key: i18n.MsgRunning}
	g.Updated = time.Now()
	gen := g.gen
	cp := g.GameState
	s.broadcastLocked(cp)
	s.replays.Add(1)
	s.mu.Unlock()

	s.log.Info("replay started", zap.String("game_id", id), zap.Int("steps", len(s.script)))
	go s.runReplay(ctx, id, gen)
	return &cp, nil
}

func (s *Service) runReplay(ctx context.Context, id string, gen uint64) {
	defer s.replays.Done()
	eng := &gameEngine{svc: s, id: id, gen: gen}
	p := &replay.Player{
		Engine: eng,
		Script: s.script,
		Delay:  s.delay,
		OnStep: func(b domain.Board, step int) { eng.publish() },
	}
	out, err := p.Run(ctx)
	s.finishReplay(id, gen, out, err)
}

func (s *Service) finishReplay(id string, gen uint64, out replay.Outcome, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok || g.gen != gen {
		// A user action took over; it owns the notice now.
		return
	}
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.Replaying = false
	g.Updated = time.Now()

	fields := []zap.Field{
		zap.String("game_id", id),
		zap.Int("applied", out.Applied),
		zap.Int("total", out.Total),
		zap.Bool("solved", out.Solved),
	}
	var abort *replay.ScriptAbortedError
	switch {
	case errors.As(err, &abort):
		g.Notice = Notice{Kind: NoticeError, Key: i18n.MsgScriptAborted, Args: []any{abort.Step, abort.From, abort.To}}
		s.log.Warn("replay aborted", append(fields, zap.Error(err))...)
	case err != nil:
		g.Notice = Notice{Kind: NoticeInfo, Key: i18n.MsgReplayStopped}
		s.log.Info("replay stopped", append(fields, zap.Error(err))...)
	case out.Solved:
		g.Notice = Notice{Kind: NoticeSuccess, Key: i18n.MsgScriptSolved}
		s.log.Info("replay finished", fields...)
	default:
		g.Notice = Notice{Kind: NoticeError, Key: i18n.MsgScriptUnsolved}
		s.log.Info("replay finished", fields...)
	}
	s.broadcastLocked(g.GameState)
}

// gameEngine drives one game's puzzle for a replay. It only acts while the
// game still belongs to the replay's generation.
type gameEngine struct {
	svc *Service
	id  string
	gen uint64
}

func (e *gameEngine) with(fn func(g *game) error) error {
	e.svc.mu.Lock()
	defer e.svc.mu.Unlock()
	g, ok := e.svc.games[e.id]
	if !ok {
		return ErrNotFound
	}
	if g.gen != e.gen {
		return errSuperseded
	}
	return fn(g)
}

func (e *gameEngine) Reset() {
	_ = e.with(func(g *game) error {
		g.Puzzle.Reset()
		g.Updated = time.Now()
		return nil
	})
}

func (e *gameEngine) EmptyIndex() int {
	idx := -1
	_ = e.with(func(g *game) error {
		idx = g.Puzzle.EmptyIndex()
		return nil
	})
	return idx
}

func (e *gameEngine) IsValidMove(from, to int) bool {
	valid := false
	_ = e.with(func(g *game) error {
		valid = g.Puzzle.IsValidMove(from, to)
		return nil
	})
	return valid
}

func (e *gameEngine) ApplyMove(from, to int) error {
	return e.with(func(g *game) error {
		if err := g.Puzzle.ApplyMove(from, to); err != nil {
			return err
		}
		g.Updated = time.Now()
		return nil
	})
}

func (e *gameEngine) Solved() bool {
	solved := false
	_ = e.with(func(g *game) error {
		solved = g.Puzzle.Solved()
		return nil
	})
	return solved
}

func (e *gameEngine) Snapshot() domain.Board {
	var b domain.Board
	_ = e.with(func(g *game) error {
		b = g.Puzzle.Snapshot()
		return nil
	})
	return b
}

func (e *gameEngine) publish() {
	_ = e.with(func(g *game) error {
		e.svc.broadcastLocked(g.GameState)
		return nil
	})
}
