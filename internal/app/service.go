package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/codex-peg-jump/internal/domain"
	"github.com/jaminalder/codex-peg-jump/internal/i18n"
	"github.com/jaminalder/codex-peg-jump/internal/script"
	"go.uber.org/zap"
)

// Errors exposed by the service layer.
var (
	ErrNotFound = errors.New("game not found")

	errSuperseded = errors.New("replay superseded")
)

// NoticeKind classifies a user-facing notice.
type NoticeKind uint8

const (
	NoticeNone NoticeKind = iota
	NoticeInfo
	NoticeSuccess
	NoticeError
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeInfo:
		return "info"
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return ""
	}
}

// Notice is a message for the player. Key is an i18n message key; Args are
// its format arguments.
type Notice struct {
	Kind NoticeKind
	Key  string
	Args []any
}

// NoSelection marks a game without a selected slot.
const NoSelection = -1

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID        string
	Puzzle    domain.Puzzle
	Selected  int
	Notice    Notice
	Replaying bool
	Created   time.Time
	Updated   time.Time
}

type game struct {
	GameState
	gen    uint64
	cancel context.CancelFunc
}

const subscriberBuffer = 32

type subscriber struct {
	ch        chan GameState
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Options configures a Service. Zero values pick defaults.
type Options struct {
	Logger      *zap.Logger
	Script      domain.Script
	ReplayDelay time.Duration
}

// Service manages games, replays and subscribers.
type Service struct {
	mu     sync.Mutex
	games  map[string]*game
	subs   map[string]map[*subscriber]struct{}
	script domain.Script
	delay  time.Duration
	log    *zap.Logger

	ctx     context.Context
	stop    context.CancelFunc
	replays sync.WaitGroup
}

// NewService creates a service with the embedded script and no replay delay.
func NewService() *Service { return NewServiceWithOptions(Options{}) }

// NewServiceWithOptions creates a service from opts.
func NewServiceWithOptions(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if len(opts.Script) == 0 {
		opts.Script = script.Default()
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Service{
		games:  make(map[string]*game),
		subs:   make(map[string]map[*subscriber]struct{}),
		script: opts.Script,
		delay:  opts.ReplayDelay,
		log:    opts.Logger,
		ctx:    ctx,
		stop:   stop,
	}
}

// Script returns the solution script replayed by Solve.
func (s *Service) Script() domain.Script { return s.script }

// Close stops every running replay and waits for them to finish.
func (s *Service) Close() {
	s.stop()
	s.replays.Wait()
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame() (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	now := time.Now()
	g := &game{GameState: GameState{
		ID:       id,
		Puzzle:   domain.New(),
		Selected: NoSelection,
		Created:  now,
		Updated:  now,
	}}
	s.games[id] = g
	s.log.Info("game created", zap.String("game_id", id))
	cp := g.GameState
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := g.GameState
	return &cp, true
}

// Move applies from->to. An illegal move returns the unchanged state together
// with a *domain.InvalidMoveError.
func (s *Service) Move(id string, from, to int) (*GameState, error) {
	return s.mutate(id, func(g *game) error {
		g.Notice = Notice{}
		g.Selected = NoSelection
		return s.applyLocked(g, from, to)
	})
}

// Reset restores the initial board and clears selection and notices.
func (s *Service) Reset(id string) (*GameState, error) {
	return s.mutate(id, func(g *game) error {
		g.Puzzle.Reset()
		g.Selected = NoSelection
		g.Notice = Notice{}
		s.log.Debug("game reset", zap.String("game_id", g.ID))
		return nil
	})
}

// mutate runs fn on the game under the lock after stopping any replay, then
// broadcasts the result. The state is returned even when fn fails.
func (s *Service) mutate(id string, fn func(g *game) error) (*GameState, error) {
	s.mu.Lock()
	g, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	s.interruptLocked(g)
	err := fn(g)
	g.Updated = time.Now()
	cp := g.GameState
	s.broadcastLocked(cp)
	s.mu.Unlock()
	return &cp, err
}

func (s *Service) applyLocked(g *game, from, to int) error {
	if err := g.Puzzle.ApplyMove(from, to); err != nil {
		if errors.Is(err, domain.ErrOutOfBounds) {
			g.Notice = Notice{Kind: NoticeError, Key: i18n.MsgOutOfBoundsMove}
		} else {
			g.Notice = Notice{Kind: NoticeError, Key: i18n.MsgInvalidMove}
		}
		s.log.Debug("move rejected",
			zap.String("game_id", g.ID),
			zap.Int("from", from),
			zap.Int("to", to),
			zap.Error(err),
		)
		return err
	}
	s.log.Debug("move applied",
		zap.String("game_id", g.ID),
		zap.Int("from", from),
		zap.Int("to", to),
		zap.Stringer("board", g.Puzzle.Board),
	)
	if g.Puzzle.Solved() {
		g.Notice = Notice{Kind: NoticeSuccess, Key: i18n.MsgSolved}
		s.log.Info("game solved", zap.String("game_id", g.ID), zap.Int("moves", g.Puzzle.Moves))
	}
	return nil
}

// interruptLocked cancels a running replay and invalidates its engine.
func (s *Service) interruptLocked(g *game) {
	g.gen++
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
		s.log.Info("replay interrupted", zap.String("game_id", g.ID))
	}
	g.Replaying = false
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan GameState, subscriberBuffer)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(s.subs, id)
				}
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

// broadcastLocked fans cp out to the game's subscribers. Sends never block;
// a subscriber with a full buffer is dropped.
func (s *Service) broadcastLocked(cp GameState) {
	set := s.subs[cp.ID]
	dropped := 0
	for sub := range set {
		select {
		case sub.ch <- cp:
		default:
			sub.close()
			delete(set, sub)
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Warn("dropped slow subscribers", zap.String("game_id", cp.ID), zap.Int("count", dropped))
	}
}
