package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jaminalder/codex-peg-jump/internal/app"
	"github.com/jaminalder/codex-peg-jump/internal/i18n"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

const (
	socketReadLimit    = 4096
	socketWriteTimeout = 10 * time.Second
)

// socketRequest is a message read from the client.
type socketRequest struct {
	Type     string                 `json:"type"`
	Contents map[string]interface{} `json:"contents"`
}

// socketMessage is a message written to the client.
type socketMessage struct {
	Type     string      `json:"type"`
	Contents interface{} `json:"contents"`
}

// toMessage wraps contents in a message named after its type.
func toMessage(contents interface{}) socketMessage {
	return socketMessage{Type: reflect.TypeOf(contents).Name(), Contents: contents}
}

// Requests

type MakeMoveRequest struct {
	From *int `mapstructure:"from"`
	To   *int `mapstructure:"to"`
}

type ClickRequest struct {
	Slot *int `mapstructure:"slot"`
}

type ResetRequest struct{}

type RunSolutionRequest struct{}

// Responses

type BoardBroadcast struct {
	Board      []string `json:"board"`
	EmptyIndex int      `json:"emptyIndex"`
	Solved     bool     `json:"solved"`
	Moves      int      `json:"moves"`
	Selected   int      `json:"selected"`
	Replaying  bool     `json:"replaying"`
	Message    string   `json:"message,omitempty"`
	Kind       string   `json:"kind,omitempty"`
}

type ErrorResponse struct {
	Reason string `json:"reason"`
}

func newBoardBroadcast(gs app.GameState, p *message.Printer) BoardBroadcast {
	b := BoardBroadcast{
		Board:      make([]string, len(gs.Puzzle.Board)),
		EmptyIndex: gs.Puzzle.EmptyIndex(),
		Solved:     gs.Puzzle.Solved(),
		Moves:      gs.Puzzle.Moves,
		Selected:   gs.Selected,
		Replaying:  gs.Replaying,
	}
	for i, s := range gs.Puzzle.Board {
		b.Board[i] = s.String()
	}
	if gs.Notice.Key != "" {
		b.Message = p.Sprintf(gs.Notice.Key, gs.Notice.Args...)
		b.Kind = gs.Notice.Kind.String()
	}
	return b
}

func decodeContents(in map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// checkOrigin allows the configured origins, or the request's own host when
// none are configured.
func (h *handlers) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(h.origins) > 0 {
		for _, o := range h.origins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// socket upgrades to a websocket that accepts commands and streams the board.
func (h *handlers) socket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("game_id", id), zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(socketReadLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	updates, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		return
	}
	defer unsub()

	p, _ := h.printer(r)
	replies := make(chan socketMessage, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(ctx, conn, p, updates, replies)
		cancel()
		// Unblocks the reader when the write side fails first.
		_ = conn.Close()
	}()

	replies <- toMessage(newBoardBroadcast(*gs, p))
	h.log.Debug("websocket connected", zap.String("game_id", id))
	for {
		var req socketRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Info("websocket closed", zap.String("game_id", id), zap.Error(err))
			}
			break
		}
		if reply, ok := h.handleSocketRequest(id, req, p); ok {
			select {
			case replies <- reply:
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			break
		}
	}
	cancel()
	<-done
}

// handleSocketRequest runs one command. State changes reach the client
// through the subscription, so only failures produce a direct reply.
func (h *handlers) handleSocketRequest(id string, req socketRequest, p *message.Printer) (socketMessage, bool) {
	var err error
	switch req.Type {
	case "MakeMoveRequest":
		var contents MakeMoveRequest
		if decodeContents(req.Contents, &contents) != nil || contents.From == nil || contents.To == nil {
			return toMessage(ErrorResponse{Reason: p.Sprintf(i18n.MsgBadRequest)}), true
		}
		_, err = h.svc.Move(id, *contents.From, *contents.To)
	case "ClickRequest":
		var contents ClickRequest
		if decodeContents(req.Contents, &contents) != nil || contents.Slot == nil {
			return toMessage(ErrorResponse{Reason: p.Sprintf(i18n.MsgBadRequest)}), true
		}
		_, err = h.svc.Click(id, *contents.Slot)
	case "ResetRequest":
		_, err = h.svc.Reset(id)
	case "RunSolutionRequest":
		_, err = h.svc.Solve(id)
	default:
		return toMessage(ErrorResponse{Reason: p.Sprintf(i18n.MsgUnknownRequest, req.Type)}), true
	}
	if errors.Is(err, app.ErrNotFound) {
		return toMessage(ErrorResponse{Reason: p.Sprintf(i18n.MsgNotFound)}), true
	}
	if err != nil {
		h.log.Debug("socket command rejected", zap.String("game_id", id), zap.String("type", req.Type), zap.Error(err))
	}
	return socketMessage{}, false
}

// writeLoop is the only writer on conn.
func (h *handlers) writeLoop(ctx context.Context, conn *websocket.Conn, p *message.Printer, updates <-chan app.GameState, replies <-chan socketMessage) {
	write := func(m socketMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(socketWriteTimeout))
		if err := conn.WriteJSON(m); err != nil {
			h.log.Debug("websocket write failed", zap.Error(err))
			return false
		}
		return true
	}
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		case m := <-replies:
			if !write(m) {
				return
			}
		case gs, ok := <-updates:
			if !ok {
				return
			}
			if !write(toMessage(newBoardBroadcast(gs, p))) {
				return
			}
		}
	}
}
