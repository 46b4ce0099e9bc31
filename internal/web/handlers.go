package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/codex-peg-jump/internal/app"
	"github.com/jaminalder/codex-peg-jump/internal/i18n"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	log       *zap.Logger
	locale    string
	heartbeat time.Duration
	origins   []string
}

// printer picks the UI language from ?lang= or Accept-Language.
func (h *handlers) printer(r *http.Request) (*message.Printer, language.Tag) {
	accept := r.URL.Query().Get("lang")
	if accept == "" {
		accept = r.Header.Get("Accept-Language")
	}
	tag := i18n.Match(accept, h.locale)
	return i18n.Printer(tag), tag
}

func (h *handlers) renderBoard(gs app.GameState, p *message.Printer) []byte {
	return renderTemplate(h.tpl.board, "", newBoardView(gs, p))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	p, tag := h.printer(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "", newPageView(p, tag.String())))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ensurePlayerCookie(w, r)
	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	p, tag := h.printer(r)
	data := newPageView(p, tag.String())
	data.ID = gs.ID
	data.Board = newBoardView(*gs, p)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	// Render page with embedded board container
	_, _ = w.Write(renderTemplate(h.tpl.game, "", data))
}

func (h *handlers) click(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	slot, err := strconv.Atoi(r.Form.Get("slot"))
	if err != nil {
		slot = -1
	}
	gs, err := h.svc.Click(id, slot)
	h.respond(w, r, id, gs, err)
}

// move is the explicit proposeMove command.
func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	from, errFrom := strconv.Atoi(r.Form.Get("from"))
	to, errTo := strconv.Atoi(r.Form.Get("to"))
	if errFrom != nil || errTo != nil {
		p, _ := h.printer(r)
		http.Error(w, p.Sprintf(i18n.MsgBadRequest), http.StatusBadRequest)
		return
	}
	gs, err := h.svc.Move(id, from, to)
	h.respond(w, r, id, gs, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, err := h.svc.Reset(id)
	h.respond(w, r, id, gs, err)
}

func (h *handlers) solve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, err := h.svc.Solve(id)
	h.respond(w, r, id, gs, err)
}

// respond renders the board fragment for htmx requests and redirects plain
// form posts back to the game page. Move errors are already carried by the
// state's notice.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
	if errors.Is(err, app.ErrNotFound) || gs == nil {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Debug("command rejected", zap.String("game_id", id), zap.String("path", r.URL.Path), zap.Error(err))
	}
	if !isHTMXRequest(r) {
		http.Redirect(w, r, "/game/"+id, http.StatusSeeOther)
		return
	}
	p, _ := h.printer(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, p))
}

func isHTMXRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	p, _ := h.printer(r)
	// heartbeat ticker
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	// Initial flush of headers
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case gs, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "board", h.renderBoard(gs, p))
			flusher.Flush()
		}
	}
}

// writeEvent writes one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, event string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}

