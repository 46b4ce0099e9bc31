package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/google/uuid"
	"github.com/jaminalder/codex-peg-jump/internal/app"
	"github.com/jaminalder/codex-peg-jump/internal/domain"
	"github.com/jaminalder/codex-peg-jump/internal/i18n"
	"golang.org/x/text/message"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(`<!doctype html><html lang="{{.Lang}}"><head>
<meta charset="utf-8"/>
<title>{{.Title}}</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>` + styles + `</style>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>{{.Title}}</h1>
<p>{{.Instructions}}</p>
<form action="/game" method="post"><button>{{.NewPuzzle}}</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>{{.Title}}</h1>
<p>{{.Instructions}}</p>
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div hx-sse="swap:board" hx-target="#board" hx-swap="outerHTML">{{template "board" .Board}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const styles = `
.slots{display:flex;gap:.5rem}
.slot{width:4rem;height:4rem;border:2px solid #555;border-radius:.5rem;background:#eee}
.slot.selected{border-color:#d80}
.slot.movable{border-style:dashed}
.black-piece,.white-piece{display:inline-block;width:2.5rem;height:2.5rem;border-radius:50%;border:1px solid #333}
.black-piece{background:#111}
.white-piece{background:#fff}
.message-success{color:#070}
.message-error{color:#a00}
.message-info{color:#036}
`

const boardTemplate = `
<div id="board"{{if .Replaying}} class="replaying"{{end}}>
  {{if .Notice}}
  <div id="game-messages" class="message-{{.NoticeKind}}">{{.Notice}}</div>
  {{end}}
  <div class="slots">
    {{range .Slots}}
    <form hx-post="/game/{{$.ID}}/click" hx-target="#board" hx-swap="outerHTML" action="/game/{{$.ID}}/click" method="post">
      <input type="hidden" name="slot" value="{{.Index}}">
      <button type="submit" class="slot{{if .Selected}} selected{{end}}{{if .Movable}} movable{{end}}" data-index="{{.Index}}" title="{{.Title}}"{{if $.Replaying}} disabled{{end}}>{{if .Piece}}<span class="{{.Piece}}-piece"></span>{{end}}</button>
    </form>
    {{end}}
  </div>
  <p class="moves">{{.MovesLabel}}</p>
  <div class="controls">
    <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" action="/game/{{.ID}}/reset" method="post">
      <button id="resetButton" type="submit">{{.ResetLabel}}</button>
    </form>
    <form hx-post="/game/{{.ID}}/solve" hx-target="#board" hx-swap="outerHTML" action="/game/{{.ID}}/solve" method="post">
      <button id="executeSolutionButton" type="submit"{{if .Replaying}} disabled{{end}}>{{.RunLabel}}</button>
    </form>
  </div>
</div>
`

type slotView struct {
	Index    int
	Piece    string
	Selected bool
	Movable  bool
	Title    string
}

type boardView struct {
	ID         string
	Slots      []slotView
	Notice     string
	NoticeKind string
	MovesLabel string
	ResetLabel string
	RunLabel   string
	Replaying  bool
}

type pageView struct {
	Lang         string
	Title        string
	Instructions string
	NewPuzzle    string
	ID           string
	Board        boardView
}

func newPageView(p *message.Printer, lang string) pageView {
	return pageView{
		Lang:         lang,
		Title:        p.Sprintf(i18n.MsgTitle),
		Instructions: p.Sprintf(i18n.MsgInstructions),
		NewPuzzle:    p.Sprintf(i18n.MsgNewPuzzle),
	}
}

func newBoardView(gs app.GameState, p *message.Printer) boardView {
	movable := make(map[int]bool)
	if !gs.Replaying {
		for _, m := range gs.Puzzle.LegalMoves() {
			movable[m.From] = true
		}
	}
	v := boardView{
		ID:         gs.ID,
		Slots:      make([]slotView, 0, domain.Size),
		MovesLabel: p.Sprintf(i18n.MsgMovesCount, gs.Puzzle.Moves),
		ResetLabel: p.Sprintf(i18n.MsgReset),
		RunLabel:   p.Sprintf(i18n.MsgRunSolution),
		Replaying:  gs.Replaying,
	}
	for i, s := range gs.Puzzle.Board {
		sv := slotView{Index: i, Selected: gs.Selected == i, Movable: movable[i]}
		if s != domain.Empty {
			sv.Piece = s.String()
		}
		if sv.Selected {
			sv.Title = p.Sprintf(i18n.MsgSelectedSlot, i)
		}
		v.Slots = append(v.Slots, sv)
	}
	if gs.Notice.Key != "" {
		v.Notice = p.Sprintf(gs.Notice.Key, gs.Notice.Args...)
		v.NoticeKind = gs.Notice.Kind.String()
	}
	return v
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
		return c.Value
	}
	// Generate UUIDv4 for player ID
	v := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
	return v
}
