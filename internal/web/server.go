package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jaminalder/codex-peg-jump/internal/app"
	"go.uber.org/zap"
)

// Options configures the HTTP layer. Zero values pick defaults.
type Options struct {
	Logger         *zap.Logger
	DefaultLocale  string
	Heartbeat      time.Duration
	AllowedOrigins []string
}

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = "en"
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 15 * time.Second
	}
	h := &handlers{
		svc:       s,
		tpl:       loadTemplates(),
		log:       opts.Logger,
		locale:    opts.DefaultLocale,
		heartbeat: opts.Heartbeat,
		origins:   opts.AllowedOrigins,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/click", h.click)
		r.Post("/move", h.move)
		r.Post("/reset", h.reset)
		r.Post("/solve", h.solve)
		r.Get("/events", h.events)
		r.Get("/ws", h.socket)
	})
	return r
}

// requestLogger logs method, path, status, bytes and duration.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("dur", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			if c, err := r.Cookie("player_id"); err == nil {
				fields = append(fields, zap.String("player_id", c.Value))
			}
			log.Info("http", fields...)
		})
	}
}
