package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/backtrail-dev/backtrail/pkg/nav"
	"github.com/backtrail-dev/backtrail/pkg/route"
)

// Handler serves the bridge: a WebSocket endpoint that runs one Session
// per connection, plus health and metrics endpoints.
type Handler struct {
	table       *route.Table
	navMW       []nav.Middleware
	onSession   func(*Session)
	logger      *slog.Logger
	checkOrig   func(*http.Request) bool
	updateRate  rate.Limit
	updateBurst int

	mux      *chi.Mux
	upgrader websocket.Upgrader
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithNavMiddleware sets the operation middleware installed on every
// session's controller.
func WithNavMiddleware(mw ...nav.Middleware) HandlerOption {
	return func(h *Handler) {
		h.navMW = append(h.navMW, mw...)
	}
}

// WithOnSession registers a callback invoked, in its own goroutine, for
// each established session. The callback drives navigation through
// session.Controller(); the session closes when the connection drops.
func WithOnSession(fn func(*Session)) HandlerOption {
	return func(h *Handler) {
		h.onSession = fn
	}
}

// WithHandlerLogger sets the handler's logger.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = l
	}
}

// WithCheckOrigin sets the WebSocket origin check. The default accepts
// all origins.
func WithCheckOrigin(fn func(*http.Request) bool) HandlerOption {
	return func(h *Handler) {
		h.checkOrig = fn
	}
}

// WithUpdateLimit sets the per-connection inbound update rate limit.
func WithUpdateLimit(perSecond rate.Limit, burst int) HandlerOption {
	return func(h *Handler) {
		h.updateRate = perSecond
		h.updateBurst = burst
	}
}

// NewHandler builds the bridge handler over a route table.
func NewHandler(table *route.Table, opts ...HandlerOption) *Handler {
	h := &Handler{
		table:       table,
		logger:      slog.Default(),
		updateRate:  DefaultUpdateRate,
		updateBurst: DefaultUpdateBurst,
		checkOrig: func(*http.Request) bool {
			return true
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrig,
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/ws", h.handleWS)
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	h.mux = r

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	hello, err := awaitHello(conn)
	if err != nil {
		h.logger.Warn("bridge handshake failed", "error", err)
		conn.Close()
		return
	}

	limiter := rate.NewLimiter(h.updateRate, h.updateBurst)
	sess := newSession(conn, hello, h.table, h.navMW, limiter, h.logger)
	h.logger.Info("bridge session started",
		"remote", r.RemoteAddr,
		"pathname", hello.Pathname,
	)

	if h.onSession != nil {
		go h.onSession(sess)
	}

	<-sess.Done()
	seen, dropped := sess.Stats()
	h.logger.Info("bridge session ended",
		"remote", r.RemoteAddr,
		"updates", seen,
		"dropped", dropped,
	)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
