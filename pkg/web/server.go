// Package web exposes the wayfinder over HTTP: query and trigger endpoints,
// status, the latest camera frame, live chain events and metrics.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-wayfinder/internal/metrics"
	"github.com/teslashibe/go-wayfinder/pkg/chain"
	"github.com/teslashibe/go-wayfinder/pkg/hub"
)

// DefaultQueryTimeout bounds a synchronous /api/query request.
const DefaultQueryTimeout = 2 * time.Minute

const maxRecent = 50

// Status is the live state served on /api/status.
type Status struct {
	Busy           bool      `json:"busy"`
	CameraOnline   bool      `json:"camera_online"`
	FramesBuffered int       `json:"frames_buffered"`
	Clients        int       `json:"clients"`
	LastQuery      string    `json:"last_query,omitempty"`
	LastResult     string    `json:"last_result,omitempty"`
	LastOutcome    string    `json:"last_outcome,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// QueryFunc answers a query synchronously.
type QueryFunc func(ctx context.Context, query string) (*chain.Result, error)

// Server is the HTTP front end.
type Server struct {
	app    *fiber.App
	events *hub.Hub
	logger *slog.Logger

	state   Status
	stateMu sync.RWMutex

	recent   []*chain.Result
	recentMu sync.RWMutex

	queryTimeout time.Duration

	// OnQuery runs a query and waits for the result.
	OnQuery QueryFunc

	// OnTrigger requests a run of the default query. It reports false when
	// a run is already pending.
	OnTrigger func() bool

	// OnFrame returns the newest camera frame.
	OnFrame func() ([]byte, bool)
}

// Option configures a Server.
type Option func(*Server)

// WithQueryTimeout sets the /api/query deadline.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Server) { s.queryTimeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer builds the routes.
func NewServer(opts ...Option) *Server {
	s := &Server{
		recent:       make([]*chain.Result, 0, maxRecent),
		queryTimeout: DefaultQueryTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "web.server")
	s.events = hub.New(s.logger)

	app := fiber.New(fiber.Config{
		AppName:               "wayfinder",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Post("/query", s.handleQuery)
	api.Post("/trigger", s.handleTrigger)
	api.Get("/status", s.handleStatus)
	api.Get("/results", s.handleResults)
	api.Get("/frame", s.handleFrame)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Serve runs the event hub and serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.events.Run(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- s.app.Listener(ln) }()

	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return err
	}
	<-s.events.Done()
	if err := <-errCh; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// UpdateStatus mutates the status and broadcasts it.
func (s *Server) UpdateStatus(update func(*Status)) {
	s.stateMu.Lock()
	update(&s.state)
	s.state.UpdatedAt = time.Now()
	state := s.state
	s.stateMu.Unlock()

	s.publish("status", state)
}

// publish drops messages while nobody can be subscribed.
func (s *Server) publish(kind string, v interface{}) {
	if !s.events.IsRunning() {
		return
	}
	if err := s.events.Publish(kind, v); err != nil {
		s.logger.Warn("encode event failed", "kind", kind, "error", err)
	}
}

// PublishEvent forwards a chain transition to subscribers.
func (s *Server) PublishEvent(e chain.Event) {
	s.publish("transition", e)
}

// RecordResult stores a finished run and broadcasts it.
func (s *Server) RecordResult(res *chain.Result) {
	s.recentMu.Lock()
	s.recent = append(s.recent, res)
	if len(s.recent) > maxRecent {
		s.recent = s.recent[1:]
	}
	s.recentMu.Unlock()

	s.UpdateStatus(func(st *Status) {
		st.LastQuery = res.Query
		st.LastResult = res.FinalResult
		st.LastOutcome = string(res.Outcome)
	})
	s.publish("result", res)
}

// BroadcastFrame sends a JPEG preview to subscribers.
func (s *Server) BroadcastFrame(jpeg []byte) {
	if s.events.IsRunning() {
		s.events.BroadcastBinary(jpeg)
	}
}
