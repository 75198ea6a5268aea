package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-wayfinder/internal/metrics"
	"github.com/teslashibe/go-wayfinder/pkg/action"
	"github.com/teslashibe/go-wayfinder/pkg/camera"
	"github.com/teslashibe/go-wayfinder/pkg/chain"
	"github.com/teslashibe/go-wayfinder/pkg/framebuf"
	"github.com/teslashibe/go-wayfinder/pkg/inference"
	"github.com/teslashibe/go-wayfinder/pkg/navigation"
	"github.com/teslashibe/go-wayfinder/pkg/stt"
	"github.com/teslashibe/go-wayfinder/pkg/web"
)

// ErrBusy is returned when a query arrives while another is running.
var ErrBusy = errors.New("agent: a query is already running")

// Deps are the collaborators an App drives. Build fills them from Config;
// tests supply fakes.
type Deps struct {
	Reasoner  chain.Reasoner
	Navigator action.Navigator

	// Speaker voices final answers and route steps. Nil disables speech.
	Speaker navigation.Speaker

	// Transcriber turns Config.QueryClip into the query. Nil uses
	// Config.DefaultQuery.
	Transcriber stt.Transcriber

	// Opener opens the camera stream. Nil uses camera.OpenStream.
	Opener camera.Opener

	// Closers are released by Shutdown.
	Closers []func() error

	Logger *slog.Logger
}

// App runs the camera producer and the trigger-driven agent loop.
type App struct {
	config Config
	deps   Deps
	logger *slog.Logger

	frames   *framebuf.Buffer
	capture  *camera.Capture
	orch     *chain.Orchestrator
	narrator *navigation.Narrator
	server   *web.Server
	trigger  *Trigger

	running atomic.Bool

	// runCtx outlives single queries; narration is bound to it.
	runCtx   context.Context
	runCtxMu sync.RWMutex
}

// New validates cfg and assembles the application.
func New(cfg Config, deps Deps) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Reasoner == nil || deps.Navigator == nil {
		return nil, errors.New("agent: reasoner and navigator are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		config:  cfg,
		deps:    deps,
		logger:  logger.With("component", "agent"),
		frames:  framebuf.New(cfg.FrameBuffer),
		trigger: NewTrigger(),
		runCtx:  context.Background(),
	}

	defaultLoc, _ := navigation.ParseLatLng(cfg.DefaultLocation)
	execOpts := []action.ExecutorOption{
		action.WithDefaultLocation(defaultLoc),
		action.WithTravelMode(cfg.TravelMode),
		action.WithLogger(logger),
	}
	if deps.Speaker != nil {
		a.narrator = navigation.NewNarrator(deps.Speaker, cfg.NarrationPace, logger)
		execOpts = append(execOpts, action.WithRouteHandler(a.onRoute))
	}
	executor := action.NewExecutor(deps.Navigator, execOpts...)

	a.server = web.NewServer(web.WithLogger(logger))
	a.server.OnQuery = a.Ask
	a.server.OnTrigger = a.trigger.Fire
	a.server.OnFrame = func() ([]byte, bool) {
		f, ok := a.frames.Latest()
		return f.JPEG, ok
	}

	a.orch = chain.New(deps.Reasoner, executor,
		chain.WithMaxSteps(cfg.MaxSteps),
		chain.WithLogger(logger),
		chain.WithEventHandler(a.onEvent),
	)

	if cfg.CameraStreamURL != "" {
		camCfg := camera.DefaultConfig()
		camCfg.StreamURL = cfg.CameraStreamURL
		camCfg.Quality = cfg.CameraQuality
		camCfg.Interval = cfg.CameraInterval
		camCfg.Logger = logger
		capture, err := camera.NewCapture(camCfg, deps.Opener, frameSink{a})
		if err != nil {
			return nil, err
		}
		capture.OnReconnect = func(error) {
			metrics.CameraReconnects.Inc()
			a.server.UpdateStatus(func(s *web.Status) { s.CameraOnline = false })
		}
		a.capture = capture
	}

	return a, nil
}

// frameSink stores frames and keeps the status current.
type frameSink struct{ a *App }

func (s frameSink) Add(jpeg []byte) {
	s.a.frames.Add(jpeg)
	metrics.FramesCaptured.Inc()
}

// Frames returns the shared frame buffer.
func (a *App) Frames() *framebuf.Buffer {
	return a.frames
}

// Server returns the HTTP front end.
func (a *App) Server() *web.Server {
	return a.server
}

// Trigger requests one run of the agent loop.
func (a *App) Trigger() bool {
	return a.trigger.Fire()
}

// Run starts the camera producer, the web server (when Port > 0) and the
// agent loop, and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.runCtxMu.Lock()
	a.runCtx = ctx
	a.runCtxMu.Unlock()

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	if a.capture != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.capture.Run(ctx)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.watchFrames(ctx)
		}()
	}

	if a.config.Port > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.server.ListenAndServe(ctx, fmt.Sprintf(":%d", a.config.Port)); err != nil {
				select {
				case errCh <- err:
				default:
				}
			}
		}()
	}

	a.logger.Info("agent started",
		"camera", a.config.CameraStreamURL != "",
		"port", a.config.Port,
		"interval", a.config.Interval,
	)

	err := a.loop(ctx, errCh)
	wg.Wait()
	if a.narrator != nil {
		a.narrator.Stop()
	}
	return err
}

// loop waits for triggers (or the interval tick) and runs one query each.
func (a *App) loop(ctx context.Context, errCh <-chan error) error {
	var tick <-chan time.Time
	if a.config.Interval > 0 {
		t := time.NewTicker(a.config.Interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		case <-tick:
			a.trigger.Fire()
		case <-a.trigger.C():
		}

		if !a.trigger.Take() {
			continue
		}
		if err := a.runOnce(ctx); err != nil {
			a.logger.Warn("agent run skipped", "error", err)
		}
	}
}

// runOnce resolves the query, then answers it.
func (a *App) runOnce(ctx context.Context) error {
	query, err := a.resolveQuery(ctx)
	if err != nil {
		return err
	}
	_, err = a.Ask(ctx, query)
	return err
}

func (a *App) resolveQuery(ctx context.Context) (string, error) {
	if a.config.QueryClip == "" || a.deps.Transcriber == nil {
		return a.config.DefaultQuery, nil
	}

	f, err := os.Open(a.config.QueryClip)
	if err != nil {
		return "", fmt.Errorf("agent: open query clip: %w", err)
	}
	defer f.Close()

	text, err := a.deps.Transcriber.Transcribe(ctx, a.config.QueryClip, f)
	if err != nil {
		return "", fmt.Errorf("agent: transcribe: %w", err)
	}
	a.logger.Info("transcribed query", "query", text)
	return text, nil
}

// Ask answers query against the current frames. Only one query runs at a
// time; concurrent calls get ErrBusy.
func (a *App) Ask(ctx context.Context, query string) (*chain.Result, error) {
	if !a.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.running.Store(false)

	a.server.UpdateStatus(func(s *web.Status) { s.Busy = true })
	defer a.server.UpdateStatus(func(s *web.Status) { s.Busy = false })

	snapshot := a.frames.Snapshot()
	images := make([]inference.Image, len(snapshot))
	for i, jpeg := range snapshot {
		images[i] = inference.JPEG(jpeg)
	}

	a.logger.Info("query started", "query", query, "frames", len(images))
	res := a.orch.Run(ctx, query, images)

	a.report(res)
	metrics.ObserveQuery(string(res.Outcome), res.Steps, res.Duration)
	for _, h := range res.History {
		metrics.ActionTotal.WithLabelValues(historyLabel(h)).Inc()
	}
	a.server.RecordResult(res)

	if a.config.SpeakResults && a.deps.Speaker != nil && !isRoute(res) && res.Outcome != chain.OutcomeCancelled {
		if err := a.deps.Speaker.Speak(ctx, res.FinalResult); err != nil {
			a.logger.Warn("speaking result failed", "error", err)
		}
	}
	return res, nil
}

// report logs the action history and collected parameters of a run.
func (a *App) report(res *chain.Result) {
	for _, h := range res.History {
		a.logger.Info("history",
			"run_id", res.ID,
			"step", h.Step,
			"call", h.Descriptor.String(),
			"output", h.Output,
		)
	}
	a.logger.Info("result",
		"run_id", res.ID,
		"outcome", res.Outcome,
		"final", res.FinalResult,
		"params", res.Params,
		"error", res.Error(),
	)
}

func historyLabel(h chain.HistoryEntry) string {
	if h.Descriptor.IsAnalysis() {
		return action.ChainImageAnalysis
	}
	if h.Descriptor.Function.Known() {
		return h.Descriptor.Function.String()
	}
	return "unknown"
}

// isRoute reports whether the final answer came from a route, which the
// narrator already speaks step by step.
func isRoute(res *chain.Result) bool {
	if len(res.History) == 0 {
		return false
	}
	last := res.History[len(res.History)-1]
	return last.Descriptor.Function == action.GetRouteToDestination &&
		strings.HasPrefix(last.Output, "Route from ")
}

// onRoute starts narrating a computed route. Narration outlives the query
// and is bound to the application context.
func (a *App) onRoute(_ context.Context, route *navigation.Route) {
	a.runCtxMu.RLock()
	ctx := a.runCtx
	a.runCtxMu.RUnlock()

	a.logger.Info("narrating route", "steps", len(route.Steps), "distance", route.Distance)
	a.narrator.Start(ctx, route)
}

func (a *App) onEvent(e chain.Event) {
	a.server.PublishEvent(e)
}

// watchFrames mirrors buffer activity into the status and the preview feed.
func (a *App) watchFrames(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.frames.Updated():
			a.server.UpdateStatus(func(s *web.Status) {
				s.CameraOnline = true
				s.FramesBuffered = a.frames.Len()
			})
			if f, ok := a.frames.Latest(); ok {
				a.server.BroadcastFrame(f.JPEG)
			}
		}
	}
}

// Shutdown releases provider resources.
func (a *App) Shutdown() {
	if a.narrator != nil {
		a.narrator.Stop()
	}
	for _, c := range a.deps.Closers {
		if err := c(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

// WaitNarration blocks until route narration, if any, has finished.
func (a *App) WaitNarration() {
	if a.narrator != nil {
		a.narrator.Wait()
	}
}
