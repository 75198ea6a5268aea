// Package chain runs the action-chain loop: it alternates reasoning calls
// and action executions until the query is answered or the step budget is
// spent.
package chain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-wayfinder/pkg/action"
	"github.com/teslashibe/go-wayfinder/pkg/inference"
	"github.com/teslashibe/go-wayfinder/pkg/plan"
)

// DefaultMaxSteps bounds reasoning calls plus executions per query.
const DefaultMaxSteps = 10

// User-visible final results for failed runs.
const (
	msgParseFailure  = "Could not parse reasoning response"
	msgStepLimit     = "Chain stopped due to exceeding maximum steps"
	msgCancelled     = "Query cancelled"
	msgNoAnalysis    = "No analysis available"
	msgChainComplete = "Action chain completed"
)

// Reasoner proposes the next step for a query given camera frames and the
// previous action output.
type Reasoner interface {
	Reason(ctx context.Context, images []inference.Image, query, prior string) (string, error)
}

// Executor runs one descriptor and returns its output text.
type Executor interface {
	Execute(ctx context.Context, d action.Descriptor, known map[string]string) string
}

// Orchestrator drives queries through the state machine. It holds no
// per-query state and may be shared between goroutines.
type Orchestrator struct {
	reasoner Reasoner
	executor Executor
	maxSteps int
	onEvent  EventHandler
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxSteps sets the step budget. Non-positive values are ignored.
func WithMaxSteps(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxSteps = n
		}
	}
}

// WithEventHandler registers a transition observer.
func WithEventHandler(h EventHandler) Option {
	return func(o *Orchestrator) { o.onEvent = h }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an orchestrator.
func New(reasoner Reasoner, executor Executor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		reasoner: reasoner,
		executor: executor,
		maxSteps: DefaultMaxSteps,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "chain.orchestrator")
	return o
}

// MaxSteps returns the configured step budget.
func (o *Orchestrator) MaxSteps() int {
	return o.maxSteps
}

// run is the state of one query.
type run struct {
	o      *Orchestrator
	ctx    context.Context
	images []inference.Image
	query  string
	logger *slog.Logger

	ec     *ExecutionContext
	result *Result

	fastPath bool
	prior    string
	response string
	current  action.Descriptor
	output   string
}

// Run answers query. It never returns nil; failures are reported through
// Result.Outcome and Result.Err with a user-facing FinalResult.
func (o *Orchestrator) Run(ctx context.Context, query string, images []inference.Image) *Result {
	start := time.Now()
	id := uuid.NewString()

	r := &run{
		o:      o,
		ctx:    ctx,
		images: images,
		query:  query,
		logger: o.logger.With("run_id", id),
		ec:     newExecutionContext(o.maxSteps),
		result: &Result{ID: id, Query: query},
	}

	state := StateStart
	for !state.Terminal() {
		next, detail := r.advance(state)
		o.emit(Event{RunID: id, From: state, To: next, Step: r.ec.Step, At: time.Now(), Detail: detail})
		r.logger.Debug("transition", "from", state, "to", next, "step", r.ec.Step, "detail", detail)
		state = next
	}

	r.result.Params = r.ec.snapshot()
	r.result.Steps = r.ec.Step
	r.result.Duration = time.Since(start)
	if r.result.FinalResult == "" {
		r.result.FinalResult = msgChainComplete
	}

	r.logger.Info("query finished",
		"outcome", r.result.Outcome,
		"steps", r.result.Steps,
		"history", len(r.result.History),
		"duration_ms", r.result.Duration.Milliseconds(),
	)
	return r.result
}

func (o *Orchestrator) emit(e Event) {
	if o.onEvent != nil {
		o.onEvent(e)
	}
}

func (r *run) advance(state State) (State, string) {
	if err := r.ctx.Err(); err != nil {
		return r.fail(OutcomeCancelled, msgCancelled, err), "cancelled"
	}

	switch state {
	case StateStart:
		return r.start()
	case StateReasoning:
		return r.reason(r.query)
	case StateCustomPromptReasoning:
		return r.reason(RoutePrompt(r.ec.Params[plan.KeyCoordinates], r.ec.Params[plan.KeyDestination]))
	case StateParsing:
		return r.parse()
	case StateImageAnalysisDone:
		return r.analysisDone()
	case StateAPICallExecuted:
		return r.afterCall()
	case StateExhausted:
		return r.exhausted()
	}
	return r.fail(OutcomeReasoningFailed, "Invalid state", fmt.Errorf("chain: invalid state %v", state)), "invalid"
}

func (r *run) start() (State, string) {
	if IsAnalysisQuery(r.query) {
		r.fastPath = true
		r.ec.Params[plan.KeyQueryType] = action.ChainImageAnalysis
		return StateReasoning, "image analysis query"
	}

	placeType := PlaceTypeFor(r.query)
	r.ec.Params[plan.KeyPlaceType] = placeType
	return StateReasoning, "place_type=" + placeType
}

func (r *run) reason(query string) (State, string) {
	if r.ec.Exhausted() {
		return StateExhausted, "budget spent before reasoning"
	}
	r.ec.Step++

	prior := r.prior
	if r.fastPath {
		prior = ""
	}

	resp, err := r.o.reasoner.Reason(r.ctx, r.images, query, prior)
	if err != nil {
		if ctxErr := r.ctx.Err(); ctxErr != nil {
			return r.fail(OutcomeCancelled, msgCancelled, ctxErr), "cancelled"
		}
		r.logger.Warn("reasoning failed", "step", r.ec.Step, "error", err)
		return r.fail(OutcomeReasoningFailed, "Reasoning failed: "+err.Error(), fmt.Errorf("%w: %w", ErrReasoning, err)), "reasoning failed"
	}
	r.response = resp

	if r.fastPath {
		r.current = action.NewAnalysis(plan.ExtractAnalysis(resp), action.ChainImageAnalysis, action.SaveNone)
		return StateImageAnalysisDone, "fast path"
	}
	return StateParsing, fmt.Sprintf("%d chars", len(resp))
}

func (r *run) parse() (State, string) {
	d, err := plan.Parse(r.response)
	if err != nil {
		var ok bool
		d, ok = plan.DirectExtract(r.response, r.ec.Params)
		if !ok {
			r.logger.Warn("unparseable reasoning response", "error", err)
			return r.fail(OutcomeParseFailure, msgParseFailure, err), "parse failure"
		}
		r.logger.Debug("recovered with direct extraction", "function", d.Function)
	}

	if d.IsAnalysis() {
		r.current = d
		return StateImageAnalysisDone, "analysis"
	}

	if r.ec.Executed.Has(d.Function) {
		fn, ok := plan.NextAction(d.Chain, r.ec.Executed, r.ec.Params)
		if !ok {
			r.result.Outcome = OutcomeCompleted
			r.result.FinalResult = r.output
			return StateDone, "chain complete"
		}
		r.logger.Debug("repeated action overridden", "suggested", d.Function, "next", fn)
		d = plan.Synthesize(fn, d.Chain, r.ec.Params)
	}

	if r.ec.Exhausted() {
		return StateExhausted, "budget spent before execution"
	}

	d = r.backfill(d)
	r.execute(d)
	return StateAPICallExecuted, d.String()
}

// backfill completes parameters the reasoner left out from context.
func (r *run) backfill(d action.Descriptor) action.Descriptor {
	params := make(map[string]string, len(d.Parameters)+2)
	for k, v := range d.Parameters {
		params[k] = v
	}

	switch d.Function {
	case action.GetNearbyPlaces:
		if params[action.ParamLocation] == "" {
			params[action.ParamLocation] = r.ec.Params[plan.KeyCoordinates]
		}
		if params[action.ParamType] == "" && r.ec.Has(plan.KeyPlaceType) {
			params[action.ParamType] = r.ec.Params[plan.KeyPlaceType]
		}
	case action.GetRouteToDestination:
		if params[action.ParamOrigin] == "" {
			params[action.ParamOrigin] = r.ec.Params[plan.KeyCoordinates]
		}
		params[action.ParamOrigin] = action.NormalizeOrigin(params[action.ParamOrigin])
		if params[action.ParamDestination] == "" {
			params[action.ParamDestination] = r.ec.Params[plan.KeyDestination]
		}
	}

	for k, v := range params {
		if v == "" {
			delete(params, k)
		}
	}
	d.Parameters = params
	return d
}

func (r *run) execute(d action.Descriptor) {
	r.ec.Step++
	out := r.o.executor.Execute(r.ctx, d, r.ec.Params)

	r.ec.Executed.Add(d.Function)
	r.ec.store(d.Function, out)
	r.current = d
	r.output = out
	r.result.History = append(r.result.History, HistoryEntry{Step: r.ec.Step, Descriptor: d, Output: out})

	r.logger.Info("action executed", "step", r.ec.Step, "call", d.String(), "output", out)
}

func (r *run) analysisDone() (State, string) {
	analysis := strings.TrimSpace(r.current.Analysis)
	if analysis == "" {
		analysis = msgNoAnalysis
	}
	r.current.Analysis = analysis
	r.result.History = append(r.result.History, HistoryEntry{Step: r.ec.Step, Descriptor: r.current, Output: analysis})
	r.result.Outcome = OutcomeImageAnalysis
	r.result.FinalResult = analysis
	return StateDone, "analysis recorded"
}

func (r *run) afterCall() (State, string) {
	if r.current.SavesNothing() {
		r.result.Outcome = OutcomeCompleted
		r.result.FinalResult = r.output
		return StateDone, "nothing to save"
	}

	// The corrective prompt carries both endpoints, so it keeps the prior
	// context rather than the output just saved.
	if r.ec.ReadyForRoute() {
		fn, ok := plan.NextAction(r.current.Chain, r.ec.Executed, r.ec.Params)
		if ok && fn == action.GetRouteToDestination {
			return StateCustomPromptReasoning, "route endpoints known"
		}
		if !ok {
			r.result.Outcome = OutcomeCompleted
			r.result.FinalResult = r.output
			return StateDone, "chain complete"
		}
	}

	r.prior = r.output
	return StateReasoning, "continue with saved " + r.current.ParameterToSave
}

func (r *run) exhausted() (State, string) {
	if r.ec.ReadyForRoute() && !r.ec.Executed.Has(action.GetRouteToDestination) {
		r.logger.Info("step budget spent, computing route from known endpoints")
		d := r.backfill(plan.Synthesize(action.GetRouteToDestination, r.current.Chain, r.ec.Params))
		r.execute(d)
		r.result.Outcome = OutcomeRescued
		r.result.FinalResult = r.output
		return StateDone, "rescued with route"
	}

	r.logger.Warn("step budget spent", "max_steps", r.ec.MaxSteps)
	return r.fail(OutcomeStepLimit, msgStepLimit, ErrStepLimit), "step limit"
}

func (r *run) fail(outcome Outcome, final string, err error) State {
	r.result.Outcome = outcome
	r.result.FinalResult = final
	r.result.Err = err
	return StateTerminated
}
