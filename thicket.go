package thicket

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/thicket/internal/runtime"
	"github.com/aretw0/thicket/pkg/config"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/observability"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/aretw0/thicket/pkg/strategy"
	"github.com/aretw0/thicket/pkg/task"
)

// Planner is the high-level entry point of the library. It solves one task
// with one search configuration; every Solve builds a fresh engine.
type Planner struct {
	task      *task.Task
	gen       *task.SuccessorGenerator
	search    config.Search
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	collector *observability.Collector
	Name      string
}

// Option defines a functional option for configuring the Planner.
type Option func(*Planner)

// WithConfig selects the search configuration. The default is A* with h^max.
func WithConfig(cfg config.Search) Option {
	return func(p *Planner) {
		p.search = cfg
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Planner) {
		p.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the planner.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithCollector exports every finished run to a Prometheus collector.
func WithCollector(c *observability.Collector) Option {
	return func(p *Planner) {
		p.collector = c
	}
}

// New prepares a planner for t. The configuration is validated here so
// that a bad knob never starts a search.
func New(t *task.Task, opts ...Option) (*Planner, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: task is required", domain.ErrInvalidConfig)
	}
	p := &Planner{
		task:   t,
		gen:    task.NewSuccessorGenerator(t),
		search: config.Default(),
		Name:   t.Name(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.search.Validate(); err != nil {
		return nil, err
	}
	if p.search.Lazy && p.search.Strategy != config.StrategyAStar {
		return nil, fmt.Errorf("%w: lazy re-evaluation is only available for astar", domain.ErrInvalidConfig)
	}

	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.Name != "" {
		p.logger = p.logger.With("task", p.Name)
	}
	return p, nil
}

// Task returns the task being solved.
func (p *Planner) Task() *task.Task {
	return p.task
}

// Config returns the search configuration.
func (p *Planner) Config() config.Search {
	return p.search
}

// Solve runs one search. A run that ends without a plan is not an error;
// check Result.Status.
func (p *Planner) Solve(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	ctx, span := observability.Tracer().Start(ctx, "thicket.solve",
		trace.WithAttributes(
			attribute.String("thicket.run_id", runID),
			attribute.String("thicket.task", p.Name),
		))
	defer span.End()

	ctx = context.WithValue(ctx, runIDKey{}, runID)
	logger := p.logger.With("run_id", runID)
	setup, err := strategy.Build(p.task, p.gen, p.search, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("solving", "search", setup.Description)

	opts := append(setup.Options,
		runtime.WithLogger(logger),
		runtime.WithLifecycleHooks(p.hooks),
	)
	eng, err := runtime.NewEngine(p.task, p.gen, setup.Factory, opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	status, err := eng.Search(ctx)
	elapsed := time.Since(start)

	res := &Result{
		RunID:      runID,
		Task:       p.Name,
		Search:     setup.Description,
		Status:     status,
		Cost:       -1,
		Statistics: eng.Statistics().Snapshot(),
		Elapsed:    elapsed,
	}
	if err != nil {
		return res, fmt.Errorf("search failed: %w", err)
	}
	if status == domain.StatusSolved {
		res.Plan, _ = eng.Plan()
		res.Cost = eng.PlanCost()
		res.Steps = make([]domain.PlanStep, len(res.Plan))
		for i, op := range res.Plan {
			res.Steps[i] = domain.PlanStep{
				Operator: op,
				Name:     p.task.OperatorName(op),
				Cost:     p.task.OperatorCost(op),
			}
		}
	}

	if p.collector != nil {
		p.collector.Observe(string(status), res.Statistics, elapsed, res.Cost)
	}
	span.SetAttributes(attribute.String("thicket.status", string(status)))
	return res, nil
}

type runIDKey struct{}

// RunIDFromContext returns the id of the Solve call that ctx belongs to.
// Lifecycle hooks receive such a context.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok
}

// Result is the outcome of one Solve call.
type Result struct {
	RunID      string
	Task       string
	Search     string
	Status     domain.SearchStatus
	Plan       domain.Plan
	Steps      []domain.PlanStep
	Cost       int // -1 without a plan
	Statistics observability.Snapshot
	Elapsed    time.Duration
}

// Solved reports whether a plan was found.
func (r *Result) Solved() bool {
	return r.Status == domain.StatusSolved
}

// Record converts the result for persistence.
func (r *Result) Record() *domain.PlanRecord {
	return &domain.PlanRecord{
		ID:         r.RunID,
		Task:       r.Task,
		Status:     r.Status,
		Cost:       r.Cost,
		Steps:      append([]domain.PlanStep(nil), r.Steps...),
		Statistics: r.Statistics.Map(),
		CreatedAt:  time.Now().UTC(),
	}
}

// Save persists the result in store under its run id.
func (r *Result) Save(ctx context.Context, store ports.PlanStore) error {
	if err := store.Save(ctx, r.Record()); err != nil {
		return fmt.Errorf("failed to save plan %s: %w", r.RunID, err)
	}
	return nil
}

// WritePlan writes the plan one operator per line followed by its cost,
// the format planners conventionally use for plan files.
func (r *Result) WritePlan(w io.Writer) error {
	if !r.Solved() {
		return domain.ErrNoSolution
	}
	for _, step := range r.Steps {
		if _, err := fmt.Fprintf(w, "(%s)\n", step.Name); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "; cost = %d\n", r.Cost)
	return err
}
