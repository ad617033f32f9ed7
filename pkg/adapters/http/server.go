package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/api"
	"github.com/aretw0/thicket/pkg/config"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/observability"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/aretw0/thicket/pkg/task"
)

// MaxRequestBytes bounds the size of a solve request body.
const MaxRequestBytes = 1 << 20

// Server serves planning requests over HTTP.
type Server struct {
	Store     ports.PlanStore
	Streams   *StreamManager
	Collector *observability.Collector
	Defaults  config.Search
	Logger    *slog.Logger
	// MaxTime caps every request's search time. Zero leaves it to the request.
	MaxTime time.Duration

	openapi    *openapi3.T
	solveRoute *routers.Route
}

// Option configures the Server.
type Option func(*Server)

// WithCollector exports run metrics on /metrics.
func WithCollector(c *observability.Collector) Option {
	return func(s *Server) { s.Collector = c }
}

// WithDefaults sets the configuration used for fields a request omits.
func WithDefaults(cfg config.Search) Option {
	return func(s *Server) { s.Defaults = cfg }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithMaxTime caps the search time of every request.
func WithMaxTime(d time.Duration) Option {
	return func(s *Server) { s.MaxTime = d }
}

// NewServer creates a server. A nil store disables persistence and the
// /v1/plans routes answer 404.
func NewServer(store ports.PlanStore, opts ...Option) *Server {
	s := &Server{
		Store:    store,
		Defaults: config.Default(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.Logger)

	doc, err := api.Load()
	if err != nil {
		s.Logger.Error("openapi document unavailable, request validation disabled", "error", err)
		return s
	}
	s.openapi = doc
	if item := doc.Paths.Find("/v1/solve"); item != nil && item.Post != nil {
		s.solveRoute = &routers.Route{
			Spec:      doc,
			Path:      "/v1/solve",
			PathItem:  item,
			Method:    http.MethodPost,
			Operation: item.Post,
		}
	}
	return s
}

// NewHandler creates the HTTP handler for a plan store.
func NewHandler(store ports.PlanStore, opts ...Option) http.Handler {
	return NewServer(store, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.Raw())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.Solve)
		r.Get("/events", s.SubscribeEvents)
		r.Get("/plans", s.ListPlans)
		r.Get("/plans/{id}", s.GetPlan)
		r.Delete("/plans/{id}", s.DeletePlan)
	})

	if s.Collector != nil {
		reg := prometheus.NewRegistry()
		reg.MustRegister(s.Collector)
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Thicket API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SolveRequest is the body of POST /v1/solve. Task and Config use the same
// schema as the YAML files accepted by the CLI.
type SolveRequest struct {
	Task   map[string]any `json:"task"`
	Config map[string]any `json:"config,omitempty"`
	Save   bool           `json:"save,omitempty"`
}

// SolveResponse summarizes a finished run.
type SolveResponse struct {
	RunID      string                 `json:"run_id"`
	Task       string                 `json:"task"`
	Search     string                 `json:"search"`
	Status     domain.SearchStatus    `json:"status"`
	Cost       int                    `json:"cost"`
	Steps      []domain.PlanStep      `json:"steps"`
	Statistics observability.Snapshot `json:"statistics"`
	ElapsedMS  int64                  `json:"elapsed_ms"`
	Saved      bool                   `json:"saved"`
}

// ErrorResponse is written for every failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Solve handles POST /v1/solve.
func (s *Server) Solve(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	if err != nil {
		s.Logger.Warn("solve: unreadable request body", "error", err)
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := s.validateSolve(r, raw); err != nil {
		s.Logger.Warn("solve: request rejected by schema", "error", err)
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var body SolveRequest
	if err := json.Unmarshal(raw, &body); err != nil {
		s.Logger.Warn("solve: invalid request body", "error", err)
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.Task == nil {
		s.writeError(w, http.StatusBadRequest, errors.New("task is required"))
		return
	}

	doc, err := task.Decode(body.Task)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := task.Compile(doc)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg, err := s.requestConfig(body.Config)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	planner, err := thicket.New(t,
		thicket.WithConfig(cfg),
		thicket.WithLogger(s.Logger),
		thicket.WithCollector(s.Collector),
		thicket.WithLifecycleHooks(s.broadcastHooks()),
	)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := planner.Solve(r.Context())
	if err != nil {
		s.Logger.Error("solve failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := SolveResponse{
		RunID:      res.RunID,
		Task:       res.Task,
		Search:     res.Search,
		Status:     res.Status,
		Cost:       res.Cost,
		Steps:      res.Steps,
		Statistics: res.Statistics,
		ElapsedMS:  res.Elapsed.Milliseconds(),
	}
	if resp.Steps == nil {
		resp.Steps = []domain.PlanStep{}
	}
	if body.Save && s.Store != nil {
		if err := res.Save(r.Context(), s.Store); err != nil {
			s.Logger.Error("solve: save failed", "run_id", res.RunID, "error", err)
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp.Saved = true
	}
	s.Streams.Broadcast(StreamEvent{RunID: res.RunID, Type: "finished", Data: resp})
	s.writeJSON(w, http.StatusOK, resp)
}

// validateSolve checks the body against the OpenAPI schema of POST /v1/solve.
// A missing Content-Type is read as JSON.
func (s *Server) validateSolve(r *http.Request, raw []byte) error {
	if s.solveRoute == nil {
		return nil
	}
	req := r.Clone(r.Context())
	req.Body = io.NopCloser(bytes.NewReader(raw))
	req.ContentLength = int64(len(raw))
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
		Request:     req,
		QueryParams: req.URL.Query(),
		Route:       s.solveRoute,
	})
}

func (s *Server) requestConfig(raw map[string]any) (config.Search, error) {
	cfg, err := config.Overlay(s.Defaults, raw)
	if err != nil {
		return cfg, err
	}
	if s.MaxTime > 0 && (cfg.MaxTime == 0 || cfg.MaxTime > s.MaxTime) {
		cfg.MaxTime = s.MaxTime
	}
	return cfg, nil
}

func (s *Server) broadcastHooks() domain.LifecycleHooks {
	publish := func(ctx context.Context, typ domain.EventType, data any) {
		runID, _ := thicket.RunIDFromContext(ctx)
		s.Streams.Broadcast(StreamEvent{RunID: runID, Type: string(typ), Data: data})
	}
	return domain.LifecycleHooks{
		OnProgress: func(ctx context.Context, e *domain.ProgressEvent) { publish(ctx, e.Type, e) },
		OnFJump:    func(ctx context.Context, e *domain.FJumpEvent) { publish(ctx, e.Type, e) },
		OnSolved:   func(ctx context.Context, e *domain.SolvedEvent) { publish(ctx, e.Type, e) },
	}
}

// ListPlans handles GET /v1/plans.
func (s *Server) ListPlans(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		s.writeError(w, http.StatusNotFound, errors.New("plan store disabled"))
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.Logger.Error("list plans failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"plans": ids})
}

// GetPlan handles GET /v1/plans/{id}.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		s.writeError(w, http.StatusNotFound, errors.New("plan store disabled"))
		return
	}
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	record, err := s.Store.Load(r.Context(), id)
	if errors.Is(err, domain.ErrPlanNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.Logger.Error("load plan failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

// DeletePlan handles DELETE /v1/plans/{id}.
func (s *Server) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		s.writeError(w, http.StatusNotFound, errors.New("plan store disabled"))
		return
	}
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.Logger.Error("delete plan failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) planID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter id: %w", err))
		return "", false
	}
	return id, true
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.openapi != nil && s.openapi.Info != nil {
		apiVersion = s.openapi.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "thicket-http",
		"version":     strings.TrimSpace(thicket.Version),
		"api_version": apiVersion,
	})
}

// StreamEvent is one message on the /v1/events stream.
type StreamEvent struct {
	RunID string `json:"run_id"`
	Type  string `json:"type"`
	Data  any    `json:"data"`
}

// StreamManager fans search events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- StreamEvent]struct{}
	logger      *slog.Logger
}

// NewStreamManager reports dropped events to logger. A nil logger discards them.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &StreamManager{
		subscribers: make(map[chan<- StreamEvent]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel. The returned func unregisters and
// closes it.
func (sm *StreamManager) Subscribe() (<-chan StreamEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan StreamEvent, 64)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast never blocks; slow subscribers lose events.
func (sm *StreamManager) Broadcast(ev StreamEvent) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- ev:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping event", "run_id", ev.RunID, "type", ev.Type)
		}
	}
}

// SubscribeEventsParams are the query parameters of GET /v1/events.
type SubscribeEventsParams struct {
	Types *[]string
	RunID *string
}

// SubscribeEvents handles GET /v1/events (SSE). The optional "types" query
// parameter filters by event type, e.g. ?types=progress,solved.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var params SubscribeEventsParams
	if err := runtime.BindQueryParameter("form", false, false, "types", r.URL.Query(), &params.Types); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter types: %w", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "run_id", r.URL.Query(), &params.RunID); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter run_id: %w", err))
		return
	}

	var filter map[string]bool
	if params.Types != nil {
		filter = make(map[string]bool)
		for _, typ := range *params.Types {
			filter[strings.TrimSpace(typ)] = true
		}
	}
	var runID string
	if params.RunID != nil {
		runID = *params.RunID
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if filter != nil && !filter[ev.Type] {
				continue
			}
			if runID != "" && ev.RunID != runID {
				continue
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.Logger.Error("SSE: encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	for _, e := range task.ValidationErrors(err) {
		resp.Details = append(resp.Details, e.Error())
	}
	s.writeJSON(w, status, resp)
}
