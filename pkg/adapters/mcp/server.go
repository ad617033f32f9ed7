package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/pkg/config"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/aretw0/thicket/pkg/task"
)

const plansURI = "thicket://plans"

// SolveResponse is the structured output of the solve_task tool.
type SolveResponse struct {
	RunID      string              `json:"run_id" jsonschema_description:"Identifier of the search run"`
	Status     domain.SearchStatus `json:"status" jsonschema_description:"solved, failed, timeout, limit_reached or interrupted"`
	Search     string              `json:"search" jsonschema_description:"Search configuration that was run"`
	Cost       int                 `json:"cost" jsonschema_description:"Plan cost, -1 without a plan"`
	Steps      []domain.PlanStep   `json:"steps" jsonschema_description:"Operators of the plan in order"`
	Statistics map[string]int64    `json:"statistics" jsonschema_description:"Search counters"`
	Saved      bool                `json:"saved" jsonschema_description:"Whether the plan was persisted"`
}

// ValidateResponse is the structured output of the validate_task tool.
type ValidateResponse struct {
	Valid     bool     `json:"valid"`
	Name      string   `json:"name,omitempty"`
	Variables int      `json:"variables"`
	Operators int      `json:"operators"`
	Axioms    int      `json:"axioms"`
	UnitCost  bool     `json:"unit_cost"`
	Errors    []string `json:"errors,omitempty"`
}

// Server exposes the planner as an MCP server.
type Server struct {
	store     ports.PlanStore
	defaults  config.Search
	maxTime   time.Duration
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithDefaults sets the configuration used for fields a call omits.
func WithDefaults(cfg config.Search) Option {
	return func(s *Server) { s.defaults = cfg }
}

// WithMaxTime caps the search time of every call.
func WithMaxTime(d time.Duration) Option {
	return func(s *Server) { s.maxTime = d }
}

// WithLogger sets the logger. Stdio mode owns stdout, so it must not log there.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance. A nil store disables
// persistence.
func NewServer(store ports.PlanStore, opts ...Option) *Server {
	s := &Server{
		store:     store,
		defaults:  config.Default(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("thicket-mcp", strings.TrimSpace(thicket.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	solveTool := mcp.NewTool("solve_task",
		mcp.WithDescription("Solve a planning task with best-first search and return the plan."),
		mcp.WithString("task", mcp.Required(), mcp.Description("Task document in YAML or JSON")),
		mcp.WithString("config", mcp.Description("Search configuration in YAML or JSON (optional)")),
		mcp.WithBoolean("save", mcp.Description("Persist the plan in the plan store")),
		mcp.WithOutputSchema[SolveResponse](),
	)
	s.mcpServer.AddTool(solveTool, mcp.NewStructuredToolHandler(s.handleSolve))

	validateTool := mcp.NewTool("validate_task",
		mcp.WithDescription("Check that a task document compiles and summarize it."),
		mcp.WithString("task", mcp.Required(), mcp.Description("Task document in YAML or JSON")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	getTool := mcp.NewTool("get_plan",
		mcp.WithDescription("Fetch a stored plan by run id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Run id returned by solve_task")),
		mcp.WithOutputSchema[domain.PlanRecord](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetPlan))
}

func (s *Server) handleSolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SolveResponse, error) {
	src, _ := args["task"].(string)
	doc, err := task.Parse([]byte(src), "yaml")
	if err != nil {
		return SolveResponse{}, err
	}
	t, err := task.Compile(doc)
	if err != nil {
		return SolveResponse{}, err
	}

	cfg := s.defaults
	if cfgSrc, ok := args["config"].(string); ok && strings.TrimSpace(cfgSrc) != "" {
		raw := map[string]any{}
		if err := yaml.Unmarshal([]byte(cfgSrc), &raw); err != nil {
			return SolveResponse{}, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
		if cfg, err = config.Overlay(s.defaults, raw); err != nil {
			return SolveResponse{}, err
		}
	}
	if s.maxTime > 0 && (cfg.MaxTime == 0 || cfg.MaxTime > s.maxTime) {
		cfg.MaxTime = s.maxTime
	}

	planner, err := thicket.New(t, thicket.WithConfig(cfg), thicket.WithLogger(s.logger))
	if err != nil {
		return SolveResponse{}, err
	}
	res, err := planner.Solve(ctx)
	if err != nil {
		return SolveResponse{}, err
	}

	resp := SolveResponse{
		RunID:      res.RunID,
		Status:     res.Status,
		Search:     res.Search,
		Cost:       res.Cost,
		Steps:      res.Steps,
		Statistics: res.Statistics.Map(),
	}
	if resp.Steps == nil {
		resp.Steps = []domain.PlanStep{}
	}
	if save, _ := args["save"].(bool); save {
		if s.store == nil {
			return resp, errors.New("plan store disabled")
		}
		if err := res.Save(ctx, s.store); err != nil {
			return resp, err
		}
		resp.Saved = true
	}
	return resp, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	src, _ := args["task"].(string)
	doc, err := task.Parse([]byte(src), "yaml")
	if err != nil {
		return ValidateResponse{Errors: []string{err.Error()}}, nil
	}
	t, err := task.Compile(doc)
	if err != nil {
		resp := ValidateResponse{Name: doc.Name}
		if details := task.ValidationErrors(err); len(details) > 0 {
			for _, e := range details {
				resp.Errors = append(resp.Errors, e.Error())
			}
		} else {
			resp.Errors = []string{err.Error()}
		}
		return resp, nil
	}
	return ValidateResponse{
		Valid:     true,
		Name:      t.Name(),
		Variables: t.NumVariables(),
		Operators: t.NumOperators(),
		Axioms:    t.NumAxioms(),
		UnitCost:  t.IsUnitCost(),
	}, nil
}

func (s *Server) handleGetPlan(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.PlanRecord, error) {
	if s.store == nil {
		return domain.PlanRecord{}, errors.New("plan store disabled")
	}
	id, _ := args["id"].(string)
	record, err := s.store.Load(ctx, id)
	if err != nil {
		return domain.PlanRecord{}, fmt.Errorf("plan %q: %w", id, err)
	}
	return *record, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(plansURI, "Stored Plans",
		mcp.WithMIMEType("application/json"),
	), s.readPlans)
}

func (s *Server) readPlans(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids := []string{}
	if s.store != nil {
		var err error
		if ids, err = s.store.List(ctx); err != nil {
			return nil, fmt.Errorf("failed to list plans: %w", err)
		}
	}
	jsonBytes, _ := json.Marshal(map[string][]string{"plans": ids})

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      plansURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
