package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/internal/presentation/tui"
	"github.com/aretw0/thicket/pkg/config"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/task"
)

// Exit codes follow the planner families: 1x search outcomes, 2x resource limits.
const (
	ExitSolved             = 0
	ExitError              = 1
	ExitInputError         = 2
	ExitUnsolvable         = 11
	ExitUnsolvedIncomplete = 12
	ExitTimeout            = 23
)

// InputError marks failures caused by the user's files or flags.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// ExitCode maps the outcome of a solve to a process exit code.
func ExitCode(res *thicket.Result, err error) int {
	var inputErr *InputError
	switch {
	case errors.As(err, &inputErr), errors.Is(err, domain.ErrInvalidConfig), errors.Is(err, domain.ErrLazyEvaluatorNotCaching):
		return ExitInputError
	case err != nil:
		return ExitError
	case res == nil:
		return ExitError
	}
	switch res.Status {
	case domain.StatusSolved:
		return ExitSolved
	case domain.StatusFailed:
		return ExitUnsolvable
	case domain.StatusTimeout:
		return ExitTimeout
	}
	return ExitUnsolvedIncomplete
}

// SolveOptions contains all the configuration for the solve command.
type SolveOptions struct {
	TaskPath   string
	ConfigPath string
	// Overrides holds the config keys set on the command line.
	Overrides map[string]any
	// PlanFile receives the plan in the conventional one-operator-per-line format.
	PlanFile string
	Store    StoreOptions
	JSON     bool
	Quiet    bool
	Log      LogOptions
}

// LoadSearchConfig reads the config file (if any) and applies overrides.
func LoadSearchConfig(path string, overrides map[string]any) (config.Search, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, &InputError{Err: err}
		}
	}
	cfg, err := config.Overlay(cfg, overrides)
	if err != nil {
		return cfg, &InputError{Err: err}
	}
	return cfg, nil
}

// RunSolve loads the task, searches, and reports to out.
func RunSolve(ctx context.Context, opts SolveOptions, out io.Writer) (*thicket.Result, error) {
	logger := CreateLogger(opts.Log)

	t, err := task.LoadFile(opts.TaskPath)
	if err != nil {
		return nil, &InputError{Err: err}
	}
	cfg, err := LoadSearchConfig(opts.ConfigPath, opts.Overrides)
	if err != nil {
		return nil, err
	}

	planner, err := thicket.New(t,
		thicket.WithConfig(cfg),
		thicket.WithLogger(logger),
		thicket.WithLifecycleHooks(createDebugHooks(logger)),
	)
	if err != nil {
		return nil, &InputError{Err: err}
	}

	store, closeStore, err := OpenStore(opts.Store)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	res, err := planner.Solve(ctx)
	if err != nil {
		return res, err
	}

	if opts.PlanFile != "" && res.Solved() {
		if err := writePlanFile(opts.PlanFile, res); err != nil {
			return res, err
		}
	}
	if store != nil {
		if err := res.Save(ctx, store); err != nil {
			return res, err
		}
		logger.Info("plan saved", "run_id", res.RunID, "store", opts.Store.Kind)
	}

	switch {
	case opts.JSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return res, enc.Encode(res.Record())
	case !opts.Quiet:
		return res, tui.PrintReport(out, res)
	}
	return res, nil
}

func writePlanFile(path string, res *thicket.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	if err := res.WritePlan(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return f.Close()
}

// ValidateTask compiles a task file and prints a summary.
func ValidateTask(path string, out io.Writer) error {
	t, err := task.LoadFile(path)
	if err != nil {
		if details := task.ValidationErrors(err); len(details) > 0 {
			for _, e := range details {
				fmt.Fprintf(out, "  - %v\n", e)
			}
		}
		return &InputError{Err: err}
	}
	fmt.Fprintf(out, "Task %q is valid: %d variables, %d operators, %d axioms, %d goal facts\n",
		t.Name(), t.NumVariables(), t.NumOperators(), t.NumAxioms(), len(t.Goals()))
	return nil
}
