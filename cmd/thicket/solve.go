package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aretw0/thicket/internal/cli"
	"github.com/aretw0/thicket/internal/presentation/tui"
	"github.com/aretw0/thicket/pkg/domain"
)

// searchFlags maps command line flags to configuration keys.
var searchFlags = map[string]string{
	"strategy":       "strategy",
	"heuristic":      "heuristic",
	"weight":         "weight",
	"reopen":         "reopen",
	"bound":          "bound",
	"max-time":       "max_time",
	"max-expansions": "max_expansions",
	"cost-type":      "cost_type",
	"preferred":      "preferred",
	"lazy":           "lazy",
	"boost":          "boost",
}

var solveCmd = &cobra.Command{
	Use:   "solve <task.yaml>",
	Short: "Search for a plan",
	Long: `Loads a task file and searches for a plan. Flags override the values of
--config, which override the defaults (A* with h^max).

Exit codes: 0 solved, 11 unsolvable, 12 stopped by a limit or interrupted,
23 out of time, 2 invalid input.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		planFile, _ := cmd.Flags().GetString("plan-file")
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		watch, _ := cmd.Flags().GetBool("watch")

		overrides := map[string]any{}
		cmd.Flags().Visit(func(f *pflag.Flag) {
			if key, ok := searchFlags[f.Name]; ok {
				overrides[key] = f.Value.String()
			}
		})

		opts := cli.SolveOptions{
			TaskPath:   args[0],
			ConfigPath: configPath,
			Overrides:  overrides,
			PlanFile:   planFile,
			Store:      storeOptions(cmd),
			JSON:       jsonMode,
			Quiet:      quiet,
			Log:        logOptions(cmd),
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if watch {
			if jsonMode || quiet {
				fmt.Fprintln(os.Stderr, "Error: --watch cannot be combined with --json or --quiet")
				os.Exit(cli.ExitInputError)
			}
			tui.PrintBanner(os.Stdout)
			if err := cli.RunWatch(ctx, opts, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(cli.ExitCode(nil, err))
			}
			return
		}

		res, err := cli.RunSolve(ctx, opts, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if sig := ctx.Signal(); sig != nil && !quiet {
			fmt.Fprintf(os.Stderr, "\nSearch interrupted by %v\n", sig)
		}
		os.Exit(cli.ExitCode(res, err))
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)

	f := solveCmd.Flags()
	f.StringP("config", "c", "", "Search configuration file (YAML or JSON)")
	f.StringP("strategy", "s", "astar", "Search strategy: astar, wastar, gbfs or ucs")
	f.StringP("heuristic", "H", "hmax", "Heuristic: zero, blind, goalcount, hmax or hadd")
	f.Int("weight", 1, "Heuristic weight for wastar")
	f.Bool("reopen", false, "Reopen closed nodes reached on cheaper paths (default depends on strategy)")
	f.Int("bound", 0, "Prune nodes whose real g reaches this bound (default unbounded)")
	f.Duration("max-time", 0, "Stop after this much wall-clock time")
	f.Int64("max-expansions", 0, "Stop after this many expansions")
	f.String("cost-type", "normal", "Operator cost adjustment: normal, one or plusone")
	f.Bool("preferred", false, "Alternate with a queue of preferred successors")
	f.Bool("lazy", false, "Re-evaluate popped nodes with a cached heuristic (astar only)")
	f.Int("boost", domain.DefaultBoost, "Priority boost for the preferred queue on progress")
	f.StringP("plan-file", "o", "", "Write the plan to this file")
	f.Bool("json", false, "Print the result as JSON")
	f.BoolP("quiet", "q", false, "Print nothing; rely on the exit code")
	f.BoolP("watch", "w", false, "Solve again whenever the task or config file changes")
	addStoreFlags(solveCmd, cli.StoreNone)
}
