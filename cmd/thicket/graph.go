package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/internal/cli"
	"github.com/aretw0/thicket/internal/presentation/graph"
	"github.com/aretw0/thicket/pkg/task"
)

var graphCmd = &cobra.Command{
	Use:   "graph <task.yaml>",
	Short: "Export the reachable state space as a Mermaid diagram",
	Long: `Enumerates reachable states breadth-first up to --limit and prints a Mermaid
flowchart (graph TD). With --plan the plan found by the default search is
highlighted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		withPlan, _ := cmd.Flags().GetBool("plan")

		t, err := task.LoadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading task: %v\n", err)
			os.Exit(cli.ExitInputError)
		}

		g, err := graph.Explore(t, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exploring task: %v\n", err)
			os.Exit(cli.ExitError)
		}

		var overlay *graph.Overlay
		if withPlan {
			planner, err := thicket.New(t, thicket.WithLogger(cli.CreateLogger(logOptions(cmd))))
			if err == nil {
				var res *thicket.Result
				if res, err = planner.Solve(cmd.Context()); err == nil && res.Solved() {
					overlay = g.PlanOverlay(res.Plan)
				}
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error solving task: %v\n", err)
			}
		}

		fmt.Print(graph.GenerateMermaid(g, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Int("limit", graph.DefaultLimit, "Maximum number of states to draw")
	graphCmd.Flags().Bool("plan", false, "Highlight the plan")
}
