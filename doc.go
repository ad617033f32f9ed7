/*
Package thicket is a best-first heuristic search engine for finite-domain
planning tasks, in the style of eager A* / greedy best-first search.

A task is a set of finite-domain variables, operators with preconditions
and effects, optional axioms and a goal. The engine interns every reached
state in a packed registry, evaluates successors eagerly and keeps one
search node per state, with optional reopening of closed nodes when a
cheaper path shows up.

# Usage

Load a task, pick a strategy and solve:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/thicket"
		"github.com/aretw0/thicket/pkg/config"
		"github.com/aretw0/thicket/pkg/task"
	)

	func main() {
		tk, err := task.LoadFile("./gripper.yaml")
		if err != nil {
			log.Fatal(err)
		}

		cfg := config.Default()
		cfg.Heuristic = config.HeuristicHAdd
		cfg.Strategy = config.StrategyGBFS
		cfg.Preferred = true

		planner, err := thicket.New(tk, thicket.WithConfig(cfg))
		if err != nil {
			log.Fatal(err)
		}

		res, err := planner.Solve(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Status, res.Cost)
	}

# Layout

  - pkg/task and pkg/dsl: task documents, compilation and a fluent builder.
  - pkg/registry: packed, deduplicated state storage.
  - pkg/evaluation and pkg/evaluators: evaluation contexts and heuristics.
  - pkg/openlist: best-first, tie-breaking and alternation open lists.
  - internal/runtime: the search space and the search loop.
  - pkg/adapters: plan stores (memory, file, Redis, Badger), HTTP and MCP.
*/
package thicket
