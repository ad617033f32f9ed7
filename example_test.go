package thicket_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/pkg/config"
	"github.com/aretw0/thicket/pkg/dsl"
)

func ExamplePlanner_Solve() {
	b := dsl.New("corridor").
		Var("at", "a", "b", "c").
		Init("at", "a").
		Goal("at", "c")
	b.Op("ab").Cost(2).Pre("at", "a").Set("at", "b")
	b.Op("bc").Cost(1).Pre("at", "b").Set("at", "c")
	b.Op("ac").Cost(5).Pre("at", "a").Set("at", "c")

	cfg := config.Default()
	cfg.Heuristic = config.HeuristicHAdd
	cfg.Strategy = config.StrategyWAStar
	cfg.Weight = 1

	planner, err := thicket.New(b.MustBuild(), thicket.WithConfig(cfg))
	if err != nil {
		log.Fatal(err)
	}
	res, err := planner.Solve(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Status)
	if err := res.WritePlan(os.Stdout); err != nil {
		log.Fatal(err)
	}
	// Output:
	// solved
	// (ab)
	// (bc)
	// ; cost = 3
}
