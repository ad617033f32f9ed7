/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing Thicket planning tasks.

It allows developers to define tasks using a type-safe, fluent builder pattern
instead of relying on external YAML or JSON files. This is particularly useful for
generated benchmark tasks, unit testing, and embedding the planner in other programs.

Example usage:

	package main

	import (
		"github.com/aretw0/thicket/pkg/dsl"
	)

	func main() {
		b := dsl.New("corridor")

		b.Var("at", "a", "b", "c")
		b.Init("at", "a")
		b.Goal("at", "c")

		b.Op("move-a-b").Pre("at", "a").Set("at", "b")
		b.Op("move-b-c").Cost(2).Pre("at", "b").Set("at", "c")

		t, err := b.Build()
		// ... pass t to thicket.New(...)
	}
*/
package dsl
