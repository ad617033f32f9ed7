/*
Package ports defines the driven ports (interfaces) of the Thicket search engine.

These interfaces decouple the search core from the planning task model, the
heuristic machinery and persistence, so the engine can run against any task
representation and any plan storage backend.

# Key Interfaces

  - Task: read-only access to variables, operators, axioms and the goal.
  - SuccessorGenerator: enumerates applicable operators of a state.
  - PruningMethod: filters applicable operators before expansion.
  - OpenList / OpenListFactory: frontier orderings keyed by evaluator values.
  - PlanStore: persists the outcome of search runs.
  - SearchEngine: the step-wise search loop used by the facade and adapters.
*/
package ports
