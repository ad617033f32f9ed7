/*
Package domain contains the core domain models for the Thicket search engine.

It defines the handles and value types shared by every other package: states,
operators, node and search statuses, plans and the sentinel errors returned by
the engine. This package is kept pure and free of external dependencies like
I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - StateID / OperatorID: dense integer handles into the state store and the task.
  - State: an unpacked view of a registered world state.
  - NodeStatus: lifecycle of a search node (New, Open, Closed, DeadEnd).
  - SearchStatus: outcome of a search run (Solved, Failed, Timeout, ...).
  - Plan: the operator sequence leading from the initial state to a goal.
*/
package domain
