// Package evaluators contains reference evaluators that make the search
// engine runnable out of the box: the g evaluator, constants, blind, goal
// count and relaxation heuristics, arithmetic combinators, a preferredness
// evaluator and a per-state caching wrapper.
package evaluators
