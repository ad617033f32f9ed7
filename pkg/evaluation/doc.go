/*
Package evaluation defines the Evaluator capability and the per-state
Evaluation Context that memoizes evaluator results.

An Evaluator maps a state (and its g value) to a Result: an integer estimate
or Infinity for a dead end, plus optional preferred operators. A Context is
built for one (state, g, preferred) triple during a single search step and
guarantees each evaluator is invoked at most once for it.
*/
package evaluation
