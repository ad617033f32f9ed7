/*
Package openlist provides the frontier orderings of the best-first search.

  - BestFirst: a single evaluator, FIFO among equal values.
  - Tiebreaking: a lexicographic tuple of evaluators, FIFO among equal tuples.
  - Alternation: round-robin over sublists, with preferred-only sublists
    boosted whenever the search makes progress.

Every list shares the same insertion gate: entries whose context is not
preferred are dropped by preferred-only lists, and dead ends are never stored.
*/
package openlist
