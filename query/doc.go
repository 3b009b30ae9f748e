// Package query provides an immutable, type-safe predicate and projection DSL
// rendered through Bun: typed column paths, conjunctive predicates that treat
// absent constraints as "no constraint", joins, ordering, and fetch helpers
// for list, single, first, count, and counted-list execution.
package query
