// Package hierarchy resolves referral trees from flat member records.
//
// Each member row names at most one referrer. From those parent pointers the
// package computes, for every member, its depth in the referral forest
// (level), the chain of ancestors ending at the member (upstream path), the
// number of members it referred directly, and the number of members below it
// transitively.
//
// # Pipeline
//
// The computation runs in four steps:
//
//  1. [BuildGraph] turns table rows into a [Graph]: member → referrer and
//     referrer → direct downstream members, both in input row order.
//  2. [ResolveLevels] computes level and upstream path per member.
//  3. [AggregateDownstream] computes direct and total downstream counts.
//  4. [Assemble] appends the four result columns to the original rows.
//
// Steps 2 and 3 only read the graph and are independent; [Compute] runs them
// concurrently.
//
// # Roots and Cycles
//
// A member whose referrer is blank, or equal to its own id, is a root: level
// 0 and path [id]. A referrer that never appears as a member is treated as an
// implicit root, so its downstream members start at level 1.
//
// Malformed input can contain longer referral cycles (A refers B, B refers
// A). Every member on such a cycle is treated as a root and its link to its
// referrer is ignored, so members hanging below the cycle still resolve and
// the outcome does not depend on row order. Cycles are reported on the
// result instead of failing the run.
//
// Both traversals use explicit stacks and per-run memo tables; no subtree or
// ancestor chain is walked twice and deep chains do not grow the goroutine
// stack.
package hierarchy
