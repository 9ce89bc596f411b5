// Package pkg provides the libraries behind the referraltree CLI.
//
// # Overview
//
// referraltree reads a flat member table in which every row names the member
// who referred it, and computes for every member its level in the referral
// forest, its upstream path, and its direct and total downstream counts.
//
// # Architecture
//
// The typical data flow:
//
//	.csv / .tsv / .xlsx
//	         ↓
//	    [tablefile] package (load into a [table])
//	         ↓
//	    [hierarchy] package (graph, levels, downstream counts)
//	         ↓
//	    [tablefile] again (save with result columns appended)
//
// [pipeline] runs these stages with logging and [observability] hooks.
// [render] draws the same forest as a Graphviz diagram.
//
// [tablefile]: github.com/matzehuels/referraltree/pkg/tablefile
// [table]: github.com/matzehuels/referraltree/pkg/table
// [hierarchy]: github.com/matzehuels/referraltree/pkg/hierarchy
// [pipeline]: github.com/matzehuels/referraltree/pkg/pipeline
// [observability]: github.com/matzehuels/referraltree/pkg/observability
// [render]: github.com/matzehuels/referraltree/pkg/render
package pkg
