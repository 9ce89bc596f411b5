// Package pipeline runs a complete referral analysis.
//
// The CLI and tests share this package so a table is always processed the
// same way, whichever entry point starts the run.
//
// # Architecture
//
// A run has three stages:
//
//  1. Load: read the member table from disk ([tablefile.Load])
//  2. Compute: build the referrer graph, resolve levels and aggregate
//     downstream counts ([hierarchy.BuildGraph], [hierarchy.Compute])
//  3. Save: append the result columns and write a new file
//     ([hierarchy.Assemble], [tablefile.Save])
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:          "members.xlsx",
//	    MemberColumn:   "Member ID",
//	    ReferrerColumn: "Referred By",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary, "written to", result.OutputPath)
//
// [Runner.Analyze] stops after the compute stage and writes nothing.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/referraltree/pkg/errors"
	"github.com/matzehuels/referraltree/pkg/hierarchy"
	"github.com/matzehuels/referraltree/pkg/table"
	"github.com/matzehuels/referraltree/pkg/tablefile"
)

// DefaultSeparator joins upstream path ids in the output column.
const DefaultSeparator = hierarchy.DefaultPathSeparator

// Options contains all configuration for one run.
type Options struct {
	// Input options
	Input          string
	Sheet          string // worksheet for .xlsx input; empty means the first
	MemberColumn   string
	ReferrerColumn string
	StrictIDs      bool // fail on duplicate member ids
	RawIDs         bool // compare ids exactly as read

	// Output options
	Output      string // empty means tablefile.DefaultOutputPath(Input)
	Separator   string
	FailOnCycle bool

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a run.
type Result struct {
	// Input is the table as loaded.
	Input *table.Table

	// Table is the assembled output table. Nil after Analyze.
	Table *table.Table

	// Graph is the referrer graph built from the input.
	Graph *hierarchy.Graph

	// Hierarchy holds the resolved levels and downstream counts.
	Hierarchy *hierarchy.Result

	// Summary describes the resolved forest.
	Summary hierarchy.Summary

	// OutputPath is the file actually written, which differs from
	// Options.Output when that path already existed.
	OutputPath string

	// Stats contains timing and size information.
	Stats Stats
}

// Cycles returns the referral cycles broken during the run.
func (r *Result) Cycles() [][]string {
	if r.Hierarchy == nil {
		return nil
	}
	return r.Hierarchy.Cycles()
}

// Stats contains run statistics.
type Stats struct {
	Rows        int
	Members     int
	LoadTime    time.Duration
	ComputeTime time.Duration
	SaveTime    time.Duration
}

// ValidateAndSetDefaults checks required fields and applies defaults for a
// full run. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForAnalyze(); err != nil {
		return err
	}
	if o.Output == "" {
		o.Output = tablefile.DefaultOutputPath(o.Input)
	}
	if err := errors.ValidatePath(o.Output); err != nil {
		return err
	}
	if _, err := tablefile.DetectFormat(o.Output); err != nil {
		return err
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	o.validated = true
	return nil
}

// ValidateForAnalyze checks the fields needed to load and compute.
func (o *Options) ValidateForAnalyze() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input path is required")
	}
	if err := errors.ValidatePath(o.Input); err != nil {
		return err
	}
	if err := errors.ValidateColumnName(o.MemberColumn); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "member column")
	}
	if err := errors.ValidateColumnName(o.ReferrerColumn); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "referrer column")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

func (o *Options) buildOptions() hierarchy.BuildOptions {
	return hierarchy.BuildOptions{
		MemberColumn:   o.MemberColumn,
		ReferrerColumn: o.ReferrerColumn,
		StrictIDs:      o.StrictIDs,
		RawIDs:         o.RawIDs,
	}
}
