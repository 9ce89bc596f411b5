package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/referraltree/pkg/hierarchy"
	"github.com/matzehuels/referraltree/pkg/observability"
	"github.com/matzehuels/referraltree/pkg/table"
	"github.com/matzehuels/referraltree/pkg/tablefile"
)

// Runner executes runs. It holds no per-run state, so one Runner can serve
// concurrent runs with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger means log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → compute → save pipeline.
//
// Referral cycles are broken and reported in the result. With
// Options.FailOnCycle they fail the run with CYCLE_DETECTED before anything
// is written.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result, err := r.analyze(ctx, opts)
	if err != nil {
		return nil, err
	}

	if opts.FailOnCycle {
		if err := result.Hierarchy.CycleError(); err != nil {
			return nil, err
		}
	}

	saveStart := time.Now()
	hooks := observability.Pipeline()
	hooks.OnSaveStart(ctx, opts.Output)
	out, written, err := r.save(ctx, opts, result)
	hooks.OnSaveComplete(ctx, written, time.Since(saveStart), err)
	if err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	result.Table = out
	result.OutputPath = written
	result.Stats.SaveTime = time.Since(saveStart)

	opts.Logger.Info("saved results",
		"path", written,
		"duration", result.Stats.SaveTime)
	if written != opts.Output {
		opts.Logger.Warn("output path already existed, wrote alongside it",
			"requested", opts.Output,
			"written", written)
	}

	return result, nil
}

// Analyze loads and computes without writing an output file.
func (r *Runner) Analyze(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, err
	}
	return r.analyze(ctx, opts)
}

func (r *Runner) analyze(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	hooks := observability.Pipeline()
	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	hooks.OnLoadStart(ctx, opts.Input)
	t, err := tablefile.Load(opts.Input, tablefile.Options{Sheet: opts.Sheet})
	rows := 0
	if t != nil {
		rows = t.Len()
	}
	hooks.OnLoadComplete(ctx, opts.Input, rows, time.Since(loadStart), err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Input = t
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rows = t.Len()

	logger.Info("loaded table",
		"path", opts.Input,
		"rows", t.Len(),
		"columns", len(t.Columns()),
		"duration", result.Stats.LoadTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Compute
	computeStart := time.Now()
	hooks.OnComputeStart(ctx, t.Len())
	g, res, err := compute(ctx, logger, t, opts)
	members, cycles := 0, 0
	if res != nil {
		members, cycles = g.MemberCount(), len(res.Cycles())
	}
	hooks.OnComputeComplete(ctx, members, cycles, time.Since(computeStart), err)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Hierarchy = res
	result.Summary = res.Summarize(g)
	result.Stats.Members = g.MemberCount()
	result.Stats.ComputeTime = time.Since(computeStart)

	logger.Info("resolved hierarchy",
		"members", g.MemberCount(),
		"levels", result.Summary.DistinctLevels,
		"max_level", result.Summary.MaxLevel,
		"duration", result.Stats.ComputeTime)
	logAnomalies(logger, g, res)

	return result, nil
}

func compute(ctx context.Context, logger *log.Logger, t *table.Table, opts Options) (*hierarchy.Graph, *hierarchy.Result, error) {
	g, err := hierarchy.BuildGraph(t, opts.buildOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("build graph: %w", err)
	}
	logger.Debug("built graph",
		"members", g.MemberCount(),
		"ghosts", len(g.Ghosts()))

	res, err := hierarchy.Compute(ctx, g)
	if err != nil {
		return nil, nil, fmt.Errorf("compute: %w", err)
	}
	return g, res, nil
}

func (r *Runner) save(ctx context.Context, opts Options, result *Result) (*table.Table, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	out, err := hierarchy.Assemble(result.Input, result.Graph, result.Hierarchy, opts.Separator)
	if err != nil {
		return nil, "", err
	}
	written, err := tablefile.Save(out, opts.Output, tablefile.Options{Sheet: opts.Sheet})
	if err != nil {
		return nil, "", err
	}
	return out, written, nil
}

func logAnomalies(logger *log.Logger, g *hierarchy.Graph, res *hierarchy.Result) {
	if cycles := res.Cycles(); len(cycles) > 0 {
		logger.Warn("broke referral cycles",
			"cycles", len(cycles),
			"members", res.CycleMembers())
	}
	if dups := g.Duplicates(); len(dups) > 0 {
		logger.Warn("duplicate member ids, later rows win",
			"count", len(dups),
			"ids", dups)
	}
	if blank := g.BlankRows(); len(blank) > 0 {
		logger.Debug("rows without member id", "count", len(blank))
	}
	if self := g.SelfReferrals(); len(self) > 0 {
		logger.Debug("self-referrals treated as roots", "ids", self)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
