package hierarchy

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/referraltree/pkg/errors"
)

// Result combines the outputs of both computation phases for one graph.
type Result struct {
	Levels     *Levels
	Downstream *Downstream
}

// Compute resolves levels and aggregates downstream counts for g. The two
// phases only read g and write their own result, so they run in parallel.
// Referral cycles never fail the computation; see [Result.CycleError].
func Compute(ctx context.Context, g *Graph) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &Result{}

	var eg errgroup.Group
	eg.Go(func() error {
		res.Levels = ResolveLevels(g)
		return nil
	})
	eg.Go(func() error {
		res.Downstream = AggregateDownstream(g)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Cycles returns the referral cycles broken during resolution.
func (r *Result) Cycles() [][]string { return r.Levels.Cycles() }

// CycleMembers returns every member that was on a cycle, sorted.
func (r *Result) CycleMembers() []string {
	var ids []string
	for _, c := range r.Levels.Cycles() {
		ids = append(ids, c...)
	}
	slices.Sort(ids)
	return ids
}

// CycleError returns a CYCLE_DETECTED error naming the affected members, or
// nil when the graph had no cycle. Callers that treat cycles as fatal return
// it; everyone else only reports it.
func (r *Result) CycleError() error {
	cycles := r.Levels.Cycles()
	if len(cycles) == 0 {
		return nil
	}
	parts := make([]string, len(cycles))
	for i, c := range cycles {
		parts[i] = strings.Join(c, " -> ")
	}
	return errors.New(errors.ErrCodeCycleDetected, "%d referral cycle(s) broken: %s", len(cycles), strings.Join(parts, "; "))
}

// Row returns the four computed fields for member id.
func (r *Result) Row(id string) (Position, Counts, error) {
	pos, ok := r.Levels.Get(id)
	if !ok {
		return Position{}, Counts{}, errors.New(errors.ErrCodeInternal, "member %q was not resolved", id)
	}
	return pos, r.Downstream.Get(id), nil
}

// LevelCount is the number of members found at one level.
type LevelCount struct {
	Level   int
	Members int
}

// Summary describes a resolved graph.
type Summary struct {
	Rows           int
	Members        int
	Roots          int
	DistinctLevels int
	MaxLevel       int
	Levels         []LevelCount // ascending by level
	CycleMembers   int
	Duplicates     int
	SelfReferrals  int
	BlankRows      int
	Ghosts         int
}

// String formats the headline numbers of the summary.
func (s Summary) String() string {
	return fmt.Sprintf("%d levels, max level %d (%d members, %d roots)", s.DistinctLevels, s.MaxLevel, s.Members, s.Roots)
}

// Summarize computes level statistics over the distinct members of g.
// Implicit root referrers and blank-id rows do not count as members.
func (r *Result) Summarize(g *Graph) Summary {
	s := Summary{
		Rows:          g.Rows(),
		Members:       g.MemberCount(),
		CycleMembers:  len(r.CycleMembers()),
		Duplicates:    len(g.Duplicates()),
		SelfReferrals: len(g.SelfReferrals()),
		BlankRows:     len(g.BlankRows()),
		Ghosts:        len(g.Ghosts()),
	}

	perLevel := make(map[int]int)
	for _, m := range g.Members() {
		pos, ok := r.Levels.Get(m)
		if !ok {
			continue
		}
		perLevel[pos.Level]++
		if pos.Level == 0 {
			s.Roots++
		}
		s.MaxLevel = max(s.MaxLevel, pos.Level)
	}

	s.DistinctLevels = len(perLevel)
	for _, lvl := range slices.Sorted(maps.Keys(perLevel)) {
		s.Levels = append(s.Levels, LevelCount{Level: lvl, Members: perLevel[lvl]})
	}
	return s
}
