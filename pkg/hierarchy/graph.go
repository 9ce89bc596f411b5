package hierarchy

import (
	"strings"

	"github.com/matzehuels/referraltree/pkg/errors"
	"github.com/matzehuels/referraltree/pkg/table"
)

// Ref is a referrer reference. The zero value is the "none" marker, which is
// distinct from every real id including the empty string.
type Ref struct {
	ID    string
	Valid bool
}

// None is the absent-referrer marker.
var None = Ref{}

// ReferrerLookup is the view of a graph needed to resolve levels.
type ReferrerLookup interface {
	// Members returns member ids in first-seen row order.
	Members() []string
	// Referrer returns the referrer of id. ok is false for roots with a
	// blank referrer and for ids that are not members.
	Referrer(id string) (referrer string, ok bool)
}

// DownstreamLookup is the view of a graph needed to aggregate downstream
// counts.
type DownstreamLookup interface {
	// Members returns member ids in first-seen row order.
	Members() []string
	// Downstream returns the direct downstream ids of id in row order.
	Downstream(id string) []string
}

// BuildOptions configures [BuildGraph].
type BuildOptions struct {
	MemberColumn   string // column holding member ids
	ReferrerColumn string // column holding referrer ids

	// StrictIDs fails the build with DUPLICATE_MEMBER when a member id
	// appears on more than one row. Otherwise the later row's referrer wins.
	StrictIDs bool

	// RawIDs disables normalization of integral float spellings such as
	// "1001.0" to "1001".
	RawIDs bool
}

// Graph is the referrer structure derived from one table. It is immutable
// after [BuildGraph] or [NewGraph] returns and safe for concurrent readers.
type Graph struct {
	members    []string
	referrers  map[string]Ref
	downstream map[string][]string

	rowMembers    []string // normalized member id per input row, "" if blank
	duplicates    []string
	selfReferrals []string
	blankRows     []int
}

// Link is one member record used by [NewGraph]. An empty Referrer means none.
type Link struct {
	Member   string
	Referrer string
}

// BuildGraph validates the requested columns and derives the referrer maps
// from t. Missing columns fail with a SCHEMA_ERROR before any row is read.
func BuildGraph(t *table.Table, opts BuildOptions) (*Graph, error) {
	for _, c := range []string{opts.MemberColumn, opts.ReferrerColumn} {
		if err := errors.ValidateColumnName(c); err != nil {
			return nil, err
		}
	}
	if missing := t.Missing(opts.MemberColumn, opts.ReferrerColumn); len(missing) > 0 {
		return nil, errors.NewSchemaError(missing, t.Columns())
	}

	members := t.Column(opts.MemberColumn)
	referrers := t.Column(opts.ReferrerColumn)

	b := newBuilder(t.Len())
	for i := range members {
		member := NormalizeID(members[i], opts.RawIDs)
		referrer := NormalizeID(referrers[i], opts.RawIDs)
		if err := b.add(i, member, referrer, opts.StrictIDs); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

// NewGraph builds a graph directly from links, applying the same rules as
// [BuildGraph] with default options. It is mainly useful in tests and for
// callers that do not start from a table.
func NewGraph(links []Link) *Graph {
	b := newBuilder(len(links))
	for i, l := range links {
		_ = b.add(i, NormalizeID(l.Member, false), NormalizeID(l.Referrer, false), false)
	}
	return b.finish()
}

type builder struct {
	g    *Graph
	seen map[string]bool
}

func newBuilder(rows int) *builder {
	return &builder{
		g: &Graph{
			referrers:  make(map[string]Ref, rows),
			downstream: make(map[string][]string),
			rowMembers: make([]string, 0, rows),
		},
		seen: make(map[string]bool, rows),
	}
}

func (b *builder) add(row int, member, referrer string, strict bool) error {
	g := b.g
	g.rowMembers = append(g.rowMembers, member)
	if member == "" {
		g.blankRows = append(g.blankRows, row)
		return nil
	}

	if b.seen[member] {
		if strict {
			return errors.New(errors.ErrCodeDuplicateMember, "member id %q appears on more than one row (row %d)", member, row+1)
		}
		g.duplicates = appendOnce(g.duplicates, member)
	} else {
		b.seen[member] = true
		g.members = append(g.members, member)
	}

	if referrer == "" {
		g.referrers[member] = None
	} else {
		g.referrers[member] = Ref{ID: referrer, Valid: true}
	}
	return nil
}

// finish derives the downstream map from the final referrer of each member,
// in first-seen member order. Self-referrals are roots and contribute no
// downstream edge.
func (b *builder) finish() *Graph {
	g := b.g
	for _, m := range g.members {
		ref := g.referrers[m]
		if !ref.Valid {
			continue
		}
		if ref.ID == m {
			g.selfReferrals = append(g.selfReferrals, m)
			continue
		}
		g.downstream[ref.ID] = append(g.downstream[ref.ID], m)
	}
	return g
}

func appendOnce(s []string, v string) []string {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

// Members returns distinct member ids in first-seen row order.
func (g *Graph) Members() []string { return g.members }

// MemberCount returns the number of distinct members.
func (g *Graph) MemberCount() int { return len(g.members) }

// IsMember reports whether id appears in the member column.
func (g *Graph) IsMember(id string) bool {
	_, ok := g.referrers[id]
	return ok
}

// Referrer returns the referrer recorded for id. Self-referrals are returned
// as-is; resolvers treat them as roots.
func (g *Graph) Referrer(id string) (string, bool) {
	ref, ok := g.referrers[id]
	if !ok || !ref.Valid {
		return "", false
	}
	return ref.ID, true
}

// RefOf returns the raw referrer reference for id and whether id is a member.
func (g *Graph) RefOf(id string) (Ref, bool) {
	ref, ok := g.referrers[id]
	return ref, ok
}

// Downstream returns the direct downstream ids of id in row order.
func (g *Graph) Downstream(id string) []string { return g.downstream[id] }

// Ghosts returns referrer ids that never appear as members, in the order
// they are first referenced.
func (g *Graph) Ghosts() []string {
	var ghosts []string
	seen := make(map[string]bool)
	for _, m := range g.members {
		ref := g.referrers[m]
		if !ref.Valid || g.IsMember(ref.ID) || seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		ghosts = append(ghosts, ref.ID)
	}
	return ghosts
}

// Rows returns the number of input rows the graph was built from.
func (g *Graph) Rows() int { return len(g.rowMembers) }

// RowMember returns the normalized member id of input row i. ok is false for
// rows with a blank member id.
func (g *Graph) RowMember(i int) (string, bool) {
	m := g.rowMembers[i]
	return m, m != ""
}

// Duplicates returns member ids that appeared on more than one row.
func (g *Graph) Duplicates() []string { return g.duplicates }

// SelfReferrals returns members whose referrer is themselves.
func (g *Graph) SelfReferrals() []string { return g.selfReferrals }

// BlankRows returns zero-based indexes of rows with a blank member id.
func (g *Graph) BlankRows() []int { return g.blankRows }

// noneSpellings are cell values treated as blank, matching what spreadsheet
// exports and dataframe tools write for missing values.
var noneSpellings = map[string]bool{
	"":      true,
	"nan":   true,
	"-nan":  true,
	"null":  true,
	"none":  true,
	"na":    true,
	"n/a":   true,
	"#n/a":  true,
	"<na>":  true,
	"nil":   true,
	"#null": true,
}

// NormalizeID trims s and maps blank spellings to "". Unless raw is set,
// integral float spellings ("1001.0", "-7.00") lose their zero fraction so
// float-typed referrer columns match integer member ids.
func NormalizeID(s string, raw bool) string {
	s = strings.TrimSpace(s)
	if noneSpellings[strings.ToLower(s)] {
		return ""
	}
	if raw {
		return s
	}
	return trimZeroFraction(s)
}

func trimZeroFraction(s string) string {
	dot := strings.IndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return s
	}
	intPart, frac := s[:dot], s[dot+1:]
	digits := strings.TrimLeft(intPart, "+-")
	if len(intPart)-len(digits) > 1 || digits == "" {
		return s
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return s
		}
	}
	for _, r := range frac {
		if r != '0' {
			return s
		}
	}
	return intPart
}
