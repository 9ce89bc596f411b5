package hierarchy

import "slices"

// Position is the resolved place of a member in the referral forest.
type Position struct {
	Level int      // 0 for roots
	Path  []string // root-first ancestor chain ending with the member itself
}

// Levels holds the output of [ResolveLevels].
type Levels struct {
	byID   map[string]Position
	cycles [][]string
}

// Get returns the position of id. Referrers that are not members are present
// as implicit roots.
func (l *Levels) Get(id string) (Position, bool) {
	p, ok := l.byID[id]
	return p, ok
}

// Len returns the number of resolved ids, including implicit roots.
func (l *Levels) Len() int { return len(l.byID) }

// Cycles returns the referral cycles found during resolution. Each cycle is
// listed in referrer order starting from the member first reached.
func (l *Levels) Cycles() [][]string { return l.cycles }

// ResolveLevels computes level and upstream path for every member of g.
//
// Members are visited in g's order. From each unresolved member the resolver
// climbs referrer links, pushing members onto a chain, until it reaches an
// already resolved id, a root, or an id already on the chain. In the last
// case the chain from that id upward is a cycle and every member on it
// becomes a root. The chain is then unwound so each member is resolved from
// its referrer exactly once.
func ResolveLevels(g ReferrerLookup) *Levels {
	members := g.Members()
	l := &Levels{byID: make(map[string]Position, len(members))}

	var chain []string
	onChain := make(map[string]int)

	for _, start := range members {
		if _, done := l.byID[start]; done {
			continue
		}

		chain = chain[:0]
		clear(onChain)

		for cur := start; ; {
			if _, done := l.byID[cur]; done {
				break
			}
			if k, visiting := onChain[cur]; visiting {
				cycle := slices.Clone(chain[k:])
				for _, id := range cycle {
					l.byID[id] = rootPosition(id)
				}
				l.cycles = append(l.cycles, cycle)
				chain = chain[:k]
				break
			}
			r, ok := g.Referrer(cur)
			if !ok || r == cur {
				l.byID[cur] = rootPosition(cur)
				break
			}
			onChain[cur] = len(chain)
			chain = append(chain, cur)
			cur = r
		}

		for i := len(chain) - 1; i >= 0; i-- {
			id := chain[i]
			r, _ := g.Referrer(id)
			parent := l.byID[r]
			path := make([]string, len(parent.Path), len(parent.Path)+1)
			copy(path, parent.Path)
			l.byID[id] = Position{Level: parent.Level + 1, Path: append(path, id)}
		}
	}
	return l
}

func rootPosition(id string) Position {
	return Position{Level: 0, Path: []string{id}}
}
