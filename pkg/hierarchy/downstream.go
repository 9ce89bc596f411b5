package hierarchy

// Counts holds downstream totals for one member.
//
// Referral links ignored to break a cycle are not counted, so Direct can be
// lower than the number of rows naming the member as referrer, and Total is
// always the sum of 1 + Total over the counted children.
type Counts struct {
	Direct int // members referred directly
	Total  int // members reachable below, transitively
}

// Downstream holds the output of [AggregateDownstream].
type Downstream struct {
	byID    map[string]Counts
	onCycle map[string]bool
}

// Get returns the counts for id. Unknown ids report zero counts.
func (d *Downstream) Get(id string) Counts { return d.byID[id] }

// OnCycle reports whether id was found on a referral cycle.
func (d *Downstream) OnCycle(id string) bool { return d.onCycle[id] }

// CycleMembers returns the number of members found on referral cycles.
func (d *Downstream) CycleMembers() int { return len(d.onCycle) }

const (
	unvisited = iota
	visiting
	finished
)

type frame struct {
	id     string
	next   int // index of the next child to visit
	direct int
	total  int
}

// AggregateDownstream computes direct and total downstream counts for every
// member of g with a single memoized post-order walk.
//
// A child already finished by an earlier walk contributes its cached total.
// A child still on the walk stack closes a cycle: every member on the stack
// from that child upward is marked as a cycle member, and a cycle member
// contributes nothing to its referrer. This matches [ResolveLevels], which
// turns the same members into roots.
func AggregateDownstream(g DownstreamLookup) *Downstream {
	members := g.Members()
	d := &Downstream{
		byID:    make(map[string]Counts, len(members)),
		onCycle: make(map[string]bool),
	}

	state := make(map[string]int, len(members))
	stackPos := make(map[string]int)
	var stack []frame

	for _, start := range members {
		if state[start] != unvisited {
			continue
		}
		state[start] = visiting
		stackPos[start] = 0
		stack = append(stack[:0], frame{id: start})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Downstream(top.id)

			if top.next < len(children) {
				child := children[top.next]
				top.next++

				switch state[child] {
				case unvisited:
					state[child] = visiting
					stackPos[child] = len(stack)
					stack = append(stack, frame{id: child})
				case visiting:
					for _, f := range stack[stackPos[child]:] {
						d.onCycle[f.id] = true
					}
				case finished:
					if !d.onCycle[child] {
						top.direct++
						top.total += 1 + d.byID[child].Total
					}
				}
				continue
			}

			done := *top
			stack = stack[:len(stack)-1]
			state[done.id] = finished
			delete(stackPos, done.id)
			d.byID[done.id] = Counts{Direct: done.direct, Total: done.total}

			if len(stack) > 0 && !d.onCycle[done.id] {
				parent := &stack[len(stack)-1]
				parent.direct++
				parent.total += 1 + done.total
			}
		}
	}
	return d
}
