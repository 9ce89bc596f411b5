package hierarchy

import (
	"context"
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"
)

// randomLinks draws each member's referrer uniformly from: none, itself,
// any member, or an id that is not a member. Cycles of every length occur.
func randomLinks(r *rand.Rand, n int) []Link {
	links := make([]Link, n)
	for i := range links {
		links[i].Member = id(i)
		switch k := r.IntN(10); {
		case k == 0:
		case k == 1:
			links[i].Referrer = id(i)
		case k == 2:
			links[i].Referrer = "ghost" + id(r.IntN(3))
		default:
			links[i].Referrer = id(r.IntN(n))
		}
	}
	return links
}

func checkInvariants(t *testing.T, g *Graph, res *Result) {
	t.Helper()

	onCycle := make(map[string]bool)
	for _, m := range res.CycleMembers() {
		onCycle[m] = true
	}

	below := make(map[string]int)
	direct := make(map[string]int)

	for _, m := range g.Members() {
		pos, _, err := res.Row(m)
		if err != nil {
			t.Fatalf("Row(%s): %v", m, err)
		}
		if pos.Level < 0 || pos.Level != len(pos.Path)-1 {
			t.Fatalf("%s: level %d inconsistent with path %v", m, pos.Level, pos.Path)
		}
		if pos.Path[len(pos.Path)-1] != m {
			t.Fatalf("%s: path %v does not end with member", m, pos.Path)
		}
		seen := make(map[string]bool)
		for _, p := range pos.Path {
			if seen[p] {
				t.Fatalf("%s: path %v repeats %s", m, pos.Path, p)
			}
			seen[p] = true
		}

		if res.Downstream.OnCycle(m) != onCycle[m] {
			t.Fatalf("%s: phases disagree on cycle membership", m)
		}

		r, ok := g.Referrer(m)
		root := !ok || r == m || onCycle[m]
		if root {
			if pos.Level != 0 || !reflect.DeepEqual(pos.Path, []string{m}) {
				t.Fatalf("root %s resolved as %+v", m, pos)
			}
		} else {
			parent, _ := res.Levels.Get(r)
			if pos.Level != parent.Level+1 {
				t.Fatalf("%s: level %d, referrer %s level %d", m, pos.Level, r, parent.Level)
			}
			if !slices.Equal(pos.Path, append(slices.Clone(parent.Path), m)) {
				t.Fatalf("%s: path %v, referrer path %v", m, pos.Path, parent.Path)
			}
			direct[r]++
		}

		for _, p := range pos.Path[:len(pos.Path)-1] {
			below[p]++
		}
	}

	for _, m := range g.Members() {
		c := res.Downstream.Get(m)
		if c.Total != below[m] {
			t.Fatalf("%s: total %d, members with %s upstream %d", m, c.Total, m, below[m])
		}
		if c.Direct != direct[m] {
			t.Fatalf("%s: direct %d, want %d", m, c.Direct, direct[m])
		}
		sum := 0
		for _, d := range g.Downstream(m) {
			if !onCycle[d] {
				sum += 1 + res.Downstream.Get(d).Total
			}
		}
		if c.Total != sum {
			t.Fatalf("%s: total %d, sum over downstream %d", m, c.Total, sum)
		}
	}
}

func TestInvariantsRandomGraphs(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		n := 1 + r.IntN(60)
		g := NewGraph(randomLinks(r, n))
		res, err := Compute(context.Background(), g)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		checkInvariants(t, g, res)
	}
}

func TestRowOrderDoesNotChangeResults(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for trial := 0; trial < 50; trial++ {
		links := randomLinks(r, 40)
		a, _ := Compute(context.Background(), NewGraph(links))

		shuffled := slices.Clone(links)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		b, _ := Compute(context.Background(), NewGraph(shuffled))

		for _, l := range links {
			pa, ca, _ := a.Row(l.Member)
			pb, cb, _ := b.Row(l.Member)
			if !reflect.DeepEqual(pa, pb) || ca != cb {
				t.Fatalf("%s differs across row orders: %+v/%+v vs %+v/%+v", l.Member, pa, ca, pb, cb)
			}
		}
		if !reflect.DeepEqual(a.CycleMembers(), b.CycleMembers()) {
			t.Fatalf("cycle members differ: %v vs %v", a.CycleMembers(), b.CycleMembers())
		}
	}
}

func TestComputeIdempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	g := NewGraph(randomLinks(r, 100))

	a, _ := Compute(context.Background(), g)
	b, _ := Compute(context.Background(), g)
	for _, m := range g.Members() {
		pa, ca, _ := a.Row(m)
		pb, cb, _ := b.Row(m)
		if !reflect.DeepEqual(pa, pb) || ca != cb {
			t.Fatalf("%s differs between runs", m)
		}
	}
}
