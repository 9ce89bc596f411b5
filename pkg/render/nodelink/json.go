package nodelink

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/referraltree/pkg/hierarchy"
)

type forest struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID     string `json:"id"`
	Level  int    `json:"level"`
	Direct int    `json:"direct"`
	Total  int    `json:"total"`
	Kind   string `json:"kind,omitempty"` // "ghost" or "cycle"
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Cut  bool   `json:"cut,omitempty"`
}

// WriteJSON encodes the resolved forest as indented JSON: one node per
// member and ghost referrer, one edge per referral. Edges ignored to break
// a cycle, and self-referrals, carry "cut": true.
func WriteJSON(w io.Writer, g *hierarchy.Graph, res *hierarchy.Result) error {
	cycle := make(map[string]bool)
	for _, id := range res.CycleMembers() {
		cycle[id] = true
	}

	members := g.Members()
	ghosts := g.Ghosts()
	out := forest{
		Nodes: make([]node, 0, len(members)+len(ghosts)),
		Edges: []edge{},
	}

	for _, id := range members {
		pos, counts, err := res.Row(id)
		if err != nil {
			return err
		}
		n := node{ID: id, Level: pos.Level, Direct: counts.Direct, Total: counts.Total}
		if cycle[id] {
			n.Kind = "cycle"
		}
		out.Nodes = append(out.Nodes, n)

		if ref, ok := g.RefOf(id); ok && ref.Valid {
			out.Edges = append(out.Edges, edge{From: ref.ID, To: id, Cut: cycle[id] || ref.ID == id})
		}
	}
	// Ghosts are not members, so their counts are summed from their children.
	for _, id := range ghosts {
		n := node{ID: id, Kind: "ghost"}
		for _, child := range g.Downstream(id) {
			n.Direct++
			n.Total += 1 + res.Downstream.Get(child).Total
		}
		out.Nodes = append(out.Nodes, n)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
