package nodelink_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/referraltree/pkg/hierarchy"
	"github.com/matzehuels/referraltree/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := hierarchy.NewGraph([]hierarchy.Link{
		{Member: "alice"},
		{Member: "bob", Referrer: "alice"},
	})
	res, _ := hierarchy.Compute(context.Background(), g)

	fmt.Print(nodelink.ToDOT(g, res, nodelink.Options{}))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=24, margin="0.2,0.1"];
	//   ranksep=0.5;
	//   nodesep=0.3;
	//
	//   "alice" [label="alice"];
	//   "bob" [label="bob"];
	//
	//   "alice" -> "bob";
	// }
}
