package hierarchy_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/referraltree/pkg/hierarchy"
	"github.com/matzehuels/referraltree/pkg/table"
)

func ExampleCompute() {
	// alice referred bob and carol; bob referred dave.
	g := hierarchy.NewGraph([]hierarchy.Link{
		{Member: "alice"},
		{Member: "bob", Referrer: "alice"},
		{Member: "carol", Referrer: "alice"},
		{Member: "dave", Referrer: "bob"},
	})

	res, _ := hierarchy.Compute(context.Background(), g)
	for _, m := range g.Members() {
		pos, counts, _ := res.Row(m)
		fmt.Printf("%-5s level=%d direct=%d total=%d path=%s\n",
			m, pos.Level, counts.Direct, counts.Total, strings.Join(pos.Path, " -> "))
	}
	// Output:
	// alice level=0 direct=2 total=3 path=alice
	// bob   level=1 direct=1 total=1 path=alice -> bob
	// carol level=1 direct=0 total=0 path=alice -> carol
	// dave  level=2 direct=0 total=0 path=alice -> bob -> dave
}

func ExampleCompute_cycle() {
	// a and b name each other as referrer; c hangs below a.
	g := hierarchy.NewGraph([]hierarchy.Link{
		{Member: "a", Referrer: "b"},
		{Member: "b", Referrer: "a"},
		{Member: "c", Referrer: "a"},
	})

	res, _ := hierarchy.Compute(context.Background(), g)
	fmt.Println("cycles:", res.Cycles())
	for _, m := range g.Members() {
		pos, _, _ := res.Row(m)
		fmt.Println(m, pos.Level)
	}
	// Output:
	// cycles: [[a b]]
	// a 0
	// b 0
	// c 1
}

func ExampleAssemble() {
	t, _ := table.New([]string{"id", "ref"}, [][]string{
		{"A", ""},
		{"B", "A"},
		{"C", "B"},
	})

	g, _ := hierarchy.BuildGraph(t, hierarchy.BuildOptions{MemberColumn: "id", ReferrerColumn: "ref"})
	res, _ := hierarchy.Compute(context.Background(), g)
	out, _ := hierarchy.Assemble(t, g, res, hierarchy.DefaultPathSeparator)

	fmt.Println(strings.Join(out.Columns(), ","))
	for i := 0; i < out.Len(); i++ {
		fmt.Println(strings.Join(out.Row(i).Values(), ","))
	}
	// Output:
	// id,ref,Level,Downstream_Count,Direct_Downstream_Count,Upstream_Path
	// A,,0,2,1,A
	// B,A,1,1,1,A -> B
	// C,B,2,0,0,A -> B -> C
}
