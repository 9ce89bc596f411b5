package hierarchy

import (
	"context"
	"reflect"
	"testing"

	"github.com/matzehuels/referraltree/pkg/errors"
)

func TestAssembleAppendsColumns(t *testing.T) {
	tbl := mustTable(t, []string{"name", "id", "ref"}, [][]string{
		{"carol", "C", "B"},
		{"alice", "A", ""},
		{"bob", "B", "A"},
		{"nobody", "", ""},
	})
	g, err := BuildGraph(tbl, BuildOptions{MemberColumn: "id", ReferrerColumn: "ref"})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	res, _ := Compute(context.Background(), g)

	out, err := Assemble(tbl, g, res, "")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	wantCols := []string{"name", "id", "ref", ColumnLevel, ColumnDownstream, ColumnDirect, ColumnPath}
	if got := out.Columns(); !reflect.DeepEqual(got, wantCols) {
		t.Errorf("Columns() = %v", got)
	}

	want := [][]string{
		{"carol", "C", "B", "2", "0", "0", "A -> B -> C"},
		{"alice", "A", "", "0", "2", "1", "A"},
		{"bob", "B", "A", "1", "1", "1", "A -> B"},
		{"nobody", "", "", "0", "0", "0", ""},
	}
	if got := out.Records(); !reflect.DeepEqual(got, want) {
		t.Errorf("Records() =\n%q\nwant\n%q", got, want)
	}
	if tbl.Has(ColumnLevel) {
		t.Error("Assemble must not modify its input table")
	}
}

func TestAssembleOverwritesExistingResultColumn(t *testing.T) {
	tbl := mustTable(t, []string{"id", "Level", "ref"}, [][]string{
		{"A", "stale", ""},
		{"B", "stale", "A"},
	})
	g, _ := BuildGraph(tbl, BuildOptions{MemberColumn: "id", ReferrerColumn: "ref"})
	res, _ := Compute(context.Background(), g)

	out, err := Assemble(tbl, g, res, " > ")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	wantCols := []string{"id", "Level", "ref", ColumnDownstream, ColumnDirect, ColumnPath}
	if got := out.Columns(); !reflect.DeepEqual(got, wantCols) {
		t.Errorf("Columns() = %v", got)
	}
	if got := out.Row(1).Get(ColumnLevel); got != "1" {
		t.Errorf("Level = %q, want 1", got)
	}
	if got := out.Row(1).Get(ColumnPath); got != "A > B" {
		t.Errorf("Upstream_Path = %q, want custom separator", got)
	}
}

func TestAssembleDuplicateRowsShareFields(t *testing.T) {
	tbl := mustTable(t, []string{"id", "ref"}, [][]string{
		{"A", ""},
		{"B", "A"},
		{"B", "A"},
	})
	g, _ := BuildGraph(tbl, BuildOptions{MemberColumn: "id", ReferrerColumn: "ref"})
	res, _ := Compute(context.Background(), g)
	out, _ := Assemble(tbl, g, res, "")

	if out.Len() != 3 {
		t.Fatalf("Len() = %d, want every input row", out.Len())
	}
	if !reflect.DeepEqual(out.Row(1).Values(), out.Row(2).Values()) {
		t.Errorf("duplicate rows differ: %q vs %q", out.Row(1).Values(), out.Row(2).Values())
	}
	if got := out.Row(0).Get(ColumnDirect); got != "1" {
		t.Errorf("A direct = %q, want 1 (duplicates collapse in the graph)", got)
	}
}

func TestAssembleRowMismatch(t *testing.T) {
	tbl := mustTable(t, []string{"id", "ref"}, [][]string{{"A", ""}})
	g := NewGraph([]Link{{Member: "A"}, {Member: "B"}})
	res, _ := Compute(context.Background(), g)

	if _, err := Assemble(tbl, g, res, ""); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Assemble() error = %v, want INTERNAL_ERROR", err)
	}
}
