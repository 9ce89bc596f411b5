package hierarchy

import (
	"strconv"
	"strings"

	"github.com/matzehuels/referraltree/pkg/errors"
	"github.com/matzehuels/referraltree/pkg/table"
)

// Result column names, appended in this order.
const (
	ColumnLevel      = "Level"
	ColumnDownstream = "Downstream_Count"
	ColumnDirect     = "Direct_Downstream_Count"
	ColumnPath       = "Upstream_Path"
)

// DefaultPathSeparator joins upstream path ids.
const DefaultPathSeparator = " -> "

// ResultColumns lists the computed columns in output order.
var ResultColumns = []string{ColumnLevel, ColumnDownstream, ColumnDirect, ColumnPath}

// Assemble returns a copy of t with the computed columns appended. Row order
// and original columns are preserved. A result column that already exists in
// t is overwritten in place rather than duplicated.
//
// g must have been built from t. Rows with a blank member id get level 0,
// zero counts and an empty path.
func Assemble(t *table.Table, g *Graph, r *Result, separator string) (*table.Table, error) {
	if t.Len() != g.Rows() {
		return nil, errors.New(errors.ErrCodeInternal, "graph has %d rows, table has %d", g.Rows(), t.Len())
	}
	if separator == "" {
		separator = DefaultPathSeparator
	}

	columns := t.Columns()
	slots := make([]int, len(ResultColumns))
	for i, c := range ResultColumns {
		if idx := t.ColumnIndex(c); idx >= 0 {
			slots[i] = idx
			continue
		}
		slots[i] = len(columns)
		columns = append(columns, c)
	}

	records := t.Records()
	for i := range records {
		rec := make([]string, len(columns))
		copy(rec, records[i])

		values := [4]string{"0", "0", "0", ""}
		if id, ok := g.RowMember(i); ok {
			pos, counts, err := r.Row(id)
			if err != nil {
				return nil, err
			}
			values = [4]string{
				strconv.Itoa(pos.Level),
				strconv.Itoa(counts.Total),
				strconv.Itoa(counts.Direct),
				strings.Join(pos.Path, separator),
			}
		}
		for j, slot := range slots {
			rec[slot] = values[j]
		}
		records[i] = rec
	}

	return table.New(columns, records)
}
