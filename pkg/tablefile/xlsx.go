package tablefile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/referraltree/pkg/errors"
	"github.com/matzehuels/referraltree/pkg/table"
)

const (
	defaultSheet = "Sheet1"

	// Column widths are the longest cell plus padding, capped at the
	// largest width Excel accepts.
	widthPadding = 2
	maxColWidth  = 255

	// Longer numbers do not read back with the same digits.
	maxNumberDigits = 15
)

func readXLSX(path, sheet string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook %s", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sheet %q not found in %s", sheet, path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sheet %q is empty (no header row)", sheet)
	}

	var records [][]string
	for _, r := range rows[1:] {
		if isBlankRow(r) {
			continue
		}
		records = append(records, r)
	}

	t, err := table.New(rows[0], records)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid header in sheet %q", sheet)
	}
	return t, nil
}

func isBlankRow(r []string) bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}

func writeXLSX(t *table.Table, path, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet %q: %w", sheet, err)
		}
	}

	columns := t.Columns()
	widths := make([]int, len(columns))

	if err := setRow(f, sheet, 1, columns, widths, false); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		if err := setRow(f, sheet, i+2, t.Row(i).Values(), widths, true); err != nil {
			return err
		}
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := min(float64(w+widthPadding), maxColWidth)
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", name, err)
		}
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return out.Close()
}

func setRow(f *excelize.File, sheet string, row int, values []string, widths []int, typed bool) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		if typed {
			cells[i] = cellValue(v)
		} else {
			cells[i] = v
		}
		widths[i] = max(widths[i], utf8.RuneCountInString(v))
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// cellValue returns v as a number when it reads back as the same text, so
// "42" and "2.5" become number cells while "007", "1e3" and "+1" stay text.
func cellValue(v string) any {
	if len(strings.ReplaceAll(v, ".", "")) > maxNumberDigits {
		return v
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		if strconv.FormatInt(n, 10) == v {
			return n
		}
		return v
	}
	if x, err := strconv.ParseFloat(v, 64); err == nil && strconv.FormatFloat(x, 'f', -1, 64) == v {
		return x
	}
	return v
}
