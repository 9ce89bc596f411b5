// Package tablefile reads and writes member tables from disk.
//
// # Formats
//
// The format is chosen by file extension, case-insensitively:
//
//   - .csv: comma-separated, via encoding/csv
//   - .tsv: tab-separated, via encoding/csv
//   - .xlsx: Office Open XML workbook, via github.com/xuri/excelize/v2
//   - .xls: legacy BIFF workbook; recognized but not supported, reported as
//     MISSING_DEPENDENCY so users know to re-save as .xlsx or .csv
//
// Anything else fails with UNSUPPORTED_FORMAT. A missing input file fails
// with FILE_NOT_FOUND before the format is considered.
//
// # Output Paths
//
// [Save] never overwrites: if the requested path exists it writes to the
// first free sibling named base_1.ext, base_2.ext, and so on, and returns
// the path actually written. [DefaultOutputPath] derives the conventional
// output name from the input path.
package tablefile
