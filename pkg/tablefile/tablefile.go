package tablefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/referraltree/pkg/errors"
	"github.com/matzehuels/referraltree/pkg/table"
)

// Format identifies a supported table file format.
type Format string

// Format constants.
const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// outputSuffix is inserted before the extension by [DefaultOutputPath].
const outputSuffix = "_with_levels"

// Options configures reading and writing.
type Options struct {
	// Sheet selects the worksheet for .xlsx input and names it on output.
	// Empty means the first sheet on input and "Sheet1" on output.
	Sheet string
}

// DetectFormat maps a path's extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, errors.New(errors.ErrCodeMissingDependency,
			"legacy .xls workbooks are not supported; re-save %s as .xlsx or .csv", filepath.Base(path))
	default:
		return "", errors.New(errors.ErrCodeUnsupportedFormat,
			"unsupported file format %q (must be .csv, .tsv or .xlsx)", ext)
	}
}

// Load reads the table at path.
//
// Fully blank lines in delimited files and fully blank worksheet rows are
// skipped, so they produce no output row. Every other row is kept in order.
func Load(path string, opts Options) (*table.Table, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is a directory", path)
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		return readDelimitedFile(path, ',')
	case FormatTSV:
		return readDelimitedFile(path, '\t')
	default:
		return readXLSX(path, opts.Sheet)
	}
}

// Save writes t to the first available path derived from path and returns
// the path written. An existing file at path is left untouched.
func Save(t *table.Table, path string, opts Options) (string, error) {
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}
	format, err := DetectFormat(path)
	if err != nil {
		return "", err
	}

	target, err := AvailablePath(path)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatCSV:
		err = writeDelimitedFile(t, target, ',')
	case FormatTSV:
		err = writeDelimitedFile(t, target, '\t')
	default:
		err = writeXLSX(t, target, opts.Sheet)
	}
	if err != nil {
		return "", err
	}
	return target, nil
}

// AvailablePath returns path if nothing exists there, otherwise the first
// base_N.ext (N = 1, 2, ...) that does not exist.
func AvailablePath(path string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	candidate := path
	for i := 1; ; i++ {
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}

// DefaultOutputPath returns <base>_with_levels<ext> for input path.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + outputSuffix + ext
}
