package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/referraltree/pkg/errors"
	"github.com/matzehuels/referraltree/pkg/hierarchy"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// stdout is where user-facing results go. Tests replace it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(16)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Errors
// =============================================================================

// PrintError writes err to w as a user-facing message with its error code.
// Schema errors also list the columns the table does have.
func PrintError(w io.Writer, err error) {
	msg := errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		msg += " " + StyleDim.Render("["+string(code)+"]")
	}
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)

	var se *errors.SchemaError
	if stderrors.As(err, &se) && len(se.Available) > 0 {
		fmt.Fprintln(w, "  "+StyleDim.Render("available columns: "+strings.Join(se.Available, ", ")))
	}
}

// =============================================================================
// Summary Display
// =============================================================================

// printSummary prints the headline numbers of a run.
func printSummary(s hierarchy.Summary) {
	printKeyValue("Rows", strconv.Itoa(s.Rows))
	printKeyValue("Members", strconv.Itoa(s.Members))
	printKeyValue("Roots", strconv.Itoa(s.Roots))
	printKeyValue("Levels", StyleNumber.Render(strconv.Itoa(s.DistinctLevels)))
	printKeyValue("Max level", StyleNumber.Render(strconv.Itoa(s.MaxLevel)))
	if s.CycleMembers > 0 {
		printKeyValue("Cycle members", StyleWarning.Render(strconv.Itoa(s.CycleMembers)))
	}
	if s.Duplicates > 0 {
		printKeyValue("Duplicate ids", StyleWarning.Render(strconv.Itoa(s.Duplicates)))
	}
	if s.BlankRows > 0 {
		printKeyValue("Blank-id rows", strconv.Itoa(s.BlankRows))
	}
	if s.Ghosts > 0 {
		printKeyValue("Ghost referrers", strconv.Itoa(s.Ghosts))
	}
}

// renderLevelTable renders the per-level member distribution.
func renderLevelTable(levels []hierarchy.LevelCount) string {
	total := 0
	for _, lc := range levels {
		total += lc.Members
	}

	rows := make([][]string, len(levels))
	for i, lc := range levels {
		share := 0.0
		if total > 0 {
			share = 100 * float64(lc.Members) / float64(total)
		}
		rows[i] = []string{strconv.Itoa(lc.Level), strconv.Itoa(lc.Members), fmt.Sprintf("%.1f%%", share)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Level", "Members", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle.Align(lipgloss.Right)
		})

	return t.Render()
}
