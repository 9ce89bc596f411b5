package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/referraltree/pkg/errors"
)

// prompter asks the user for one value at a time.
type prompter interface {
	// Ask shows label and returns the trimmed answer. hint is shown as a
	// placeholder when the prompter supports one.
	Ask(label, hint string) (string, error)
}

// newPrompter returns an interactive prompter when in is a terminal and a
// line reader otherwise.
func newPrompter(in *os.File, out io.Writer) prompter {
	if isTerminal(in) {
		return &ttyPrompter{in: in, out: out}
	}
	return newLinePrompter(in, out)
}

// =============================================================================
// Line Prompter
// =============================================================================

// linePrompter reads answers line by line, for piped input.
type linePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *linePrompter) Ask(label, _ string) (string, error) {
	fmt.Fprint(p.out, StyleTitle.Render(label)+" ")
	if !p.scanner.Scan() {
		fmt.Fprintln(p.out)
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// =============================================================================
// Terminal Prompter
// =============================================================================

// ttyPrompter runs a one-line bubbletea text input per question.
type ttyPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p *ttyPrompter) Ask(label, hint string) (string, error) {
	ti := textinput.New()
	ti.Prompt = StyleTitle.Render(label) + " "
	ti.Placeholder = hint
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()

	prog := tea.NewProgram(promptModel{input: ti}, tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := prog.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(promptModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type from bubbletea: %T", final)
	}
	if m.aborted {
		return "", errors.New(errors.ErrCodeInvalidInput, "prompt aborted")
	}
	value := strings.TrimSpace(m.input.Value())
	fmt.Fprintln(p.out, StyleDim.Render(label)+" "+StyleValue.Render(value))
	return value, nil
}

// promptModel is the bubbletea model behind ttyPrompter.
type promptModel struct {
	input   textinput.Model
	done    bool
	aborted bool
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done {
		return ""
	}
	return m.input.View() + "\n" + StyleDim.Render("enter to confirm · esc to cancel")
}

// =============================================================================
// Missing Values
// =============================================================================

// answers holds the values the analyze command can prompt for.
type answers struct {
	input    string
	output   string
	member   string
	referrer string
}

// askMissing prompts for every blank required value. The output path is
// only asked for when the input path was and defaultOutput is set; it may be
// left blank.
func askMissing(p prompter, a *answers, defaultOutput func(string) string) error {
	askedInput := false
	if a.input == "" {
		v, err := p.Ask("Input file (.csv, .tsv, .xlsx):", "members.xlsx")
		if err != nil {
			return err
		}
		if v == "" {
			return errors.New(errors.ErrCodeInvalidInput, "input path is required")
		}
		a.input = v
		askedInput = true
	}
	if askedInput && a.output == "" && defaultOutput != nil {
		v, err := p.Ask("Output file (enter for default):", defaultOutput(a.input))
		if err != nil {
			return err
		}
		a.output = v
	}
	if a.member == "" {
		v, err := p.Ask("Member ID column:", "")
		if err != nil {
			return err
		}
		if v == "" {
			return errors.New(errors.ErrCodeInvalidInput, "member id column is required")
		}
		a.member = v
	}
	if a.referrer == "" {
		v, err := p.Ask("Referrer ID column:", "")
		if err != nil {
			return err
		}
		if v == "" {
			return errors.New(errors.ErrCodeInvalidInput, "referrer id column is required")
		}
		a.referrer = v
	}
	return nil
}
