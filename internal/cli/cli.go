// Package cli implements the referraltree command-line interface.
//
// The root command analyzes a member table and writes it back with level,
// downstream counts and upstream path appended. The tree subcommand draws
// the same referral forest as a diagram.
//
// # Commands
//
//   - referraltree [INPUT]: analyze a table (prompts for anything missing)
//   - tree INPUT: render the referral forest as DOT, SVG, PDF or PNG
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, including
// per-stage pipeline events.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/referraltree/pkg/buildinfo"
	"github.com/matzehuels/referraltree/pkg/observability"
	"github.com/matzehuels/referraltree/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "referraltree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// In and Out are the prompt streams. They default to os.Stdin and
	// os.Stderr.
	In  *os.File
	Out io.Writer
}

// New creates a new CLI instance with a default logger and registers
// debug-level pipeline hooks on it.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: newLogger(w, level),
		In:     os.Stdin,
		Out:    os.Stderr,
	}
	hooks := &logHooks{logger: c.Logger}
	observability.SetPipelineHooks(hooks)
	observability.SetRenderHooks(hooks)
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.analyzeCommand()
	root.Use = appName + " [input]"
	root.Version = buildinfo.Version
	root.SilenceUsage = true

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.treeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}
