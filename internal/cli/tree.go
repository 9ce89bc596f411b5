package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/referraltree/pkg/errors"
	"github.com/matzehuels/referraltree/pkg/observability"
	"github.com/matzehuels/referraltree/pkg/pipeline"
	"github.com/matzehuels/referraltree/pkg/render"
	"github.com/matzehuels/referraltree/pkg/render/nodelink"
	"github.com/matzehuels/referraltree/pkg/tablefile"
)

// Tree output formats, chosen by the output extension.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
	formatJSON = "json"
)

type treeFlags struct {
	tableFlags
	output   string
	detailed bool
	scale    float64
}

// treeCommand creates the command that draws the referral forest.
func (c *CLI) treeCommand() *cobra.Command {
	var flags treeFlags

	cmd := &cobra.Command{
		Use:   "tree [input]",
		Short: "Render the referral forest as a node-link diagram",
		Long: `Render the referral forest of a member table with Graphviz. The output
format follows the extension of --output: .dot, .svg, .pdf, .png or .json (PDF
and PNG need rsvg-convert from librsvg; JSON lists nodes with their counts).

Referrers that are not members are drawn dashed grey; referral links that were
ignored to break a cycle are drawn dashed red.`,
		Example: `  referraltree tree members.csv -m id -r sponsor -o tree.svg
  referraltree tree members.xlsx -m "Member ID" -r "Referred By" -o tree.png --detailed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			format, err := treeFormat(flags.output)
			if err != nil {
				return err
			}
			opts, err := c.resolveOptions(cmd, &flags.tableFlags, input, "", false)
			if err != nil {
				return err
			}
			return c.runTree(cmd.Context(), opts, flags, format)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&flags.output, "output", "o", "tree.svg", "output file (.dot, .svg, .pdf, .png, .json)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "label nodes with level and downstream counts")
	cmd.Flags().Float64Var(&flags.scale, "scale", 2.0, "PNG scale factor")

	return cmd
}

func treeFormat(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case formatDOT, formatSVG, formatPDF, formatPNG, formatJSON:
		return ext, nil
	}
	return "", errors.New(errors.ErrCodeUnsupportedFormat, "unsupported tree format %q (must be .dot, .svg, .pdf, .png or .json)", filepath.Ext(path))
}

func (c *CLI) runTree(ctx context.Context, opts pipeline.Options, flags treeFlags, format string) error {
	prog := newProgress(c.Logger)

	result, err := c.newRunner().Analyze(ctx, opts)
	if err != nil {
		return err
	}
	if opts.FailOnCycle {
		if err := result.Hierarchy.CycleError(); err != nil {
			return err
		}
	}

	nodes := result.Graph.MemberCount() + len(result.Graph.Ghosts())

	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStart(ctx, format, nodes)
	data, err := renderTree(ctx, result, format, flags)
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	path, err := tablefile.AvailablePath(flags.output)
	if err != nil {
		return err
	}
	if err := writeNewFile(path, data); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d nodes", nodes))

	printSuccess("Rendered referral tree (%d members, %d levels)", result.Summary.Members, result.Summary.DistinctLevels)
	printFile(path)
	if cycles := result.Cycles(); len(cycles) > 0 {
		printWarning("%d referral cycle(s) drawn in red", len(cycles))
	}
	return nil
}

// writeNewFile writes data to path, failing if path already exists.
func writeNewFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func renderTree(ctx context.Context, result *pipeline.Result, format string, flags treeFlags) ([]byte, error) {
	if format == formatJSON {
		var buf bytes.Buffer
		if err := nodelink.WriteJSON(&buf, result.Graph, result.Hierarchy); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(result.Graph, result.Hierarchy, nodelink.Options{Detailed: flags.detailed})
	if format == formatDOT {
		return []byte(dot), nil
	}
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case formatPDF:
		return render.ToPDF(ctx, svg)
	case formatPNG:
		return render.ToPNG(ctx, svg, flags.scale)
	}
	return svg, nil
}
