package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/referraltree/pkg/pipeline"
	"github.com/matzehuels/referraltree/pkg/tablefile"
)

// analyzeFlags holds the flags of the root command.
type analyzeFlags struct {
	tableFlags
	output string
	levels bool
}

// analyzeCommand creates the command that computes levels, downstream counts
// and upstream paths and writes them next to the input.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [input]",
		Short: "Compute referral levels, downstream counts and upstream paths",
		Long: `Analyze a member table (.csv, .tsv or .xlsx) in which every row names the
member who referred it. Four columns are appended: Level, Downstream_Count,
Direct_Downstream_Count and Upstream_Path. The result is written to
<input>_with_levels.<ext> unless --output is given; existing files are never
overwritten.

Missing arguments are prompted for.`,
		Example: `  referraltree members.xlsx -m "Member ID" -r "Referred By"
  referraltree members.csv -m id -r sponsor -o out.xlsx --levels`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			opts, err := c.resolveOptions(cmd, &flags.tableFlags, input, flags.output, true)
			if err != nil {
				return err
			}
			return c.runAnalyze(cmd.Context(), opts, flags.levels)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default <input>_with_levels.<ext>)")
	cmd.Flags().BoolVar(&flags.levels, "levels", false, "print the member count per level")

	return cmd
}

// resolveOptions merges config, flags and prompted answers into pipeline
// options.
//
// askOutput reports whether an interactive session may ask for the output
// path.
func (c *CLI) resolveOptions(cmd *cobra.Command, flags *tableFlags, input, output string, askOutput bool) (pipeline.Options, error) {
	cfg, cfgPath, err := loadConfig(flags.configPath)
	if err != nil {
		return pipeline.Options{}, err
	}
	if cfgPath != "" {
		c.Logger.Debug("loaded config", "path", cfgPath)
	}
	flags.merge(cmd.Flags(), cfg)

	a := answers{input: input, output: output, member: flags.member, referrer: flags.referrer}
	if a.input == "" || a.member == "" || a.referrer == "" {
		var defaultOutput func(string) string
		if askOutput {
			defaultOutput = tablefile.DefaultOutputPath
		}
		if err := askMissing(newPrompter(c.In, c.Out), &a, defaultOutput); err != nil {
			return pipeline.Options{}, err
		}
	}

	return pipeline.Options{
		Input:          a.input,
		Output:         a.output,
		Sheet:          flags.sheet,
		MemberColumn:   a.member,
		ReferrerColumn: a.referrer,
		StrictIDs:      flags.strictIDs,
		RawIDs:         flags.rawIDs,
		Separator:      flags.separator,
		FailOnCycle:    flags.failOnCycle,
		Logger:         c.Logger,
	}, nil
}

func (c *CLI) runAnalyze(ctx context.Context, opts pipeline.Options, showLevels bool) error {
	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Resolving referral hierarchy...")
	spinner.Start()

	result, err := c.newRunner().Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d members", result.Summary.Members))

	s := result.Summary
	printSuccess("%d levels, max level %d", s.DistinctLevels, s.MaxLevel)
	printFile(result.OutputPath)
	printNewline()
	printSummary(s)

	if showLevels {
		printNewline()
		fmt.Fprintln(stdout, renderLevelTable(s.Levels))
	}

	if cycles := result.Cycles(); len(cycles) > 0 {
		printNewline()
		printWarning("%d referral cycle(s) broken; their members were treated as roots", len(cycles))
		for _, cycle := range cycles {
			printDetail("%s", strings.Join(cycle, " -> "))
		}
	}
	if dups := result.Graph.Duplicates(); len(dups) > 0 {
		printWarning("%d member id(s) appear on several rows; the last row's referrer was used", len(dups))
		printDetail("%s", strings.Join(firstN(dups, 10), ", "))
	}
	return nil
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return append(s[:n:n], fmt.Sprintf("... (%d more)", len(s)-n))
}
