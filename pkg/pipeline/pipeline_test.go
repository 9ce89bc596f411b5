package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/referraltree/pkg/errors"
	"github.com/matzehuels/referraltree/pkg/observability"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const membersCSV = "member,referrer,region\nA,,north\nB,A,north\nC,B,south\nD,A,south\n"

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Input: "data/members.xlsx", MemberColumn: "member", ReferrerColumn: "referrer"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Output != "data/members_with_levels.xlsx" {
		t.Errorf("Output = %q, want default output path", opts.Output)
	}
	if opts.Separator != DefaultSeparator {
		t.Errorf("Separator = %q, want %q", opts.Separator, DefaultSeparator)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	opts.Output = "changed.csv"
	if err := opts.ValidateAndSetDefaults(); err != nil || opts.Output != "changed.csv" {
		t.Errorf("second ValidateAndSetDefaults() changed options: %v %q", err, opts.Output)
	}
}

func TestValidateAndSetDefaults_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{MemberColumn: "m", ReferrerColumn: "r"}, errors.ErrCodeInvalidInput},
		{"no member column", Options{Input: "in.csv", ReferrerColumn: "r"}, errors.ErrCodeInvalidInput},
		{"no referrer column", Options{Input: "in.csv", MemberColumn: "m"}, errors.ErrCodeInvalidInput},
		{"bad output format", Options{Input: "in.csv", Output: "out.json", MemberColumn: "m", ReferrerColumn: "r"}, errors.ErrCodeUnsupportedFormat},
		{"legacy output", Options{Input: "in.csv", Output: "out.xls", MemberColumn: "m", ReferrerColumn: "r"}, errors.ErrCodeMissingDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	input := writeInput(t, "members.csv", membersCSV)
	runner := NewRunner(nil)

	result, err := runner.Execute(context.Background(), Options{
		Input:          input,
		MemberColumn:   "member",
		ReferrerColumn: "referrer",
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	wantPath := strings.TrimSuffix(input, ".csv") + "_with_levels.csv"
	if result.OutputPath != wantPath {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, wantPath)
	}

	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "member,referrer,region,Level,Downstream_Count,Direct_Downstream_Count,Upstream_Path\n" +
		"A,,north,0,3,2,A\n" +
		"B,A,north,1,1,1,A -> B\n" +
		"C,B,south,2,0,0,A -> B -> C\n" +
		"D,A,south,1,0,0,A -> D\n"
	if string(data) != want {
		t.Errorf("output =\n%s\nwant\n%s", data, want)
	}

	if result.Summary.DistinctLevels != 3 || result.Summary.MaxLevel != 2 {
		t.Errorf("Summary = %+v, want 3 levels with max 2", result.Summary)
	}
	if result.Stats.Rows != 4 || result.Stats.Members != 4 {
		t.Errorf("Stats = %+v, want 4 rows and 4 members", result.Stats)
	}
}

func TestExecute_ExistingOutputKept(t *testing.T) {
	input := writeInput(t, "members.csv", membersCSV)
	output := filepath.Join(filepath.Dir(input), "out.csv")
	if err := os.WriteFile(output, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewRunner(nil).Execute(context.Background(), Options{
		Input:          input,
		Output:         output,
		MemberColumn:   "member",
		ReferrerColumn: "referrer",
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.OutputPath != filepath.Join(filepath.Dir(input), "out_1.csv") {
		t.Errorf("OutputPath = %q, want out_1.csv", result.OutputPath)
	}
	if data, _ := os.ReadFile(output); string(data) != "keep" {
		t.Errorf("existing output modified: %q", data)
	}
}

func TestExecute_MissingColumns(t *testing.T) {
	input := writeInput(t, "members.csv", membersCSV)

	_, err := NewRunner(nil).Execute(context.Background(), Options{
		Input:          input,
		MemberColumn:   "member",
		ReferrerColumn: "sponsor",
	})
	if !errors.Is(err, errors.ErrCodeSchema) {
		t.Fatalf("Execute() = %v, want SCHEMA_ERROR", err)
	}

	entries, _ := os.ReadDir(filepath.Dir(input))
	if len(entries) != 1 {
		t.Errorf("no output should be written on failure, found %d files", len(entries))
	}
}

func TestExecute_Cycles(t *testing.T) {
	input := writeInput(t, "members.csv", "member,referrer\nA,B\nB,A\nC,A\n")
	opts := Options{Input: input, MemberColumn: "member", ReferrerColumn: "referrer"}

	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got := result.Cycles(); len(got) != 1 || len(got[0]) != 2 {
		t.Errorf("Cycles() = %v, want one 2-cycle", got)
	}

	opts.FailOnCycle = true
	opts.Output = filepath.Join(filepath.Dir(input), "strict.csv")
	_, err = NewRunner(nil).Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeCycleDetected) {
		t.Fatalf("Execute(FailOnCycle) = %v, want CYCLE_DETECTED", err)
	}
	if _, statErr := os.Stat(opts.Output); !os.IsNotExist(statErr) {
		t.Error("FailOnCycle must not write output")
	}
}

func TestExecute_Canceled(t *testing.T) {
	input := writeInput(t, "members.csv", membersCSV)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Execute(ctx, Options{Input: input, MemberColumn: "member", ReferrerColumn: "referrer"})
	if err != context.Canceled {
		t.Errorf("Execute() = %v, want context.Canceled", err)
	}
}

func TestAnalyze_WritesNothing(t *testing.T) {
	input := writeInput(t, "members.csv", membersCSV)

	result, err := NewRunner(nil).Analyze(context.Background(), Options{
		Input:          input,
		MemberColumn:   "member",
		ReferrerColumn: "referrer",
	})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if result.Table != nil || result.OutputPath != "" {
		t.Error("Analyze() should not assemble or save")
	}
	if result.Summary.Members != 4 {
		t.Errorf("Summary.Members = %d, want 4", result.Summary.Members)
	}

	entries, _ := os.ReadDir(filepath.Dir(input))
	if len(entries) != 1 {
		t.Errorf("Analyze() wrote files: %d entries", len(entries))
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.events = append(h.events, "load") }
func (h *recordingHooks) OnComputeComplete(_ context.Context, members, _ int, _ time.Duration, _ error) {
	h.events = append(h.events, "compute")
}
func (h *recordingHooks) OnSaveComplete(_ context.Context, _ string, _ time.Duration, err error) {
	if err == nil {
		h.events = append(h.events, "save")
	}
}

func TestExecute_Hooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	input := writeInput(t, "members.csv", membersCSV)
	if _, err := NewRunner(nil).Execute(context.Background(), Options{
		Input:          input,
		MemberColumn:   "member",
		ReferrerColumn: "referrer",
	}); err != nil {
		t.Fatal(err)
	}

	if got := strings.Join(hooks.events, ","); got != "load,compute,save" {
		t.Errorf("hook events = %q, want load,compute,save", got)
	}
}
