package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Resolved 4210 members (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports pipeline and render events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("load started", "path", path)
}

func (h *logHooks) OnLoadComplete(_ context.Context, path string, rows int, d time.Duration, err error) {
	h.logger.Debug("load finished", "path", path, "rows", rows, "duration", d, "err", err)
}

func (h *logHooks) OnComputeStart(_ context.Context, rows int) {
	h.logger.Debug("compute started", "rows", rows)
}

func (h *logHooks) OnComputeComplete(_ context.Context, members, cycles int, d time.Duration, err error) {
	h.logger.Debug("compute finished", "members", members, "cycles", cycles, "duration", d, "err", err)
}

func (h *logHooks) OnSaveStart(_ context.Context, path string) {
	h.logger.Debug("save started", "path", path)
}

func (h *logHooks) OnSaveComplete(_ context.Context, path string, d time.Duration, err error) {
	h.logger.Debug("save finished", "path", path, "duration", d, "err", err)
}

func (h *logHooks) OnRenderStart(_ context.Context, format string, nodes int) {
	h.logger.Debug("render started", "format", format, "nodes", nodes)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.logger.Debug("render finished", "format", format, "bytes", size, "duration", d, "err", err)
}
