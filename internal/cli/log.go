// Package cli implements the lightbox command-line interface.
//
// The CLI packs media manifests into masonry grids, renders them, inspects
// aspect descriptors and row partitions, previews the zoomable carousel in
// the terminal and serves the HTTP API. It is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - pack: Balance a manifest into columns and render SVG, PNG, PDF or JSON
//   - aspect: Show how descriptors normalize and classify
//   - rows: Show the row partition and each row's expandable cell
//   - carousel: Interactive terminal preview of the zoomable strip
//   - serve: Run the HTTP API
//   - cache: Manage the layout and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/lightbox/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command step and reports it at debug level, so
// -v shows where a slow pack or render spends its time.
type progress struct {
	logger *log.Logger
	step   string
	start  time.Time
}

func newProgress(l *log.Logger, step string) *progress {
	return &progress{logger: l, step: step, start: time.Now()}
}

// done logs the step with its elapsed time and any extra key-value pairs.
func (p *progress) done(keyvals ...any) {
	keyvals = append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Debug(p.step, keyvals...)
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// aspectLogHooks reports aspect fallbacks as warnings.
type aspectLogHooks struct {
	logger *log.Logger
}

func (h aspectLogHooks) OnFallback(desc string, err error) {
	h.logger.Warn("aspect fallback", "descriptor", desc, "err", err)
}
