// Package cli implements the jray command-line interface.
//
// The commands cover the whole JSON-to-diagram pipeline, from one-shot
// file transforms to the long-running render surfaces. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - project: Print the node and edge list of a document
//   - layout: Position the nodes, optionally continuing an earlier layout
//   - edit: Write a typed value into a document at a node path
//   - format: Prettify a document
//   - types: Generate TypeScript declarations
//   - export: Render the diagram as DOT, SVG, PNG or JSON
//   - explore: Browse and edit a document in the terminal
//   - serve: Run the HTTP API, optionally following a file
//   - cache: Manage the layout cache
//   - config: Inspect the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Settings
// come from the config file and are overridden by flags.
//
// # Example
//
//	import "github.com/matzehuels/jray/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps are formatted as
// "HH:MM:SS.ms" (e.g. "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures one step of a command and logs it once finished.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time, rounded to the
// millisecond, appended to keyvals.
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))...)
}
