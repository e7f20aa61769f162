// Package logging wraps commonlog the way gopls' internal/event package
// wraps its own exporter: one Logger per component, obtained once and
// reused, with calls at the same sites the original Rust server's
// eprintln! calls lived.
package logging

import (
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Logger is the narrow logging surface this repo's components use.
type Logger = commonlog.Logger

// Configure sets the global verbosity (0 disables logging entirely; higher
// values are progressively more verbose) and, if path is non-empty, directs
// output to that file instead of stderr. Call once from cmd/shaderls before
// any component logger is used.
func Configure(verbosity int, path string) {
	var logPath *string
	if path != "" {
		logPath = &path
	}
	commonlog.Configure(verbosity, logPath)
}

// For returns the named component logger, e.g. logging.For("graph"),
// logging.For("lsp"). The same name always returns an equivalent logger;
// commonlog scopes output by name so component logs can be filtered.
func For(name string) Logger {
	return commonlog.GetLogger(name)
}
