// Package diagnostics parses the free-form diagnostic text an external
// GLSL driver writes and re-targets each diagnostic at its originating
// include-source file and line.
package diagnostics

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Strum355/vscode-mc-shader/internal/uri"
)

// Severity mirrors the LSP DiagnosticSeverity values this server emits.
type Severity int

const (
	Error Severity = iota + 1
	Warning
	Information
)

// Source is the fixed LSP "source" tag attached to every diagnostic this
// server produces.
const Source = "mc-glsl"

// lineOffset is a fixed amount subtracted from every line number the
// driver reports. It is not derived from the merge mapping: internal/merge
// inserts no lines above the root's own first line, so the subtraction is
// not an inversion of that mapping. See DESIGN.md for why the constant is
// kept.
const lineOffset = 2

// diagnosticLine matches one line of driver output:
//
//	<filepath>(<linenum>) : <severity> <CODE>: <message>
var diagnosticLine = regexp.MustCompile(`^([^?<>*|"]+)\((\d+)\) : (error|warning) [A-C]\d+: (.+)$`)

// Diagnostic is one parsed, origin-mapped driver diagnostic.
type Diagnostic struct {
	Line     int
	Severity Severity
	Source   string
	Message  string
}

// Parse splits raw driver output into per-origin-URI diagnostic lists.
// triggerURI is the URI of the file that caused this lint; a diagnostic
// whose reported filepath is the literal "0" is attributed to it. Lines
// that don't match the expected grammar are silently skipped. Multiple
// diagnostics for the same URI accumulate in order of appearance.
func Parse(raw, triggerURI string) map[string][]Diagnostic {
	result := make(map[string][]Diagnostic)
	for _, line := range strings.Split(raw, "\n") {
		m := diagnosticLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		filepathField, linenumField, severityField, messageField := m[1], m[2], m[3], m[4]

		var lineNo int
		if n, err := strconv.Atoi(linenumField); err == nil {
			lineNo = n - lineOffset
		}

		var sev Severity
		switch severityField {
		case "error":
			sev = Error
		case "warning":
			sev = Warning
		default:
			sev = Information
		}

		origin := triggerURI
		if filepathField != "0" {
			origin = uri.FromPath(filepathField)
		}

		result[origin] = append(result[origin], Diagnostic{
			Line:     lineNo,
			Severity: sev,
			Source:   Source,
			Message:  strings.TrimSpace(messageField),
		})
	}
	return result
}
