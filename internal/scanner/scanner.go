// Package scanner extracts #include directives from shader source files.
// It is the Go counterpart of the original server's regex-driven
// find_includes: a best-effort, line-oriented pass that never fails the
// caller over a single malformed or unreadable line.
package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Strum355/vscode-mc-shader/internal/graph"
)

// includePattern matches a line consisting of (optional leading
// whitespace) #include "<target>" (optional trailing CR). The captured
// group is the quoted target, whose byte offsets within the line become
// the include position's start/end columns.
var includePattern = regexp.MustCompile(`^\s*#include "(.+)"\r?$`)

// Include is one resolved #include directive.
type Include struct {
	ResolvedPath string
	Position     graph.Position
}

// Scan reads file and returns its #include directives in source order.
// workspaceRoot is used to resolve absolute-in-pack include targets
// (those beginning with "/") against "<workspaceRoot>/shaders/". Lines
// that cannot be decoded as UTF-8 are silently skipped rather than
// failing the whole scan; only a failure to open the file itself is
// returned as an error.
func Scan(workspaceRoot, file string) ([]Include, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("scanner: opening %s: %w", file, err)
	}
	defer f.Close()

	var includes []Include
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		line := sc.Text()
		if !utf8.ValidString(line) {
			lineNo++
			continue
		}
		if m := includePattern.FindStringSubmatchIndex(line); m != nil {
			target := line[m[2]:m[3]]
			includes = append(includes, Include{
				ResolvedPath: resolve(workspaceRoot, file, target),
				Position: graph.Position{
					Line:     lineNo,
					StartCol: m[2],
					EndCol:   m[3],
				},
			})
		}
		lineNo++
	}
	// A scanner error (e.g. a line longer than the 1 MiB buffer) ends the
	// loop: the includes found before that line are returned, and no line
	// after it is scanned. No error is returned for it; only open()
	// failures above are fatal.
	return includes, nil
}

// resolve turns a raw #include target into a canonical path, honoring the
// absolute-in-pack vs relative-to-including-file rules.
func resolve(workspaceRoot, includingFile, target string) string {
	target = filepath.FromSlash(target)
	if strings.HasPrefix(filepath.ToSlash(target), "/") {
		trimmed := strings.TrimPrefix(filepath.ToSlash(target), "/")
		return filepath.Join(workspaceRoot, "shaders", filepath.FromSlash(trimmed))
	}
	return filepath.Join(filepath.Dir(includingFile), target)
}
