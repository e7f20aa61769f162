// Package uri converts between filesystem paths and the file:// URIs the
// Language Server Protocol uses on the wire. It is the Go counterpart of
// the original server's url_norm module: a single place responsible for
// making the two representations agree on Windows and POSIX alike.
package uri

import (
	"net/url"
	"path/filepath"
	"strings"
)

// FromPath converts an absolute filesystem path to a file:// URI.
func FromPath(path string) string {
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String()
}

// ToPath converts a file:// URI back to a filesystem path.
func ToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	p := u.Path
	// Strip the leading slash windows drive-letter paths pick up from the
	// URL form (file:///C:/foo) but keep it for POSIX absolute paths.
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}
