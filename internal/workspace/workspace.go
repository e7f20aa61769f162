// Package workspace performs the initial filesystem walk that seeds the
// include graph when a workspace is opened: find every shader-relevant
// file under root, in a deterministic order, so the graph maintainer can
// scan each one before the server reports itself ready.
package workspace

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// includePatterns are the glob suffixes this server treats as shader
// source. .gsh and .csh are deliberately excluded: geometry and compute
// shaders are rare in the pack's iris/OptiFine-style workspaces this
// server targets, so the initial walk stays conservative and leaves
// those two root extensions to be picked up lazily on open instead.
var includePatterns = []string{"**/*.vsh", "**/*.fsh", "**/*.glsl", "**/*.inc"}

// Discover walks root and returns every file matching includePatterns, as
// absolute paths, sorted for deterministic iteration order.
func Discover(root string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	var out []string

	for _, pattern := range includePatterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			abs := filepath.Join(root, filepath.FromSlash(m))
			if _, ok := seen[abs]; ok {
				continue
			}
			seen[abs] = struct{}{}
			out = append(out, abs)
		}
	}

	sort.Strings(out)
	return out, nil
}
