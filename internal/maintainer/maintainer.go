// Package maintainer applies include-scanner output to the graph store,
// keeping each file's outgoing edges in sync with its current #include
// set without disturbing edges that did not change.
package maintainer

import (
	"fmt"

	"github.com/Strum355/vscode-mc-shader/internal/graph"
	"github.com/Strum355/vscode-mc-shader/internal/scanner"
)

// Maintainer owns the scan-then-reconcile step of the graph lifecycle.
type Maintainer struct {
	Store         *graph.Store
	WorkspaceRoot string
}

// New returns a Maintainer writing into store.
func New(store *graph.Store, workspaceRoot string) *Maintainer {
	return &Maintainer{Store: store, WorkspaceRoot: workspaceRoot}
}

// AddFile adds (or locates) a node for path, scans its includes, and adds
// an edge for each one, creating child nodes as needed.
func (m *Maintainer) AddFile(path string) (graph.ID, error) {
	includes, err := scanner.Scan(m.WorkspaceRoot, path)
	if err != nil {
		return 0, fmt.Errorf("maintainer: AddFile %s: %w", path, err)
	}

	id := m.Store.AddNode(path)
	for _, inc := range includes {
		child := m.Store.AddNode(inc.ResolvedPath)
		m.Store.AddEdge(id, child, inc.Position)
	}
	return id, nil
}

// UpdateFile re-scans path's includes and reconciles them against its
// current outgoing edges: children present in both are left untouched
// (their edge identity is preserved), children no longer present lose
// their edge, and newly-discovered children gain one. It is a no-op if
// path has no existing node.
func (m *Maintainer) UpdateFile(path string) error {
	id, ok := m.Store.FindNode(path)
	if !ok {
		return nil
	}

	includes, err := scanner.Scan(m.WorkspaceRoot, path)
	if err != nil {
		return fmt.Errorf("maintainer: UpdateFile %s: %w", path, err)
	}

	type tuple struct {
		path string
		pos  graph.Position
	}

	current := make(map[tuple]int)
	for _, cm := range m.Store.ChildMeta(id) {
		current[tuple{cm.Path, cm.Position}]++
	}

	fresh := make(map[tuple]int)
	for _, inc := range includes {
		fresh[tuple{inc.ResolvedPath, inc.Position}]++
	}

	for t, n := range current {
		if remaining := n - fresh[t]; remaining > 0 {
			child, ok := m.Store.FindNode(t.path)
			if !ok {
				continue
			}
			for i := 0; i < remaining; i++ {
				m.Store.RemoveEdge(id, child)
			}
		}
	}
	for t, n := range fresh {
		if toAdd := n - current[t]; toAdd > 0 {
			child := m.Store.AddNode(t.path)
			for i := 0; i < toAdd; i++ {
				m.Store.AddEdge(id, child, t.pos)
			}
		}
	}
	return nil
}
