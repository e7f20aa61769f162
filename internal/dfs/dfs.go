// Package dfs walks the include graph from a root in pre-order,
// edge-ordered, rejecting cycles reachable from that root.
package dfs

import (
	"fmt"

	"github.com/Strum355/vscode-mc-shader/internal/graph"
)

// Visit is one step of a traversal: the node visited and, unless it is the
// root, the node that led to it.
type Visit struct {
	Node   graph.ID
	Parent *graph.ID
}

// CycleError reports that walking From's outgoing edges reached To while
// To was still an ancestor on the current path.
type CycleError struct {
	From graph.ID
	To   graph.ID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dfs: cycle detected: %d -> %d", e.From, e.To)
}

// Walk performs a pre-order, edge-ordered depth-first traversal of store
// starting at root. Children are visited in the store's insertion order,
// matching the #include order of their including file. Diamond includes
// (the same node reached via two different paths) are visited once per
// path and produce duplicate Visit entries by design; only a node
// reappearing as its own ancestor is rejected.
//
// On a cycle, Walk returns the partial visit list accumulated before the
// cycle was detected, along with a *CycleError; callers should still use
// the partial list (e.g. to back-fill diagnostics for files that were
// successfully visited).
func Walk(store *graph.Store, root graph.ID) ([]Visit, error) {
	var visits []Visit
	onPath := make(map[graph.ID]bool)

	var walk func(node graph.ID, parent *graph.ID) error
	walk = func(node graph.ID, parent *graph.ID) error {
		if onPath[node] {
			return &CycleError{From: *parent, To: node}
		}
		visits = append(visits, Visit{Node: node, Parent: parent})
		onPath[node] = true
		defer delete(onPath, node)

		for _, child := range store.ChildIDs(node) {
			p := node
			if err := walk(child, &p); err != nil {
				return err
			}
		}
		return nil
	}

	err := walk(root, nil)
	return visits, err
}
