// Package merge flattens a DFS traversal of a shader root and its
// transitively-included files into a single translation unit a real GLSL
// driver can compile, while recording a line-by-line mapping back to each
// line's origin file and line number.
package merge

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Strum355/vscode-mc-shader/internal/dfs"
	"github.com/Strum355/vscode-mc-shader/internal/graph"
)

// extensionDirectivePattern is the naive-preprocessor hint some shader
// authors leave in for editors that don't understand #include natively.
// The real driver rejects it, so the merge engine strips it.
var extensionDirectivePattern = regexp.MustCompile(`#extension GL_GOOGLE_include_directive ?: ?require`)

// includePattern recognizes an #include line without re-resolving its
// target; the merge engine only needs to know that a line IS an include,
// not what it resolves to (the DFS order already carries that).
var includePattern = regexp.MustCompile(`^\s*#include "(.+)"\r?$`)

// Origin names the file and line a merged-text line came from. A nil
// *Origin entry in a Mapping means that merged line is a synthetic #line
// directive the merge engine injected, not user content.
type Origin struct {
	Node graph.ID
	Line int
}

// Mapping is indexed by zero-based merged-text line number.
type Mapping []*Origin

// Merge renders the flattened translation unit for the traversal in
// visits (as produced by dfs.Walk) using sources, keyed by node id. visits
// must start with the root (parent == nil); every other node must have a
// parent already present earlier in visits.
func Merge(visits []dfs.Visit, sources map[graph.ID]string) (string, Mapping, error) {
	if len(visits) == 0 {
		return "", nil, fmt.Errorf("merge: empty traversal")
	}

	childrenOf := make(map[graph.ID][]graph.ID)
	for _, v := range visits {
		if v.Parent != nil {
			childrenOf[*v.Parent] = append(childrenOf[*v.Parent], v.Node)
		}
	}

	cursor := make(map[graph.ID]int)
	marker := make(map[graph.ID]int)
	nextMarker := 1
	markerFor := func(id graph.ID) int {
		if m, ok := marker[id]; ok {
			return m
		}
		m := nextMarker
		nextMarker++
		marker[id] = m
		return m
	}

	var sb strings.Builder
	var mapping Mapping

	var expand func(id graph.ID)
	expand = func(id graph.ID) {
		src, ok := sources[id]
		if !ok {
			return
		}
		lines := splitLines(src)
		children := childrenOf[id]
		idx := cursor[id]

		for i, line := range lines {
			if extensionDirectivePattern.MatchString(line) {
				continue
			}
			if includePattern.MatchString(line) && idx < len(children) {
				child := children[idx]
				idx++

				sb.WriteString(fmt.Sprintf("#line 1 %d\n", markerFor(child)))
				mapping = append(mapping, nil)

				expand(child)

				sb.WriteString(fmt.Sprintf("#line %d %d\n", i+2, markerFor(id)))
				mapping = append(mapping, nil)
				continue
			}

			sb.WriteString(line)
			sb.WriteString("\n")
			mapping = append(mapping, &Origin{Node: id, Line: i})
		}
		cursor[id] = idx
	}

	expand(visits[0].Node)
	return sb.String(), mapping, nil
}

// splitLines splits already-LF-normalized source into lines without a
// trailing empty element for a final newline, and treats a wholly empty
// source as zero lines (still a valid, bracketed-by-#line-markers region
// when it is a child expansion).
func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	trimmed := strings.TrimSuffix(src, "\n")
	return strings.Split(trimmed, "\n")
}
