package lspserver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Strum355/vscode-mc-shader/internal/dfs"
	"github.com/Strum355/vscode-mc-shader/internal/graph"
	"github.com/Strum355/vscode-mc-shader/internal/lint"
	"github.com/Strum355/vscode-mc-shader/internal/merge"
	"github.com/Strum355/vscode-mc-shader/internal/uri"
)

// Developer-facing workspace/executeCommand commands: graphDot dumps the
// include graph as Graphviz DOT, virtualMerge takes a root URI and returns
// the merged buffer, following the original server's command dispatch in
// main.rs.
const (
	CommandGraphDot     = "mc-glsl.graphDot"
	CommandVirtualMerge = "mc-glsl.virtualMerge"
)

func (s *Server) executeCommand(glspCtx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	switch params.Command {
	case CommandGraphDot:
		return s.graphDot(), nil
	case CommandVirtualMerge:
		return s.virtualMerge(params.Arguments)
	default:
		return nil, fmt.Errorf("lspserver: unknown command %q", params.Command)
	}
}

// graphDot renders the whole include graph as Graphviz DOT text, one node
// per file and one edge per #include, for the original's "show include
// graph" developer command.
func (s *Server) graphDot() string {
	var sb strings.Builder
	sb.WriteString("digraph includes {\n")

	ids := s.store.AllNodeIDs()
	for _, id := range ids {
		path, _ := s.store.GetNode(id)
		fmt.Fprintf(&sb, "  %d [label=%q];\n", id, path)
	}
	for _, id := range ids {
		for _, child := range s.store.ChildIDs(id) {
			fmt.Fprintf(&sb, "  %d -> %d;\n", id, child)
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// virtualMerge takes a single root file URI argument and returns the
// flattened, #line-annotated translation unit that lint would submit to
// the validator for it, for the original's "preview merged buffer"
// developer command.
func (s *Server) virtualMerge(arguments []any) (string, error) {
	if len(arguments) != 1 {
		return "", fmt.Errorf("lspserver: %s takes exactly one root URI argument", CommandVirtualMerge)
	}
	rootURI, ok := arguments[0].(string)
	if !ok {
		return "", fmt.Errorf("lspserver: %s argument must be a string URI", CommandVirtualMerge)
	}

	path, err := uri.ToPath(rootURI)
	if err != nil {
		return "", fmt.Errorf("lspserver: %s: %w", CommandVirtualMerge, err)
	}

	id, ok := s.store.FindNode(path)
	if !ok {
		return "", &graph.ErrUnknownNode{Path: path}
	}

	visits, err := dfs.Walk(s.store, id)
	if err != nil {
		return "", fmt.Errorf("lspserver: %s: %w", CommandVirtualMerge, err)
	}

	sources, err := s.loadAll(visits)
	if err != nil {
		return "", fmt.Errorf("lspserver: %s: %w", CommandVirtualMerge, err)
	}

	text, _, err := merge.Merge(visits, sources)
	if err != nil {
		return "", fmt.Errorf("lspserver: %s: %w", CommandVirtualMerge, err)
	}
	return text, nil
}

func (s *Server) loadAll(visits []dfs.Visit) (map[graph.ID]string, error) {
	// Deterministic order keeps this command's error reporting stable from
	// run to run even though the result map itself is unordered.
	nodes := make([]graph.ID, 0, len(visits))
	seen := make(map[graph.ID]bool)
	for _, v := range visits {
		if !seen[v.Node] {
			seen[v.Node] = true
			nodes = append(nodes, v.Node)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	sources := make(map[graph.ID]string, len(nodes))
	for _, n := range nodes {
		if err := lint.LoadSource(s.store, n, sources); err != nil {
			return nil, err
		}
	}
	return sources, nil
}
