// Package lint implements the lint orchestrator: the control flow that
// takes an edited file, finds the shader root(s) it belongs to, flattens
// and validates each, and back-maps the result into per-file diagnostics.
package lint

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Strum355/vscode-mc-shader/internal/diagnostics"
	"github.com/Strum355/vscode-mc-shader/internal/dfs"
	"github.com/Strum355/vscode-mc-shader/internal/graph"
	"github.com/Strum355/vscode-mc-shader/internal/merge"
	"github.com/Strum355/vscode-mc-shader/internal/shaderkind"
	"github.com/Strum355/vscode-mc-shader/internal/uri"
	"github.com/Strum355/vscode-mc-shader/internal/validator"
)

// IOFailure wraps a source-read error that aborts a lint.
type IOFailure struct {
	Path string
	Err  error
}

func (e *IOFailure) Error() string {
	return fmt.Sprintf("lint: reading %s: %v", e.Path, e.Err)
}

func (e *IOFailure) Unwrap() error { return e.Err }

// Orchestrator runs lints against a shared graph store.
type Orchestrator struct {
	Store     *graph.Store
	Validator validator.Adapter
}

// New returns an Orchestrator reading graph state from store and
// validating through adapter.
func New(store *graph.Store, adapter validator.Adapter) *Orchestrator {
	return &Orchestrator{Store: store, Validator: adapter}
}

// Lint runs a full lint cycle for filePath: find its root ancestors (or
// treat it as a root itself), flatten and validate each applicable root,
// back-map diagnostics to origin files, and back-fill an empty diagnostic
// list for every file touched so stale client-side diagnostics clear.
func (o *Orchestrator) Lint(ctx context.Context, filePath string) (map[string][]diagnostics.Diagnostic, error) {
	id, ok := o.Store.FindNode(filePath)
	if !ok {
		return nil, &graph.ErrUnknownNode{Path: filePath}
	}

	triggerURI := uri.FromPath(filePath)
	result := make(map[string][]diagnostics.Diagnostic)
	touched := make(map[graph.ID]struct{})
	sources := make(map[graph.ID]string)

	loadTree := func(root graph.ID) ([]dfs.Visit, error) {
		visits, err := dfs.Walk(o.Store, root)
		for _, v := range visits {
			touched[v.Node] = struct{}{}
			if err := o.loadSource(v.Node, sources); err != nil {
				return visits, err
			}
		}
		return visits, err
	}

	backFill := func() {
		for node := range touched {
			path, ok := o.Store.GetNode(node)
			if !ok {
				continue
			}
			u := uri.FromPath(path)
			if _, ok := result[u]; !ok {
				result[u] = nil
			}
		}
	}

	roots := o.Store.CollectRootAncestors(id)

	if len(roots) == 0 {
		// This file is itself a candidate root.
		visits, err := loadTree(id)
		if err != nil {
			if ce, isCycle := asCycleError(err); isCycle {
				result[triggerURI] = []diagnostics.Diagnostic{cycleDiagnostic(ce)}
				backFill()
				return result, nil
			}
			return nil, err
		}

		kind := shaderkind.Of(filePath)
		if kind == shaderkind.Unsupported {
			backFill()
			return result, nil
		}

		if err := o.validateAndMerge(ctx, visits, sources, kind, triggerURI, result); err != nil {
			return nil, err
		}
		backFill()
		return result, nil
	}

	type tree struct {
		kind   shaderkind.Kind
		visits []dfs.Visit
	}
	var trees []tree

	for _, root := range roots {
		visits, err := loadTree(root)
		if err != nil {
			if ce, isCycle := asCycleError(err); isCycle {
				result[triggerURI] = []diagnostics.Diagnostic{cycleDiagnostic(ce)}
				backFill()
				return result, nil
			}
			return nil, err
		}

		rootPath, _ := o.Store.GetNode(root)
		kind := shaderkind.Of(rootPath)
		if kind == shaderkind.Unsupported {
			continue
		}
		trees = append(trees, tree{kind: kind, visits: visits})
	}

	for _, t := range trees {
		if err := o.validateAndMerge(ctx, t.visits, sources, t.kind, triggerURI, result); err != nil {
			return nil, err
		}
	}

	backFill()
	return result, nil
}

func (o *Orchestrator) validateAndMerge(
	ctx context.Context,
	visits []dfs.Visit,
	sources map[graph.ID]string,
	kind shaderkind.Kind,
	triggerURI string,
	result map[string][]diagnostics.Diagnostic,
) error {
	text, _, err := merge.Merge(visits, sources)
	if err != nil {
		return fmt.Errorf("lint: merge: %w", err)
	}

	output, ran, err := o.Validator.Validate(ctx, kind, text)
	if err != nil {
		return fmt.Errorf("lint: validate: %w", err)
	}
	if !ran {
		return nil
	}

	for u, ds := range diagnostics.Parse(output, triggerURI) {
		result[u] = append(result[u], ds...)
	}
	return nil
}

func (o *Orchestrator) loadSource(node graph.ID, into map[graph.ID]string) error {
	return LoadSource(o.Store, node, into)
}

// LoadSource reads the source for node into the into map (keyed by node
// id), normalizing CRLF to LF, skipping nodes already present. Exposed for
// callers like the virtualMerge developer command that need the same
// source-loading behavior as a lint without running a full Lint.
func LoadSource(store *graph.Store, node graph.ID, into map[graph.ID]string) error {
	if _, ok := into[node]; ok {
		return nil
	}
	path, ok := store.GetNode(node)
	if !ok {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return &IOFailure{Path: path, Err: err}
	}
	into[node] = normalizeCRLF(string(raw))
	return nil
}

func normalizeCRLF(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func asCycleError(err error) (*dfs.CycleError, bool) {
	ce, ok := err.(*dfs.CycleError)
	return ce, ok
}

func cycleDiagnostic(ce *dfs.CycleError) diagnostics.Diagnostic {
	return diagnostics.Diagnostic{
		Line:     0,
		Severity: diagnostics.Error,
		Source:   diagnostics.Source,
		Message:  ce.Error(),
	}
}
