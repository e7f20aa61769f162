package lspserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Strum355/vscode-mc-shader/internal/graph"
	"github.com/Strum355/vscode-mc-shader/internal/lint"
	"github.com/Strum355/vscode-mc-shader/internal/maintainer"
	"github.com/Strum355/vscode-mc-shader/internal/shaderkind"
	"github.com/Strum355/vscode-mc-shader/internal/uri"
)

type noopAdapter struct{}

func (noopAdapter) Validate(context.Context, shaderkind.Kind, string) (string, bool, error) {
	return "", false, nil
}

func newTestServer(t *testing.T, root string) *Server {
	t.Helper()
	store := graph.NewStore()
	return &Server{
		store:         store,
		maintainer:    maintainer.New(store, root),
		orchestrator:  lint.New(store, noopAdapter{}),
		workspaceRoot: root,
	}
}

func TestGraphDotRendersNodesAndEdges(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "shaders", "a.fsh")
	b := filepath.Join(root, "shaders", "b.glsl")
	require.NoError(t, os.MkdirAll(filepath.Dir(a), 0o755))
	require.NoError(t, os.WriteFile(a, []byte("#include \"b.glsl\"\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("void f(){}\n"), 0o644))

	s := newTestServer(t, root)
	_, err := s.maintainer.AddFile(a)
	require.NoError(t, err)

	dot := s.graphDot()
	assert.Contains(t, dot, "digraph includes {")
	assert.Contains(t, dot, "->")
	assert.Contains(t, dot, a)
	assert.Contains(t, dot, b)
}

func TestVirtualMergeReturnsFlattenedText(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "shaders", "a.fsh")
	b := filepath.Join(root, "shaders", "b.glsl")
	require.NoError(t, os.MkdirAll(filepath.Dir(a), 0o755))
	require.NoError(t, os.WriteFile(a, []byte("#include \"b.glsl\"\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("float x;\n"), 0o644))

	s := newTestServer(t, root)
	_, err := s.maintainer.AddFile(a)
	require.NoError(t, err)

	text, err := s.virtualMerge([]any{uri.FromPath(a)})
	require.NoError(t, err)
	assert.Contains(t, text, "float x;")
}

func TestVirtualMergeRejectsWrongArgumentCount(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	_, err := s.virtualMerge(nil)
	assert.Error(t, err)
}

func TestVirtualMergeRejectsUnknownRoot(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	_, err := s.virtualMerge([]any{"file:///nope.fsh"})
	assert.Error(t, err)
}
