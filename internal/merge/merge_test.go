package merge_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Strum355/vscode-mc-shader/internal/dfs"
	"github.com/Strum355/vscode-mc-shader/internal/graph"
	"github.com/Strum355/vscode-mc-shader/internal/merge"
)

func TestMergeSimpleInclude(t *testing.T) {
	s := graph.NewStore()
	root := s.AddNode("a.fsh")
	child := s.AddNode("b.glsl")
	s.AddEdge(root, child, graph.Position{Line: 1})

	sources := map[graph.ID]string{
		root:  "#version 330\n#include \"b.glsl\"\n",
		child: "void f(){}\n",
	}

	visits, err := dfs.Walk(s, root)
	require.NoError(t, err)

	text, mapping, err := merge.Merge(visits, sources)
	require.NoError(t, err)

	assert.Contains(t, text, "#version 330")
	assert.Contains(t, text, "void f(){}")
	assert.Contains(t, text, "#line 1 ")
	// #line directives restoring the parent resume at the line after the
	// include directive (0-indexed line 1 -> GLSL 1-indexed line 3).
	assert.Contains(t, text, "#line 3 ")

	// Every non-#line line maps back to real origin content.
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.Len(t, mapping, len(lines))
	var sawVersion, sawVoid bool
	for i, line := range lines {
		origin := mapping[i]
		if strings.HasPrefix(line, "#line") {
			assert.Nil(t, origin, "line %d: %q", i, line)
			continue
		}
		require.NotNil(t, origin, "line %d: %q", i, line)
		if strings.Contains(line, "#version") {
			assert.Equal(t, root, origin.Node)
			assert.Equal(t, 0, origin.Line)
			sawVersion = true
		}
		if strings.Contains(line, "void f") {
			assert.Equal(t, child, origin.Node)
			assert.Equal(t, 0, origin.Line)
			sawVoid = true
		}
	}
	assert.True(t, sawVersion)
	assert.True(t, sawVoid)
}

func TestMergeStripsIncludeExtensionDirective(t *testing.T) {
	s := graph.NewStore()
	root := s.AddNode("a.fsh")
	sources := map[graph.ID]string{
		root: "#extension GL_GOOGLE_include_directive : require\nvoid main(){}\n",
	}
	visits, err := dfs.Walk(s, root)
	require.NoError(t, err)

	text, _, err := merge.Merge(visits, sources)
	require.NoError(t, err)
	assert.NotContains(t, text, "GL_GOOGLE_include_directive")
	assert.Contains(t, text, "void main(){}")
}

func TestMergeDiamondIncludeDuplicatesExpansion(t *testing.T) {
	s := graph.NewStore()
	root := s.AddNode("a.fsh")
	b := s.AddNode("b.glsl")
	c := s.AddNode("c.glsl")
	shared := s.AddNode("shared.glsl")
	s.AddEdge(root, b, graph.Position{Line: 0})
	s.AddEdge(root, c, graph.Position{Line: 1})
	s.AddEdge(b, shared, graph.Position{Line: 0})
	s.AddEdge(c, shared, graph.Position{Line: 0})

	sources := map[graph.ID]string{
		root:   "#include \"b.glsl\"\n#include \"c.glsl\"\n",
		b:      "#include \"shared.glsl\"\n",
		c:      "#include \"shared.glsl\"\n",
		shared: "float x = 1.0;\n",
	}
	visits, err := dfs.Walk(s, root)
	require.NoError(t, err)

	text, _, err := merge.Merge(visits, sources)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(text, "float x = 1.0;"))
}

func TestMergeEmptyFileExpandsToEmptyBracketedRegion(t *testing.T) {
	s := graph.NewStore()
	root := s.AddNode("a.fsh")
	child := s.AddNode("empty.glsl")
	s.AddEdge(root, child, graph.Position{Line: 0})

	sources := map[graph.ID]string{
		root:  "#include \"empty.glsl\"\n",
		child: "",
	}
	visits, err := dfs.Walk(s, root)
	require.NoError(t, err)

	text, _, err := merge.Merge(visits, sources)
	require.NoError(t, err)
	assert.Contains(t, text, "#line 1 ")
	assert.Contains(t, text, "#line 2 ")
}

func TestMergeDuplicateIncludeLinesConsumeDistinctEdges(t *testing.T) {
	s := graph.NewStore()
	root := s.AddNode("a.fsh")
	child := s.AddNode("b.glsl")
	s.AddEdge(root, child, graph.Position{Line: 0})
	s.AddEdge(root, child, graph.Position{Line: 1})

	sources := map[graph.ID]string{
		root:  "#include \"b.glsl\"\n#include \"b.glsl\"\n",
		child: "float y;\n",
	}
	visits, err := dfs.Walk(s, root)
	require.NoError(t, err)

	text, _, err := merge.Merge(visits, sources)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(text, "float y;"))
}
