package tree

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// labels returns the preorder label sequence of the tree
func labels(n *Node) []string {
	out := []string{n.Label}
	for _, child := range n.Children {
		out = append(out, labels(child)...)
	}
	return out
}

func TestMaterialize_BuildsOrderedTree(t *testing.T) {
	g := Graph{
		"main": {"a", "b"},
		"a":    {"c"},
		"b":    {},
		"c":    {},
	}

	for _, traversal := range []Traversal{TraversalRecursive, TraversalIterative} {
		t.Run(string(traversal), func(t *testing.T) {
			root, err := g.Materialize("main", traversal)
			require.NoError(t, err)

			assert.Equal(t, "main", root.Label)
			require.Len(t, root.Children, 2)
			assert.Equal(t, "a", root.Children[0].Label)
			assert.Equal(t, "b", root.Children[1].Label)
			assert.Equal(t, []string{"main", "a", "c", "b"}, labels(root))
			assert.Equal(t, 4, root.Size())
			assert.Equal(t, 2, root.Height())
		})
	}
}

func TestMaterialize_SingleNode(t *testing.T) {
	root, err := Materialize(Graph{"main": {}}, "main")
	require.NoError(t, err)
	assert.True(t, root.IsLeaf())
	assert.Equal(t, 1, root.Size())
	assert.Equal(t, 0, root.Height())
}

func TestMaterialize_UnknownNode(t *testing.T) {
	tests := []struct {
		name   string
		graph  Graph
		root   string
		label  string
		parent string
	}{
		{
			name:   "missing child",
			graph:  Graph{"main": {"a", "ghost"}, "a": {}},
			root:   "main",
			label:  "ghost",
			parent: "main",
		},
		{
			name:   "missing root",
			graph:  Graph{"a": {}},
			root:   "main",
			label:  "main",
			parent: "",
		},
		{
			name:   "empty graph",
			graph:  Graph{},
			root:   "main",
			label:  "main",
			parent: "",
		},
		{
			name:   "missing grandchild",
			graph:  Graph{"main": {"a"}, "a": {"b"}},
			root:   "main",
			label:  "b",
			parent: "a",
		},
	}

	for _, tt := range tests {
		for _, traversal := range []Traversal{TraversalRecursive, TraversalIterative} {
			t.Run(fmt.Sprintf("%s/%s", tt.name, traversal), func(t *testing.T) {
				root, err := tt.graph.Materialize(tt.root, traversal)
				require.Error(t, err)
				assert.Nil(t, root, "no partial tree on failure")

				var unknown *UnknownNodeError
				require.True(t, errors.As(err, &unknown))
				assert.Equal(t, tt.label, unknown.Label)
				assert.Equal(t, tt.parent, unknown.Parent)
			})
		}
	}
}

func TestMaterialize_CycleDetected(t *testing.T) {
	tests := []struct {
		name  string
		graph Graph
		label string
		path  []string
	}{
		{
			name:  "self loop",
			graph: Graph{"main": {"main"}},
			label: "main",
			path:  []string{"main", "main"},
		},
		{
			name:  "back edge",
			graph: Graph{"main": {"a"}, "a": {"b"}, "b": {"a"}},
			label: "a",
			path:  []string{"main", "a", "b", "a"},
		},
	}

	for _, tt := range tests {
		for _, traversal := range []Traversal{TraversalRecursive, TraversalIterative} {
			t.Run(fmt.Sprintf("%s/%s", tt.name, traversal), func(t *testing.T) {
				root, err := tt.graph.Materialize("main", traversal)
				require.Error(t, err)
				assert.Nil(t, root)

				var cycle *CycleDetectedError
				require.True(t, errors.As(err, &cycle))
				assert.Equal(t, tt.label, cycle.Label)
				assert.Equal(t, tt.path, cycle.Path)
			})
		}
	}
}

func TestMaterialize_SharedLeafIsNotACycle(t *testing.T) {
	// Reused labels on different paths are duplicated, not rejected
	g := Graph{"main": {"a", "b"}, "a": {"leaf"}, "b": {"leaf"}, "leaf": {}}

	root, err := Materialize(g, "main")
	require.NoError(t, err)
	assert.Equal(t, 5, root.Size())

	iter, err := MaterializeIterative(g, "main")
	require.NoError(t, err)
	assert.Equal(t, labels(root), labels(iter))
}

func TestMaterializeIterative_DeepChain(t *testing.T) {
	const depth = 100000
	g := make(Graph, depth)
	for i := 0; i < depth-1; i++ {
		g[fmt.Sprintf("n%d", i)] = []string{fmt.Sprintf("n%d", i+1)}
	}
	g[fmt.Sprintf("n%d", depth-1)] = []string{}

	root, err := MaterializeIterative(g, "n0")
	require.NoError(t, err)
	assert.Equal(t, depth, root.Size())
	assert.Equal(t, depth-1, root.Height())
}

func TestTraversal_IsValid(t *testing.T) {
	assert.True(t, TraversalRecursive.IsValid())
	assert.True(t, TraversalIterative.IsValid())
	assert.False(t, Traversal("bfs").IsValid())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `unknown root node "main"`, (&UnknownNodeError{Label: "main"}).Error())
	assert.Equal(t, `unknown node "x" referenced by "main"`, (&UnknownNodeError{Label: "x", Parent: "main"}).Error())
	assert.Equal(t, `cycle detected at node "a": main -> a -> a`,
		(&CycleDetectedError{Label: "a", Path: []string{"main", "a", "a"}}).Error())
}
