package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/treesim/internal/tree"
)

// RootLabel is the label given to the module node of a converted source file
const RootLabel = "main"

// skippedTypes are named nodes that carry no structure
var skippedTypes = map[string]bool{
	"comment": true,
}

// ToGraph converts the named nodes of a syntax tree into an adjacency graph.
// The module node becomes RootLabel and every other node is labeled
// "<type>#<n>" with n counting nodes in discovery order, which keeps labels
// unique so the graph is a tree. Children keep their source order.
func ToGraph(root *sitter.Node) tree.Graph {
	graph := make(tree.Graph)
	if root == nil {
		return graph
	}

	type frame struct {
		node  *sitter.Node
		label string
	}

	next := 0
	labelFor := func(n *sitter.Node) string {
		next++
		return fmt.Sprintf("%s#%d", n.Type(), next)
	}

	// Explicit stack; generated code can nest deeper than is comfortable to recurse
	stack := []frame{{node: root, label: RootLabel}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var children []frame
		count := int(top.node.NamedChildCount())
		for i := 0; i < count; i++ {
			child := top.node.NamedChild(i)
			if child == nil || skippedTypes[child.Type()] {
				continue
			}
			children = append(children, frame{node: child})
		}

		labels := make([]string, len(children))
		for i := range children {
			children[i].label = labelFor(children[i].node)
			labels[i] = children[i].label
		}
		graph[top.label] = labels

		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return graph
}

// ParseGraph parses Python source and converts it into a graph rooted at
// RootLabel
func (p *Parser) ParseGraph(ctx context.Context, source []byte) (tree.Graph, error) {
	result, err := p.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return ToGraph(result.RootNode), nil
}
