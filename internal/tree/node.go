package tree

import (
	"fmt"
)

// Node is a node of an ordered rooted tree. Every node is owned by exactly
// one parent; the root is owned by the caller that materialized it.
type Node struct {
	// Label is the graph label the node was materialized from
	Label string

	// Children in adjacency order
	Children []*Node
}

// NewNode creates a leaf node with the given label
func NewNode(label string) *Node {
	return &Node{
		Label:    label,
		Children: []*Node{},
	}
}

// AddChild appends a child node and returns the receiver so trees can be
// built inline in tests and examples.
func (n *Node) AddChild(child *Node) *Node {
	if child != nil {
		n.Children = append(n.Children, child)
	}
	return n
}

// IsLeaf returns true if this node has no children
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Size returns the number of nodes in the subtree rooted at n.
// The walk uses an explicit stack so arbitrarily deep trees are safe.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}

	size := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		size++
		stack = append(stack, top.Children...)
	}
	return size
}

// Height returns the number of edges on the longest root-to-leaf path
func (n *Node) Height() int {
	if n == nil {
		return 0
	}

	type item struct {
		node  *Node
		depth int
	}

	height := 0
	stack := []item{{node: n}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.depth > height {
			height = top.depth
		}
		for _, child := range top.node.Children {
			stack = append(stack, item{node: child, depth: top.depth + 1})
		}
	}
	return height
}

// String returns a string representation of the node
func (n *Node) String() string {
	return fmt.Sprintf("Node{Label: %s, Children: %d}", n.Label, len(n.Children))
}
