package tree

import (
	"fmt"
	"strings"
)

// Graph maps a node label to the ordered labels of its children.
// It is expected to describe a tree reachable from a designated root; the
// materializer checks for unknown labels and cycles but not for shared
// descendants.
type Graph map[string][]string

// Traversal selects between the recursive and the explicit-stack
// implementations of the tree walks.
type Traversal string

const (
	// TraversalRecursive uses native recursion (depth bounded by the goroutine stack)
	TraversalRecursive Traversal = "recursive"

	// TraversalIterative uses an explicit work stack
	TraversalIterative Traversal = "iterative"
)

// IsValid reports whether t names a known traversal
func (t Traversal) IsValid() bool {
	return t == TraversalRecursive || t == TraversalIterative
}

// UnknownNodeError is returned when a label referenced as root or as a child
// has no adjacency entry in the graph.
type UnknownNodeError struct {
	Label  string
	Parent string // empty when the missing label is the root
}

func (e *UnknownNodeError) Error() string {
	if e.Parent == "" {
		return fmt.Sprintf("unknown root node %q", e.Label)
	}
	return fmt.Sprintf("unknown node %q referenced by %q", e.Label, e.Parent)
}

// CycleDetectedError is returned when materialization revisits a label that
// is still on the current root-to-node path.
type CycleDetectedError struct {
	Label string
	Path  []string // root-to-node path, ending with the revisited label
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("cycle detected at node %q: %s", e.Label, strings.Join(e.Path, " -> "))
}

// Materialize builds the ordered tree rooted at root using the traversal t
func (g Graph) Materialize(root string, t Traversal) (*Node, error) {
	if t == TraversalIterative {
		return MaterializeIterative(g, root)
	}
	return Materialize(g, root)
}

// Materialize builds the ordered tree rooted at root by recursively
// instantiating every child in adjacency order. No partial tree is returned
// on failure.
func Materialize(g Graph, root string) (*Node, error) {
	m := &materializer{
		graph:  g,
		onPath: make(map[string]bool),
	}
	return m.build(root, "")
}

type materializer struct {
	graph  Graph
	onPath map[string]bool
	path   []string
}

func (m *materializer) build(label, parent string) (*Node, error) {
	if m.onPath[label] {
		return nil, m.cycleError(label)
	}
	children, ok := m.graph[label]
	if !ok {
		return nil, &UnknownNodeError{Label: label, Parent: parent}
	}

	m.onPath[label] = true
	m.path = append(m.path, label)
	defer func() {
		delete(m.onPath, label)
		m.path = m.path[:len(m.path)-1]
	}()

	node := &Node{Label: label, Children: make([]*Node, 0, len(children))}
	for _, childLabel := range children {
		child, err := m.build(childLabel, label)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func (m *materializer) cycleError(label string) error {
	path := make([]string, 0, len(m.path)+1)
	path = append(path, m.path...)
	path = append(path, label)
	return &CycleDetectedError{Label: label, Path: path}
}

// MaterializeIterative is the explicit-stack variant of Materialize. It
// produces the same tree and the same errors without growing the call stack
// with tree depth.
func MaterializeIterative(g Graph, root string) (*Node, error) {
	rootChildren, ok := g[root]
	if !ok {
		return nil, &UnknownNodeError{Label: root}
	}

	type frame struct {
		node     *Node
		children []string
		next     int
	}

	onPath := map[string]bool{root: true}
	path := []string{root}
	rootNode := &Node{Label: root, Children: make([]*Node, 0, len(rootChildren))}
	stack := []frame{{node: rootNode, children: rootChildren}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.children) {
			delete(onPath, top.node.Label)
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
			continue
		}

		label := top.children[top.next]
		top.next++

		if onPath[label] {
			cycle := make([]string, 0, len(path)+1)
			cycle = append(cycle, path...)
			cycle = append(cycle, label)
			return nil, &CycleDetectedError{Label: label, Path: cycle}
		}
		children, ok := g[label]
		if !ok {
			return nil, &UnknownNodeError{Label: label, Parent: top.node.Label}
		}

		child := &Node{Label: label, Children: make([]*Node, 0, len(children))}
		top.node.Children = append(top.node.Children, child)

		onPath[label] = true
		path = append(path, label)
		stack = append(stack, frame{node: child, children: children})
	}

	return rootNode, nil
}
