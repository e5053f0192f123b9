package tree

import (
	"sort"
	"strings"
)

// LeafCanonical is the canonical form of a single node
const LeafCanonical = "()"

// Canonicalize returns the AHU canonical form of the tree rooted at n.
// Labels are ignored and child encodings are sorted, so two trees have the
// same canonical form iff they are isomorphic as unordered unlabeled trees.
func Canonicalize(n *Node) string {
	if n == nil {
		return ""
	}
	if n.IsLeaf() {
		return LeafCanonical
	}

	encoded := make([]string, len(n.Children))
	for i, child := range n.Children {
		encoded[i] = Canonicalize(child)
	}
	return wrapSorted(encoded)
}

// CanonicalizeIterative is the explicit-stack variant of Canonicalize
func CanonicalizeIterative(n *Node) string {
	if n == nil {
		return ""
	}

	type frame struct {
		node    *Node
		next    int
		encoded []string
	}

	stack := []frame{{node: n}}
	var result string
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.node.Children) {
			child := top.node.Children[top.next]
			top.next++
			stack = append(stack, frame{node: child})
			continue
		}

		var form string
		if top.node.IsLeaf() {
			form = LeafCanonical
		} else {
			form = wrapSorted(top.encoded)
		}
		stack = stack[:len(stack)-1]

		if len(stack) == 0 {
			result = form
			break
		}
		parent := &stack[len(stack)-1]
		parent.encoded = append(parent.encoded, form)
	}
	return result
}

// CanonicalizeWith dispatches to the traversal t
func CanonicalizeWith(n *Node, t Traversal) string {
	if t == TraversalIterative {
		return CanonicalizeIterative(n)
	}
	return Canonicalize(n)
}

func wrapSorted(encoded []string) string {
	sort.Strings(encoded)

	size := 2
	for _, e := range encoded {
		size += len(e)
	}

	var builder strings.Builder
	builder.Grow(size)
	builder.WriteByte('(')
	for _, e := range encoded {
		builder.WriteString(e)
	}
	builder.WriteByte(')')
	return builder.String()
}
