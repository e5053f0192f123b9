package tree

// Index holds the postorder numbering of a tree together with the data the
// Zhang-Shasha algorithm needs. All slices are indexed by postorder position.
type Index struct {
	// Nodes in postorder; the root is always Nodes[len(Nodes)-1]
	Nodes []*Node

	// Parent position of each node, -1 for the root
	Parent []int

	// LMD is the position of each node's leftmost leaf descendant
	LMD []int

	// KeyRoots are the positions of the root and of every node whose
	// leftmost leaf differs from its parent's, in ascending order
	KeyRoots []int

	positions map[*Node]int
}

// Size returns the number of indexed nodes
func (ix *Index) Size() int {
	return len(ix.Nodes)
}

// Root returns the position of the root
func (ix *Index) Root() int {
	return len(ix.Nodes) - 1
}

// Position returns the postorder position of n, or -1 if n is not part of
// the indexed tree
func (ix *Index) Position(n *Node) int {
	if pos, ok := ix.positions[n]; ok {
		return pos
	}
	return -1
}

// IsKeyRoot reports whether the node at pos is a keyroot
func (ix *Index) IsKeyRoot(pos int) bool {
	parent := ix.Parent[pos]
	return parent < 0 || ix.LMD[pos] != ix.LMD[parent]
}

// NewIndex numbers the tree rooted at root by a recursive postorder walk
func NewIndex(root *Node) *Index {
	ix := &Index{positions: make(map[*Node]int)}
	if root == nil {
		return ix
	}
	ix.visit(root)
	ix.computeKeyRoots()
	return ix
}

// visit numbers n's subtree and returns n's position
func (ix *Index) visit(n *Node) int {
	childPositions := make([]int, len(n.Children))
	for i, child := range n.Children {
		childPositions[i] = ix.visit(child)
	}

	pos := ix.append(n)
	for _, cp := range childPositions {
		ix.Parent[cp] = pos
	}
	if len(childPositions) > 0 {
		ix.LMD[pos] = ix.LMD[childPositions[0]]
	}
	return pos
}

// NewIndexIterative is the explicit-stack variant of NewIndex
func NewIndexIterative(root *Node) *Index {
	ix := &Index{positions: make(map[*Node]int)}
	if root == nil {
		return ix
	}

	type frame struct {
		node     *Node
		next     int
		children []int
	}

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.node.Children) {
			child := top.node.Children[top.next]
			top.next++
			stack = append(stack, frame{node: child})
			continue
		}

		pos := ix.append(top.node)
		for _, cp := range top.children {
			ix.Parent[cp] = pos
		}
		if len(top.children) > 0 {
			ix.LMD[pos] = ix.LMD[top.children[0]]
		}
		stack = stack[:len(stack)-1]

		if len(stack) > 0 {
			parent := &stack[len(stack)-1]
			parent.children = append(parent.children, pos)
		}
	}

	ix.computeKeyRoots()
	return ix
}

// NewIndexWith dispatches to the traversal t
func NewIndexWith(root *Node, t Traversal) *Index {
	if t == TraversalIterative {
		return NewIndexIterative(root)
	}
	return NewIndex(root)
}

// append assigns the next postorder position to n, defaulting it to a leaf
func (ix *Index) append(n *Node) int {
	pos := len(ix.Nodes)
	ix.Nodes = append(ix.Nodes, n)
	ix.Parent = append(ix.Parent, -1)
	ix.LMD = append(ix.LMD, pos)
	ix.positions[n] = pos
	return pos
}

// computeKeyRoots scans positions in ascending order, which is the order the
// edit distance needs them in
func (ix *Index) computeKeyRoots() {
	ix.KeyRoots = ix.KeyRoots[:0]
	for pos := range ix.Nodes {
		if ix.IsKeyRoot(pos) {
			ix.KeyRoots = append(ix.KeyRoots, pos)
		}
	}
}
