// Package tree turns adjacency-list graphs into ordered rooted trees and
// derives the structural views the similarity metrics are computed from.
//
// It provides:
//   - Materialize, which builds an owned tree from a Graph and a root label
//     and reports unknown labels and cycles as typed errors
//   - Canonicalize, the AHU canonical form (shape only, sibling order ignored)
//   - NewIndex, the postorder numbering with leftmost-leaf descendants and
//     keyroots used by the tree edit distance
//
// Every walk has a recursive and an explicit-stack variant; the latter is
// selected with TraversalIterative for very deep or skewed inputs.
//
// Basic usage:
//
//	root, err := tree.Materialize(tree.Graph{"main": {"a", "b"}, "a": {}, "b": {}}, "main")
//	if err != nil {
//	    // *tree.UnknownNodeError or *tree.CycleDetectedError
//	}
//	form := tree.Canonicalize(root) // "(()())"
package tree
