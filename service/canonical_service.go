package service

import (
	"context"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/tree"
)

// CanonicalServiceImpl implements the CanonicalService interface
type CanonicalServiceImpl struct {
	loader domain.GraphLoader
}

// NewCanonicalService creates a new canonical form service
func NewCanonicalService(loader domain.GraphLoader) *CanonicalServiceImpl {
	if loader == nil {
		loader = NewGraphLoader()
	}
	return &CanonicalServiceImpl{loader: loader}
}

// Describe loads the graph at path and returns the size, height and AHU
// canonical form of the tree rooted at root
func (s *CanonicalServiceImpl) Describe(ctx context.Context, path, root string, traversal tree.Traversal) (*domain.TreeSummary, error) {
	graph, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return DescribeGraph(graph, path, DefaultRootFor(path, root), traversal)
}

// DescribeGraph is Describe for a graph already in memory
func DescribeGraph(graph tree.Graph, path, root string, traversal tree.Traversal) (*domain.TreeSummary, error) {
	if root == "" {
		return nil, domain.NewValidationError("root label cannot be empty")
	}
	if !traversal.IsValid() {
		traversal = tree.TraversalRecursive
	}

	node, err := graph.Materialize(root, traversal)
	if err != nil {
		return nil, domain.NewTreeError("cannot build tree", err)
	}
	return &domain.TreeSummary{
		Path:      path,
		Root:      root,
		Size:      node.Size(),
		Height:    node.Height(),
		Canonical: tree.CanonicalizeWith(node, traversal),
	}, nil
}
