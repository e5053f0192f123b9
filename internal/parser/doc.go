// Package parser turns Python source into comparable tree graphs.
//
// Source is parsed with the tree-sitter Python grammar and the named nodes of
// the resulting syntax tree are converted into a tree.Graph rooted at "main",
// so that two programs can be compared structurally:
//
//	p := parser.New()
//	graph, err := p.ParseGraph(ctx, []byte("def hello(): pass"))
//	if err != nil {
//	    // syntax error
//	}
//	root, err := graph.Materialize(parser.RootLabel, tree.TraversalRecursive)
package parser
