package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ludo-technologies/treesim/internal/tree"
)

// ErrStaleTreeDistance is returned when a forest distance computation reads a
// subtree distance that no earlier keyroot pair has produced yet. It can only
// happen with a keyroot schedule that is not in increasing postorder.
var ErrStaleTreeDistance = errors.New("tree distance consulted before it was computed")

// ZhangShashaAnalyzer computes the ordered tree edit distance of Zhang and
// Shasha: the minimum cost of node insertions, deletions and renames turning
// one tree into the other while preserving ancestor and sibling order.
type ZhangShashaAnalyzer struct {
	costModel CostModel
	traversal tree.Traversal
}

// NewZhangShashaAnalyzer creates an analyzer with the given cost model.
// A nil model selects UnitCostModel.
func NewZhangShashaAnalyzer(costModel CostModel) *ZhangShashaAnalyzer {
	if costModel == nil {
		costModel = NewUnitCostModel()
	}
	return &ZhangShashaAnalyzer{
		costModel: costModel,
		traversal: tree.TraversalRecursive,
	}
}

// WithTraversal returns a copy of the analyzer that indexes trees with t
func (a *ZhangShashaAnalyzer) WithTraversal(t tree.Traversal) *ZhangShashaAnalyzer {
	clone := *a
	if t.IsValid() {
		clone.traversal = t
	}
	return &clone
}

// ComputeTreeEditDistance returns the edit distance of two trees under the
// unit cost model
func ComputeTreeEditDistance(t1, t2 *tree.Node) int {
	return NewZhangShashaAnalyzer(nil).ComputeDistance(t1, t2)
}

// ComputeDistance computes the tree edit distance between two trees
func (a *ZhangShashaAnalyzer) ComputeDistance(t1, t2 *tree.Node) int {
	return a.ComputeDistanceIndexed(tree.NewIndexWith(t1, a.traversal), tree.NewIndexWith(t2, a.traversal))
}

// ComputeDistanceIndexed computes the tree edit distance of two already
// indexed trees
func (a *ZhangShashaAnalyzer) ComputeDistanceIndexed(ix1, ix2 *tree.Index) int {
	distance, err := a.ComputeDistanceContext(context.Background(), ix1, ix2)
	if err != nil {
		// The ascending schedule never reads unfinished cells
		panic(fmt.Sprintf("zhang-shasha: %v", err))
	}
	return distance
}

// ComputeDistanceContext is ComputeDistanceIndexed with cancellation. The
// context is checked between keyroot pairs, never inside one, so recorded
// subtree distances are always complete.
func (a *ZhangShashaAnalyzer) ComputeDistanceContext(ctx context.Context, ix1, ix2 *tree.Index) (int, error) {
	return a.computeWithSchedule(ctx, ix1, ix2, ascendingSchedule(ix1, ix2))
}

// keyRootPair is one unit of work: the forest distance of the subtrees
// rooted at keyroots I and J
type keyRootPair struct {
	I, J int
}

// ascendingSchedule pairs every keyroot of the first tree with every keyroot
// of the second, both in increasing postorder
func ascendingSchedule(ix1, ix2 *tree.Index) []keyRootPair {
	schedule := make([]keyRootPair, 0, len(ix1.KeyRoots)*len(ix2.KeyRoots))
	for _, i := range ix1.KeyRoots {
		for _, j := range ix2.KeyRoots {
			schedule = append(schedule, keyRootPair{I: i, J: j})
		}
	}
	return schedule
}

func (a *ZhangShashaAnalyzer) computeWithSchedule(ctx context.Context, ix1, ix2 *tree.Index, schedule []keyRootPair) (int, error) {
	n, m := ix1.Size(), ix2.Size()
	switch {
	case n == 0 && m == 0:
		return 0, nil
	case n == 0:
		return a.sumCosts(ix2, a.costModel.Insert), nil
	case m == 0:
		return a.sumCosts(ix1, a.costModel.Delete), nil
	}

	table := a.newDistanceTable(ix1, ix2)
	for _, pair := range schedule {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("tree edit distance cancelled: %w", err)
		}
		if err := table.forestDistance(pair.I, pair.J); err != nil {
			return 0, err
		}
	}

	root := table.cell(n-1, m-1)
	if !table.finalized[root] {
		return 0, fmt.Errorf("%w: root pair was never computed", ErrStaleTreeDistance)
	}
	return table.td[root], nil
}

func (a *ZhangShashaAnalyzer) sumCosts(ix *tree.Index, cost func(*tree.Node) int) int {
	total := 0
	for _, node := range ix.Nodes {
		total += cost(node)
	}
	return total
}

// distanceTable holds the state shared by all keyroot pairs of one
// comparison. td and finalized are |T1| x |T2| matrices stored row-major.
type distanceTable struct {
	ix1, ix2  *tree.Index
	costModel CostModel

	deleteCost []int
	insertCost []int

	td        []int
	finalized []bool

	// fd is reused across keyroot pairs; it is large enough for the root pair
	fd []int
}

func (a *ZhangShashaAnalyzer) newDistanceTable(ix1, ix2 *tree.Index) *distanceTable {
	n, m := ix1.Size(), ix2.Size()

	t := &distanceTable{
		ix1:        ix1,
		ix2:        ix2,
		costModel:  a.costModel,
		deleteCost: make([]int, n),
		insertCost: make([]int, m),
		td:         make([]int, n*m),
		finalized:  make([]bool, n*m),
		fd:         make([]int, (n+1)*(m+1)),
	}
	for p, node := range ix1.Nodes {
		t.deleteCost[p] = a.costModel.Delete(node)
	}
	for q, node := range ix2.Nodes {
		t.insertCost[q] = a.costModel.Insert(node)
	}
	return t
}

func (t *distanceTable) cell(p, q int) int {
	return p*t.ix2.Size() + q
}

// forestDistance fills the forest distance table for keyroots i and j.
//
// Row x stands for the forest lmd(i)..lmd(i)+x-1 of the first tree and column
// y for lmd(j)..lmd(j)+y-1 of the second; row and column 0 are the empty
// forest. When both p and q root subtrees that start at the forest boundary
// the cell is a tree-to-tree distance and is recorded in td. Otherwise the
// forest is split at the leftmost leaves of p and q and the previously
// recorded td[p][q] is reused.
func (t *distanceTable) forestDistance(i, j int) error {
	lmd1, lmd2 := t.ix1.LMD, t.ix2.LMD
	i0, j0 := lmd1[i], lmd2[j]
	rows, cols := i-i0+2, j-j0+2

	fd := t.fd[:rows*cols]
	at := func(x, y int) int { return x*cols + y }

	fd[at(0, 0)] = 0
	for x := 1; x < rows; x++ {
		fd[at(x, 0)] = fd[at(x-1, 0)] + t.deleteCost[i0+x-1]
	}
	for y := 1; y < cols; y++ {
		fd[at(0, y)] = fd[at(0, y-1)] + t.insertCost[j0+y-1]
	}

	for x := 1; x < rows; x++ {
		p := i0 + x - 1
		for y := 1; y < cols; y++ {
			q := j0 + y - 1

			deletion := fd[at(x-1, y)] + t.deleteCost[p]
			insertion := fd[at(x, y-1)] + t.insertCost[q]

			if lmd1[p] == i0 && lmd2[q] == j0 {
				rename := fd[at(x-1, y-1)] + t.costModel.Rename(t.ix1.Nodes[p], t.ix2.Nodes[q])
				value := min(deletion, insertion, rename)
				fd[at(x, y)] = value

				c := t.cell(p, q)
				t.td[c] = value
				t.finalized[c] = true
				continue
			}

			c := t.cell(p, q)
			if !t.finalized[c] {
				return fmt.Errorf("%w: td[%d][%d] read by keyroot pair (%d, %d)", ErrStaleTreeDistance, p, q, i, j)
			}
			subtree := fd[at(lmd1[p]-i0, lmd2[q]-j0)] + t.td[c]
			fd[at(x, y)] = min(deletion, insertion, subtree)
		}
	}
	return nil
}
