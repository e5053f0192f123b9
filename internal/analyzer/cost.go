package analyzer

import (
	"github.com/ludo-technologies/treesim/internal/tree"
)

// CostModel defines the interface for calculating edit operation costs
type CostModel interface {
	// Insert returns the cost of inserting a node
	Insert(node *tree.Node) int

	// Delete returns the cost of deleting a node
	Delete(node *tree.Node) int

	// Rename returns the cost of relabeling node1 as node2
	Rename(node1, node2 *tree.Node) int
}

// UnitCostModel charges one unit per insertion or deletion and nothing for a
// rename, so the distance measures shape only.
type UnitCostModel struct{}

// NewUnitCostModel creates the default cost model
func NewUnitCostModel() *UnitCostModel {
	return &UnitCostModel{}
}

// Insert returns the cost of inserting a node (always 1)
func (c *UnitCostModel) Insert(node *tree.Node) int {
	return 1
}

// Delete returns the cost of deleting a node (always 1)
func (c *UnitCostModel) Delete(node *tree.Node) int {
	return 1
}

// Rename returns the cost of relabeling a node (always 0).
// Label-aware costs would plug in here.
func (c *UnitCostModel) Rename(node1, node2 *tree.Node) int {
	return 0
}
