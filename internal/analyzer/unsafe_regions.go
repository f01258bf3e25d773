package analyzer

import "github.com/ludo-technologies/crabscore/internal/parser"

// CountUnsafeRegions counts unsafe blocks anywhere in the tree.
// Nested blocks are counted independently.
func CountUnsafeRegions(root *parser.Node) int {
	return parser.Fold(root, 0, func(count int, n *parser.Node) int {
		if n.Type == parser.NodeUnsafeBlock {
			return count + 1
		}
		return count
	})
}
