package analyzer

import (
	"github.com/ludo-technologies/crabscore/internal/parser"
)

// ComplexityResult holds cyclomatic complexity metrics for a top-level function
type ComplexityResult struct {
	Complexity       int
	FunctionName     string
	StartLine        int
	EndLine          int
	IfExpressions    int
	MatchExpressions int
	LoopExpressions  int
}

// FunctionComplexities computes McCabe complexity for each top-level function
// item of a source file: 1 plus the decision points anywhere in its body.
// Nested functions and closures are not reported separately; their branches
// count toward the enclosing item.
func FunctionComplexities(root *parser.Node) []*ComplexityResult {
	if root == nil {
		return nil
	}

	var results []*ComplexityResult
	for _, child := range root.Children {
		if !child.IsFunction() {
			continue
		}
		results = append(results, CalculateFunctionComplexity(child))
	}
	return results
}

// CalculateFunctionComplexity counts the decision points below fn
func CalculateFunctionComplexity(fn *parser.Node) *ComplexityResult {
	result := &ComplexityResult{
		Complexity:   1,
		FunctionName: fn.Name,
		StartLine:    fn.Location.StartLine,
		EndLine:      fn.Location.EndLine,
	}

	for _, child := range fn.Children {
		*result = parser.Fold(child, *result, func(acc ComplexityResult, n *parser.Node) ComplexityResult {
			if !n.IsDecisionPoint() {
				return acc
			}
			acc.Complexity++
			switch n.Type {
			case parser.NodeIfExpression, parser.NodeIfLetExpression:
				acc.IfExpressions++
			case parser.NodeMatchExpression:
				acc.MatchExpressions++
			default:
				acc.LoopExpressions++
			}
			return acc
		})
	}

	return result
}

// TotalComplexity sums complexity over results
func TotalComplexity(results []*ComplexityResult) int {
	total := 0
	for _, r := range results {
		total += r.Complexity
	}
	return total
}

// AverageComplexity returns the mean complexity, or 1.0 when there are no functions
func AverageComplexity(results []*ComplexityResult) float64 {
	if len(results) == 0 {
		return 1.0
	}
	return float64(TotalComplexity(results)) / float64(len(results))
}
