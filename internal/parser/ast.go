package parser

import "fmt"

// NodeType is the tree-sitter kind of a syntax node
type NodeType string

// Rust node kinds used by the analyzers
const (
	NodeSourceFile NodeType = "source_file"

	// Items
	NodeFunctionItem NodeType = "function_item"
	NodeImplItem     NodeType = "impl_item"
	NodeTraitItem    NodeType = "trait_item"
	NodeModItem      NodeType = "mod_item"
	NodeClosure      NodeType = "closure_expression"

	// Unsafe regions
	NodeUnsafeBlock NodeType = "unsafe_block"

	// Branching and iteration
	NodeIfExpression       NodeType = "if_expression"
	NodeIfLetExpression    NodeType = "if_let_expression"
	NodeMatchExpression    NodeType = "match_expression"
	NodeForExpression      NodeType = "for_expression"
	NodeWhileExpression    NodeType = "while_expression"
	NodeWhileLetExpression NodeType = "while_let_expression"
	NodeLoopExpression     NodeType = "loop_expression"

	// Misc
	NodeBlock      NodeType = "block"
	NodeIdentifier NodeType = "identifier"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node is a named syntax node. Anonymous tokens and comments are dropped.
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location
	Parent   *Node

	// Name is set for named items such as functions and modules
	Name string
}

// NewNode creates a new node
func NewNode(nodeType NodeType) *Node {
	return &Node{
		Type:     nodeType,
		Children: []*Node{},
	}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk traverses the tree depth-first and calls the visitor function for each node
// If the visitor returns false, traversal of that branch is stopped
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	if !visitor(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visitor)
	}
}

// Fold visits every node depth-first, threading an accumulator through
func Fold[T any](n *Node, acc T, f func(T, *Node) T) T {
	if n == nil {
		return acc
	}
	acc = f(acc, n)
	for _, child := range n.Children {
		acc = Fold(child, acc, f)
	}
	return acc
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsFunction returns true for function items
func (n *Node) IsFunction() bool {
	return n.Type == NodeFunctionItem
}

// IsDecisionPoint returns true for nodes that add a McCabe branch
func (n *Node) IsDecisionPoint() bool {
	switch n.Type {
	case NodeIfExpression, NodeIfLetExpression, NodeMatchExpression,
		NodeForExpression, NodeWhileExpression, NodeWhileLetExpression:
		return true
	}
	return false
}
