package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// Parser wraps tree-sitter parser for Rust
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
}

// NewParser creates a new Rust parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := rust.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
	}
}

// SyntaxError reports the first erroneous region of a source file
type SyntaxError struct {
	Location Location
	Missing  bool
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	if e.Missing {
		return fmt.Sprintf("missing token at %s", e.Location)
	}
	return fmt.Sprintf("syntax error at %s", e.Location)
}

// ParseFile parses a Rust source file.
// Any error or missing node in the tree makes the parse fail.
// Edition 2024 unsafe extern blocks and async closures are accepted.
func (p *Parser) ParseFile(ctx context.Context, filename string, source []byte) (*Node, error) {
	source = normalizeSource(source)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	builder := NewASTBuilder(filename, source)
	if rootNode.HasError() {
		return nil, firstSyntaxError(builder, rootNode)
	}

	return builder.Build(rootNode), nil
}

// Parse parses Rust source code
func (p *Parser) Parse(source []byte) (*Node, error) {
	return p.ParseFile(context.Background(), "<input>", source)
}

// ParseString parses Rust source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.Parse([]byte(source))
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// firstSyntaxError finds the first ERROR or MISSING node in document order
func firstSyntaxError(b *ASTBuilder, n *sitter.Node) error {
	if n.IsError() || n.IsMissing() {
		return &SyntaxError{Location: b.getLocation(n), Missing: n.IsMissing()}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && child.HasError() {
			return firstSyntaxError(b, child)
		}
	}
	return &SyntaxError{Location: b.getLocation(n)}
}
