package parser

import (
	"context"
	"errors"
	"testing"
)

func TestParseSimpleFunction(t *testing.T) {
	code := `fn hello() -> i32 { 42 }`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ast == nil {
		t.Fatal("AST is nil")
	}

	if ast.Type != NodeSourceFile {
		t.Errorf("Expected %s, got %s", NodeSourceFile, ast.Type)
	}

	if len(ast.Children) == 0 {
		t.Fatal("Expected at least one item in source file")
	}

	funcNode := ast.Children[0]
	if funcNode.Type != NodeFunctionItem {
		t.Errorf("Expected %s, got %s", NodeFunctionItem, funcNode.Type)
	}

	if funcNode.Name != "hello" {
		t.Errorf("Expected function name 'hello', got '%s'", funcNode.Name)
	}

	if funcNode.Parent != ast {
		t.Error("Expected function parent to be the source file")
	}
}

func TestParseBranches(t *testing.T) {
	code := `
fn classify(n: i32) -> &'static str {
    if n < 0 {
        "negative"
    } else if n == 0 {
        "zero"
    } else {
        match n {
            1 => "one",
            _ => "many",
        }
    }
}
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ifCount := 0
	matchCount := 0
	ast.Walk(func(n *Node) bool {
		switch n.Type {
		case NodeIfExpression:
			ifCount++
		case NodeMatchExpression:
			matchCount++
		}
		return true
	})

	if ifCount != 2 {
		t.Errorf("Expected 2 if expressions, got %d", ifCount)
	}
	if matchCount != 1 {
		t.Errorf("Expected 1 match expression, got %d", matchCount)
	}
}

func TestParseUnsafeBlock(t *testing.T) {
	code := `
fn raw(p: *const u8) -> u8 {
    unsafe { *p }
}
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeUnsafeBlock {
			found = true
			return false
		}
		return true
	})
	if !found {
		t.Error("Expected an unsafe_block node")
	}
}

func TestParseNamedItems(t *testing.T) {
	code := `
mod geometry {
    pub struct Point { x: f64, y: f64 }

    impl Point {
        pub fn norm(&self) -> f64 { (self.x * self.x + self.y * self.y).sqrt() }
    }
}
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	names := map[NodeType]string{}
	ast.Walk(func(n *Node) bool {
		if n.Name != "" {
			names[n.Type] = n.Name
		}
		return true
	})

	if names[NodeModItem] != "geometry" {
		t.Errorf("Expected mod name 'geometry', got '%s'", names[NodeModItem])
	}
	if names[NodeImplItem] != "Point" {
		t.Errorf("Expected impl type 'Point', got '%s'", names[NodeImplItem])
	}
	if names[NodeFunctionItem] != "norm" {
		t.Errorf("Expected function name 'norm', got '%s'", names[NodeFunctionItem])
	}
}

func TestParseSyntaxError(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"unclosed brace", "fn broken() {\n    let x = 1;\n"},
		{"garbage item", "fn ok() {}\n@@@ not rust\n"},
		{"missing expression", "fn f() { let x = ; }"},
	}

	parser := NewParser()
	defer parser.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast, err := parser.ParseFile(context.Background(), "broken.rs", []byte(tt.code))
			if err == nil {
				t.Fatal("Expected parse error")
			}
			if ast != nil {
				t.Error("Expected nil AST on parse error")
			}

			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Expected *SyntaxError, got %T", err)
			}
			if syntaxErr.Location.File != "broken.rs" {
				t.Errorf("Expected error location in broken.rs, got %s", syntaxErr.Location.File)
			}
		})
	}
}

func TestParseEdition2024Syntax(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"unsafe extern block", `unsafe extern "C" {
    pub safe fn abs(i: i32) -> i32;
    pub unsafe fn strlen(p: *const u8) -> usize;
}
fn main() { let _ = abs(-1); }`},
		{"async closure", `fn main() { let f = async |x: i32| x + 1; let _ = f; }`},
		{"async move closure", `fn main() { let s = 1; let f = async move || s; let _ = f; }`},
		{"async block still parses", `fn main() { let _ = async move { 1 }; }`},
		{"unsafe extern fn", `unsafe extern "C" fn callback(x: i32) -> i32 { x }`},
	}

	parser := NewParser()
	defer parser.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.ParseString(tt.code); err != nil {
				t.Fatalf("Expected valid Rust to parse, got %v", err)
			}
		})
	}
}

func TestParseEdition2024Syntax_KeepsLocations(t *testing.T) {
	code := "unsafe extern \"C\" {\n    safe fn abs(i: i32) -> i32;\n}\nfn main() { let x = ; }\n"

	parser := NewParser()
	defer parser.Close()

	_, err := parser.ParseFile(context.Background(), "main.rs", []byte(code))
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Expected *SyntaxError, got %v", err)
	}
	if syntaxErr.Location.StartLine != 4 {
		t.Errorf("Expected error on line 4, got %s", syntaxErr.Location)
	}
}

func TestNormalizeSource(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"unsafe extern", `unsafe extern "C" {}`, `       extern "C" {}`},
		{"safe fn", `pub safe fn f();`, `pub      fn f();`},
		{"unsafe fn untouched", `pub unsafe fn f();`, `pub unsafe fn f();`},
		{"async closure", `async |x| x`, `      |x| x`},
		{"async move closure", `async move |x| x`, `      move |x| x`},
		{"async block untouched", `async move { 1 }`, `async move { 1 }`},
		{"identifier prefix untouched", `is_safe fn`, `is_safe fn`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := []byte(tt.code)
			got := normalizeSource(source)
			if string(got) != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
			if string(source) != tt.code {
				t.Error("Input was modified")
			}
		})
	}
}

func TestParseEmptySource(t *testing.T) {
	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString("")
	if err != nil {
		t.Fatalf("Parse of empty source failed: %v", err)
	}
	if len(ast.Children) != 0 {
		t.Errorf("Expected no children, got %d", len(ast.Children))
	}
}

func TestCommentsAreDropped(t *testing.T) {
	code := `
// line comment
/* block comment */
/// doc comment
fn documented() {}
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ast.Walk(func(n *Node) bool {
		if n.Type == "line_comment" || n.Type == "block_comment" {
			t.Errorf("Comment node should be dropped: %s", n)
		}
		return true
	})
}

func TestFold(t *testing.T) {
	root := NewNode(NodeSourceFile)
	fn := NewNode(NodeFunctionItem)
	fn.AddChild(NewNode(NodeIfExpression))
	fn.AddChild(NewNode(NodeForExpression))
	root.AddChild(fn)

	count := Fold(root, 0, func(acc int, n *Node) int {
		return acc + 1
	})
	if count != 4 {
		t.Errorf("Expected 4 nodes, got %d", count)
	}

	decisions := Fold(root, 0, func(acc int, n *Node) int {
		if n.IsDecisionPoint() {
			return acc + 1
		}
		return acc
	})
	if decisions != 2 {
		t.Errorf("Expected 2 decision points, got %d", decisions)
	}
}
