package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/testutil"
)

var _ domain.RustFileReader = (*FileHelper)(nil)

func TestFileHelperCollectRustFiles(t *testing.T) {
	tempDir := t.TempDir()

	testFiles := []string{"main.rs", "lib.rs", "build.RS", "README.md", "Cargo.toml"}
	for _, f := range testFiles {
		testutil.WriteFile(t, tempDir, f, "// test")
	}

	helper := NewFileHelper()

	files, err := helper.CollectRustFiles([]string{tempDir}, true, nil)
	if err != nil {
		t.Fatalf("CollectRustFiles failed: %v", err)
	}

	if len(files) != 3 {
		t.Errorf("Expected 3 Rust files, got %d: %v", len(files), files)
	}
}

func TestFileHelperCollectRustFilesNonRecursive(t *testing.T) {
	tempDir := t.TempDir()
	testutil.WriteFile(t, tempDir, "main.rs", "fn main() {}")
	testutil.WriteFile(t, tempDir, "src/lib.rs", "pub fn f() {}")

	helper := NewFileHelper()

	files, err := helper.CollectRustFiles([]string{tempDir}, false, nil)
	if err != nil {
		t.Fatalf("CollectRustFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("Expected 1 file without recursion, got %d", len(files))
	}
}

func TestFileHelperCollectRustFilesMissingRoot(t *testing.T) {
	helper := NewFileHelper()

	if _, err := helper.CollectRustFiles([]string{"/nonexistent/crate"}, true, nil); err == nil {
		t.Error("Expected error for missing root")
	}
}

func TestFileHelperIsValidRustFile(t *testing.T) {
	helper := NewFileHelper()

	tests := []struct {
		path     string
		expected bool
	}{
		{"main.rs", true},
		{"src/lib.rs", true},
		{"BUILD.RS", true},
		{"main.go", false},
		{"Cargo.toml", false},
		{"notes.rs.txt", false},
		{"rs", false},
	}

	for _, tt := range tests {
		result := helper.IsValidRustFile(tt.path)
		if result != tt.expected {
			t.Errorf("IsValidRustFile(%s) = %v, expected %v", tt.path, result, tt.expected)
		}
	}
}

func TestFileHelperFileExists(t *testing.T) {
	helper := NewFileHelper()
	tempDir := t.TempDir()
	file := testutil.WriteFile(t, tempDir, "main.rs", "fn main() {}")

	exists, err := helper.FileExists(file)
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected file to exist")
	}

	exists, err = helper.FileExists(tempDir)
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if exists {
		t.Error("Expected directory not to count as a file")
	}

	exists, err = helper.FileExists("/nonexistent/file.rs")
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if exists {
		t.Error("Expected file to not exist")
	}
}

func TestFileHelperIsExcluded(t *testing.T) {
	helper := NewFileHelper()

	tests := []struct {
		path            string
		excludePatterns []string
		expected        bool
	}{
		{"src/main.rs", []string{"*_test.rs"}, false},
		{"src/parser_test.rs", []string{"*_test.rs"}, true},
		{"build.rs", []string{"build.rs"}, true},
		{"src/lib.rs", []string{"target"}, false},
	}

	for _, tt := range tests {
		result := helper.isExcluded(tt.path, tt.excludePatterns)
		if result != tt.expected {
			t.Errorf("isExcluded(%s, %v) = %v, expected %v", tt.path, tt.excludePatterns, result, tt.expected)
		}
	}
}

func TestFileHelperExcludeTargetDirectory(t *testing.T) {
	tempDir := t.TempDir()
	testutil.WriteFile(t, tempDir, "src/main.rs", "fn main() {}")
	testutil.WriteFile(t, tempDir, "target/debug/build/out.rs", "fn generated() {}")
	testutil.WriteFile(t, tempDir, "vendor/dep/src/lib.rs", "fn dep() {}")

	helper := NewFileHelper()

	files, err := helper.CollectRustFiles([]string{tempDir}, true, []string{"target", "vendor"})
	if err != nil {
		t.Fatalf("CollectRustFiles failed: %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("Expected 1 file (only src), got %d: %v", len(files), files)
	}
	if filepath.Base(filepath.Dir(files[0])) != "src" {
		t.Errorf("Expected src/main.rs, got %s", files[0])
	}
}

func TestFileHelperRespectsGitignore(t *testing.T) {
	tempDir := t.TempDir()
	testutil.WriteFile(t, tempDir, ".gitignore", "generated/\nscratch.rs\n")
	testutil.WriteFile(t, tempDir, "src/lib.rs", "pub fn f() {}")
	testutil.WriteFile(t, tempDir, "generated/bindings.rs", "pub fn g() {}")
	testutil.WriteFile(t, tempDir, "scratch.rs", "fn scratch() {}")

	files, err := NewFileHelper().CollectRustFiles([]string{tempDir}, true, nil)
	if err != nil {
		t.Fatalf("CollectRustFiles failed: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("Expected gitignore to be ignored by default, got %d files", len(files))
	}

	files, err = NewFileHelper().WithGitignore(true).CollectRustFiles([]string{tempDir}, true, nil)
	if err != nil {
		t.Fatalf("CollectRustFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("Expected 1 file with gitignore, got %d: %v", len(files), files)
	}
}

func TestFileHelperCargoProject(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "Cargo.toml", "[package]\nname = \"demo\"\n")
	main := testutil.WriteFile(t, root, "main.rs", "fn main() {}")
	nested := filepath.Join(root, "src")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("Failed to create src dir: %v", err)
	}

	helper := NewFileHelper()

	tests := []struct {
		name      string
		path      string
		wantCargo bool
		wantRoot  string
	}{
		{"project root", root, true, root},
		{"file beside manifest", main, true, root},
		{"child directory", nested, true, root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := helper.IsCargoProject(tt.path); got != tt.wantCargo {
				t.Errorf("IsCargoProject(%s) = %v, expected %v", tt.path, got, tt.wantCargo)
			}
			if got := helper.ProjectRoot(tt.path); got != tt.wantRoot {
				t.Errorf("ProjectRoot(%s) = %s, expected %s", tt.path, got, tt.wantRoot)
			}
		})
	}

	plain := t.TempDir()
	if helper.IsCargoProject(plain) {
		t.Error("Expected directory without manifest not to be a cargo project")
	}
	if helper.ProjectRoot(plain) != plain {
		t.Error("Expected ProjectRoot to return the path itself without a manifest")
	}
}

func TestFileHelperProjectKey(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "Cargo.toml", "[package]\nname = \"demo\"\n")
	src := testutil.WriteFile(t, root, "lib.rs", "")

	helper := NewFileHelper()

	key := helper.ProjectKey(src)
	if !filepath.IsAbs(key) {
		t.Errorf("Expected absolute key, got %s", key)
	}
	if key != helper.ProjectKey(root+string(filepath.Separator)) {
		t.Errorf("Expected file and root to share a key, got %s", key)
	}
}
