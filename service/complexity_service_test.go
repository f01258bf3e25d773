package service

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/testutil"
)

// walkReader is a minimal RustFileReader over the real filesystem
type walkReader struct {
	unreadable map[string]bool
}

var _ domain.RustFileReader = (*walkReader)(nil)

func (r *walkReader) CollectRustFiles(paths []string, _ bool, _ []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && r.IsValidRustFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func (r *walkReader) ReadFile(path string) ([]byte, error) {
	if r.unreadable[filepath.Base(path)] {
		return nil, os.ErrPermission
	}
	return os.ReadFile(path)
}

func (r *walkReader) IsValidRustFile(path string) bool {
	return strings.HasSuffix(path, ".rs")
}

const libSource = `//! Crate docs
/// Adds numbers
pub fn add(a: i32, b: i32) -> i32 {
    a + b
}

mod util;

#[cfg(test)]
mod tests {
    #[test]
    fn adds() {
        assert_eq!(super::add(1, 2), 3);
    }
}
`

func newCrate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "Cargo.toml", "[package]\nname = \"demo\"\n\n[dependencies]\nserde = \"1\"\nrand = \"0.8\"\n")
	testutil.WriteFile(t, dir, "src/lib.rs", libSource)
	testutil.WriteFile(t, dir, "src/util.rs", "pub fn helper() {}\n")
	return dir
}

func TestComplexityAnalyzer_Directory(t *testing.T) {
	dir := newCrate(t)

	c, err := NewComplexityAnalyzer(&walkReader{}, nil, nil).Analyze(context.Background(), dir)
	testutil.AssertNoError(t, err)

	expected := domain.ProjectComplexity{
		FileCount:       2,
		TotalLines:      16,
		FunctionCount:   3,
		ModuleCount:     2,
		TestCount:       2,
		DocLines:        2,
		DependencyCount: 2,
	}
	testutil.AssertEqual(t, expected, c)
}

func TestComplexityAnalyzer_SingleFile(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteFile(t, dir, "main.rs", "/// Doc\nfn main() {}\nmod inner {}\n#[test]\nfn t() {}\n")

	c, err := NewComplexityAnalyzer(&walkReader{}, nil, nil).Analyze(context.Background(), file)
	testutil.AssertNoError(t, err)

	// Modules and tests are only counted for directories
	expected := domain.ProjectComplexity{
		FileCount:     1,
		TotalLines:    5,
		FunctionCount: 2,
		DocLines:      1,
	}
	testutil.AssertEqual(t, expected, c)
}

func TestComplexityAnalyzer_CRLFAndEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.rs", "fn a() {}\r\n/// doc\r\n")
	testutil.WriteFile(t, dir, "b.rs", "")

	c, err := NewComplexityAnalyzer(&walkReader{}, nil, nil).Analyze(context.Background(), dir)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 2, c.FileCount)
	testutil.AssertEqual(t, 2, c.TotalLines)
	testutil.AssertEqual(t, 1, c.DocLines)
	testutil.AssertEqual(t, 0, c.DependencyCount)
}

func TestComplexityAnalyzer_SkipsUnreadableFiles(t *testing.T) {
	dir := newCrate(t)
	reader := &walkReader{unreadable: map[string]bool{"lib.rs": true}}

	c, err := NewComplexityAnalyzer(reader, nil, nil).Analyze(context.Background(), dir)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 1, c.FileCount)
	testutil.AssertEqual(t, 1, c.TotalLines)
	testutil.AssertEqual(t, 1, c.FunctionCount)
}

func TestComplexityAnalyzer_MalformedManifest(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "Cargo.toml", "[dependencies\nserde = ")
	testutil.WriteFile(t, dir, "main.rs", "fn main() {}\n")

	c, err := NewComplexityAnalyzer(&walkReader{}, nil, nil).Analyze(context.Background(), dir)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 0, c.DependencyCount)
}

func TestComplexityAnalyzer_MissingPath(t *testing.T) {
	_, err := NewComplexityAnalyzer(&walkReader{}, nil, nil).Analyze(context.Background(), filepath.Join(t.TempDir(), "absent"))
	testutil.AssertError(t, err)

	var domainErr domain.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodeFileNotFound {
		t.Errorf("Expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestComplexityAnalyzer_Cancelled(t *testing.T) {
	dir := newCrate(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewComplexityAnalyzer(&walkReader{}, nil, nil).Analyze(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{"empty", "", 0},
		{"no trailing newline", "a\nb", 2},
		{"trailing newline", "a\nb\n", 2},
		{"blank lines kept", "a\n\n\nb\n", 4},
		{"only newline", "\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, tt.expected, len(splitLines(tt.content)))
		})
	}
}
