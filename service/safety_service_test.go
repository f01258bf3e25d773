package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/testutil"
)

const pointerSource = `fn read(p: *const u8) -> u8 {
    unsafe { *p }
}

fn pick(x: i32) -> i32 {
    if x > 0 { 1 } else { 2 }
}
`

func TestSafetyAnalyzer_Directory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "src/ptr.rs", pointerSource)
	testutil.WriteFile(t, dir, "src/main.rs", "fn main() {\n    unsafe { std::hint::unreachable_unchecked() }\n}\n")

	metrics, err := NewSafetyAnalyzer(&walkReader{}, nil, nil).Analyze(context.Background(), dir)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 2, metrics.UnsafeBlocks)
	testutil.AssertEqual(t, 0, metrics.ClippyWarnings)
	// read=1, pick=2, main=1
	testutil.AssertFloatEqual(t, "avg cyclomatic", 4.0/3.0, metrics.AvgCyclomatic)
}

func TestSafetyAnalyzer_SingleFile(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteFile(t, dir, "ptr.rs", pointerSource)

	metrics, err := NewSafetyAnalyzer(&walkReader{}, nil, nil).Analyze(context.Background(), file)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 1, metrics.UnsafeBlocks)
	testutil.AssertFloatEqual(t, "avg cyclomatic", 1.5, metrics.AvgCyclomatic)
}

func TestSafetyAnalyzer_Edition2024Crate(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "main.rs", `unsafe extern "C" {
    pub safe fn abs(i: i32) -> i32;
}

fn main() {
    let add = async |x: i32| x + 1;
    let _ = add;
    let n = abs(-3);
    if n > 0 {
        unsafe { std::hint::unreachable_unchecked() }
    }
}
`)

	metrics, err := NewSafetyAnalyzer(&walkReader{}, nil, nil).Analyze(context.Background(), dir)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 1, metrics.UnsafeBlocks)
	testutil.AssertFloatEqual(t, "avg cyclomatic", 2.0, metrics.AvgCyclomatic)
}

func TestSafetyAnalyzer_NoFunctions(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "consts.rs", "pub const LIMIT: u32 = 10;\n")

	metrics, err := NewSafetyAnalyzer(&walkReader{}, nil, nil).Analyze(context.Background(), dir)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, domain.DefaultSafetyMetrics(), metrics)
}

func TestSafetyAnalyzer_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) (string, *walkReader)
		code  string
	}{
		{
			name: "syntax error",
			setup: func(t *testing.T) (string, *walkReader) {
				dir := t.TempDir()
				testutil.WriteFile(t, dir, "good.rs", "fn ok() {}\n")
				testutil.WriteFile(t, dir, "broken.rs", "fn broken( {\n")
				return dir, &walkReader{}
			},
			code: domain.ErrCodeParseError,
		},
		{
			name: "unreadable file",
			setup: func(t *testing.T) (string, *walkReader) {
				dir := t.TempDir()
				testutil.WriteFile(t, dir, "locked.rs", "fn ok() {}\n")
				return dir, &walkReader{unreadable: map[string]bool{"locked.rs": true}}
			},
			code: domain.ErrCodeFileNotFound,
		},
		{
			name: "missing root",
			setup: func(t *testing.T) (string, *walkReader) {
				return filepath.Join(t.TempDir(), "absent"), &walkReader{}
			},
			code: domain.ErrCodeFileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, reader := tt.setup(t)
			_, err := NewSafetyAnalyzer(reader, nil, nil).Analyze(context.Background(), root)
			testutil.AssertError(t, err)

			var domainErr domain.DomainError
			if !errors.As(err, &domainErr) {
				t.Fatalf("Expected a domain error, got %v", err)
			}
			testutil.AssertEqual(t, tt.code, domainErr.Code)
		})
	}
}

func TestSafetyAnalyzer_Cancelled(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "ptr.rs", pointerSource)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSafetyAnalyzer(&walkReader{}, nil, nil).Analyze(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
