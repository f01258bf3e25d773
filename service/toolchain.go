package service

import (
	"context"
	"strings"
	"time"
)

// UnknownRustVersion is reported when rustc cannot be queried
const UnknownRustVersion = "unknown"

const rustcProbeTimeout = 10 * time.Second

// RustToolchain queries the installed Rust compiler
type RustToolchain struct {
	runner CommandRunner
}

// NewRustToolchain creates a toolchain probe running rustc through runner
func NewRustToolchain(runner CommandRunner) *RustToolchain {
	return &RustToolchain{runner: runner}
}

// RustVersion returns the compiler version, e.g. "1.79.0" for
// "rustc 1.79.0 (129f3b996 2024-06-10)"
func (t *RustToolchain) RustVersion(ctx context.Context) string {
	result, err := t.runner.Run(ctx, CommandSpec{
		Name:          "rustc",
		Args:          []string{"--version"},
		Timeout:       rustcProbeTimeout,
		CaptureOutput: true,
	})
	if err != nil || !result.Success() {
		return UnknownRustVersion
	}
	return ParseRustVersion(string(result.Output))
}

// ParseRustVersion extracts the version from rustc --version output
func ParseRustVersion(output string) string {
	fields := strings.Fields(output)
	if len(fields) < 2 || fields[0] != "rustc" {
		return UnknownRustVersion
	}
	return fields[1]
}
