package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/constants"
	"github.com/ludo-technologies/crabscore/internal/logging"
)

// ResolveAttempt is one strategy for obtaining an artifact
type ResolveAttempt func(ctx context.Context, req domain.ResolveRequest) (string, bool)

// BinaryResolverImpl tries a fixed list of attempts in order; the first success wins
type BinaryResolverImpl struct {
	runner       CommandRunner
	buildTimeout time.Duration
	logger       *slog.Logger
	attempts     []ResolveAttempt
}

// NewBinaryResolver creates a resolver that builds cargo projects through runner
func NewBinaryResolver(runner CommandRunner, buildTimeout time.Duration, logger *slog.Logger) *BinaryResolverImpl {
	r := &BinaryResolverImpl{
		runner:       runner,
		buildTimeout: buildTimeout,
		logger:       logging.OrDiscard(logger),
	}
	r.attempts = []ResolveAttempt{
		r.explicitBinary,
		r.inputIsExecutable,
		r.cargoBuild,
		r.cargoBuildExamples,
	}
	return r
}

// Resolve returns the first artifact found, or false when every attempt fails
func (r *BinaryResolverImpl) Resolve(ctx context.Context, req domain.ResolveRequest) (string, bool) {
	for _, attempt := range r.attempts {
		if ctx.Err() != nil {
			return "", false
		}
		if path, ok := attempt(ctx, req); ok {
			r.logger.Info("resolved artifact", "path", path)
			return path, true
		}
	}
	r.logger.Warn("no runnable artifact, continuing with static analysis", "path", req.InputPath)
	return "", false
}

func (r *BinaryResolverImpl) explicitBinary(_ context.Context, req domain.ResolveRequest) (string, bool) {
	if req.Binary == "" {
		return "", false
	}
	if IsExecutableFile(req.Binary) {
		return req.Binary, true
	}
	return "", false
}

func (r *BinaryResolverImpl) inputIsExecutable(_ context.Context, req domain.ResolveRequest) (string, bool) {
	if IsExecutableFile(req.InputPath) {
		return req.InputPath, true
	}
	return "", false
}

func (r *BinaryResolverImpl) cargoBuild(ctx context.Context, req domain.ResolveRequest) (string, bool) {
	if !req.IsCargoProject || !isDir(req.InputPath) {
		return "", false
	}

	args := []string{"build", "--release"}
	binName := ""
	if req.Binary != "" {
		if _, err := os.Stat(req.Binary); err != nil {
			binName = req.Binary
			args = append(args, "--bin", binName)
		}
	}

	if !r.build(ctx, req.InputPath, args) {
		return "", false
	}

	targetDir := filepath.Join(req.InputPath, "target", "release")
	if binName != "" {
		candidate := filepath.Join(targetDir, executableName(binName))
		if IsExecutableFile(candidate) {
			return candidate, true
		}
	}
	return firstExecutable(targetDir)
}

func (r *BinaryResolverImpl) cargoBuildExamples(ctx context.Context, req domain.ResolveRequest) (string, bool) {
	if !req.IsCargoProject || !isDir(req.InputPath) {
		return "", false
	}
	if !isDir(filepath.Join(req.InputPath, constants.ExamplesDir)) {
		return "", false
	}

	if !r.build(ctx, req.InputPath, []string{"build", "--examples", "--release"}) {
		return "", false
	}

	path, ok := firstExecutable(filepath.Join(req.InputPath, "target", "release", constants.ExamplesDir))
	if ok {
		r.logger.Warn("using example binary for analysis", "path", path)
	}
	return path, ok
}

// build runs cargo in dir and reports success. Failures are logged, not returned.
func (r *BinaryResolverImpl) build(ctx context.Context, dir string, args []string) bool {
	r.logger.Info("building cargo project", "dir", dir, "args", strings.Join(args, " "))

	result, err := r.runner.Run(ctx, CommandSpec{
		Name:          constants.BuildTool,
		Args:          args,
		Dir:           dir,
		Timeout:       r.buildTimeout,
		CaptureOutput: true,
	})
	if err != nil {
		r.logger.Warn("cargo build could not run, continuing with static analysis", "dir", dir, "error", err)
		return false
	}
	if !result.Success() {
		r.logger.Warn("cargo build failed, continuing with static analysis",
			"dir", dir,
			"exit_code", result.ExitCode,
			"output", tail(string(result.Output), 2000),
		)
		return false
	}
	return true
}

// firstExecutable returns the first executable regular file in dir, in name order
func firstExecutable(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if IsExecutableFile(path) {
			return path, true
		}
	}
	return "", false
}

// IsExecutableFile reports whether path is a regular file that can be executed:
// any execute bit on POSIX, the .exe extension on Windows
func IsExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return strings.EqualFold(filepath.Ext(path), ".exe")
	}
	return info.Mode().Perm()&0o111 != 0
}

func executableName(name string) string {
	if runtime.GOOS == "windows" && !strings.EqualFold(filepath.Ext(name), ".exe") {
		return name + ".exe"
	}
	return name
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
