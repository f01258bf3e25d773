package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/crabscore/internal/constants"
	ignore "github.com/sabhiram/go-gitignore"
)

// FileHelper provides file operation utilities
type FileHelper struct {
	respectGitignore bool
}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// WithGitignore makes directory collection honor the .gitignore at each root
func (h *FileHelper) WithGitignore(enabled bool) *FileHelper {
	h.respectGitignore = enabled
	return h
}

// CollectRustFiles collects Rust source files from paths.
// Unreadable subdirectories are skipped; a missing root is an error.
func (h *FileHelper) CollectRustFiles(paths []string, recursive bool, excludePatterns []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.isRustFile(path) && !h.isExcluded(path, excludePatterns) {
				files = append(files, path)
			}
			continue
		}

		gitignore := h.loadGitignore(path)

		if recursive {
			err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
				if err != nil {
					if filePath == path {
						return err
					}
					if info != nil && info.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}

				if info.IsDir() {
					if filePath == path {
						return nil
					}
					if h.isExcludedDir(filepath.Base(filePath), excludePatterns) ||
						h.ignored(gitignore, path, filePath, true) {
						return filepath.SkipDir
					}
					return nil
				}

				if h.isRustFile(filePath) &&
					!h.isExcluded(filePath, excludePatterns) &&
					!h.ignored(gitignore, path, filePath, false) {
					files = append(files, filePath)
				}

				return nil
			})
		} else {
			entries, readErr := os.ReadDir(path)
			if readErr != nil {
				return nil, readErr
			}

			for _, entry := range entries {
				if !entry.IsDir() {
					filePath := filepath.Join(path, entry.Name())
					if h.isRustFile(filePath) &&
						!h.isExcluded(filePath, excludePatterns) &&
						!h.ignored(gitignore, path, filePath, false) {
						files = append(files, filePath)
					}
				}
			}
		}

		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// IsValidRustFile checks if a file has the Rust source extension
func (h *FileHelper) IsValidRustFile(path string) bool {
	return h.isRustFile(path)
}

// FileExists checks if a regular file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// IsCargoProject reports whether path, or its parent, holds a Cargo.toml
func (h *FileHelper) IsCargoProject(path string) bool {
	for _, dir := range []string{path, filepath.Dir(path)} {
		if ok, _ := h.FileExists(filepath.Join(dir, constants.ManifestFileName)); ok {
			return true
		}
	}
	return false
}

// ProjectRoot returns the directory holding Cargo.toml for a cargo project,
// or path itself otherwise
func (h *FileHelper) ProjectRoot(path string) string {
	if ok, _ := h.FileExists(filepath.Join(path, constants.ManifestFileName)); ok {
		return path
	}
	parent := filepath.Dir(path)
	if ok, _ := h.FileExists(filepath.Join(parent, constants.ManifestFileName)); ok {
		return parent
	}
	return path
}

// ProjectKey returns the absolute project root used to key stored history
func (h *FileHelper) ProjectKey(path string) string {
	root := h.ProjectRoot(filepath.Clean(path))
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

// isRustFile checks the file extension
func (h *FileHelper) isRustFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), constants.SourceExtension)
}

// isExcludedDir checks a directory name against exclude patterns
func (h *FileHelper) isExcludedDir(dirName string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if pattern == dirName {
			return true
		}
		if matched, _ := filepath.Match(pattern, dirName); matched {
			return true
		}
	}
	return false
}

// isExcluded checks a file name against exclude patterns.
// Excluded directories are pruned during the walk.
func (h *FileHelper) isExcluded(path string, excludePatterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range excludePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// loadGitignore compiles root/.gitignore when enabled and present
func (h *FileHelper) loadGitignore(root string) *ignore.GitIgnore {
	if !h.respectGitignore {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func (h *FileHelper) ignored(gi *ignore.GitIgnore, root, path string, isDir bool) bool {
	if gi == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if gi.MatchesPath(rel) {
		return true
	}
	return isDir && gi.MatchesPath(rel+"/")
}
