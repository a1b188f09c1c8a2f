package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathGuard confines file access to the configured inbox directory.
type PathGuard struct {
	configuredDirectory string
}

// NewPathGuard creates a guard for the given directory. The directory is not
// required to exist yet; validation is skipped until it does.
func NewPathGuard(configuredDirectory string) (*PathGuard, error) {
	if configuredDirectory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	return &PathGuard{configuredDirectory: configuredDirectory}, nil
}

// ConfiguredDirectory returns the directory the guard confines access to.
func (g *PathGuard) ConfiguredDirectory() string {
	return g.configuredDirectory
}

// Check rejects paths that resolve outside the configured directory.
func (g *PathGuard) Check(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if _, err := os.Stat(g.configuredDirectory); os.IsNotExist(err) {
		return nil
	}

	within, err := g.isWithinDirectory(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("path is outside configured directory: %s", path)
	}
	return nil
}

func (g *PathGuard) isWithinDirectory(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}

	absDir, err := filepath.Abs(g.configuredDirectory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absDir)

	// Resolve symlinks on both sides so a link cannot escape the directory.
	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}
	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	if realPath == realDir {
		return true, nil
	}
	if !strings.HasSuffix(realDir, string(filepath.Separator)) {
		realDir += string(filepath.Separator)
	}
	return strings.HasPrefix(realPath, realDir), nil
}
