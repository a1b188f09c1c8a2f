package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalArchiver copies documents into an archive tree under the data
// directory.
type LocalArchiver struct {
	root string
}

// NewLocalArchiver creates the archive root under the given data directory.
func NewLocalArchiver(dataDir string) (*LocalArchiver, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	root := filepath.Join(dataDir, "archive")
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("cannot create archive directory %s: %w", root, err)
	}
	return &LocalArchiver{root: root}, nil
}

// Archive copies the source document into the archive tree and returns the
// destination path.
func (a *LocalArchiver) Archive(_ context.Context, req Request) (*Result, error) {
	name, err := objectName(req.UserID, req.FileName, time.Now())
	if err != nil {
		return nil, err
	}

	src, err := os.Open(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open source document: %w", err)
	}
	defer src.Close()

	destPath := filepath.Join(a.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(destPath), 0o750); err != nil {
		return nil, fmt.Errorf("cannot create archive subdirectory: %w", err)
	}

	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("cannot create archive copy: %w", err)
	}

	if _, err := io.Copy(dest, src); err != nil {
		_ = dest.Close()
		_ = os.Remove(destPath)
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	if err := dest.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive copy: %w", err)
	}

	return &Result{URL: destPath}, nil
}
