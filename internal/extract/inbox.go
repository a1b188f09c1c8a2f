package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Inbox discovers candidate request documents in the configured directory.
type Inbox struct {
	maxFileSize int64
}

// NewInbox creates an inbox scanner with the specified file size constraint.
func NewInbox(maxFileSize int64) *Inbox {
	return &Inbox{maxFileSize: maxFileSize}
}

// Scan lists PDF files in the directory, optionally filtered by a
// case-insensitive substring query on the file name. Oversized files are
// omitted; they would be rejected at ingest anyway.
func (i *Inbox) Scan(req ScanRequest) (*ScanResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	if _, err := os.Stat(req.Directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}

	entries, err := os.ReadDir(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	files := []FileInfo{}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(name), query) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() > i.maxFileSize {
			continue
		}

		files = append(files, FileInfo{
			Path:         filepath.Join(req.Directory, name),
			Name:         name,
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}

	sort.Slice(files, func(a, b int) bool {
		return files[a].Name < files[b].Name
	})

	return &ScanResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   req.Directory,
		SearchQuery: req.Query,
	}, nil
}
