// Package archive keeps a copy of each ingested source document, mirroring
// the upload flow the tracker's records originate from. The default backend
// copies into the local data directory; deployments on Google Cloud can
// archive to a GCS bucket instead.
package archive

import (
	"context"
	"fmt"
	"time"
)

// Request asks for one source document to be archived for a user.
type Request struct {
	SourcePath string `json:"source_path"`
	UserID     string `json:"user_id"`
	FileName   string `json:"file_name"`
}

// Result reports where the archived copy lives.
type Result struct {
	URL string `json:"url"`
}

// Archiver stores a durable copy of an ingested document.
type Archiver interface {
	Archive(ctx context.Context, req Request) (*Result, error)
}

// objectName builds the per-user, timestamped archive name used by both
// backends.
func objectName(userID, fileName string, now time.Time) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id cannot be empty")
	}
	if fileName == "" {
		return "", fmt.Errorf("file name cannot be empty")
	}
	return fmt.Sprintf("%s/%d_%s", userID, now.UnixMilli(), fileName), nil
}
