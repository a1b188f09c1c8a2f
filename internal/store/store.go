// Package store persists parsed access requests. Two backends implement the
// same interface: an embedded SQLite database (default) and a Firestore
// collection for deployments already on Google Cloud.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ostrata/mcp-request-tracker/internal/parse"
)

// ErrNotFound is returned when a request id does not exist.
var ErrNotFound = errors.New("request not found")

// Record is a stored access request: the parsed document fields plus ingest
// and check-in metadata.
type Record struct {
	ID string `json:"id"`

	parse.RequestRecord

	UserID      string     `json:"user_id"`
	FileName    string     `json:"file_name"`
	FileURL     string     `json:"file_url"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CheckedInBy string     `json:"checked_in_by,omitempty"`
}

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	UserID string
	State  string
}

// Updates carries the mutable fields of a stored request. Empty fields are
// left unchanged.
type Updates struct {
	State     string
	WorkNotes string
}

// Store is the persistence boundary for parsed requests.
type Store interface {
	Create(ctx context.Context, record *Record) (string, error)
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter Filter) ([]Record, error)
	Update(ctx context.Context, id string, updates Updates) error
	Delete(ctx context.Context, id string) error
	CheckIn(ctx context.Context, id, guard string) error
	Close() error
}
