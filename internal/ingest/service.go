// Package ingest runs the upload pipeline: validate the document, extract
// its text, parse the request record, archive the source file, and persist
// the result. A sparse parse still persists; a human completes the blanks
// later. Only unreadable input or a storage failure aborts the pipeline.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ostrata/mcp-request-tracker/internal/archive"
	"github.com/ostrata/mcp-request-tracker/internal/extract"
	"github.com/ostrata/mcp-request-tracker/internal/parse"
	"github.com/ostrata/mcp-request-tracker/internal/store"
)

// Extractor is the document-text boundary the pipeline consumes.
type Extractor interface {
	Text(req extract.TextRequest) (*extract.TextResult, error)
	Validate(req extract.ValidateRequest) (*extract.ValidateResult, error)
}

// FileRequest asks for one document to be ingested on behalf of a user.
type FileRequest struct {
	Path   string `json:"path"`
	UserID string `json:"user_id"`
}

// FileResult reports the stored id, the parsed record as persisted, and the
// parse diagnostics.
type FileResult struct {
	ID     string       `json:"id"`
	Record store.Record `json:"record"`
	Report parse.Report `json:"report"`
	Pages  int          `json:"pages"`
}

// ParseRequest asks for a parse-only dry run of one document.
type ParseRequest struct {
	Path string `json:"path"`
}

// ParseResult carries the parsed record and diagnostics without persisting
// anything.
type ParseResult struct {
	Record parse.RequestRecord `json:"record"`
	Report parse.Report        `json:"report"`
	Pages  int                 `json:"pages"`
}

// Service orchestrates the ingest pipeline.
type Service struct {
	extractor Extractor
	store     store.Store
	archiver  archive.Archiver
}

// NewService wires the pipeline's collaborators.
func NewService(extractor Extractor, st store.Store, archiver archive.Archiver) (*Service, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if archiver == nil {
		return nil, fmt.Errorf("archiver cannot be nil")
	}
	return &Service{extractor: extractor, store: st, archiver: archiver}, nil
}

// IngestFile runs the full pipeline for one document.
func (s *Service) IngestFile(ctx context.Context, req FileRequest) (*FileResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	validation, err := s.extractor.Validate(extract.ValidateRequest{Path: req.Path})
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, fmt.Errorf("invalid document: %s", validation.Message)
	}

	text, err := s.extractor.Text(extract.TextRequest{Path: req.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to process file: %w", err)
	}

	record, report, err := parse.Parse(text.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	fileName := filepath.Base(req.Path)
	archived, err := s.archiver.Archive(ctx, archive.Request{
		SourcePath: req.Path,
		UserID:     req.UserID,
		FileName:   fileName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive document: %w", err)
	}

	stored := store.Record{
		RequestRecord: record,
		UserID:        req.UserID,
		FileName:      fileName,
		FileURL:       archived.URL,
		UploadedAt:    time.Now().UTC(),
	}

	id, err := s.store.Create(ctx, &stored)
	if err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}
	stored.ID = id

	return &FileResult{
		ID:     id,
		Record: stored,
		Report: report,
		Pages:  text.Pages,
	}, nil
}

// ParseFile extracts and parses a document without archiving or persisting.
func (s *Service) ParseFile(_ context.Context, req ParseRequest) (*ParseResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	text, err := s.extractor.Text(extract.TextRequest{Path: req.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to process file: %w", err)
	}

	record, report, err := parse.Parse(text.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	return &ParseResult{
		Record: record,
		Report: report,
		Pages:  text.Pages,
	}, nil
}
