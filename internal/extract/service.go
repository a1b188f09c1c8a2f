// Package extract obtains the raw text of uploaded request documents. It
// wraps PDF validation, text extraction, and inbox discovery behind one
// service with per-operation request and result types.
package extract

import "fmt"

// Service orchestrates document validation, text extraction, and inbox
// discovery.
type Service struct {
	maxFileSize int64
	reader      *Reader
	validator   *Validator
	inbox       *Inbox
	guard       *PathGuard
}

// NewService creates an extraction service confined to the configured inbox
// directory.
func NewService(maxFileSize int64, inboxDirectory string) (*Service, error) {
	guard, err := NewPathGuard(inboxDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path guard: %w", err)
	}

	return &Service{
		maxFileSize: maxFileSize,
		reader:      NewReader(maxFileSize),
		validator:   NewValidator(maxFileSize),
		inbox:       NewInbox(maxFileSize),
		guard:       guard,
	}, nil
}

// Text extracts the full text of a document inside the inbox directory.
func (s *Service) Text(req TextRequest) (*TextResult, error) {
	if err := s.guard.Check(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.reader.Text(req)
}

// Validate checks that a document inside the inbox directory is a readable
// PDF.
func (s *Service) Validate(req ValidateRequest) (*ValidateResult, error) {
	if err := s.guard.Check(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.Validate(req)
}

// Scan lists candidate documents in the inbox directory.
func (s *Service) Scan(req ScanRequest) (*ScanResult, error) {
	if req.Directory == "" {
		req.Directory = s.guard.ConfiguredDirectory()
	}
	if err := s.guard.Check(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.inbox.Scan(req)
}

// InboxDirectory returns the configured inbox directory.
func (s *Service) InboxDirectory() string {
	return s.guard.ConfiguredDirectory()
}
