// Package parse turns the raw text of an exported access-request document
// into a structured RequestRecord. Extraction is pure and deterministic:
// fixed label patterns for the flat fields, a line-window scan for the
// approval table, and an assembler that applies defaults for whatever did not
// match. Missing data degrades to empty values; only empty input is an error.
package parse

import (
	"fmt"
	"strings"
)

// Report describes extraction quality for one parsed document. EmptyFields
// lists flat fields whose label never matched, a drift signal when the
// upstream document template changes.
type Report struct {
	EmptyFields   []string             `json:"empty_fields"`
	ApprovalLines []ApprovalLineResult `json:"approval_lines"`
}

// Parse extracts a RequestRecord from the full document text. The record is
// complete with defaults applied; the report carries per-line approval
// diagnostics and the list of unmatched flat fields.
func Parse(documentText string) (RequestRecord, Report, error) {
	if strings.TrimSpace(documentText) == "" {
		return NewRequestRecord(), Report{}, fmt.Errorf("document text cannot be empty")
	}

	flat := extractFlatFields(documentText)
	approvals, lines := extractApprovals(documentText)

	record := assemble(flat, approvals)
	report := Report{
		EmptyFields:   emptyFieldNames(record),
		ApprovalLines: lines,
	}
	return record, report, nil
}

// assemble merges the two extraction passes into one record. Structural only;
// no cross-field validation happens here.
func assemble(flat flatFields, approvals []ApprovalEntry) RequestRecord {
	record := NewRequestRecord()
	record.RequestNumber = flat.RequestNumber
	record.RequestedFor = flat.RequestedFor
	record.OpenedAt = flat.OpenedAt
	record.ClosedAt = flat.ClosedAt
	record.UpdatedToOpen = flat.UpdatedToOpen
	record.ShortDescription = flat.ShortDescription
	record.Description = flat.Description
	record.WorkNotes = flat.WorkNotes
	record.State = flat.State
	if len(approvals) > 0 {
		record.Approvals = approvals
	}
	return record
}

func emptyFieldNames(record RequestRecord) []string {
	fields := []struct {
		name  string
		value string
	}{
		{"request_number", record.RequestNumber},
		{"requested_for", record.RequestedFor},
		{"opened_at", record.OpenedAt},
		{"closed_at", record.ClosedAt},
		{"updated_to_open", record.UpdatedToOpen},
		{"short_description", record.ShortDescription},
		{"description", record.Description},
		{"work_notes", record.WorkNotes},
		{"state", record.State},
	}

	var empty []string
	for _, f := range fields {
		if f.value == "" {
			empty = append(empty, f.name)
		}
	}
	return empty
}
