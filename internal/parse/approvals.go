package parse

import (
	"regexp"
	"strings"
)

// approvalMarker is the literal status token that identifies a line as an
// approval-table row.
const approvalMarker = "Approved"

// The exports place exactly one header/noise line containing the marker ahead
// of the real rows, so extraction skips the first candidate and parses the
// next two. Layout-positional, not structural; candidates outside the window
// are reported but never parsed.
const (
	approvalWindowStart = 1
	approvalWindowEnd   = 2
)

// timestampPairPattern matches the two consecutive created timestamps on an
// approval row.
var timestampPairPattern = regexp.MustCompile(
	`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\s+(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)

// Skip reasons surfaced in ApprovalLineResult.
const (
	skipOutsideWindow   = "outside extraction window"
	skipNoTimestampPair = "no timestamp pair found"
)

// ApprovalLineResult records the outcome for one candidate approval line, so
// callers can tell "no approvals in document" apart from "approvals present
// but unparseable".
type ApprovalLineResult struct {
	Index      int            `json:"index"`
	Line       string         `json:"line"`
	Selected   bool           `json:"selected"`
	Entry      *ApprovalEntry `json:"entry,omitempty"`
	SkipReason string         `json:"skip_reason,omitempty"`
}

// extractApprovals locates the approval table in the document text and parses
// the rows inside the extraction window. The entry slice preserves order of
// appearance; the result slice covers every candidate line.
func extractApprovals(text string) ([]ApprovalEntry, []ApprovalLineResult) {
	var candidates []string
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, approvalMarker) {
			candidates = append(candidates, strings.TrimSpace(line))
		}
	}

	entries := []ApprovalEntry{}
	results := make([]ApprovalLineResult, 0, len(candidates))

	for i, line := range candidates {
		result := ApprovalLineResult{Index: i, Line: line}

		if i < approvalWindowStart || i > approvalWindowEnd {
			result.SkipReason = skipOutsideWindow
			results = append(results, result)
			continue
		}
		result.Selected = true

		entry, skipReason := parseApprovalLine(line)
		if entry == nil {
			result.SkipReason = skipReason
		} else {
			result.Entry = entry
			entries = append(entries, *entry)
		}
		results = append(results, result)
	}

	return entries, results
}

// parseApprovalLine parses a single candidate row. A nil entry means the line
// was skipped for the returned reason.
func parseApprovalLine(line string) (*ApprovalEntry, string) {
	idx := timestampPairPattern.FindStringSubmatchIndex(line)
	if idx == nil {
		return nil, skipNoTimestampPair
	}

	created := line[idx[2]:idx[3]]
	createdOriginal := line[idx[4]:idx[5]]

	// Everything before the first timestamp, minus the marker token, holds the
	// approver and the requested item.
	prefix := strings.ReplaceAll(line[:idx[0]], approvalMarker, " ")
	tokens := strings.Fields(prefix)

	entry := &ApprovalEntry{
		State:           approvalMarker,
		Created:         created,
		CreatedOriginal: createdOriginal,
	}

	switch {
	case len(tokens) >= 2:
		entry.Approver = strings.Join(tokens[:2], " ")
		entry.Item = strings.Join(tokens[2:], " ")
	case len(tokens) == 1:
		entry.Approver = tokens[0]
	}

	return entry, ""
}
