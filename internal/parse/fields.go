package parse

import (
	"regexp"
	"strings"
)

// Literal labels recognized in the exported document text. Matching is
// verbatim and case-sensitive: if the upstream template rewords a label, the
// field degrades to empty rather than erroring.
const (
	labelNumber           = "Number:"
	labelRequestedFor     = "Request Requested for:"
	labelOpened           = "Opened:"
	labelClosed           = "Closed:"
	labelUpdatedToOpen    = "Updated to open:"
	labelShortDescription = "Short description:"
	labelDescription      = "Description:"
	labelWorkNotes        = "Work notes:"
	labelState            = "State:"
)

// boundaryLabels delimit captured values. The extra entries are labels that
// occur in the exports next to captured fields without being captured
// themselves.
var boundaryLabels = []string{
	labelNumber,
	labelRequestedFor,
	labelOpened,
	labelClosed,
	labelUpdatedToOpen,
	labelShortDescription,
	labelDescription,
	labelWorkNotes,
	labelState,
	"Company:",
	"Priority:",
	"Item:",
	"Approvers:",
}

var requestNumberPattern = regexp.MustCompile(`Number:\s*(RITM\d+)`)

var labelPatterns = buildLabelPatterns()

func buildLabelPatterns() map[string]*regexp.Regexp {
	labels := []string{
		labelRequestedFor,
		labelOpened,
		labelClosed,
		labelUpdatedToOpen,
		labelShortDescription,
		labelDescription,
		labelWorkNotes,
		labelState,
	}

	patterns := make(map[string]*regexp.Regexp, len(labels))
	for _, label := range labels {
		patterns[label] = regexp.MustCompile(regexp.QuoteMeta(label) + `\s*([^\n]+)`)
	}
	return patterns
}

// flatFields holds the scalar fields carved out of the document text before
// assembly into a RequestRecord.
type flatFields struct {
	RequestNumber    string
	RequestedFor     string
	OpenedAt         string
	ClosedAt         string
	UpdatedToOpen    string
	ShortDescription string
	Description      string
	WorkNotes        string
	State            string
}

// extractFlatFields applies the fixed label patterns to the document text.
// Absence of a label is not an error; the field stays empty.
func extractFlatFields(text string) flatFields {
	return flatFields{
		RequestNumber:    captureRequestNumber(text),
		RequestedFor:     captureLabeled(text, labelRequestedFor),
		OpenedAt:         captureLabeled(text, labelOpened),
		ClosedAt:         captureLabeled(text, labelClosed),
		UpdatedToOpen:    captureLabeled(text, labelUpdatedToOpen),
		ShortDescription: captureLabeled(text, labelShortDescription),
		Description:      captureLabeled(text, labelDescription),
		WorkNotes:        captureLabeled(text, labelWorkNotes),
		State:            captureLabeled(text, labelState),
	}
}

// captureRequestNumber matches the fixed prefix-plus-digits identifier; the
// pattern itself constrains the value so no boundary truncation is needed.
func captureRequestNumber(text string) string {
	match := requestNumberPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1]
}

// captureLabeled captures the value following a literal label, truncated at
// the start of the next recognized label on the same line.
func captureLabeled(text, label string) string {
	match := labelPatterns[label].FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return cleanCapture(match[1], label)
}

// cleanCapture truncates a raw capture at the earliest other known label,
// trims whitespace, and strips the field's own label if the source formatting
// leaked it into the capture.
func cleanCapture(value, ownLabel string) string {
	cut := len(value)
	for _, boundary := range boundaryLabels {
		if boundary == ownLabel {
			continue
		}
		if idx := strings.Index(value, boundary); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	value = strings.TrimSpace(value[:cut])

	if strings.HasPrefix(value, ownLabel) {
		value = strings.TrimSpace(strings.TrimPrefix(value, ownLabel))
	}
	return value
}
