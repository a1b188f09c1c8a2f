package parse

import (
	"strings"
	"testing"
)

const approvalBlock = `Approvals Approved column header row
Approved John Smith Laptop Request 2024-01-05 09:00:00 2024-01-05 09:00:00
Approved Mary Jones Badge Access 2024-01-06 10:30:00 2024-01-06 10:30:00
Approved Extra Row Beyond Window 2024-01-07 11:00:00 2024-01-07 11:00:00`

func TestExtractApprovals(t *testing.T) {
	entries, results := extractApprovals(approvalBlock)

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.State != "Approved" {
		t.Errorf("State = %q, want %q", first.State, "Approved")
	}
	if first.Approver != "John Smith" {
		t.Errorf("Approver = %q, want %q", first.Approver, "John Smith")
	}
	if first.Item != "Laptop Request" {
		t.Errorf("Item = %q, want %q", first.Item, "Laptop Request")
	}
	if first.Created != "2024-01-05 09:00:00" {
		t.Errorf("Created = %q", first.Created)
	}
	if first.CreatedOriginal != "2024-01-05 09:00:00" {
		t.Errorf("CreatedOriginal = %q", first.CreatedOriginal)
	}

	if entries[1].Approver != "Mary Jones" {
		t.Errorf("second Approver = %q, want %q", entries[1].Approver, "Mary Jones")
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 line results, got %d", len(results))
	}
	if results[0].Selected || results[0].SkipReason != skipOutsideWindow {
		t.Errorf("header line should be skipped outside window, got %+v", results[0])
	}
	if !results[1].Selected || results[1].Entry == nil {
		t.Errorf("first window line should be parsed, got %+v", results[1])
	}
	if results[3].Selected || results[3].SkipReason != skipOutsideWindow {
		t.Errorf("line beyond window should be skipped, got %+v", results[3])
	}
}

func TestExtractApprovalsMalformedLine(t *testing.T) {
	text := `Approvals Approved column header row
Approved John Smith Laptop Request but no timestamps here
Approved Mary Jones Badge Access 2024-01-06 10:30:00 2024-01-06 10:30:00`

	entries, results := extractApprovals(text)

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Approver != "Mary Jones" {
		t.Errorf("Approver = %q, want %q", entries[0].Approver, "Mary Jones")
	}

	if !results[1].Selected {
		t.Errorf("malformed line should still be selected")
	}
	if results[1].Entry != nil {
		t.Errorf("malformed line should produce no entry")
	}
	if results[1].SkipReason != skipNoTimestampPair {
		t.Errorf("SkipReason = %q, want %q", results[1].SkipReason, skipNoTimestampPair)
	}
}

func TestExtractApprovalsNoCandidates(t *testing.T) {
	entries, results := extractApprovals("nothing resembling the marker token")

	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
	if len(results) != 0 {
		t.Errorf("expected no line results, got %d", len(results))
	}
}

func TestExtractApprovalsSingleCandidate(t *testing.T) {
	// Only the header-position line exists; the window is empty.
	entries, results := extractApprovals("Approved Solo Line 2024-01-05 09:00:00 2024-01-05 09:00:00")

	if len(entries) != 0 {
		t.Errorf("expected no entries from a single candidate, got %d", len(entries))
	}
	if len(results) != 1 || results[0].Selected {
		t.Errorf("single candidate should be reported but not selected: %+v", results)
	}
}

func TestParseApprovalLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantNil    bool
		wantReason string
		want       ApprovalEntry
	}{
		{
			name: "full row",
			line: "Approved John Smith Laptop Request 2024-01-05 09:00:00 2024-01-05 09:00:00",
			want: ApprovalEntry{
				State:           "Approved",
				Approver:        "John Smith",
				Item:            "Laptop Request",
				Created:         "2024-01-05 09:00:00",
				CreatedOriginal: "2024-01-05 09:00:00",
			},
		},
		{
			name: "single token before timestamps",
			line: "Approved jsmith 2024-01-05 09:00:00 2024-01-05 09:00:00",
			want: ApprovalEntry{
				State:           "Approved",
				Approver:        "jsmith",
				Created:         "2024-01-05 09:00:00",
				CreatedOriginal: "2024-01-05 09:00:00",
			},
		},
		{
			name:       "missing second timestamp",
			line:       "Approved John Smith Laptop Request 2024-01-05 09:00:00",
			wantNil:    true,
			wantReason: skipNoTimestampPair,
		},
		{
			name:       "no timestamps at all",
			line:       "Approved John Smith Laptop Request",
			wantNil:    true,
			wantReason: skipNoTimestampPair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, reason := parseApprovalLine(tt.line)

			if tt.wantNil {
				if entry != nil {
					t.Fatalf("expected nil entry, got %+v", entry)
				}
				if reason != tt.wantReason {
					t.Errorf("reason = %q, want %q", reason, tt.wantReason)
				}
				return
			}

			if entry == nil {
				t.Fatalf("expected entry, got nil (%s)", reason)
			}
			if *entry != tt.want {
				t.Errorf("entry = %+v, want %+v", *entry, tt.want)
			}
		})
	}
}

func TestExtractApprovalsLinesAreTrimmed(t *testing.T) {
	text := strings.Join([]string{
		"   Approved header   ",
		"  Approved John Smith Laptop Request 2024-01-05 09:00:00 2024-01-05 09:00:00  ",
		"Approved Mary Jones Badge Access 2024-01-06 10:30:00 2024-01-06 10:30:00",
	}, "\n")

	_, results := extractApprovals(text)
	if results[0].Line != "Approved header" {
		t.Errorf("candidate lines should be trimmed, got %q", results[0].Line)
	}
}
