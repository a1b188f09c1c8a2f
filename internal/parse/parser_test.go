package parse

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `Request Number: RITM0012345
Request Requested for: Jane Doe Company: Acme
Opened: 2024-01-05 08:15:00
Updated to open: 2024-01-06 08:00:00
Short description: Contractor badge Description: Temporary badge for building A
Work notes: Verified with sponsor
State: Pending
Approvals Approved column header row
Approved John Smith Laptop Request 2024-01-05 09:00:00 2024-01-05 09:00:00
Approved Mary Jones Badge Access 2024-01-06 10:30:00 2024-01-06 10:30:00`

func TestParseSampleDocument(t *testing.T) {
	record, report, err := Parse(sampleDocument)
	require.NoError(t, err)

	assert.Equal(t, "RITM0012345", record.RequestNumber)
	assert.Equal(t, "Jane Doe", record.RequestedFor)
	assert.Equal(t, "2024-01-05 08:15:00", record.OpenedAt)
	assert.Equal(t, "2024-01-06 08:00:00", record.UpdatedToOpen)
	assert.Equal(t, "Contractor badge", record.ShortDescription)
	assert.Equal(t, "Temporary badge for building A", record.Description)
	assert.Equal(t, "Verified with sponsor", record.WorkNotes)
	assert.Equal(t, "Pending", record.State)
	assert.Equal(t, "", record.ClosedAt)

	require.Len(t, record.Approvals, 2)
	assert.Equal(t, "John Smith", record.Approvals[0].Approver)
	assert.Equal(t, "Mary Jones", record.Approvals[1].Approver)

	assert.Equal(t, []string{"closed_at"}, report.EmptyFields)
}

func TestParseNoRecognizableLabels(t *testing.T) {
	record, report, err := Parse("plain text without any of the expected markers")
	require.NoError(t, err)

	want := NewRequestRecord()
	assert.Equal(t, want, record)
	assert.Empty(t, record.Approvals)
	assert.Len(t, report.EmptyFields, 9)
	assert.Empty(t, report.ApprovalLines)
}

func TestParseEmptyInput(t *testing.T) {
	_, _, err := Parse("")
	require.Error(t, err)

	_, _, err = Parse("   \n\t  ")
	require.Error(t, err)
}

func TestParseIsDeterministic(t *testing.T) {
	first, firstReport, err := Parse(sampleDocument)
	require.NoError(t, err)

	second, secondReport, err := Parse(sampleDocument)
	require.NoError(t, err)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("records differ across identical parses")
	}
	if !reflect.DeepEqual(firstReport, secondReport) {
		t.Errorf("reports differ across identical parses")
	}
}

func TestAssembleKeepsAllInputs(t *testing.T) {
	flat := flatFields{
		RequestNumber:    "RITM0000001",
		RequestedFor:     "John Smith",
		OpenedAt:         "2024-01-01 00:00:00",
		ClosedAt:         "2024-02-01 00:00:00",
		UpdatedToOpen:    "2024-01-02 00:00:00",
		ShortDescription: "short",
		Description:      "long",
		WorkNotes:        "notes",
		State:            "Pending",
	}
	approvals := []ApprovalEntry{{State: "Approved", Approver: "A B"}}

	record := assemble(flat, approvals)

	assert.Equal(t, flat.RequestNumber, record.RequestNumber)
	assert.Equal(t, flat.RequestedFor, record.RequestedFor)
	assert.Equal(t, flat.OpenedAt, record.OpenedAt)
	assert.Equal(t, flat.ClosedAt, record.ClosedAt)
	assert.Equal(t, flat.UpdatedToOpen, record.UpdatedToOpen)
	assert.Equal(t, flat.ShortDescription, record.ShortDescription)
	assert.Equal(t, flat.Description, record.Description)
	assert.Equal(t, flat.WorkNotes, record.WorkNotes)
	assert.Equal(t, flat.State, record.State)
	assert.Equal(t, approvals, record.Approvals)
}

func TestAssembleDefaults(t *testing.T) {
	record := assemble(flatFields{}, nil)

	assert.Equal(t, NewRequestRecord(), record)
	assert.NotNil(t, record.Approvals)
	assert.Empty(t, record.Approvals)
}
