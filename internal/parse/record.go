package parse

// RequestRecord is the structured result of parsing one exported request
// document. Every flat field defaults to the empty string and Approvals to an
// empty slice, so consumers never have to branch on presence.
type RequestRecord struct {
	RequestNumber    string          `json:"request_number"`
	RequestedFor     string          `json:"requested_for"`
	OpenedAt         string          `json:"opened_at"`
	ClosedAt         string          `json:"closed_at"`
	UpdatedToOpen    string          `json:"updated_to_open"`
	ShortDescription string          `json:"short_description"`
	Description      string          `json:"description"`
	WorkNotes        string          `json:"work_notes"`
	State            string          `json:"state"`
	Approvals        []ApprovalEntry `json:"approvals"`
}

// ApprovalEntry is one parsed row of the approval table embedded in the
// document text. Timestamps are kept as the literal strings found in the
// source; no normalization is performed.
type ApprovalEntry struct {
	State           string `json:"state"`
	Approver        string `json:"approver"`
	Item            string `json:"item"`
	Created         string `json:"created"`
	CreatedOriginal string `json:"created_original"`
}

// NewRequestRecord returns a record with all defaults applied.
func NewRequestRecord() RequestRecord {
	return RequestRecord{Approvals: []ApprovalEntry{}}
}
