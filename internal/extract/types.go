package extract

// FileInfo describes one candidate document found in the inbox directory.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// TextRequest asks for the full text content of a PDF document.
type TextRequest struct {
	Path string `json:"path"`
}

// ValidateRequest asks whether a file is a readable PDF document.
type ValidateRequest struct {
	Path string `json:"path"`
}

// ScanRequest asks for candidate PDF documents in a directory.
type ScanRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// Response Types

// TextResult carries the concatenated text of a document, page order
// preserved, pages separated by newlines.
type TextResult struct {
	Content string `json:"content"`
	Path    string `json:"path"`
	Pages   int    `json:"pages"`
	Size    int64  `json:"size"`
}

// ValidateResult reports whether a file passed validation; a failed
// validation is a result, not an error.
type ValidateResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// ScanResult lists candidate documents found in a directory.
type ScanResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}
