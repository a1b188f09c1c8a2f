package descriptions

// Tool descriptions with practical examples and use cases

const (
	RequestParseFileDescription = `Parse an access-request PDF without saving anything.

**When to use:** Inspect what the parser would extract from a document before committing it, or debug a document that produced a sparse record.

**Why it's useful:** Returns the structured record plus extraction diagnostics: which fields stayed empty and what happened to every candidate approval line.

**Examples:**
• Preview an export: "Parse inbox/ritm0012345.pdf and show me the fields"
• Debug a template change: "Parse the new export format and list unmatched fields"

**Best practices:** Check the empty-fields list in the response; a long list usually means the source template was reworded and the extraction patterns need review.`

	RequestIngestFileDescription = `Ingest an access-request PDF: validate, parse, archive the source document, and save the record.

**When to use:** A new request export landed in the inbox directory and should become a tracked request.

**Why it's useful:** One call runs the whole upload pipeline. A sparse parse still saves — blank fields are completed manually later, which beats losing the upload.

**Examples:**
• "Ingest inbox/ritm0012345.pdf for user u-jane"
• Batch flow: inbox_scan → request_ingest_file per result

**Best practices:** Run request_parse_file first when unsure about a document; ingest is not deduplicated, so re-ingesting creates a second record.`

	RequestListDescription = `List saved access requests, optionally filtered by uploader or state.

**Examples:**
• "List all requests uploaded by u-jane"
• "List requests in state Pending"`

	RequestGetDescription = `Fetch one saved access request by id, including its approval entries and check-in status.`

	RequestUpdateDescription = `Update the state and/or work notes of a saved request.

**When to use:** A request progressed outside the document flow (badge issued, request closed) and the record should reflect it.

**Best practices:** Only state and work_notes are mutable; parsed document fields stay as extracted.`

	RequestDeleteDescription = `Delete a saved request and its approval entries. Admin role only.`

	RequestCheckInDescription = `Check in the visitor for a saved request. Security or admin role only.

**When to use:** The requested person arrives on site; records who checked them in and when. A request can be checked in once.`

	RequestReportDescription = `Summarize saved requests by state, optionally exporting an .xlsx workbook.

**Examples:**
• "Report on all requests" — totals and per-state counts
• "Report on Pending requests and export to /tmp/pending.xlsx"

**Best practices:** The export uses the standard report columns (Request #, Requested For, Status, Uploaded, Description).`

	InboxScanDescription = `List candidate request PDFs in the inbox directory.

**When to use:** Discover what is waiting to be ingested, optionally filtered by a file-name substring.

**Examples:**
• "What's in the inbox?"
• "Scan the inbox for files matching ritm00123"`

	ServerInfoDescription = `Get server configuration, available tools, and usage guidance.`
)
