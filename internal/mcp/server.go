package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ostrata/mcp-request-tracker/internal/access"
	"github.com/ostrata/mcp-request-tracker/internal/config"
	"github.com/ostrata/mcp-request-tracker/internal/descriptions"
	"github.com/ostrata/mcp-request-tracker/internal/extract"
	"github.com/ostrata/mcp-request-tracker/internal/ingest"
	"github.com/ostrata/mcp-request-tracker/internal/parse"
	"github.com/ostrata/mcp-request-tracker/internal/report"
	"github.com/ostrata/mcp-request-tracker/internal/store"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	extractSvc *extract.Service
	ingestSvc  *ingest.Service
	store      store.Store
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, extractSvc *extract.Service, ingestSvc *ingest.Service, st store.Store) (*Server, error) {
	if extractSvc == nil {
		return nil, fmt.Errorf("extractSvc cannot be nil")
	}
	if ingestSvc == nil {
		return nil, fmt.Errorf("ingestSvc cannot be nil")
	}
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		extractSvc: extractSvc,
		ingestSvc:  ingestSvc,
		store:      st,
		mcpServer:  mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register request parse file tool
	parseFileTool := mcp.NewTool(
		"request_parse_file",
		mcp.WithDescription(descriptions.RequestParseFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the request PDF"),
		),
	)
	s.mcpServer.AddTool(parseFileTool, s.handleRequestParseFile)

	// Register request ingest file tool
	ingestFileTool := mcp.NewTool(
		"request_ingest_file",
		mcp.WithDescription(descriptions.RequestIngestFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the request PDF"),
		),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Identity of the uploading user"),
		),
		mcp.WithString("role",
			mcp.Description("Caller role: admin, user, or security (defaults to user)"),
		),
	)
	s.mcpServer.AddTool(ingestFileTool, s.handleRequestIngestFile)

	// Register request list tool
	listTool := mcp.NewTool(
		"request_list",
		mcp.WithDescription(descriptions.RequestListDescription),
		mcp.WithString("user_id",
			mcp.Description("Only requests uploaded by this user"),
		),
		mcp.WithString("state",
			mcp.Description("Only requests in this state (verbatim match)"),
		),
		mcp.WithString("role",
			mcp.Description("Caller role (defaults to user)"),
		),
	)
	s.mcpServer.AddTool(listTool, s.handleRequestList)

	// Register request get tool
	getTool := mcp.NewTool(
		"request_get",
		mcp.WithDescription(descriptions.RequestGetDescription),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Stored request id"),
		),
		mcp.WithString("role",
			mcp.Description("Caller role (defaults to user)"),
		),
	)
	s.mcpServer.AddTool(getTool, s.handleRequestGet)

	// Register request update tool
	updateTool := mcp.NewTool(
		"request_update",
		mcp.WithDescription(descriptions.RequestUpdateDescription),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Stored request id"),
		),
		mcp.WithString("state",
			mcp.Description("New state value"),
		),
		mcp.WithString("work_notes",
			mcp.Description("New work notes"),
		),
		mcp.WithString("role",
			mcp.Description("Caller role (defaults to user)"),
		),
	)
	s.mcpServer.AddTool(updateTool, s.handleRequestUpdate)

	// Register request delete tool
	deleteTool := mcp.NewTool(
		"request_delete",
		mcp.WithDescription(descriptions.RequestDeleteDescription),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Stored request id"),
		),
		mcp.WithString("role",
			mcp.Description("Caller role; only admin may delete"),
		),
	)
	s.mcpServer.AddTool(deleteTool, s.handleRequestDelete)

	// Register request check-in tool
	checkInTool := mcp.NewTool(
		"request_checkin",
		mcp.WithDescription(descriptions.RequestCheckInDescription),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Stored request id"),
		),
		mcp.WithString("guard",
			mcp.Required(),
			mcp.Description("Identity of the person performing the check-in"),
		),
		mcp.WithString("role",
			mcp.Description("Caller role; security or admin may check in"),
		),
	)
	s.mcpServer.AddTool(checkInTool, s.handleRequestCheckIn)

	// Register request report tool
	reportTool := mcp.NewTool(
		"request_report",
		mcp.WithDescription(descriptions.RequestReportDescription),
		mcp.WithString("state",
			mcp.Description("Only requests in this state"),
		),
		mcp.WithString("user_id",
			mcp.Description("Only requests uploaded by this user"),
		),
		mcp.WithString("output",
			mcp.Description("Optional path for an .xlsx export"),
		),
		mcp.WithString("role",
			mcp.Description("Caller role (defaults to user)"),
		),
	)
	s.mcpServer.AddTool(reportTool, s.handleRequestReport)

	// Register inbox scan tool
	inboxScanTool := mcp.NewTool(
		"inbox_scan",
		mcp.WithDescription(descriptions.InboxScanDescription),
		mcp.WithString("directory",
			mcp.Description("Directory to scan (uses the inbox directory if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional file-name substring filter"),
		),
	)
	s.mcpServer.AddTool(inboxScanTool, s.handleInboxScan)

	// Register server info tool
	serverInfoTool := mcp.NewTool(
		"server_info",
		mcp.WithDescription(descriptions.ServerInfoDescription),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// callerRole reads the optional role argument, defaulting to the user role.
func callerRole(request mcp.CallToolRequest) string {
	args := request.GetArguments()
	if role, ok := args["role"].(string); ok && role != "" {
		return access.Normalize(role)
	}
	return access.RoleUser
}

// Handler functions
func (s *Server) handleRequestParseFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.ingestSvc.ParseFile(ctx, ingest.ParseRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Parsed: %s (%d page(s))\n\n", path, result.Pages)
	responseText += s.formatRecord(result.Record)
	responseText += s.formatParseReport(result.Report)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRequestIngestFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	role := callerRole(request)
	if !access.Can(role, access.AreaUpload) {
		return mcp.NewToolResultError(fmt.Sprintf("role %q may not upload requests", role)), nil
	}

	result, err := s.ingestSvc.IngestFile(ctx, ingest.FileRequest{Path: path, UserID: userID})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Ingested %s as request %s\n", result.Record.FileName, result.ID)
	responseText += fmt.Sprintf("Archived at: %s\n\n", result.Record.FileURL)
	responseText += s.formatRecord(result.Record.RequestRecord)
	responseText += s.formatParseReport(result.Report)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRequestList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	role := callerRole(request)
	if !access.Can(role, access.AreaRequests) {
		return mcp.NewToolResultError(fmt.Sprintf("role %q may not view requests", role)), nil
	}

	args := request.GetArguments()
	filter := store.Filter{}
	if userID, ok := args["user_id"].(string); ok {
		filter.UserID = userID
	}
	if state, ok := args["state"].(string); ok {
		filter.State = state
	}

	records, err := s.store.List(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatRecordList(records)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRequestGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	role := callerRole(request)
	if !access.Can(role, access.AreaRequests) {
		return mcp.NewToolResultError(fmt.Sprintf("role %q may not view requests", role)), nil
	}

	record, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("request %s not found", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Request %s\n\n", record.ID)
	responseText += s.formatRecord(record.RequestRecord)
	responseText += fmt.Sprintf("Uploaded by: %s at %s\n", record.UserID, record.UploadedAt.Format("2006-01-02 15:04:05"))
	responseText += fmt.Sprintf("Source file: %s (%s)\n", record.FileName, record.FileURL)
	if record.CheckedInAt != nil {
		responseText += fmt.Sprintf("Checked in by %s at %s\n",
			record.CheckedInBy, record.CheckedInAt.Format("2006-01-02 15:04:05"))
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRequestUpdate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	role := callerRole(request)
	if !access.Can(role, access.AreaRequests) {
		return mcp.NewToolResultError(fmt.Sprintf("role %q may not update requests", role)), nil
	}

	args := request.GetArguments()
	updates := store.Updates{}
	if state, ok := args["state"].(string); ok {
		updates.State = state
	}
	if notes, ok := args["work_notes"].(string); ok {
		updates.WorkNotes = notes
	}
	if updates.State == "" && updates.WorkNotes == "" {
		return mcp.NewToolResultError("nothing to update: provide state and/or work_notes"), nil
	}

	if err := s.store.Update(ctx, id, updates); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("request %s not found", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated request %s", id)), nil
}

func (s *Server) handleRequestDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	role := callerRole(request)
	if !access.CanDelete(role) {
		return mcp.NewToolResultError(fmt.Sprintf("role %q may not delete requests", role)), nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("request %s not found", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted request %s", id)), nil
}

func (s *Server) handleRequestCheckIn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	guard, err := request.RequireString("guard")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	role := callerRole(request)
	if !access.CanCheckIn(role) {
		return mcp.NewToolResultError(fmt.Sprintf("role %q may not check in visitors", role)), nil
	}

	if err := s.store.CheckIn(ctx, id, guard); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("request %s not found", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Checked in visitor for request %s (by %s)", id, guard)), nil
}

func (s *Server) handleRequestReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	role := callerRole(request)
	if !access.Can(role, access.AreaReports) {
		return mcp.NewToolResultError(fmt.Sprintf("role %q may not run reports", role)), nil
	}

	args := request.GetArguments()
	filter := store.Filter{}
	if userID, ok := args["user_id"].(string); ok {
		filter.UserID = userID
	}
	if state, ok := args["state"].(string); ok {
		filter.State = state
	}

	records, err := s.store.List(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary := report.Summarize(records)
	responseText := fmt.Sprintf("Requests: %d total, %d checked in\n", summary.Total, summary.CheckedIn)
	for _, state := range summary.States() {
		responseText += fmt.Sprintf("  %s: %d\n", state, summary.ByState[state])
	}

	if output, ok := args["output"].(string); ok && output != "" {
		if err := report.WriteExcel(records, output); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		responseText += fmt.Sprintf("\nExported %d request(s) to %s\n", len(records), output)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleInboxScan(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req := extract.ScanRequest{}
	if directory, ok := args["directory"].(string); ok {
		req.Directory = directory
	}
	if query, ok := args["query"].(string); ok {
		req.Query = query
	}

	result, err := s.extractSvc.Scan(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatScanResult(result)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Inbox directory: %s\n", s.config.InboxDirectory)
	text += fmt.Sprintf("Data directory: %s\n", s.config.DataDirectory)
	text += fmt.Sprintf("Store backend: %s\n", s.config.StoreBackend)
	text += fmt.Sprintf("Archive backend: %s\n", s.config.ArchiveBackend)
	text += fmt.Sprintf("Max file size: %d MB\n\n", s.config.MaxFileSize/(1024*1024))

	text += "Available tools:\n"
	for _, tool := range []string{
		"request_parse_file", "request_ingest_file", "request_list", "request_get",
		"request_update", "request_delete", "request_checkin", "request_report",
		"inbox_scan", "server_info",
	} {
		text += fmt.Sprintf("  • %s\n", tool)
	}

	text += "\nTypical flow: inbox_scan, then request_parse_file to preview, then request_ingest_file to save.\n"
	return mcp.NewToolResultText(text), nil
}

// Formatting methods
func (s *Server) formatRecord(record parse.RequestRecord) string {
	fields := []struct {
		label string
		value string
	}{
		{"Request number", record.RequestNumber},
		{"Requested for", record.RequestedFor},
		{"Opened", record.OpenedAt},
		{"Closed", record.ClosedAt},
		{"Updated to open", record.UpdatedToOpen},
		{"Short description", record.ShortDescription},
		{"Description", record.Description},
		{"Work notes", record.WorkNotes},
		{"State", record.State},
	}

	text := ""
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = "(empty)"
		}
		text += fmt.Sprintf("%s: %s\n", f.label, value)
	}

	if len(record.Approvals) > 0 {
		text += fmt.Sprintf("\nApprovals (%d):\n", len(record.Approvals))
		for i, approval := range record.Approvals {
			text += fmt.Sprintf("%d. %s — approver: %s", i+1, approval.State, approval.Approver)
			if approval.Item != "" {
				text += fmt.Sprintf(", item: %s", approval.Item)
			}
			text += fmt.Sprintf(", created: %s\n", approval.Created)
		}
	}
	text += "\n"
	return text
}

func (s *Server) formatParseReport(r parse.Report) string {
	text := ""
	if len(r.EmptyFields) > 0 {
		text += fmt.Sprintf("Unmatched fields (%d): ", len(r.EmptyFields))
		for i, name := range r.EmptyFields {
			if i > 0 {
				text += ", "
			}
			text += name
		}
		text += "\n"
	}

	for _, line := range r.ApprovalLines {
		if line.SkipReason != "" {
			text += fmt.Sprintf("Approval line %d skipped: %s\n", line.Index, line.SkipReason)
		}
	}
	return text
}

func (s *Server) formatRecordList(records []store.Record) string {
	if len(records) == 0 {
		return "No requests found"
	}

	text := fmt.Sprintf("Found %d request(s):\n\n", len(records))
	for _, record := range records {
		text += fmt.Sprintf("[%s] %s", record.ID, record.RequestNumber)
		if record.RequestedFor != "" {
			text += fmt.Sprintf(" — %s", record.RequestedFor)
		}
		if record.State != "" {
			text += fmt.Sprintf(" (%s)", record.State)
		}
		if record.CheckedInAt != nil {
			text += " [checked in]"
		}
		text += fmt.Sprintf("\n   Uploaded by %s at %s: %s\n",
			record.UserID, record.UploadedAt.Format("2006-01-02 15:04:05"), record.FileName)
	}
	return text
}

func (s *Server) formatScanResult(result *extract.ScanResult) string {
	if result.TotalCount == 0 {
		return fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
	}

	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"
	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting request tracker MCP server in stdio mode")
		log.Printf("Inbox directory: %s", s.config.InboxDirectory)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// The mark3labs library handles the transport differently; stdio is the
	// supported mode for now.
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
