package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ostrata/mcp-request-tracker/internal/extract"
	"github.com/ostrata/mcp-request-tracker/internal/parse"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json")
	showSkipped  = flag.Bool("skipped", false, "Show approval lines that were skipped and why")
	maxFileSize  = flag.Int64("maxfilesize", 100*1024*1024, "Maximum PDF file size in bytes")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", pdfPath)
		os.Exit(1)
	}

	result, err := parseFile(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing document: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Request Parse - Extract access-request fields from an exported PDF")
	fmt.Println()
	fmt.Println("Reads one request export PDF, extracts its text, and prints the structured")
	fmt.Println("record the tracker would store, together with extraction diagnostics.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format       Output format: text (default), json")
	fmt.Println("  -skipped      Show approval lines that were skipped and why")
	fmt.Println("  -maxfilesize  Maximum PDF file size in bytes")
	fmt.Println("  -help         Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  request-parse inbox/ritm0012345.pdf")
	fmt.Println("  request-parse -format json inbox/ritm0012345.pdf")
	fmt.Println("  request-parse -skipped reworded-template.pdf")
	fmt.Println()
	fmt.Println("Nothing is archived or persisted; this is a dry run of the ingest parser.")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  request-parse [OPTIONS] <pdf_file>")
}

// ParseRunResult is the printable outcome of one dry-run parse.
type ParseRunResult struct {
	FilePath    string              `json:"file_path"`
	Pages       int                 `json:"pages"`
	Record      parse.RequestRecord `json:"record"`
	EmptyFields []string            `json:"empty_fields"`

	SkippedLines []parse.ApprovalLineResult `json:"skipped_lines,omitempty"`
}

func parseFile(pdfPath string) (*ParseRunResult, error) {
	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	validator := extract.NewValidator(*maxFileSize)
	validation, err := validator.Validate(extract.ValidateRequest{Path: absPath})
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, fmt.Errorf("invalid document: %s", validation.Message)
	}

	reader := extract.NewReader(*maxFileSize)
	text, err := reader.Text(extract.TextRequest{Path: absPath})
	if err != nil {
		return nil, err
	}

	record, report, err := parse.Parse(text.Content)
	if err != nil {
		return nil, err
	}

	result := &ParseRunResult{
		FilePath:    absPath,
		Pages:       text.Pages,
		Record:      record,
		EmptyFields: report.EmptyFields,
	}
	for _, line := range report.ApprovalLines {
		if line.SkipReason != "" {
			result.SkippedLines = append(result.SkippedLines, line)
		}
	}
	return result, nil
}

func outputResults(result *ParseRunResult) error {
	switch *outputFormat {
	case "json":
		return outputJSON(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputJSON(result *ParseRunResult) error {
	if !*showSkipped {
		result.SkippedLines = nil
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *ParseRunResult) error {
	fmt.Printf("File: %s (%d page(s))\n\n", result.FilePath, result.Pages)

	fields := []struct {
		label string
		value string
	}{
		{"Request number", result.Record.RequestNumber},
		{"Requested for", result.Record.RequestedFor},
		{"Opened", result.Record.OpenedAt},
		{"Closed", result.Record.ClosedAt},
		{"Updated to open", result.Record.UpdatedToOpen},
		{"Short description", result.Record.ShortDescription},
		{"Description", result.Record.Description},
		{"Work notes", result.Record.WorkNotes},
		{"State", result.Record.State},
	}
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = "(empty)"
		}
		fmt.Printf("%-18s %s\n", f.label+":", value)
	}

	fmt.Printf("\nApprovals: %d\n", len(result.Record.Approvals))
	for i, approval := range result.Record.Approvals {
		fmt.Printf("  [%d] %s by %s", i+1, approval.State, approval.Approver)
		if approval.Item != "" {
			fmt.Printf(" for %s", approval.Item)
		}
		fmt.Printf(" (created %s)\n", approval.Created)
	}

	if len(result.EmptyFields) > 0 {
		fmt.Printf("\nUnmatched fields: %d\n", len(result.EmptyFields))
		for _, name := range result.EmptyFields {
			fmt.Printf("  - %s\n", name)
		}
	}

	if *showSkipped && len(result.SkippedLines) > 0 {
		fmt.Println("\nSkipped approval lines:")
		for _, line := range result.SkippedLines {
			fmt.Printf("  line %d (%s): %s\n", line.Index, line.SkipReason, line.Line)
		}
	}

	return nil
}

func init() {
	flag.Usage = func() {
		printHelp()
	}
}
