// Package report produces summaries and spreadsheet exports of stored
// requests.
package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/ostrata/mcp-request-tracker/internal/store"
)

// Summary aggregates a set of stored requests.
type Summary struct {
	Total     int            `json:"total"`
	ByState   map[string]int `json:"by_state"`
	CheckedIn int            `json:"checked_in"`
}

// Summarize counts requests by state. Records without a parsed state are
// grouped under "(unknown)".
func Summarize(records []store.Record) Summary {
	summary := Summary{ByState: map[string]int{}}
	for _, record := range records {
		summary.Total++
		state := record.State
		if state == "" {
			state = "(unknown)"
		}
		summary.ByState[state]++
		if record.CheckedInAt != nil {
			summary.CheckedIn++
		}
	}
	return summary
}

// States returns the summarized states in deterministic order.
func (s Summary) States() []string {
	states := make([]string, 0, len(s.ByState))
	for state := range s.ByState {
		states = append(states, state)
	}
	sort.Strings(states)
	return states
}

const exportSheet = "Requests"

var exportHeaders = []string{"Request #", "Requested For", "Status", "Uploaded", "Description"}

// WriteExcel writes the records to an .xlsx workbook at the given path,
// using the tracker's report column set.
func WriteExcel(records []store.Record, path string) error {
	if path == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to prepare sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, record := range records {
		values := []string{
			record.RequestNumber,
			record.RequestedFor,
			record.State,
			record.UploadedAt.Format("2006-01-02 15:04:05"),
			record.Description,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
