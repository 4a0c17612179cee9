// Package client defines the spreadsheet operation interface shared by the
// transport and every decorator, together with error classification and the
// retry engine that turns transient failures into bounded, jittered retries.
package client

import (
	"context"
)

// RangeValues pairs a range in A1 notation with its cell values.
// Values use [][]interface{} as mandated by the Google Sheets API; this is
// the only shape in which cell data crosses the API boundary.
type RangeValues struct {
	Range  string
	Values [][]interface{}
}

// SheetInfo describes a single sheet within a spreadsheet.
type SheetInfo struct {
	SheetID     int64  `json:"sheet_id"`
	Title       string `json:"title"`
	RowCount    int64  `json:"row_count"`
	ColumnCount int64  `json:"column_count"`
}

// SpreadsheetMetadata describes a spreadsheet's properties and sheets.
type SpreadsheetMetadata struct {
	SpreadsheetID string      `json:"spreadsheet_id"`
	Title         string      `json:"title"`
	Sheets        []SheetInfo `json:"sheets"`
}

// API is the fixed operation set exposed by the transport and re-exposed by
// every decorator. Adding an operation means updating this interface and all
// implementations; there is no dynamic wrapping.
//
// Read, Clear and the batch variants are idempotent. Write is idempotent per
// range. Append is NOT idempotent: retrying a timed-out append can duplicate
// rows. That risk is accepted, not worked around.
type API interface {
	// Read returns the cell values of a single range.
	Read(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)

	// Write overwrites a single range with the given values.
	Write(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error

	// Append adds rows after the last data row of the range's table.
	Append(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}) error

	// Clear removes all values from a single range.
	Clear(ctx context.Context, spreadsheetID, clearRange string) error

	// BatchRead returns values for several ranges in one call. The result is
	// ordered to match the requested ranges.
	BatchRead(ctx context.Context, spreadsheetID string, ranges []string) ([]RangeValues, error)

	// BatchWrite overwrites several ranges in one call.
	BatchWrite(ctx context.Context, spreadsheetID string, data []RangeValues) error

	// BatchClear removes all values from several ranges in one call.
	BatchClear(ctx context.Context, spreadsheetID string, ranges []string) error

	// GetMetadata returns the spreadsheet's properties and sheet list.
	GetMetadata(ctx context.Context, spreadsheetID string) (*SpreadsheetMetadata, error)
}
