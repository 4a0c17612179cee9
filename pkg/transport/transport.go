// Package transport implements the spreadsheet operation set over the
// Google Sheets API. This is the only layer that talks to the wire; all
// resilience behavior lives in the decorators above it.
package transport

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ariadng/sheets/pkg/client"
)

// valueInputOption controls how written values are parsed by the backend.
// USER_ENTERED matches what typing into the UI would produce.
const valueInputOption = "USER_ENTERED"

// Client is the Google Sheets transport.
type Client struct {
	service *sheets.Service
}

var _ client.API = (*Client)(nil)

// New creates a transport with explicit client options.
func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{service: service}, nil
}

// Read returns the cell values of a single range.
func (c *Client) Read(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", readRange, err)
	}
	return resp.Values, nil
}

// Write overwrites a single range.
func (c *Client) Write(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, writeRange, vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write range %s: %w", writeRange, err)
	}
	return nil
}

// Append adds rows after the last data row of the range's table.
func (c *Client) Append(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, appendRange, vr).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to range %s: %w", appendRange, err)
	}
	return nil
}

// Clear removes all values from a single range.
func (c *Client) Clear(ctx context.Context, spreadsheetID, clearRange string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear range %s: %w", clearRange, err)
	}
	return nil
}

// BatchRead fetches several ranges in one call. The backend returns value
// ranges in request order but with normalized range strings, so the caller's
// notation is restored by index.
func (c *Client) BatchRead(ctx context.Context, spreadsheetID string, ranges []string) ([]client.RangeValues, error) {
	resp, err := c.service.Spreadsheets.Values.BatchGet(spreadsheetID).
		Ranges(ranges...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("batch read %d ranges: %w", len(ranges), err)
	}

	out := make([]client.RangeValues, len(resp.ValueRanges))
	for i, vr := range resp.ValueRanges {
		rng := vr.Range
		if i < len(ranges) {
			rng = ranges[i]
		}
		out[i] = client.RangeValues{Range: rng, Values: vr.Values}
	}
	return out, nil
}

// BatchWrite overwrites several ranges in one call.
func (c *Client) BatchWrite(ctx context.Context, spreadsheetID string, data []client.RangeValues) error {
	vrs := make([]*sheets.ValueRange, len(data))
	for i, rv := range data {
		vrs[i] = &sheets.ValueRange{Range: rv.Range, Values: rv.Values}
	}
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputOption,
		Data:             vrs,
	}
	_, err := c.service.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("batch write %d ranges: %w", len(data), err)
	}
	return nil
}

// BatchClear removes values from several ranges in one call.
func (c *Client) BatchClear(ctx context.Context, spreadsheetID string, ranges []string) error {
	req := &sheets.BatchClearValuesRequest{Ranges: ranges}
	_, err := c.service.Spreadsheets.Values.BatchClear(spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("batch clear %d ranges: %w", len(ranges), err)
	}
	return nil
}

// GetMetadata returns the spreadsheet's properties and sheet list.
func (c *Client) GetMetadata(ctx context.Context, spreadsheetID string) (*client.SpreadsheetMetadata, error) {
	resp, err := c.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet metadata: %w", err)
	}

	meta := &client.SpreadsheetMetadata{
		SpreadsheetID: resp.SpreadsheetId,
	}
	if resp.Properties != nil {
		meta.Title = resp.Properties.Title
	}
	for _, sheet := range resp.Sheets {
		if sheet.Properties == nil {
			continue
		}
		info := client.SheetInfo{
			SheetID: sheet.Properties.SheetId,
			Title:   sheet.Properties.Title,
		}
		if grid := sheet.Properties.GridProperties; grid != nil {
			info.RowCount = grid.RowCount
			info.ColumnCount = grid.ColumnCount
		}
		meta.Sheets = append(meta.Sheets, info)
	}
	return meta, nil
}
