// Package testutil provides testing utilities for the sheets client.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ariadng/sheets/pkg/client"
)

// FakeTransport is a scripted in-memory implementation of client.API for
// testing decorators without a real Sheets backend. Failures are queued per
// operation and consumed one per call; once a queue is empty the operation
// succeeds.
type FakeTransport struct {
	mu      sync.Mutex
	scripts map[string][]error

	// Calls counts invocations per operation name.
	Calls map[string]int

	// ReadValues is returned by Read on success.
	ReadValues [][]interface{}

	// BatchValues maps a range to the values BatchRead returns for it.
	BatchValues map[string][][]interface{}

	// Metadata is returned by GetMetadata on success.
	Metadata *client.SpreadsheetMetadata

	// LastBatchRanges records the ranges of the most recent BatchRead call.
	LastBatchRanges []string

	// Delay is applied before every call when non-zero.
	Delay time.Duration
}

var _ client.API = (*FakeTransport)(nil)

// NewFakeTransport returns a FakeTransport that succeeds on every call.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		scripts:     make(map[string][]error),
		Calls:       make(map[string]int),
		BatchValues: make(map[string][][]interface{}),
	}
}

// FailWith queues errors for the named operation ("read", "write", "append",
// "clear", "batch_read", "batch_write", "batch_clear", "get_metadata"). Each
// call consumes one queued error.
func (f *FakeTransport) FailWith(op string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[op] = append(f.scripts[op], errs...)
}

// TotalCalls returns the number of calls across all operations.
func (f *FakeTransport) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.Calls {
		total += n
	}
	return total
}

// Reset clears call counts and pending failure scripts.
func (f *FakeTransport) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts = make(map[string][]error)
	f.Calls = make(map[string]int)
	f.LastBatchRanges = nil
}

// step records the call and pops the next scripted error, if any.
func (f *FakeTransport) step(op string) error {
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[op]++
	if queue := f.scripts[op]; len(queue) > 0 {
		err := queue[0]
		f.scripts[op] = queue[1:]
		return err
	}
	return nil
}

func (f *FakeTransport) Read(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	if err := f.step("read"); err != nil {
		return nil, err
	}
	return f.ReadValues, nil
}

func (f *FakeTransport) Write(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	return f.step("write")
}

func (f *FakeTransport) Append(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}) error {
	return f.step("append")
}

func (f *FakeTransport) Clear(ctx context.Context, spreadsheetID, clearRange string) error {
	return f.step("clear")
}

func (f *FakeTransport) BatchRead(ctx context.Context, spreadsheetID string, ranges []string) ([]client.RangeValues, error) {
	if err := f.step("batch_read"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.LastBatchRanges = append([]string(nil), ranges...)
	f.mu.Unlock()
	out := make([]client.RangeValues, 0, len(ranges))
	for _, r := range ranges {
		values, ok := f.BatchValues[r]
		if !ok {
			values = [][]interface{}{{fmt.Sprintf("value-%s", r)}}
		}
		out = append(out, client.RangeValues{Range: r, Values: values})
	}
	return out, nil
}

func (f *FakeTransport) BatchWrite(ctx context.Context, spreadsheetID string, data []client.RangeValues) error {
	return f.step("batch_write")
}

func (f *FakeTransport) BatchClear(ctx context.Context, spreadsheetID string, ranges []string) error {
	return f.step("batch_clear")
}

func (f *FakeTransport) GetMetadata(ctx context.Context, spreadsheetID string) (*client.SpreadsheetMetadata, error) {
	if err := f.step("get_metadata"); err != nil {
		return nil, err
	}
	if f.Metadata != nil {
		return f.Metadata, nil
	}
	return &client.SpreadsheetMetadata{
		SpreadsheetID: spreadsheetID,
		Title:         "Test Spreadsheet",
		Sheets: []client.SheetInfo{
			{SheetID: 0, Title: "Sheet1", RowCount: 1000, ColumnCount: 26},
		},
	}, nil
}
