package cache_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/ariadng/sheets/internal/testutil"
	"github.com/ariadng/sheets/pkg/cache"
	"github.com/ariadng/sheets/pkg/client"
)

func testConfig() cache.Config {
	return cache.Config{TTL: time.Minute, MaxEntries: 100}
}

func TestClient_ReadCachesResult(t *testing.T) {
	fake := testutil.NewFakeTransport()
	fake.ReadValues = [][]interface{}{{"x"}}
	cached := cache.New(fake, testConfig())
	ctx := context.Background()

	first, err := cached.Read(ctx, "sheet", "A1:B2")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	second, err := cached.Read(ctx, "sheet", "A1:B2")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if fake.Calls["read"] != 1 {
		t.Errorf("expected 1 inward read, got %d", fake.Calls["read"])
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached read returned different values")
	}
}

func TestClient_ReadExpiresAfterTTL(t *testing.T) {
	fake := testutil.NewFakeTransport()
	fake.ReadValues = [][]interface{}{{"x"}}
	cached := cache.New(fake, cache.Config{TTL: 20 * time.Millisecond, MaxEntries: 100})
	ctx := context.Background()

	if _, err := cached.Read(ctx, "sheet", "A1"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := cached.Read(ctx, "sheet", "A1"); err != nil {
		t.Fatal(err)
	}

	if fake.Calls["read"] != 2 {
		t.Errorf("expected stale entry to cause a second inward read, got %d calls", fake.Calls["read"])
	}
}

func TestClient_WriteInvalidatesWrittenRange(t *testing.T) {
	fake := testutil.NewFakeTransport()
	fake.ReadValues = [][]interface{}{{"old"}}
	cached := cache.New(fake, testConfig())
	ctx := context.Background()

	if _, err := cached.Read(ctx, "sheet", "A1:B2"); err != nil {
		t.Fatal(err)
	}

	fake.ReadValues = [][]interface{}{{"new"}}
	if err := cached.Write(ctx, "sheet", "A1:B2", [][]interface{}{{"new"}}); err != nil {
		t.Fatal(err)
	}

	values, err := cached.Read(ctx, "sheet", "A1:B2")
	if err != nil {
		t.Fatal(err)
	}
	if values[0][0] != "new" {
		t.Error("read after write returned a pre-write cached value")
	}
	if fake.Calls["read"] != 2 {
		t.Errorf("expected 2 inward reads, got %d", fake.Calls["read"])
	}
}

func TestClient_WriteInvalidatesPrefixedSubReads(t *testing.T) {
	fake := testutil.NewFakeTransport()
	cached := cache.New(fake, testConfig())
	ctx := context.Background()

	// Populate overlapping sub-read entries manually.
	cached.Store().Set("sheet:A1:B2", [][]interface{}{{"a"}})
	cached.Store().Set("sheet:A1:B2:extra", [][]interface{}{{"b"}})
	cached.Store().Set("sheet:C1", [][]interface{}{{"c"}})

	if err := cached.Write(ctx, "sheet", "A1:B2", nil); err != nil {
		t.Fatal(err)
	}

	if _, ok := cached.Store().Get("sheet:A1:B2"); ok {
		t.Error("written range entry should be invalidated")
	}
	if _, ok := cached.Store().Get("sheet:A1:B2:extra"); ok {
		t.Error("prefixed entry should be invalidated")
	}
	if _, ok := cached.Store().Get("sheet:C1"); !ok {
		t.Error("unrelated entry should survive")
	}
}

func TestClient_ClearInvalidates(t *testing.T) {
	fake := testutil.NewFakeTransport()
	fake.ReadValues = [][]interface{}{{"x"}}
	cached := cache.New(fake, testConfig())
	ctx := context.Background()

	if _, err := cached.Read(ctx, "sheet", "A1"); err != nil {
		t.Fatal(err)
	}
	if err := cached.Clear(ctx, "sheet", "A1"); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.Read(ctx, "sheet", "A1"); err != nil {
		t.Fatal(err)
	}

	if fake.Calls["read"] != 2 {
		t.Errorf("expected clear to invalidate, got %d reads", fake.Calls["read"])
	}
}

func TestClient_AppendInvalidatesNamespace(t *testing.T) {
	fake := testutil.NewFakeTransport()
	fake.ReadValues = [][]interface{}{{"x"}}
	cached := cache.New(fake, testConfig())
	ctx := context.Background()

	if _, err := cached.Read(ctx, "sheet", "A1"); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.Read(ctx, "other", "A1"); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.GetMetadata(ctx, "sheet"); err != nil {
		t.Fatal(err)
	}

	if err := cached.Append(ctx, "sheet", "A1", [][]interface{}{{"row"}}); err != nil {
		t.Fatal(err)
	}

	if _, ok := cached.Store().Get("sheet:A1"); ok {
		t.Error("append should invalidate the whole spreadsheet namespace")
	}
	if _, ok := cached.Store().Get("sheet:metadata"); ok {
		t.Error("append should invalidate cached metadata")
	}
	if _, ok := cached.Store().Get("other:A1"); !ok {
		t.Error("append must not touch other spreadsheets")
	}
}

func TestClient_BatchReadSplitsCachedAndUncached(t *testing.T) {
	fake := testutil.NewFakeTransport()
	fake.BatchValues["A1"] = [][]interface{}{{"a"}}
	fake.BatchValues["B1"] = [][]interface{}{{"b"}}
	fake.BatchValues["C1"] = [][]interface{}{{"c"}}
	cached := cache.New(fake, testConfig())
	ctx := context.Background()

	// Prime B1 via a batch read.
	if _, err := cached.BatchRead(ctx, "sheet", []string{"B1"}); err != nil {
		t.Fatal(err)
	}
	fake.Reset()

	results, err := cached.BatchRead(ctx, "sheet", []string{"A1", "B1", "C1"})
	if err != nil {
		t.Fatal(err)
	}

	// Only the uncached subset goes inward.
	if !reflect.DeepEqual(fake.LastBatchRanges, []string{"A1", "C1"}) {
		t.Errorf("inward batch ranges = %v, want [A1 C1]", fake.LastBatchRanges)
	}
	if fake.Calls["batch_read"] != 1 {
		t.Errorf("expected a single inward batch call, got %d", fake.Calls["batch_read"])
	}

	// Results preserve the caller's ordering.
	wantOrder := []string{"A1", "B1", "C1"}
	for i, rv := range results {
		if rv.Range != wantOrder[i] {
			t.Errorf("result[%d].Range = %q, want %q", i, rv.Range, wantOrder[i])
		}
	}
	if results[0].Values[0][0] != "a" || results[1].Values[0][0] != "b" || results[2].Values[0][0] != "c" {
		t.Errorf("unexpected merged values: %v", results)
	}

	// Freshly fetched ranges are cached individually for later single reads.
	if _, ok := cached.Store().Get("sheet:A1"); !ok {
		t.Error("expected A1 to be cached individually after batch fetch")
	}
	if _, ok := cached.Store().Get("sheet:C1"); !ok {
		t.Error("expected C1 to be cached individually after batch fetch")
	}
}

func TestClient_BatchReadFullyCachedSkipsTransport(t *testing.T) {
	fake := testutil.NewFakeTransport()
	cached := cache.New(fake, testConfig())
	ctx := context.Background()

	if _, err := cached.BatchRead(ctx, "sheet", []string{"A1", "B1"}); err != nil {
		t.Fatal(err)
	}
	fake.Reset()

	if _, err := cached.BatchRead(ctx, "sheet", []string{"A1", "B1"}); err != nil {
		t.Fatal(err)
	}
	if fake.Calls["batch_read"] != 0 {
		t.Errorf("fully cached batch read should not go inward, got %d calls", fake.Calls["batch_read"])
	}
}

func TestClient_BatchWriteInvalidatesEachRange(t *testing.T) {
	fake := testutil.NewFakeTransport()
	cached := cache.New(fake, testConfig())
	ctx := context.Background()

	cached.Store().Set("sheet:A1", 1)
	cached.Store().Set("sheet:B1", 2)
	cached.Store().Set("sheet:C1", 3)

	data := []client.RangeValues{
		{Range: "A1", Values: [][]interface{}{{"x"}}},
		{Range: "B1", Values: [][]interface{}{{"y"}}},
	}
	if err := cached.BatchWrite(ctx, "sheet", data); err != nil {
		t.Fatal(err)
	}

	if _, ok := cached.Store().Get("sheet:A1"); ok {
		t.Error("A1 should be invalidated")
	}
	if _, ok := cached.Store().Get("sheet:B1"); ok {
		t.Error("B1 should be invalidated")
	}
	if _, ok := cached.Store().Get("sheet:C1"); !ok {
		t.Error("C1 should survive")
	}
}

func TestClient_GetMetadataCached(t *testing.T) {
	fake := testutil.NewFakeTransport()
	cached := cache.New(fake, testConfig())
	ctx := context.Background()

	if _, err := cached.GetMetadata(ctx, "sheet"); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.GetMetadata(ctx, "sheet"); err != nil {
		t.Fatal(err)
	}

	if fake.Calls["get_metadata"] != 1 {
		t.Errorf("expected 1 inward metadata call, got %d", fake.Calls["get_metadata"])
	}
}
