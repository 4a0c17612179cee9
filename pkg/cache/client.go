package cache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ariadng/sheets/pkg/client"
	"github.com/ariadng/sheets/pkg/logging"
)

// Client decorates an API with read caching and write invalidation.
type Client struct {
	inner  client.API
	store  *Store
	logger zerolog.Logger
}

var _ client.API = (*Client)(nil)

// New wraps inner with a fresh store built from cfg.
func New(inner client.API, cfg Config) *Client {
	return &Client{
		inner:  inner,
		store:  NewStore(cfg),
		logger: logging.NewLogger("cache"),
	}
}

// Store exposes the underlying store for manual control
// (Get/Set/Invalidate/Size/Clear).
func (c *Client) Store() *Store {
	return c.store
}

// Read checks the cache first and populates it with the full inward result
// on a miss.
func (c *Client) Read(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	key := Key{SpreadsheetID: spreadsheetID, Range: readRange}.String()

	if cached, ok := c.store.Get(key); ok {
		c.logger.Debug().Str("key", key).Msg("Cache hit")
		return cached.([][]interface{}), nil
	}

	values, err := c.inner.Read(ctx, spreadsheetID, readRange)
	if err != nil {
		return nil, err
	}

	c.store.Set(key, values)
	return values, nil
}

// BatchRead serves already-cached ranges from the store and issues a single
// inward batch call for the rest. Results keep the caller's range order and
// every freshly fetched range is cached individually so later single-range
// reads hit too.
func (c *Client) BatchRead(ctx context.Context, spreadsheetID string, ranges []string) ([]client.RangeValues, error) {
	results := make([]client.RangeValues, len(ranges))
	var missing []string
	missingIdx := make(map[string][]int)

	for i, rng := range ranges {
		key := Key{SpreadsheetID: spreadsheetID, Range: rng}.String()
		if cached, ok := c.store.Get(key); ok {
			results[i] = client.RangeValues{Range: rng, Values: cached.([][]interface{})}
			continue
		}
		if len(missingIdx[rng]) == 0 {
			missing = append(missing, rng)
		}
		missingIdx[rng] = append(missingIdx[rng], i)
	}

	if len(missing) == 0 {
		c.logger.Debug().Str("spreadsheet_id", spreadsheetID).Int("ranges", len(ranges)).Msg("Batch read fully cached")
		return results, nil
	}

	fetched, err := c.inner.BatchRead(ctx, spreadsheetID, missing)
	if err != nil {
		return nil, err
	}

	for _, rv := range fetched {
		key := Key{SpreadsheetID: spreadsheetID, Range: rv.Range}.String()
		c.store.Set(key, rv.Values)
		for _, i := range missingIdx[rv.Range] {
			results[i] = rv
		}
	}

	return results, nil
}

// Write invalidates the written range's entries after a successful call.
func (c *Client) Write(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	if err := c.inner.Write(ctx, spreadsheetID, writeRange, values); err != nil {
		return err
	}
	c.invalidateRange(spreadsheetID, writeRange)
	return nil
}

// Clear invalidates the cleared range's entries after a successful call.
func (c *Client) Clear(ctx context.Context, spreadsheetID, clearRange string) error {
	if err := c.inner.Clear(ctx, spreadsheetID, clearRange); err != nil {
		return err
	}
	c.invalidateRange(spreadsheetID, clearRange)
	return nil
}

// Append invalidates the spreadsheet's whole namespace: the appended
// location is not knowable in advance.
func (c *Client) Append(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}) error {
	if err := c.inner.Append(ctx, spreadsheetID, appendRange, values); err != nil {
		return err
	}
	n := c.store.Invalidate(NamespacePattern(spreadsheetID))
	c.logger.Debug().Str("spreadsheet_id", spreadsheetID).Int("invalidated", n).Msg("Append invalidated namespace")
	return nil
}

func (c *Client) BatchWrite(ctx context.Context, spreadsheetID string, data []client.RangeValues) error {
	if err := c.inner.BatchWrite(ctx, spreadsheetID, data); err != nil {
		return err
	}
	for _, rv := range data {
		c.invalidateRange(spreadsheetID, rv.Range)
	}
	return nil
}

func (c *Client) BatchClear(ctx context.Context, spreadsheetID string, ranges []string) error {
	if err := c.inner.BatchClear(ctx, spreadsheetID, ranges); err != nil {
		return err
	}
	for _, rng := range ranges {
		c.invalidateRange(spreadsheetID, rng)
	}
	return nil
}

// GetMetadata is read-shaped and cached under the spreadsheet's metadata key.
func (c *Client) GetMetadata(ctx context.Context, spreadsheetID string) (*client.SpreadsheetMetadata, error) {
	key := MetadataKey(spreadsheetID)

	if cached, ok := c.store.Get(key); ok {
		return cached.(*client.SpreadsheetMetadata), nil
	}

	meta, err := c.inner.GetMetadata(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}

	c.store.Set(key, meta)
	return meta, nil
}

func (c *Client) invalidateRange(spreadsheetID, rng string) {
	n := c.store.Invalidate(RangePattern(spreadsheetID, rng))
	if n > 0 {
		c.logger.Debug().
			Str("spreadsheet_id", spreadsheetID).
			Str("range", rng).
			Int("invalidated", n).
			Msg("Invalidated cached entries")
	}
}
