package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ariadng/sheets/pkg/client"
)

// Config holds fetcher configuration.
type Config struct {
	// ChunkSize is the maximum number of ranges per BatchRead call.
	ChunkSize int

	// MaxConcurrency is the maximum number of in-flight batch calls.
	MaxConcurrency int
}

// DefaultConfig returns safe defaults for the Sheets API.
func DefaultConfig() Config {
	return Config{
		ChunkSize:      50,
		MaxConcurrency: 4,
	}
}

// Fetcher splits range lists into chunks and fetches them concurrently
// through any API implementation, typically the fully decorated client.
type Fetcher struct {
	api client.API
	cfg Config
}

// NewFetcher creates a fetcher over api.
func NewFetcher(api client.API, cfg Config) *Fetcher {
	def := DefaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = def.MaxConcurrency
	}
	return &Fetcher{api: api, cfg: cfg}
}

// FetchRanges reads all ranges, in chunks, preserving the caller's order in
// the result. The first failing chunk aborts the whole fetch.
func (f *Fetcher) FetchRanges(ctx context.Context, spreadsheetID string, ranges []string) ([]client.RangeValues, error) {
	if len(ranges) == 0 {
		return nil, nil
	}

	start := time.Now()

	// Single chunk short-circuits the pool.
	if len(ranges) <= f.cfg.ChunkSize {
		return f.api.BatchRead(ctx, spreadsheetID, ranges)
	}

	type chunk struct {
		offset int
		ranges []string
	}

	var chunks []chunk
	for off := 0; off < len(ranges); off += f.cfg.ChunkSize {
		end := off + f.cfg.ChunkSize
		if end > len(ranges) {
			end = len(ranges)
		}
		chunks = append(chunks, chunk{offset: off, ranges: ranges[off:end]})
	}

	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Int("ranges", len(ranges)).
		Int("chunks", len(chunks)).
		Msg("Starting chunked batch fetch")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]client.RangeValues, len(ranges))
	work := make(chan chunk)
	errOnce := sync.Once{}
	var firstErr error

	var wg sync.WaitGroup
	for w := 0; w < f.cfg.MaxConcurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ch := range work {
				values, err := f.api.BatchRead(ctx, spreadsheetID, ch.ranges)
				if err != nil {
					errOnce.Do(func() {
						firstErr = fmt.Errorf("batch chunk at offset %d: %w", ch.offset, err)
						cancel()
					})
					return
				}
				copy(results[ch.offset:], values)
			}
		}()
	}

	for _, ch := range chunks {
		select {
		case work <- ch:
		case <-ctx.Done():
		}
	}
	close(work)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Int("ranges", len(ranges)).
		Dur("duration", time.Since(start)).
		Msg("Chunked batch fetch complete")

	return results, nil
}
