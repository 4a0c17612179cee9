// Package batch fetches large sets of ranges by splitting them into chunked
// BatchRead calls executed by a bounded worker pool, merging the results in
// the caller's order. Useful when a read spans more ranges than a single
// batch call should carry.
package batch
