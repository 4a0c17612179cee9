// Package cache provides a bounded in-memory TTL store for spreadsheet
// responses and a decorator that short-circuits reads and invalidates on
// writes.
//
// Entries are keyed by "spreadsheetID:range" and evicted oldest-inserted
// first when the store reaches capacity. Eviction deliberately ignores access
// recency; a hot key inserted early can be evicted. Expiry is lazy: a stale
// entry is removed when a lookup touches it, there is no background sweep.
//
// Write and clear operations invalidate the written range's entries plus any
// entry whose key extends that range. Append invalidates the spreadsheet's
// entire namespace because the appended location is not knowable in advance.
package cache
