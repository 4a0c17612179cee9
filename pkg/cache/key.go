package cache

// Key identifies the cached response for one spreadsheet range.
type Key struct {
	SpreadsheetID string
	Range         string
}

// String renders the key as "spreadsheetID:range".
func (k Key) String() string {
	return k.SpreadsheetID + ":" + k.Range
}

// MetadataKey returns the cache key for a spreadsheet's metadata.
func MetadataKey(spreadsheetID string) string {
	return spreadsheetID + ":metadata"
}

// RangePattern matches the range's own entry and every entry whose key is
// prefixed by it, covering cached sub-reads of an overlapping region.
func RangePattern(spreadsheetID, rng string) string {
	return Key{SpreadsheetID: spreadsheetID, Range: rng}.String() + "*"
}

// NamespacePattern matches every entry belonging to a spreadsheet.
func NamespacePattern(spreadsheetID string) string {
	return spreadsheetID + ":*"
}
