// Package ratelimit shapes the timing of outgoing spreadsheet requests to
// respect an external quota window.
//
// Two strategies are provided. Adaptive keeps a sliding window of recent
// request timestamps and an extra per-call delay that grows on rate-limit
// failures and decays on successes. TokenBucket holds a capped, continuously
// refilling pool of permits. Both are pure timing layers: they delay or block
// calls, they never swallow or retry failures.
package ratelimit
