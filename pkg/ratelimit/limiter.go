package ratelimit

import "context"

// Limiter gates outgoing requests. Implementations must be safe for
// concurrent use.
type Limiter interface {
	// Acquire blocks until the limiter admits one request or ctx is done.
	Acquire(ctx context.Context) error

	// Record reports the outcome of an admitted request so adaptive
	// strategies can adjust. Implementations without feedback ignore it.
	Record(err error)
}
