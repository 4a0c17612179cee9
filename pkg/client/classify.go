package client

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"

	"google.golang.org/api/googleapi"
)

// retryableStatus is the set of HTTP status codes worth retrying.
var retryableStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Transport-level failure codes. These never carry an HTTP status.
const (
	codeTimeout           = "timeout"
	codeConnectionReset   = "connection_reset"
	codeConnectionRefused = "connection_refused"
	codeDNSNotFound       = "dns_not_found"
)

// Classify maps a raw failure into a ClassifiedError. The retryable flag is a
// pure function of the extracted code, never of attempt count. An error that
// is already classified is returned unchanged.
func Classify(err error) *ClassifiedError {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}

	if status, ok := statusCode(err); ok {
		return &ClassifiedError{
			StatusCode: status,
			Code:       strconv.Itoa(status),
			Category:   categoryForStatus(status),
			Retryable:  retryableStatus[status],
			Message:    err.Error(),
			Err:        err,
		}
	}

	if code, ok := transportCode(err); ok {
		return &ClassifiedError{
			Code:      code,
			Category:  CategoryTransient,
			Retryable: true,
			Message:   err.Error(),
			Err:       err,
		}
	}

	return &ClassifiedError{
		Code:      "unknown",
		Category:  CategoryUnknown,
		Retryable: false,
		Message:   err.Error(),
		Err:       err,
	}
}

// statusCoder covers failures that expose a status without being a
// *googleapi.Error, e.g. errors surfaced through a wrapping layer that only
// kept the response status.
type statusCoder interface {
	HTTPStatusCode() int
}

// statusCode extracts an HTTP status from a Google API error, whether the
// failure carries it directly or nested under a response-status field.
func statusCode(err error) (int, bool) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code, true
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode(), true
	}
	return 0, false
}

// transportCode identifies low-level connection failures.
func transportCode(err error) (string, bool) {
	if errors.Is(err, context.DeadlineExceeded) {
		return codeTimeout, true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return codeDNSNotFound, true
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return codeConnectionReset, true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return codeConnectionRefused, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return codeTimeout, true
	}
	return "", false
}

// categoryForStatus is a priority table: 429 and the specific client codes
// first, then transient for the remaining retryable set.
func categoryForStatus(status int) Category {
	switch status {
	case 429:
		return CategoryRateLimit
	case 403:
		return CategoryPermission
	case 404:
		return CategoryNotFound
	}
	if retryableStatus[status] {
		return CategoryTransient
	}
	return CategoryUnknown
}
