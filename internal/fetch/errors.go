package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a failed fetch attempt. The kind decides both the
// retry policy and how the failure is reported in a verdict.
type ErrorKind int

const (
	// KindTimeout means the request exceeded the caller-supplied deadline.
	KindTimeout ErrorKind = iota
	// KindTransport covers DNS, connection and TLS level failures.
	KindTransport
	// KindHTTPStatus means the remote answered with a non-2xx status. This
	// is a definitive rejection, not a transient condition.
	KindHTTPStatus
	// KindParse means a response was received but the expected fields were
	// absent. Reachable but unverifiable.
	KindParse
	// KindMissingInput means the claim carried nothing to verify. No I/O
	// is performed for such claims.
	KindMissingInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http_status"
	case KindParse:
		return "parse"
	case KindMissingInput:
		return "missing_input"
	}
	return "unknown"
}

// Error is the failure type returned by every fetch operation.
type Error struct {
	Kind ErrorKind
	// Status is set for KindHTTPStatus only.
	Status int
	URL    string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	case KindMissingInput:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "nothing to verify"
	default:
		if e.Err != nil {
			return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
		}
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether retrying the same request may succeed. Only
// timeouts and transport failures are transient; a definitive HTTP rejection
// or an unparseable body will not improve on a second attempt.
func (e *Error) Retryable() bool {
	return e.Kind == KindTimeout || e.Kind == KindTransport
}

// Classify converts a transport-level error from net/http into a typed Error.
func Classify(url string, err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, URL: url, Err: err}
	}
	return &Error{Kind: KindTransport, URL: url, Err: err}
}
