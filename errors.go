package cortex

import (
	"fmt"
	"net/http"
)

// ErrorKind is the closed taxonomy of stream failures, independent of the
// originating transport detail. Caller-initiated cancellation is
// deliberately absent: it is not an error.
type ErrorKind int

const (
	KindAuthExpired       ErrorKind = iota // HTTP 401
	KindAccessDenied                       // HTTP 403
	KindResourceNotFound                   // HTTP 404
	KindRateLimited                        // HTTP 429
	KindUpstreamFailure                    // HTTP 5xx
	KindTransportError                     // any other HTTP status
	KindApplicationError                   // server-emitted error event
	KindConnectionFailure                  // network loss, malformed response, empty body
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthExpired:
		return "auth_expired"
	case KindAccessDenied:
		return "access_denied"
	case KindResourceNotFound:
		return "resource_not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstreamFailure:
		return "upstream_failure"
	case KindTransportError:
		return "transport_error"
	case KindApplicationError:
		return "application_error"
	case KindConnectionFailure:
		return "connection_failure"
	default:
		return "unknown"
	}
}

// StreamError is a classified stream failure with a user-facing message.
type StreamError struct {
	Kind    ErrorKind
	Status  int // HTTP status for transport-derived kinds, 0 otherwise
	Message string
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("cortex: %s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("cortex: %s: %s", e.Kind, e.Message)
}

// Security reports whether the failure warrants security-styled
// presentation. The distinction is purely cosmetic; the caller decides
// what to do with it.
func (e *StreamError) Security() bool {
	switch e.Kind {
	case KindAuthExpired, KindAccessDenied, KindResourceNotFound:
		return true
	}
	return false
}

// ClassifyStatus maps a non-200 HTTP status to the taxonomy.
func ClassifyStatus(status int) *StreamError {
	switch {
	case status == http.StatusUnauthorized:
		return &StreamError{Kind: KindAuthExpired, Status: status,
			Message: "Security alert: session invalid or expired. Please sign in again."}
	case status == http.StatusForbidden:
		return &StreamError{Kind: KindAccessDenied, Status: status,
			Message: "Access denied: you don't have permission for this resource."}
	case status == http.StatusNotFound:
		return &StreamError{Kind: KindResourceNotFound, Status: status,
			Message: "Record not found: it may belong to a different workspace."}
	case status == http.StatusTooManyRequests:
		return &StreamError{Kind: KindRateLimited, Status: status,
			Message: "Rate limit reached. Please wait a moment."}
	case status >= 500:
		return &StreamError{Kind: KindUpstreamFailure, Status: status,
			Message: "Server error: the assistant service encountered an internal problem."}
	default:
		return &StreamError{Kind: KindTransportError, Status: status,
			Message: fmt.Sprintf("Connection error: HTTP %d", status)}
	}
}

// Classify maps an arbitrary failure to the taxonomy. StreamErrors pass
// through unchanged; everything else becomes a connection failure. The
// caller must rule out cancellation before classifying.
func Classify(err error) *StreamError {
	if se, ok := err.(*StreamError); ok {
		return se
	}
	msg := "Connection failed"
	if err != nil {
		msg = err.Error()
	}
	return &StreamError{Kind: KindConnectionFailure, Message: msg}
}
