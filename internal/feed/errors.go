package feed

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError reports a failed feed request: a network error, a timeout
// or a non-success HTTP status.
type TransportError struct {
	URL        string // redacted
	StatusCode int    // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feed transport: %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("feed transport: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a feed document that could not be decoded into
// records, including records that lack a required field.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "feed decode: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsDecode reports whether err is (or wraps) a DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
