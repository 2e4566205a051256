package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// ResponseError is a failure that carries a server response, i.e. any non-2xx
// status.
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Header     http.Header

	// Raw is the unmodified response body.
	Raw []byte

	// Body is the decoded response body, or nil when the body was empty or
	// could not be decoded in the negotiated format.
	Body any
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// RequestError is a failure where the request was sent (or attempted) but no
// response was received.
type RequestError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: no response: %v", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Normalize reduces a failure to the most useful payload available, using the
// first rule that matches:
//
//  1. a response with a structured body: the decoded body
//  2. a response without a usable body: the *ResponseError
//  3. a request that got no response: the *RequestError
//  4. anything else: err unchanged
//
// Normalize is pure and never panics. A nil error normalizes to nil.
func Normalize(err error) any {
	if err == nil {
		return nil
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		if respErr.Body != nil {
			return respErr.Body
		}
		return respErr
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}

	return err
}

// Error is what service methods return for remote failures. Payload is the
// normalized value; the original failure is available through errors.As and
// errors.Unwrap.
type Error struct {
	Payload any
	cause   error
}

func (e *Error) Error() string {
	var respErr *ResponseError
	if errors.As(e.cause, &respErr) && respErr.Body != nil {
		return fmt.Sprintf("%s: %v", respErr.Error(), respErr.Body)
	}
	return e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StatusCode returns the HTTP status of the failed call, or 0 if no response
// was received.
func (e *Error) StatusCode() int {
	var respErr *ResponseError
	if errors.As(e.cause, &respErr) {
		return respErr.StatusCode
	}
	return 0
}

// Surface normalizes err for return to a caller. Failures matched by rules 1-3
// of Normalize are wrapped in *Error; all other errors, including nil, are
// returned unchanged. Surfacing an *Error returns it as-is.
func Surface(err error) error {
	if err == nil {
		return nil
	}

	var already *Error
	if errors.As(err, &already) {
		return err
	}

	var (
		respErr *ResponseError
		reqErr  *RequestError
	)
	if !errors.As(err, &respErr) && !errors.As(err, &reqErr) {
		return err
	}

	return &Error{Payload: Normalize(err), cause: err}
}
