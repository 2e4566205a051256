// Package apierror defines the errors returned by the client packages and
// reduces transport failures to the most useful diagnostic payload.
//
// Local errors (bad credentials kind, invalid configuration, calls made
// before authorization, missing parameters) are returned as-is and can be
// matched with errors.Is. Remote failures are surfaced as *Error, whose
// Payload holds the result of Normalize.
package apierror

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAuthorizationKind is returned when a credential is built with a
	// kind other than Basic, App (API key) or IBSSO (token).
	ErrInvalidAuthorizationKind = errors.New("invalid authorization kind")

	// ErrInvalidVersion is returned for API versions outside the supported range.
	ErrInvalidVersion = errors.New("invalid api version")

	// ErrInvalidContentType is returned for response formats other than json or xml.
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrUnauthorized is returned when a service method is called before the
	// service has been authorized with a credential.
	ErrUnauthorized = errors.New("unauthorized: call Authorize with a credential first")

	// ErrMissingParameter matches every *MissingParameterError.
	ErrMissingParameter = errors.New("missing parameter")
)

// MissingParameterError reports a required argument that was absent or empty.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing parameter: %s", e.Name)
}

// Is makes errors.Is(err, ErrMissingParameter) true.
func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingParameter
}

// MissingParameter returns a *MissingParameterError for the named argument.
func MissingParameter(name string) error {
	return &MissingParameterError{Name: name}
}
