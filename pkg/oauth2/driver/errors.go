package driver

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrAccessDenied  = errors.New("access denied")
	ErrStateMismatch = errors.New("state mismatch")
	ErrMissingCode   = errors.New("missing authorization code")
	ErrNoResponse    = errors.New("no response to store the state on")
)

// ProviderError is returned when the provider redirected back with an error
// parameter instead of an authorization code.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("provider error '%s'", e.Code)
	}

	return fmt.Sprintf("provider error '%s': %s", e.Code, e.Description)
}

// StatusError is returned by APIRequest when the remote answered with a
// non-2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from '%s': %s", e.StatusCode, e.URL, e.Body)
}
