package dropbox

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned when an API call is made without an access token.
	ErrMissingToken = errors.New("missing access token")
	// ErrMissingCode is returned when a code exchange is attempted without a code.
	ErrMissingCode = errors.New("missing authorization code")
)

// APIError is returned for any non-2xx response from Dropbox.
type APIError struct {
	Op         string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Body)
}
