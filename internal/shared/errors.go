package shared

import "fmt"

// Sentinel errors wrapped by every layer with fmt.Errorf("%w: ...") so callers
// can branch on errors.Is without parsing messages.
var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration and credentials
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Session lifecycle
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionExpired   = fmt.Errorf("session expired")
	ErrNoSession        = fmt.Errorf("no stored session")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Remote API
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrBookNotFound       = fmt.Errorf("book not found")
	ErrListNotFound       = fmt.Errorf("reading list not found")

	// User input
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
