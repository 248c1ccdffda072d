package zendesk

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound indicates the user search matched nobody.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserNotUnique indicates the user search matched more than one user.
	ErrUserNotUnique = errors.New("user is not unique")
	// ErrInvalidCredentials indicates api_key is not a "login:secret" pair.
	ErrInvalidCredentials = errors.New("api_key must be a colon-delimited credential pair")
)

// RequestError reports a failed call to the ticketing API: transport failure,
// non-2xx status or a body that is not the expected JSON.
type RequestError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: GET %s: unexpected status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: GET %s: %v", e.Op, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// IdentityError reports that the configured user search term did not resolve to exactly one user.
type IdentityError struct {
	Query string
	Count int
}

func (e *IdentityError) Error() string {
	if e.Count > 1 {
		return fmt.Sprintf("%v: %q matched %d users", ErrUserNotUnique, e.Query, e.Count)
	}
	return fmt.Sprintf("%v: %q", ErrUserNotFound, e.Query)
}

// Is lets errors.Is match ErrUserNotFound for counts <= 0 and ErrUserNotUnique for counts > 1.
func (e *IdentityError) Is(target error) bool {
	switch target {
	case ErrUserNotFound:
		return e.Count <= 0
	case ErrUserNotUnique:
		return e.Count > 1
	}
	return false
}
