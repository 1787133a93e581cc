package resource

import (
	"errors"
	"fmt"
)

// ErrUnknownResource is returned when a name or wildcard pattern resolves to
// zero registered resources. Mutating calls that hit it abort atomically,
// leaving the session's enabled set untouched.
var ErrUnknownResource = errors.New("unknown resource")

// unknownResource wraps ErrUnknownResource with the offending pattern so the
// caller can report it.
func unknownResource(pattern string) error {
	return fmt.Errorf("%w: %q", ErrUnknownResource, pattern)
}
