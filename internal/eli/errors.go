package eli

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLibraryNotFound       = errors.New("library not found")
	ErrElementNotFound       = errors.New("element not found")
	ErrSignatureMismatch     = errors.New("no constructor matches the arguments")
	ErrDuplicateRegistration = errors.New("element already registered")
	ErrNoValidConstructor    = errors.New("no constructor matches a family signature")
	ErrInvalidElement        = errors.New("invalid element declaration")
)

// LookupError reports a failed Info lookup or construction.
type LookupError struct {
	Family  string
	Library string
	Element string
	Args    []string
	Err     error
}

func (e *LookupError) Error() string {
	switch {
	case errors.Is(e.Err, ErrLibraryNotFound):
		return fmt.Sprintf("can't find requested %s %s.%s: library %q is not loaded",
			e.Family, e.Library, e.Element, e.Library)
	case errors.Is(e.Err, ErrElementNotFound):
		return fmt.Sprintf("can't find requested %s %s.%s: library %q has no %s named %q",
			e.Family, e.Library, e.Element, e.Library, e.Family, e.Element)
	case errors.Is(e.Err, ErrSignatureMismatch):
		return fmt.Sprintf("for library %q, %s %q does not provide a constructor for (%s)",
			e.Library, e.Family, e.Element, strings.Join(e.Args, ", "))
	default:
		return fmt.Sprintf("%s %s.%s: %v", e.Family, e.Library, e.Element, e.Err)
	}
}

func (e *LookupError) Unwrap() error { return e.Err }

// RegistrationError reports a rejected registration.
type RegistrationError struct {
	Family  string
	Library string
	Element string
	Err     error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registering %s %s.%s: %v", e.Family, e.Library, e.Element, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
