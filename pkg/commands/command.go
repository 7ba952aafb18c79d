package commands

import (
	"unicode"
	"unicode/utf8"

	"github.com/arthur-debert/archx/pkg/errors"
)

// Command is a validated unit of desired state
type Command interface {
	// Kind returns the kind the command was built from
	Kind() string

	// Apply brings the machine to the command's desired state and
	// describes what happened
	Apply(ctx Context) (string, error)
}

func unsupportedBackend(kind, backend string, supported ...string) error {
	return errors.Newf(errors.ErrUnsupportedBackend,
		"%s command does not support backend %q", kind, backend).
		WithDetail("kind", kind).
		WithDetail("backend", backend).
		WithDetail("supported", supported)
}

func missingBackend(kind string) error {
	return errors.Newf(errors.ErrInternal, "no %s backend configured for this run", kind).
		WithDetail("kind", kind)
}

// Capitalize uppercases the first character of s and leaves the rest
// unchanged.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
