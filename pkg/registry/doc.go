// Package registry provides a generic registry keyed by name.
//
// The first registrant of a name owns it: later registrations of the same
// name fail with ErrAlreadyExists and leave the original in place. Names are
// listed in registration order, which makes precedence between built-in and
// plugin handlers deterministic.
package registry
