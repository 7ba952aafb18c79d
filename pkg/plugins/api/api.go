// Package api is the contract between archx and its plugins.
//
// A plugin claims (kind, backend) pairs. Once loaded, every config entry
// matching one of its claims is built by its FromEntry. A claim with an
// empty Backend matches entries that name no backend.
package api

import "github.com/arthur-debert/archx/pkg/commands"

// Claim is a (kind, backend) pair a plugin wants to handle
type Claim struct {
	Kind    string
	Backend string
}

// Plugin describes an extension providing command kinds or backends
type Plugin interface {
	// Name identifies the plugin in logs and in plugins.disabled
	Name() string

	// Handlers lists the pairs the plugin claims
	Handlers() []Claim

	// IsAvailable reports whether the plugin can run on this machine.
	// reason explains a negative answer.
	IsAvailable(ctx commands.Context) (ok bool, reason string)

	// FromEntry validates entry and builds the command
	FromEntry(entry commands.Entry, ctx commands.Context) (commands.Command, error)
}
