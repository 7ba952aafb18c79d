// Package echo is a minimal plugin that logs a message. It is mostly
// useful for checking that a config file is picked up.
package echo

import (
	"github.com/arthur-debert/archx/pkg/commands"
	"github.com/arthur-debert/archx/pkg/plugins/api"
)

const (
	// PluginName is the plugin's name
	PluginName = "echo"
	// Kind is the command kind handled by the plugin
	Kind = "echo"
)

// Plugin provides the echo kind
type Plugin struct{}

// New returns the echo plugin
func New() *Plugin { return &Plugin{} }

// Name implements api.Plugin
func (p *Plugin) Name() string { return PluginName }

// Handlers implements api.Plugin
func (p *Plugin) Handlers() []api.Claim {
	return []api.Claim{{Kind: Kind}}
}

// IsAvailable implements api.Plugin
func (p *Plugin) IsAvailable(commands.Context) (bool, string) { return true, "" }

// FromEntry implements api.Plugin
func (p *Plugin) FromEntry(entry commands.Entry, _ commands.Context) (commands.Command, error) {
	msg, err := entry.RequireString(Kind, "message", "msg")
	if err != nil {
		return nil, err
	}
	return &Command{Message: msg}, nil
}

// Command logs its message
type Command struct {
	Message string
}

// Kind implements commands.Command
func (c *Command) Kind() string { return Kind }

// Apply implements commands.Command
func (c *Command) Apply(ctx commands.Context) (string, error) {
	ctx.Logger.Info().Str("kind", Kind).Msg(c.Message)
	return "Echoed: " + c.Message, nil
}
