// Package yay adds a "yay" backend to the package kind, installing from
// the AUR. The plugin is only loaded when yay is on PATH.
package yay

import (
	"fmt"

	"github.com/arthur-debert/archx/pkg/commands"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/plugins/api"
	"github.com/arthur-debert/archx/pkg/runner"
)

const (
	// PluginName is the plugin's name
	PluginName = "yay"
	// Backend is the backend selector the plugin claims
	Backend = "yay"
	binary  = "yay"
)

// Plugin provides the yay package backend
type Plugin struct{}

// New returns the yay plugin
func New() *Plugin { return &Plugin{} }

// Name implements api.Plugin
func (p *Plugin) Name() string { return PluginName }

// Handlers implements api.Plugin
func (p *Plugin) Handlers() []api.Claim {
	return []api.Claim{{Kind: commands.KindPackage, Backend: Backend}}
}

// IsAvailable implements api.Plugin
func (p *Plugin) IsAvailable(ctx commands.Context) (bool, string) {
	if ctx.Runner == nil || !ctx.Runner.Available(binary) {
		return false, "yay not found on PATH"
	}
	return true, ""
}

// FromEntry implements api.Plugin
func (p *Plugin) FromEntry(entry commands.Entry, ctx commands.Context) (commands.Command, error) {
	name, err := entry.RequireString(commands.KindPackage, "name", "package")
	if err != nil {
		return nil, err
	}
	return &Command{Name: name}, nil
}

// Client runs yay. yay elevates on its own, so nothing goes through sudo.
type Client struct {
	runner *runner.Runner
}

// NewClient creates a yay client
func NewClient(r *runner.Runner) *Client {
	return &Client{runner: r}
}

// IsInstalled reports whether the package is installed
func (c *Client) IsInstalled(name string) (bool, error) {
	return c.runner.Check(binary, "-Q", name)
}

// Install installs the package from the repos or the AUR
func (c *Client) Install(name string) error {
	return c.runner.Run(binary, "-S", "--needed", "--noconfirm", name)
}

// Command ensures an AUR package is installed
type Command struct {
	Name string
}

// Kind implements commands.Command
func (c *Command) Kind() string { return commands.KindPackage }

// Apply implements commands.Command
func (c *Command) Apply(ctx commands.Context) (string, error) {
	if ctx.Runner == nil {
		return "", errors.New(errors.ErrInternal, "yay command needs a runner")
	}
	client := NewClient(ctx.Runner)

	installed, err := client.IsInstalled(c.Name)
	if err != nil {
		return "", err
	}
	if installed {
		return fmt.Sprintf("%s package is already installed.", commands.Capitalize(c.Name)), nil
	}
	if err := client.Install(c.Name); err != nil {
		return "", err
	}
	return fmt.Sprintf("Installed %s package.", commands.Capitalize(c.Name)), nil
}
