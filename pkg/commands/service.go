package commands

import (
	"fmt"

	"github.com/arthur-debert/archx/pkg/backends/systemctl"
)

// KindService enables a systemd unit
const KindService = "service"

// ServiceCommand ensures a service is enabled
type ServiceCommand struct {
	Name      string
	EnableNow bool
	Backend   string
}

func buildService(entry Entry, _ Context) (Command, error) {
	name, err := entry.RequireString(KindService, "name")
	if err != nil {
		return nil, err
	}
	now, err := entry.Bool("enable_now", false)
	if err != nil {
		return nil, err
	}
	backend, err := backendOrDefault(entry, systemctl.Name)
	if err != nil {
		return nil, err
	}
	return &ServiceCommand{Name: name, EnableNow: now, Backend: backend}, nil
}

// Kind implements Command
func (c *ServiceCommand) Kind() string { return KindService }

// Apply implements Command
func (c *ServiceCommand) Apply(ctx Context) (string, error) {
	if c.Backend != systemctl.Name {
		return "", unsupportedBackend(KindService, c.Backend, systemctl.Name)
	}
	backend := ctx.Backends.Service
	if backend == nil {
		return "", missingBackend(KindService)
	}

	enabled, err := backend.IsEnabled(c.Name)
	if err != nil {
		return "", err
	}
	if enabled {
		return fmt.Sprintf("%s is already enabled.", c.Name), nil
	}

	if err := backend.Enable(c.Name, c.EnableNow); err != nil {
		return "", err
	}
	return fmt.Sprintf("Enabled %s.", c.Name), nil
}
