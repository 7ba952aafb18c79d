// Package systemctl enables systemd units.
package systemctl

import "github.com/arthur-debert/archx/pkg/runner"

// Name is the backend selector for this backend
const Name = "systemctl"

// Backend enables units with systemctl
type Backend struct {
	runner *runner.Runner
}

// New creates a systemctl backend
func New(r *runner.Runner) *Backend {
	return &Backend{runner: r}
}

// IsEnabled reports whether the unit is enabled
func (b *Backend) IsEnabled(name string) (bool, error) {
	return b.runner.Check("systemctl", "is-enabled", "--quiet", name)
}

// Enable enables the unit, starting it as well when now is set
func (b *Backend) Enable(name string, now bool) error {
	args := []string{"enable"}
	if now {
		args = append(args, "--now")
	}
	return b.runner.RunPrivileged("systemctl", append(args, name)...)
}
