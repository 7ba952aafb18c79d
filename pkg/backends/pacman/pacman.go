// Package pacman manages Arch Linux packages through pacman.
package pacman

import "github.com/arthur-debert/archx/pkg/runner"

// Name is the backend selector for this backend
const Name = "pacman"

// Backend installs packages with pacman
type Backend struct {
	runner *runner.Runner
}

// New creates a pacman backend
func New(r *runner.Runner) *Backend {
	return &Backend{runner: r}
}

// IsInstalled reports whether pacman knows the package as installed
func (b *Backend) IsInstalled(name string) (bool, error) {
	return b.runner.Check("pacman", "-Q", name)
}

// Install installs the package, skipping it if already up to date
func (b *Backend) Install(name string) error {
	return b.runner.RunPrivileged("pacman", "-S", "--needed", "--noconfirm", name)
}
