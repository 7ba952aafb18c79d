package commands

import (
	"fmt"

	"github.com/arthur-debert/archx/pkg/backends/pacman"
)

// KindPackage installs a system package
const KindPackage = "package"

// PackageCommand ensures a package is installed
type PackageCommand struct {
	Name    string
	Backend string
}

func buildPackage(entry Entry, _ Context) (Command, error) {
	name, err := entry.RequireString(KindPackage, "name", "package")
	if err != nil {
		return nil, err
	}
	backend, err := backendOrDefault(entry, pacman.Name)
	if err != nil {
		return nil, err
	}
	return &PackageCommand{Name: name, Backend: backend}, nil
}

// Kind implements Command
func (c *PackageCommand) Kind() string { return KindPackage }

// Apply implements Command
func (c *PackageCommand) Apply(ctx Context) (string, error) {
	if c.Backend != pacman.Name {
		return "", unsupportedBackend(KindPackage, c.Backend, pacman.Name)
	}
	backend := ctx.Backends.Package
	if backend == nil {
		return "", missingBackend(KindPackage)
	}

	installed, err := backend.IsInstalled(c.Name)
	if err != nil {
		return "", err
	}
	if installed {
		return fmt.Sprintf("%s package is already installed.", Capitalize(c.Name)), nil
	}

	if err := backend.Install(c.Name); err != nil {
		return "", err
	}
	return fmt.Sprintf("Installed %s package.", Capitalize(c.Name)), nil
}
