package commands

import (
	"github.com/arthur-debert/archx/pkg/decisions"
	"github.com/arthur-debert/archx/pkg/runner"
	"github.com/arthur-debert/archx/pkg/settings"
	"github.com/rs/zerolog"
)

// PackageBackend installs packages
type PackageBackend interface {
	IsInstalled(name string) (bool, error)
	Install(name string) error
}

// ServiceBackend enables services
type ServiceBackend interface {
	IsEnabled(name string) (bool, error)
	Enable(name string, now bool) error
}

// SymlinkBackend creates links, settling conflicts on its own
type SymlinkBackend interface {
	EnsureSymlink(source, target string) (string, error)
}

// Backends holds the backends constructed for a run
type Backends struct {
	Package PackageBackend
	Service ServiceBackend
	Symlink SymlinkBackend
}

// Context is everything a command may use while it is built and applied.
// It is created once per run and passed by value; nothing in it is
// replaced during the run.
type Context struct {
	RepoRoot  string
	Logger    zerolog.Logger
	Runner    *runner.Runner
	Decisions *decisions.Store
	Options   settings.Options
	Backends  Backends
}
