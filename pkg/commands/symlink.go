package commands

import (
	"github.com/arthur-debert/archx/pkg/backends/symlink"
	"github.com/arthur-debert/archx/pkg/paths"
)

// KindSymlink links a file from the repo into place
const KindSymlink = "symlink"

// SymlinkCommand ensures Target is a link to Source. Source is already
// anchored at the repo root when relative.
type SymlinkCommand struct {
	Source  string
	Target  string
	Backend string
}

func buildSymlink(entry Entry, ctx Context) (Command, error) {
	source, err := entry.RequireString(KindSymlink, "source", "real")
	if err != nil {
		return nil, err
	}
	target, err := entry.RequireString(KindSymlink, "target", "pointer")
	if err != nil {
		return nil, err
	}
	backend, err := backendOrDefault(entry, symlink.Name)
	if err != nil {
		return nil, err
	}
	return &SymlinkCommand{
		Source:  paths.ResolveSource(ctx.RepoRoot, source),
		Target:  target,
		Backend: backend,
	}, nil
}

// Kind implements Command
func (c *SymlinkCommand) Kind() string { return KindSymlink }

// Apply implements Command
func (c *SymlinkCommand) Apply(ctx Context) (string, error) {
	if c.Backend != symlink.Name {
		return "", unsupportedBackend(KindSymlink, c.Backend, symlink.Name)
	}
	if ctx.Backends.Symlink == nil {
		return "", missingBackend(KindSymlink)
	}
	return ctx.Backends.Symlink.EnsureSymlink(c.Source, c.Target)
}
