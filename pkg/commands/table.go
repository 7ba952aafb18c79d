package commands

import (
	"github.com/arthur-debert/archx/pkg/backends/pacman"
	"github.com/arthur-debert/archx/pkg/backends/symlink"
	"github.com/arthur-debert/archx/pkg/backends/systemctl"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/registry"
)

// BuildFunc validates an entry and constructs its command
type BuildFunc func(entry Entry, ctx Context) (Command, error)

// ProviderBuiltin is the provider name of the built-in handlers
const ProviderBuiltin = "builtin"

// Handler binds a (kind, backend) pair to a constructor. An empty Backend
// matches entries that do not name a backend.
type Handler struct {
	Kind     string
	Backend  string
	Provider string
	Build    BuildFunc
}

// Key returns the table key of the handler
func (h Handler) Key() string {
	return handlerKey(h.Kind, h.Backend)
}

func handlerKey(kind, backend string) string {
	return kind + "/" + backend
}

// Table maps (kind, backend) pairs to handlers. The first handler
// registered for a pair keeps it.
type Table struct {
	handlers *registry.Ordered[Handler]
	kinds    map[string]bool
}

// NewTable returns an empty table
func NewTable() *Table {
	return &Table{
		handlers: registry.New[Handler](),
		kinds:    make(map[string]bool),
	}
}

// NewBuiltinTable returns a table holding the built-in handlers
func NewBuiltinTable() *Table {
	t := NewTable()
	for _, h := range Builtins() {
		registry.MustRegister(t.handlers, h.Key(), h)
		t.kinds[h.Kind] = true
	}
	return t
}

// Builtins returns the built-in handlers. Each kind is registered both
// without a backend and under its default backend.
func Builtins() []Handler {
	builtin := func(kind, backend string, build BuildFunc) Handler {
		return Handler{Kind: kind, Backend: backend, Provider: ProviderBuiltin, Build: build}
	}
	return []Handler{
		builtin(KindPackage, "", buildPackage),
		builtin(KindPackage, pacman.Name, buildPackage),
		builtin(KindService, "", buildService),
		builtin(KindService, systemctl.Name, buildService),
		builtin(KindSymlink, "", buildSymlink),
		builtin(KindSymlink, symlink.Name, buildSymlink),
	}
}

// Register adds a handler. Claiming a pair that is already taken fails
// with ALREADY_EXISTS and leaves the existing handler in place.
func (t *Table) Register(h Handler) error {
	if h.Kind == "" {
		return errors.New(errors.ErrPluginInvalid, "handler has no kind").
			WithDetail("provider", h.Provider)
	}
	if h.Build == nil {
		return errors.Newf(errors.ErrPluginInvalid, "handler %s has no constructor", h.Key()).
			WithDetail("provider", h.Provider)
	}

	owner, won := t.handlers.Claim(h.Key(), h)
	if !won {
		return errors.Newf(errors.ErrAlreadyExists, "%s is already handled by %s", h.Key(), owner.Provider).
			WithDetail("owner", owner.Provider).
			WithDetail("claimant", h.Provider)
	}
	t.kinds[h.Kind] = true
	return nil
}

// Lookup finds the handler for kind and backend. An empty backend selects
// the kind's default handler.
func (t *Table) Lookup(kind, backend string) (Handler, error) {
	if h, ok := t.handlers.Lookup(handlerKey(kind, backend)); ok {
		return h, nil
	}
	if !t.kinds[kind] {
		return Handler{}, errors.Newf(errors.ErrConfigValid, "unknown command kind %q", kind).
			WithDetail("kind", kind)
	}
	if backend == "" {
		return Handler{}, errors.Newf(errors.ErrConfigValid, "%s command requires a backend", kind).
			WithDetail("kind", kind)
	}
	return Handler{}, errors.Wrapf(
		unsupportedBackend(kind, backend, t.backends(kind)...),
		errors.ErrConfigValid, "unsupported backend %q for %s command", backend, kind).
		WithDetail("kind", kind).
		WithDetail("backend", backend)
}

// Handlers returns every handler in registration order
func (t *Table) Handlers() []Handler {
	return t.handlers.Values()
}

func (t *Table) backends(kind string) []string {
	var out []string
	for _, h := range t.Handlers() {
		if h.Kind == kind && h.Backend != "" {
			out = append(out, h.Backend)
		}
	}
	return out
}
