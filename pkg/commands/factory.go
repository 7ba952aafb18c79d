package commands

import (
	"github.com/arthur-debert/archx/pkg/errors"
)

// Factory builds commands from entries through a handler table
type Factory struct {
	table *Table
	ctx   Context
}

// NewFactory creates a factory. ctx is handed to every constructor.
func NewFactory(table *Table, ctx Context) *Factory {
	return &Factory{table: table, ctx: ctx}
}

// Build validates entry and constructs its command. Every failure is a
// configuration error.
func (f *Factory) Build(entry Entry) (Command, error) {
	kind, err := entry.Kind()
	if err != nil {
		return nil, err
	}
	backend, _, err := entry.Backend()
	if err != nil {
		return nil, err
	}

	h, err := f.table.Lookup(kind, backend)
	if err != nil {
		return nil, err
	}

	cmd, err := h.Build(entry, f.ctx)
	if err != nil {
		if errors.IsConfigError(err) {
			return nil, err
		}
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "cannot build %s command", kind).
			WithDetail("kind", kind).
			WithDetail("provider", h.Provider)
	}
	if cmd == nil {
		return nil, errors.Newf(errors.ErrPluginInvalid, "%s built no %s command", h.Provider, kind).
			WithDetail("kind", kind)
	}
	return cmd, nil
}

func backendOrDefault(entry Entry, def string) (string, error) {
	backend, ok, err := entry.Backend()
	if err != nil {
		return "", err
	}
	if !ok || backend == "" {
		return def, nil
	}
	return backend, nil
}
