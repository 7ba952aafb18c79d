// Package plugins discovers the bundled plugins and merges their handlers
// into the command table.
//
// Precedence is fixed: built-in handlers are registered before any plugin
// is loaded, and plugins are loaded in discovery order. The first handler
// registered for a (kind, backend) pair keeps it; later claims are logged
// and dropped.
package plugins

import (
	"github.com/arthur-debert/archx/pkg/commands"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/plugins/api"
	"github.com/arthur-debert/archx/pkg/plugins/echo"
	"github.com/arthur-debert/archx/pkg/plugins/yay"
)

// Discovered returns the bundled plugins in discovery order
func Discovered() []api.Plugin {
	return []api.Plugin{
		echo.New(),
		yay.New(),
	}
}

// IgnoredClaim is a claim that lost to an earlier registrant
type IgnoredClaim struct {
	Plugin string
	Claim  api.Claim
	Owner  string
}

// Summary records what Load did with each plugin
type Summary struct {
	Loaded      []string
	Disabled    []string
	Unavailable map[string]string
	Ignored     []IgnoredClaim
}

// Load queries every plugin for availability and registers the claims of
// the available ones in table. Plugins named in disabled are skipped.
// Decisions are logged through ctx.Logger. A malformed plugin is a fatal
// error.
func Load(table *commands.Table, discovered []api.Plugin, ctx commands.Context, disabled []string) (Summary, error) {
	logger := ctx.Logger.With().Str("component", "plugins").Logger()
	summary := Summary{Unavailable: make(map[string]string)}

	off := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		off[name] = true
	}
	seen := make(map[string]bool, len(discovered))

	for _, p := range discovered {
		name := p.Name()
		if name == "" {
			return summary, errors.New(errors.ErrPluginInvalid, "plugin has no name")
		}
		if seen[name] {
			logger.Warn().Str("plugin", name).Msg("Duplicate plugin name, ignoring later plugin")
			continue
		}
		seen[name] = true

		if off[name] {
			logger.Debug().Str("plugin", name).Msg("Plugin disabled by settings")
			summary.Disabled = append(summary.Disabled, name)
			continue
		}

		if ok, reason := p.IsAvailable(ctx); !ok {
			logger.Info().Str("plugin", name).Str("reason", reason).Msg("Plugin unavailable, skipping")
			summary.Unavailable[name] = reason
			continue
		}

		for _, claim := range p.Handlers() {
			err := table.Register(commands.Handler{
				Kind:     claim.Kind,
				Backend:  claim.Backend,
				Provider: name,
				Build:    p.FromEntry,
			})
			if errors.IsErrorCode(err, errors.ErrAlreadyExists) {
				owner, _ := errors.GetErrorDetails(err)["owner"].(string)
				logger.Warn().
					Str("plugin", name).
					Str("kind", claim.Kind).
					Str("backend", claim.Backend).
					Str("owner", owner).
					Msg("Handler already registered, ignoring plugin claim")
				summary.Ignored = append(summary.Ignored, IgnoredClaim{Plugin: name, Claim: claim, Owner: owner})
				continue
			}
			if err != nil {
				return summary, errors.Wrapf(err, errors.ErrPluginInvalid, "plugin %s has an invalid handler", name).
					WithDetail("plugin", name)
			}
		}

		logger.Debug().Str("plugin", name).Int("claims", len(p.Handlers())).Msg("Plugin loaded")
		summary.Loaded = append(summary.Loaded, name)
	}

	return summary, nil
}
