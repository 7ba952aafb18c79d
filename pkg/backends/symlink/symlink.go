// Package symlink creates symbolic links and resolves conflicts with
// whatever already sits at the link path.
//
// A target is in one of three states:
//   - absent: parent directories are created and the link is made
//   - already linked to the requested source: nothing happens
//   - anything else (a file, a directory, a link elsewhere): a conflict,
//     settled by the conflict mode, a recorded decision or a prompt
package symlink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/archx/pkg/decisions"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/filesystem"
	"github.com/arthur-debert/archx/pkg/logging"
	"github.com/arthur-debert/archx/pkg/paths"
	"github.com/arthur-debert/archx/pkg/prompt"
	"github.com/arthur-debert/archx/pkg/runner"
	"github.com/rs/zerolog"
)

// Name is the backend selector for this backend
const Name = "ln"

// Mode selects how conflicts are settled
type Mode string

const (
	// ModeAsk consults recorded decisions, then the user
	ModeAsk Mode = "ask"
	// ModeReplace always replaces the existing entry
	ModeReplace Mode = "replace"
	// ModeSkip always leaves the existing entry alone
	ModeSkip Mode = "skip"
)

// ParseMode validates a conflict mode string
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAsk, ModeReplace, ModeSkip:
		return m, nil
	}
	return "", errors.Newf(errors.ErrConfigValid,
		"invalid symlink conflict mode %q (expected ask, replace or skip)", s).
		WithDetail("value", s)
}

// Options configures a Backend
type Options struct {
	Runner    *runner.Runner
	FS        filesystem.FS
	Decisions *decisions.Store
	// Prompter may be nil, in which case ask behaves as non-interactive
	Prompter       prompt.Prompter
	Mode           Mode
	NonInteractive bool
	Logger         *zerolog.Logger
}

// Backend links files, resolving conflicts according to its options
type Backend struct {
	runner         *runner.Runner
	fs             filesystem.FS
	decisions      *decisions.Store
	prompter       prompt.Prompter
	mode           Mode
	nonInteractive bool
	logger         zerolog.Logger
}

// New creates a symlink backend
func New(opts Options) *Backend {
	mode := opts.Mode
	if mode == "" {
		mode = ModeAsk
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	logger := logging.GetLogger("backends.symlink")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Backend{
		runner:         opts.Runner,
		fs:             fsys,
		decisions:      opts.Decisions,
		prompter:       opts.Prompter,
		mode:           mode,
		nonInteractive: opts.NonInteractive || opts.Prompter == nil,
		logger:         logger,
	}
}

// EnsureSymlink makes target a symbolic link to source and returns a
// message describing what happened. Both paths may start with ~.
func (b *Backend) EnsureSymlink(source, target string) (string, error) {
	source = filepath.Clean(paths.ExpandHome(source))
	abs, err := filepath.Abs(paths.ExpandHome(target))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve link path %s", target)
	}
	target = abs

	logger := b.logger.With().Str("source", source).Str("target", target).Logger()

	info, err := b.fs.Lstat(target)
	if os.IsNotExist(err) {
		if err := b.ensureParent(target); err != nil {
			return "", err
		}
		if err := b.link(source, target); err != nil {
			return "", err
		}
		return fmt.Sprintf("Linked %s -> %s.", target, source), nil
	}
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBackendExecution, "cannot inspect %s", target)
	}

	existing := describe(info)
	if filesystem.IsSymlink(info) {
		current, err := b.fs.Readlink(target)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrBackendExecution, "cannot read link %s", target)
		}
		if pointsTo(current, source, target) {
			logger.Debug().Msg("Link already in place")
			return fmt.Sprintf("%s already linked to %s.", target, source), nil
		}
		existing = fmt.Sprintf("link to %s", current)
	}

	logger.Info().Str("existing", existing).Str("mode", string(b.mode)).Msg("Link conflict")

	resolution, pending, err := b.resolve(prompt.Conflict{Target: target, Source: source, Existing: existing})
	if err != nil {
		return "", err
	}
	if pending {
		return fmt.Sprintf("Skipped %s: conflict needs a decision (dry run).", target), nil
	}

	if resolution == decisions.Skip {
		logger.Info().Msg("Leaving existing entry in place")
		return fmt.Sprintf("Skipped %s: existing %s left untouched.", target, existing), nil
	}

	remove := b.fs.Remove
	if info.IsDir() {
		remove = b.fs.RemoveAll
	}
	if err := b.runner.Mutate(fmt.Sprintf("remove existing %s at %s", existing, target), func() error {
		return remove(target)
	}); err != nil {
		return "", err
	}
	if err := b.link(source, target); err != nil {
		return "", err
	}
	return fmt.Sprintf("Replaced %s with link to %s.", target, source), nil
}

// resolve settles a conflict. pending is set when a decision would be
// needed but the run is a dry run, so nobody is asked.
func (b *Backend) resolve(c prompt.Conflict) (resolution decisions.Resolution, pending bool, err error) {
	switch b.mode {
	case ModeReplace:
		return decisions.Replace, false, nil
	case ModeSkip:
		return decisions.Skip, false, nil
	}

	if b.nonInteractive {
		b.logger.Debug().Str("target", c.Target).Msg("Non-interactive, skipping conflict")
		return decisions.Skip, false, nil
	}

	key := decisions.SymlinkKey(c.Target)
	if b.decisions != nil {
		if d, ok := b.decisions.Lookup(key); ok {
			b.logger.Debug().
				Str("target", c.Target).
				Str("resolution", string(d.Resolution)).
				Bool("always", d.Always).
				Msg("Using recorded decision")
			return d.Resolution, false, nil
		}
	}

	if b.runner.DryRun() {
		return "", true, nil
	}

	answer, err := b.prompter.ResolveConflict(c)
	if err != nil {
		return "", false, err
	}
	if b.decisions != nil {
		if err := b.decisions.Record(key, answer.Resolution, answer.Always); err != nil {
			return "", false, err
		}
	}
	return answer.Resolution, false, nil
}

func (b *Backend) ensureParent(target string) error {
	parent := filepath.Dir(target)
	if _, err := b.fs.Stat(parent); err == nil {
		return nil
	}
	return b.runner.Mutate("create directory "+parent, func() error {
		return b.fs.MkdirAll(parent, 0755)
	})
}

func (b *Backend) link(source, target string) error {
	return b.runner.Mutate(fmt.Sprintf("create symlink %s -> %s", target, source), func() error {
		return b.fs.Symlink(source, target)
	})
}

// pointsTo reports whether a link at target whose content is current
// resolves to source. Relative link contents are taken relative to the
// link's directory.
func pointsTo(current, source, target string) bool {
	if !filepath.IsAbs(current) {
		current = filepath.Join(filepath.Dir(target), current)
	}
	return filepath.Clean(current) == filepath.Clean(source)
}

func describe(info os.FileInfo) string {
	switch {
	case filesystem.IsSymlink(info):
		return "link"
	case info.IsDir():
		return "directory"
	default:
		return "file"
	}
}
