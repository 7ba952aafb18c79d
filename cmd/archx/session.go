package main

import (
	"io"
	"os"
	"os/exec"

	"github.com/arthur-debert/archx/pkg/backends/pacman"
	"github.com/arthur-debert/archx/pkg/backends/symlink"
	"github.com/arthur-debert/archx/pkg/backends/systemctl"
	"github.com/arthur-debert/archx/pkg/commands"
	"github.com/arthur-debert/archx/pkg/decisions"
	"github.com/arthur-debert/archx/pkg/filesystem"
	"github.com/arthur-debert/archx/pkg/logging"
	"github.com/arthur-debert/archx/pkg/plugins"
	"github.com/arthur-debert/archx/pkg/prompt"
	"github.com/arthur-debert/archx/pkg/report"
	"github.com/arthur-debert/archx/pkg/runner"
	"github.com/arthur-debert/archx/pkg/settings"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Process execution hooks, replaced in tests
var (
	execFunc     runner.ExecFunc     = runner.OSExec
	lookPathFunc runner.LookPathFunc = exec.LookPath
	stdinIsTTY                       = func() bool { return report.IsTerminal(os.Stdin) }
)

// session is everything one invocation needs to build and apply commands
type session struct {
	runID  string
	opts   settings.Options
	logger zerolog.Logger
	runner *runner.Runner
	ctx    commands.Context
	table  *commands.Table
	loaded plugins.Summary
}

// loadSettings resolves options, letting explicitly set flags win
func loadSettings(gf *globalFlags, flagValues map[string]interface{}) (settings.Options, error) {
	return settings.Load(settings.LoadOptions{
		File:     gf.settings,
		Flags:    flagValues,
		Terminal: stdinIsTTY(),
	})
}

// newSession builds the run context and the handler table, plugins
// included
func newSession(opts settings.Options, repoRoot string, in io.Reader, out io.Writer) (*session, error) {
	runID := uuid.NewString()
	logging.WithRunID(runID)
	logger := logging.GetLogger("archx")

	r := runner.New(runner.Options{
		DryRun:   opts.DryRun,
		Sudo:     opts.Sudo,
		Exec:     execFunc,
		LookPath: lookPathFunc,
	})

	fsys := filesystem.NewOS()
	store, err := decisions.Open(fsys, opts.DecisionsPath)
	if err != nil {
		return nil, err
	}

	var prompter prompt.Prompter
	if !opts.NonInteractive {
		prompter = prompt.NewHuhPrompter(in, out)
	}

	ctx := commands.Context{
		RepoRoot:  repoRoot,
		Logger:    logger,
		Runner:    r,
		Decisions: store,
		Options:   opts,
		Backends: commands.Backends{
			Package: pacman.New(r),
			Service: systemctl.New(r),
			Symlink: symlink.New(symlink.Options{
				Runner:         r,
				FS:             fsys,
				Decisions:      store,
				Prompter:       prompter,
				Mode:           opts.SymlinkConflict,
				NonInteractive: opts.NonInteractive,
			}),
		},
	}

	table := commands.NewBuiltinTable()
	loaded, err := plugins.Load(table, plugins.Discovered(), ctx, opts.DisabledPlugins)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("run_id", runID).
		Bool("dry_run", opts.DryRun).
		Bool("non_interactive", opts.NonInteractive).
		Str("symlink_conflict", string(opts.SymlinkConflict)).
		Str("decisions", opts.DecisionsPath).
		Strs("plugins", loaded.Loaded).
		Msg("Session ready")

	return &session{
		runID:  runID,
		opts:   opts,
		logger: logger,
		runner: r,
		ctx:    ctx,
		table:  table,
		loaded: loaded,
	}, nil
}

// changedFlags maps explicitly set flags to their setting keys
func changedFlags(cmd *cobra.Command, keys map[string]string) map[string]interface{} {
	out := make(map[string]interface{})
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		switch f.Value.Type() {
		case "bool":
			v, _ := cmd.Flags().GetBool(flag)
			out[key] = v
		default:
			out[key] = f.Value.String()
		}
	}
	return out
}
