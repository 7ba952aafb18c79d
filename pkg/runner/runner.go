// Package runner is the single gateway for every mutating operation archx
// performs. Read-only checks always execute; mutations are logged and
// skipped when the runner is in dry-run mode.
package runner

import (
	"bytes"
	stderrors "errors"
	"os/exec"
	"strings"

	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/logging"
	"github.com/rs/zerolog"
)

// ExecFunc runs a process to completion. err is non-nil only when the
// process could not be started; a non-zero exit is reported via exitCode.
type ExecFunc func(name string, args []string) (output []byte, exitCode int, err error)

// LookPathFunc resolves an executable name, like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// Options contains configuration for the runner
type Options struct {
	DryRun bool
	// Sudo prefixes privileged commands with sudo
	Sudo     bool
	Exec     ExecFunc
	LookPath LookPathFunc
	// Logger defaults to the "runner" component logger
	Logger *zerolog.Logger
}

// Runner executes checks and mutations
type Runner struct {
	dryRun   bool
	sudo     bool
	exec     ExecFunc
	lookPath LookPathFunc
	logger   zerolog.Logger
	planned  []string
}

// New creates a new runner instance
func New(opts Options) *Runner {
	logger := logging.GetLogger("runner")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	execFn := opts.Exec
	if execFn == nil {
		execFn = OSExec
	}
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	return &Runner{
		dryRun:   opts.DryRun,
		sudo:     opts.Sudo,
		exec:     execFn,
		lookPath: lookPath,
		logger:   logger,
	}
}

// OSExec is the ExecFunc backed by os/exec
func OSExec(name string, args []string) ([]byte, int, error) {
	var out bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return out.Bytes(), exitErr.ExitCode(), nil
	}
	if err != nil {
		return out.Bytes(), -1, err
	}
	return out.Bytes(), 0, nil
}

// DryRun reports whether mutations are being skipped
func (r *Runner) DryRun() bool {
	return r.dryRun
}

// Planned returns the mutations skipped so far in dry-run mode, in order
func (r *Runner) Planned() []string {
	out := make([]string, len(r.planned))
	copy(out, r.planned)
	return out
}

// Available reports whether an executable is on PATH
func (r *Runner) Available(name string) bool {
	_, err := r.lookPath(name)
	return err == nil
}

// Check runs a read-only query. It executes even in dry-run mode so that
// reported state reflects the real system. Exit status 0 yields true, any
// other exit status yields false.
func (r *Runner) Check(name string, args ...string) (bool, error) {
	logging.LogCommand(r.logger, name, args)

	_, code, err := r.exec(name, args)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrBackendExecution, "failed to run %s", commandLine(name, args))
	}
	return code == 0, nil
}

// Run executes a mutating command
func (r *Runner) Run(name string, args ...string) error {
	return r.run(name, args)
}

// RunPrivileged executes a mutating command, through sudo when enabled
func (r *Runner) RunPrivileged(name string, args ...string) error {
	if r.sudo {
		return r.run("sudo", append([]string{name}, args...))
	}
	return r.run(name, args)
}

func (r *Runner) run(name string, args []string) error {
	line := commandLine(name, args)
	if r.skip(line) {
		return nil
	}

	r.logger.Info().Str("command", line).Msg("Executing")
	output, code, err := r.exec(name, args)
	if err != nil {
		return errors.Wrapf(err, errors.ErrBackendExecution, "failed to run %s", line)
	}
	if code != 0 {
		return errors.Newf(errors.ErrBackendExecution, "%s exited with status %d", line, code).
			WithDetail("output", strings.TrimSpace(string(output)))
	}
	return nil
}

// Mutate gates an in-process mutation such as a filesystem change.
// description names the action for the log and the dry-run plan.
func (r *Runner) Mutate(description string, fn func() error) error {
	if r.skip(description) {
		return nil
	}

	r.logger.Info().Str("action", description).Msg("Executing")
	if err := fn(); err != nil {
		return errors.Wrapf(err, errors.ErrBackendExecution, "failed to %s", description)
	}
	return nil
}

func (r *Runner) skip(action string) bool {
	if !r.dryRun {
		return false
	}
	r.planned = append(r.planned, action)
	r.logger.Info().Bool("dry_run", true).Str("action", action).Msg("Would execute")
	return true
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
