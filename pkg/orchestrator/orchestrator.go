// Package orchestrator applies a list of config entries in order.
//
// Every entry is built before anything is applied, so a bad entry anywhere
// in the file aborts the run before the first change. Apply failures,
// panics included, are isolated to their command and the run continues;
// the run as a whole is failed if any command failed. Decision store and prompt failures are the
// exception and end the run immediately.
package orchestrator

import (
	"fmt"

	"github.com/arthur-debert/archx/pkg/commands"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/logging"
)

// Status of one command after a run
type Status string

const (
	StatusApplied Status = "applied"
	StatusFailed  Status = "failed"
	// StatusNotRun marks commands left out after stop_on_error tripped
	StatusNotRun Status = "not_run"
)

// Outcome is the result of one command
type Outcome struct {
	// Index is the command's position in the config file, starting at 1
	Index   int
	Kind    string
	Status  Status
	Message string
	Err     error
}

// Result summarizes a run
type Result struct {
	Outcomes []Outcome
	Failed   int
}

// OK reports whether every command succeeded
func (r Result) OK() bool {
	return r.Failed == 0
}

// Count returns how many outcomes have the given status
func (r Result) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Options controls failure handling
type Options struct {
	StopOnError bool
	// Source names the config file the entries came from, if any
	Source string
}

// Run builds and applies entries in order
func Run(ctx commands.Context, factory *commands.Factory, entries []commands.Entry, opts Options) (Result, error) {
	logger := ctx.Logger.With().Str("component", "orchestrator").Logger()
	done := logging.LogOperationStart(logger, "apply")
	defer done()

	cmds := make([]commands.Command, 0, len(entries))
	for i, entry := range entries {
		cmd, err := factory.Build(entry)
		if err != nil {
			return Result{}, buildError(err, entry, i+1, opts.Source)
		}
		cmds = append(cmds, cmd)
	}
	logger.Debug().Int("commands", len(cmds)).Msg("All commands built")

	var result Result
	for i, cmd := range cmds {
		index := i + 1
		msg, err := applySafely(cmd, ctx)
		if err == nil {
			logger.Info().Int("index", index).Str("kind", cmd.Kind()).Msg(msg)
			result.Outcomes = append(result.Outcomes, Outcome{
				Index: index, Kind: cmd.Kind(), Status: StatusApplied, Message: msg,
			})
			continue
		}

		result.Failed++
		result.Outcomes = append(result.Outcomes, Outcome{
			Index: index, Kind: cmd.Kind(), Status: StatusFailed, Err: err,
		})
		logger.Error().Err(err).Int("index", index).Str("kind", cmd.Kind()).Msg("Command failed")

		if isFatal(err) {
			return result, err
		}
		if opts.StopOnError {
			for j := i + 1; j < len(cmds); j++ {
				result.Outcomes = append(result.Outcomes, Outcome{
					Index: j + 1, Kind: cmds[j].Kind(), Status: StatusNotRun,
					Message: "Not run: stopped after an earlier failure.",
				})
			}
			logger.Warn().Int("index", index).Msg("Stopping after first failure")
			break
		}
	}

	return result, nil
}

func buildError(err error, entry commands.Entry, index int, source string) error {
	kind, _ := entry.Kind()
	where := fmt.Sprintf("invalid command #%d", index)
	if source != "" {
		where += " in " + source
	}
	return errors.Wrap(err, errors.ErrConfigValid, where).
		WithDetail("index", index).
		WithDetail("kind", kind).
		WithDetail("path", source)
}

// applySafely turns a panicking Apply into an INTERNAL failure of that
// command. Plugin handlers run here too.
func applySafely(cmd commands.Command, ctx commands.Context) (msg string, err error) {
	defer func() {
		if r := recover(); r != nil {
			msg = ""
			err = errors.Newf(errors.ErrInternal, "%s command panicked: %v", cmd.Kind(), r).
				WithDetail("kind", cmd.Kind())
		}
	}()
	return cmd.Apply(ctx)
}

// isFatal reports whether an apply error must end the run
func isFatal(err error) bool {
	return errors.IsErrorCode(err, errors.ErrDecisionStore) ||
		errors.IsErrorCode(err, errors.ErrPrompt)
}
