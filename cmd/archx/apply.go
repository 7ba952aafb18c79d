package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/archx/pkg/commands"
	"github.com/arthur-debert/archx/pkg/configfile"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/orchestrator"
	"github.com/arthur-debert/archx/pkg/paths"
	"github.com/arthur-debert/archx/pkg/report"
	"github.com/arthur-debert/archx/pkg/settings"
	"github.com/spf13/cobra"
)

// applyFlagKeys maps apply flags to setting keys
var applyFlagKeys = map[string]string{
	"dry-run":          settings.KeyDryRun,
	"non-interactive":  settings.KeyNonInteractive,
	"symlink-conflict": settings.KeySymlinkConflict,
	"decisions":        settings.KeyDecisionsPath,
	"stop-on-error":    settings.KeyStopOnError,
	"junit":            settings.KeyJUnitPath,
}

func newApplyCmd(gf *globalFlags) *cobra.Command {
	var (
		configPath string
		repoRoot   string
		format     string
	)

	cmd := &cobra.Command{
		Use:     "apply",
		Short:   MsgApplyShort,
		Example: MsgApplyExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			opts, err := loadSettings(gf, changedFlags(cmd, applyFlagKeys))
			if err != nil {
				return err
			}

			if configPath == "" {
				configPath, err = defaultConfig()
				if err != nil {
					return err
				}
			}

			file, err := configfile.Load(configPath)
			if err != nil {
				return err
			}

			root, err := paths.RepoRoot(repoRoot, configPath)
			if err != nil {
				return err
			}

			s, err := newSession(opts, root, cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			s.logger.Info().
				Str("config", file.Path).
				Str("repo_root", root).
				Int("commands", len(file.Commands)).
				Msg("Applying setup")

			factory := commands.NewFactory(s.table, s.ctx)
			result, runErr := orchestrator.Run(s.ctx, factory, file.Commands, orchestrator.Options{
				StopOnError: opts.StopOnError,
				Source:      file.Path,
			})

			if runErr != nil && len(result.Outcomes) == 0 {
				return runErr
			}

			summary := report.Summary{Config: file.Path, DryRun: opts.DryRun, Result: result}
			out := cmd.OutOrStdout()
			if writeErr := report.Write(out, summary, report.Resolve(f, out)); writeErr != nil {
				s.logger.Warn().Err(writeErr).Msg("Failed to write summary")
			}

			if opts.JUnitPath != "" {
				if err := report.WriteJUnitFile(opts.JUnitPath, summary); err != nil {
					s.logger.Warn().Err(err).Str("path", opts.JUnitPath).Msg("Failed to write JUnit report")
				}
			}

			if runErr != nil {
				return runErr
			}
			if !result.OK() {
				return fmt.Errorf(MsgErrCommandsFailed, result.Failed, len(result.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", MsgFlagConfig)
	cmd.Flags().Bool("dry-run", false, MsgFlagDryRun)
	cmd.Flags().Bool("non-interactive", false, MsgFlagNonInteractive)
	cmd.Flags().String("symlink-conflict", "ask", MsgFlagSymlinkConflict)
	cmd.Flags().String("decisions", "", MsgFlagDecisions)
	cmd.Flags().Bool("stop-on-error", false, MsgFlagStopOnError)
	cmd.Flags().String("junit", "", MsgFlagJUnit)
	cmd.Flags().StringVar(&repoRoot, "repo-root", "", MsgFlagRepoRoot)
	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)

	return cmd
}

// defaultConfig finds the setup file when -c is not given
func defaultConfig() (string, error) {
	candidates := []string{
		paths.DefaultConfigFile,
		filepath.Join(paths.SetupDirName, paths.DefaultConfigFile),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", errors.Newf(errors.ErrConfigLoad, MsgErrNoConfig, strings.Join(candidates, " or "))
}
