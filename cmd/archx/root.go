package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/arthur-debert/archx/internal/version"
	"github.com/arthur-debert/archx/pkg/help"
	"github.com/arthur-debert/archx/pkg/logging"
	"github.com/arthur-debert/archx/pkg/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicsFS embed.FS

// globalFlags are shared by every subcommand
type globalFlags struct {
	verbosity int
	settings  string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "archx",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&flags.settings, "settings", "", MsgFlagSettings)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newApplyCmd(flags))
	rootCmd.AddCommand(newKindsCmd(flags))
	rootCmd.AddCommand(newDecisionsCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	topics, err := help.Load(topicsFS, "topics", help.Options{Renderer: help.RendererFunc(renderTopic)})
	if err == nil {
		topics.Install(rootCmd)
	} else {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// renderTopic styles markdown topics when stdout is a terminal
func renderTopic(content, ext string) string {
	if ext != ".md" || !report.IsTerminal(os.Stdout) {
		return content
	}
	return report.RenderMarkdown(content, 0)
}
