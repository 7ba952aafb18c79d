package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/arthur-debert/archx/pkg/report"
	"github.com/spf13/cobra"
)

func newKindsCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: MsgKindsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadSettings(gf, nil)
			if err != nil {
				return err
			}
			// Listing never prompts or mutates
			opts.DryRun = true
			opts.NonInteractive = true

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			s, err := newSession(opts, cwd, cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			md := report.KindsMarkdown(s.table.Handlers())
			out := cmd.OutOrStdout()
			if f, ok := out.(*os.File); ok && report.IsTerminal(f) {
				md = report.RenderMarkdown(md, 0)
			}
			if _, err := fmt.Fprint(out, md); err != nil {
				return err
			}

			if len(s.loaded.Unavailable) == 0 {
				return nil
			}
			names := make([]string, 0, len(s.loaded.Unavailable))
			for name := range s.loaded.Unavailable {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Fprint(out, MsgUnavailable)
			for _, name := range names {
				fmt.Fprintf(out, MsgUnavailableItem, name, s.loaded.Unavailable[name])
			}
			return nil
		},
	}
}
