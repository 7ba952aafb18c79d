package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/arthur-debert/archx/pkg/decisions"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/filesystem"
	"github.com/arthur-debert/archx/pkg/paths"
	"github.com/arthur-debert/archx/pkg/settings"
	"github.com/spf13/cobra"
)

func newDecisionsCmd(gf *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decisions",
		Short: MsgDecisionsShort,
	}
	cmd.PersistentFlags().String("decisions", "", MsgFlagDecisions)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: MsgDecListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, gf)
			if err != nil {
				return err
			}

			entries := store.All()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, err := fmt.Fprintln(out, MsgNoDecisions)
				return err
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tRESOLUTION\tALWAYS\tDECIDED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\n",
					e.Key, e.Decision.Resolution, e.Decision.Always,
					e.Decision.DecidedAt.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "forget <target|key>",
		Short: MsgDecForgetShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, gf)
			if err != nil {
				return err
			}

			key, err := decisionKey(args[0])
			if err != nil {
				return err
			}

			removed, err := store.Forget(key)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), MsgDecisionUnknown, key)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgDecisionForgot, key)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: MsgDecClearShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, gf)
			if err != nil {
				return err
			}

			n := len(store.All())
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgDecisionsCleared, n)
			return nil
		},
	})

	return cmd
}

// openStore opens the decision store named by the resolved settings
func openStore(cmd *cobra.Command, gf *globalFlags) (*decisions.Store, error) {
	opts, err := loadSettings(gf, changedFlags(cmd, map[string]string{
		"decisions": settings.KeyDecisionsPath,
	}))
	if err != nil {
		return nil, err
	}
	return decisions.Open(filesystem.NewOS(), opts.DecisionsPath)
}

// decisionKey turns a link target into its store key. Arguments that
// already look like keys are used verbatim.
func decisionKey(arg string) (string, error) {
	if strings.HasPrefix(arg, decisions.SymlinkKey("")) {
		return arg, nil
	}
	abs, err := filepath.Abs(paths.ExpandHome(arg))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to resolve %s", arg)
	}
	return decisions.SymlinkKey(abs), nil
}
