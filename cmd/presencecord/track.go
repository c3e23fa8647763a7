package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"tools.zach/dev/presencecord/internal/config"
)

func newTrackCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Manage tracked Steam accounts",
		Long:  "Track edits steam.ids in the config file. A running daemon picks up the change on its next poll.",
	}

	cmd.AddCommand(
		newTrackAddCmd(root),
		newTrackRemoveCmd(root),
		newTrackListCmd(root),
	)

	return cmd
}

func newTrackAddCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <steamid64>...",
		Short: "Start tracking accounts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editTracked(cmd, root.paths(), args, func(cfg *config.Config, id uint64) string {
				if cfg.AddID(id) {
					return "tracking"
				}
				return "already tracked"
			})
		},
	}
}

func newTrackRemoveCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <steamid64>...",
		Aliases: []string{"rm"},
		Short:   "Stop tracking accounts",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editTracked(cmd, root.paths(), args, func(cfg *config.Config, id uint64) string {
				if cfg.RemoveID(id) {
					return "removed"
				}
				return "not tracked"
			})
		},
	}
}

func newTrackListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tracked accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.paths().Root)
			if err != nil {
				return err
			}
			if len(cfg.Steam.IDs) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no accounts tracked")
				return err
			}
			for _, id := range cfg.Steam.IDs {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

// editTracked parses every argument before touching the config, applies
// edit to each id, and saves once.
func editTracked(cmd *cobra.Command, dp DataPaths, args []string, edit func(*config.Config, uint64) string) error {
	ids := make([]uint64, 0, len(args))
	for _, a := range args {
		id, err := config.ParseSteamID(a)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	if _, err := writeDefaultConfig(dp.Config(), false); err != nil {
		return err
	}
	cfg, err := config.Load(dp.Root)
	if err != nil {
		return err
	}
	for _, id := range ids {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", edit(cfg, id), id)
	}
	if err := cfg.Save(dp.Config()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
