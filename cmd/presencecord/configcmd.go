package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	rootpkg "tools.zach/dev/presencecord"
	"tools.zach/dev/presencecord/internal/atomicfile"
	"tools.zach/dev/presencecord/internal/config"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(
		newConfigInitCmd(root),
		newConfigPathCmd(root),
		newConfigCheckCmd(root),
	)

	return cmd
}

func newConfigInitCmd(root *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := root.paths().Config()
			wrote, err := writeDefaultConfig(path, force)
			if err != nil {
				return err
			}
			if !wrote {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigPathCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), root.paths().Config())
			return err
		},
	}
}

func newConfigCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load and validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.paths().Root)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d tracked, %ds interval, %s\n",
				len(cfg.Steam.IDs), cfg.Tracker.RefreshIntervalSeconds, cfg.Tracker.TimeZone)
			return err
		},
	}
}

// writeDefaultConfig writes the embedded default config to path. Without
// force an existing file is left alone and false is returned.
func writeDefaultConfig(path string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		} else if !os.IsNotExist(err) {
			return false, fmt.Errorf("stat config: %w", err)
		}
	}
	if err := atomicfile.Write(path, rootpkg.DefaultConfigTOML, 0o600); err != nil {
		return false, fmt.Errorf("write default config: %w", err)
	}
	return true, nil
}
