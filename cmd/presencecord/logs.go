package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"tools.zach/dev/presencecord/internal/logger"
)

func newLogsCmd(root *rootOptions) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the daemon log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := root.paths().Log()
			tail, err := logger.ReadTail(path, lines)
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no log file at %s", path)
			}
			if err != nil {
				return err
			}
			if tail == "" {
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tail)
			return err
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	return cmd
}
