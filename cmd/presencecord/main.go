// Package main implements the presencecord daemon and its command line,
// which tracks Steam accounts and posts their presence changes to a Discord
// channel.
package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"tools.zach/dev/presencecord/internal/paths"
)

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

// version is set at release time with -ldflags "-X main.version=0.1.0". A
// bare go build leaves it as "dev" and resolveVersion falls back to the VCS
// stamp embedded by the toolchain.
var version = "dev"

// resolveVersion returns [version] when set via ldflags, otherwise a
// "dev+<hash>" tag built from the embedded VCS revision.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	hash := revision[:min(7, len(revision))]
	if dirty {
		return "dev+" + hash + ".dirty"
	}
	return "dev+" + hash
}

// ///////////////////////////////////////////////
// Root Command
// ///////////////////////////////////////////////

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	dataDir string
}

// paths returns the data directory selected by --data-dir.
func (o *rootOptions) paths() DataPaths {
	return DataPaths{Root: o.dataDir}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           paths.BinaryName,
		Short:         "Post Steam presence changes to a Discord channel",
		Long:          "presencecord polls the Steam Web API for a set of accounts, detects status, game and name changes, and posts each change as an embed to a Discord channel.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", paths.Default().Root, "Data directory for config, PID file, and logs")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newTrackCmd(opts),
		newConfigCmd(opts),
		newLogsCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// ///////////////////////////////////////////////
// Main
// ///////////////////////////////////////////////

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
