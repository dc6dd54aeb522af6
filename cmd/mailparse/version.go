package main

import (
	"github.com/spf13/cobra"
)

// populated via ldflags at build time
var (
	version   string
	commit    string
	buildTime string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version info",
	Run: func(cmd *cobra.Command, args []string) {
		logVersion()
	},
}

func init() {
	if version == "" {
		version = "unknown"
	}
	if commit == "" {
		commit = "unknown"
	}
	if buildTime == "" {
		buildTime = "unknown"
	}
	rootCmd.AddCommand(versionCmd)
}

func logVersion() {
	mainlog.WithField("version", version).
		WithField("commit", commit).
		WithField("buildTime", buildTime).
		Info("mailparse")
}
