package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/flashmob/go-mailparse/log"

	// charset support for labelled text bodies
	_ "github.com/flashmob/go-mailparse/mail/encoding"
)

var rootCmd = &cobra.Command{
	Use:   "mailparse [flags] file...",
	Short: "parse RFC 5322 / MIME messages and dump their structure",
	Long: `mailparse reads each file as one raw Internet Message Format message,
parses the header and MIME tree, and prints a human-readable dump of the
result. Parsing is strict: the first malformed construct fails the file.`,
	Args: cobra.MinimumNArgs(1),
	Run:  dump,
}

var (
	verbose bool
	logDest string

	mainlog log.Logger
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"print out more debug information")
	rootCmd.PersistentFlags().StringVarP(&logDest, "log-dest", "l", "stderr",
		"log destination: stderr, stdout, off, or a file path")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := "info"
		if verbose {
			level = "debug"
		}
		var err error
		if mainlog, err = log.GetLogger(logDest, level); err != nil {
			mainlog.WithError(err).Errorf("failed creating a logger to %q", logDest)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
