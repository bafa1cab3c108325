package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitescore.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitescore",
		Short: "Evaluate privacy and security scan facts of web sites",
		Long: `sitescore evaluates the facts collected by external privacy and security
scanners for a web site and its mail servers.

Every check of the privacy, security, ssl and mx categories classifies one
aspect of the site as good, neutral, bad or critical. Reports can be
rendered as text, JSON or Markdown, and are kept in a local history so
that later evaluations of the same site can be compared.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging and detailed reports")
	cmd.PersistentFlags().Bool("log-json", false, "Write log records to stderr as JSON lines")
	cmd.PersistentFlags().StringSlice("redact", nil,
		"Additional log attribute names whose values are masked")

	cmd.AddCommand(NewEvaluateCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewChecksCmd())
	cmd.AddCommand(NewTargetsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
