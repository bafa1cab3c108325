package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitescore/internal/target"
)

// NewTargetsCmd creates the targets command.
func NewTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets <list-file>",
		Short: "Normalize and de-duplicate a list of target URLs",
		Long: `Targets reads a newline-separated list of sites, normalizes every entry
and prints the unique targets in their original order. Lines that do not
look like a host name are skipped.

The counts of read, kept, skipped and duplicate lines are printed to
stderr, or included in the output with --json.

Examples:
  sitescore targets sites.txt
  sitescore targets --json sites.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runTargetsCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output targets and counts in JSON format")

	return cmd
}

func runTargetsCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	list, err := target.ReadListFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	for _, t := range list.Targets {
		fmt.Fprintln(out, t)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "read %d, kept %d, skipped %d, duplicates %d\n",
		list.Stats.Read, list.Stats.Kept, list.Stats.Skipped, list.Stats.Duplicates)
	return nil
}
