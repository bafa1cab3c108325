package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nao1215/sitescore/internal/check"
	"github.com/nao1215/sitescore/internal/config"
	"github.com/nao1215/sitescore/internal/model"
)

// NewChecksCmd creates the checks command.
func NewChecksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List the check catalogue",
		Long: `Checks lists every check with the facts it reads, its reliability
labels and what it reports when a fact is missing ("abstain" means the
check produces no result).

Examples:
  # List all checks
  sitescore checks

  # List the mail server checks as JSON
  sitescore checks -C mx --json`,
		Args: cobra.NoArgs,
		RunE: runChecksCmd,
	}

	cmd.Flags().StringSliceP("category", "C", nil,
		"List only these categories (privacy, security, ssl, mx)")
	cmd.Flags().BoolP("json", "j", false, "Output the catalogue in JSON format")

	return cmd
}

// checkInfo describes one catalogue entry.
type checkInfo struct {
	Category model.Category `json:"category"`
	Name     string         `json:"name"`
	Title    string         `json:"title,omitempty"`
	Keys     []string       `json:"keys"`
	Labels   []string       `json:"labels,omitempty"`
	Missing  string         `json:"missing"`
}

func runChecksCmd(cmd *cobra.Command, _ []string) error {
	names, err := cmd.Flags().GetStringSlice("category")
	if err != nil {
		return err
	}
	categories, err := config.ParseCategories(names)
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	catalogue, err := check.Default()
	if err != nil {
		return err
	}
	infos := listChecks(catalogue, categories)

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	return writeChecksTable(cmd.OutOrStdout(), infos)
}

// listChecks collects the entries of the given categories, all when empty,
// in catalogue order.
func listChecks(catalogue *check.Catalogue, categories []model.Category) []checkInfo {
	if len(categories) == 0 {
		categories = catalogue.Categories()
	}

	var infos []checkInfo
	for _, cat := range categories {
		for _, def := range catalogue.Checks(cat) {
			keys := make([]string, len(def.Keys))
			for i, k := range def.Keys {
				keys[i] = string(k)
			}
			infos = append(infos, checkInfo{
				Category: def.Category,
				Name:     def.Name,
				Title:    def.Title,
				Keys:     keys,
				Labels:   def.Labels,
				Missing:  def.MissingBehavior(),
			})
		}
	}
	return infos
}

func writeChecksTable(out io.Writer, infos []checkInfo) error {
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Category", "Check", "Facts", "Labels", "Missing"})

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Category.String(),
			info.Name,
			strings.Join(info.Keys, "\n"),
			strings.Join(info.Labels, ", "),
			info.Missing,
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d checks\n", len(infos))
	return nil
}
