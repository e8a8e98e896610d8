package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dlcf-orozo/orozo-dp/internal/branches"
	"github.com/dlcf-orozo/orozo-dp/internal/templates"
)

// TemplatesCmd lists the selectable templates.
var TemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List display picture templates",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		reg, err := templates.LoadFile(cfg.TemplatesFile)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "INDEX\tNAME\tSTART\tEND\tPOPULAR")
		for i, t := range reg.List() {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%v\n", i, t.Name, t.Start, t.End, t.Popular)
		}
		return tw.Flush()
	},
}

var branchQuery string

// BranchesCmd lists church branches, optionally filtered.
var BranchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "List church branches",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		all, err := branches.Load(cfg.BranchesFile)
		if err != nil {
			return err
		}
		for _, b := range branches.Filter(all, branches.FilterOptions{FreeWords: branchQuery}) {
			line := b.Name
			if b.State != "" {
				line += " (" + b.State + ")"
			}
			if len(b.Zones) > 0 {
				line += ": " + strings.Join(b.Zones, ", ")
			}
			fmt.Fprintln(c.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	BranchesCmd.Flags().StringVarP(&branchQuery, "query", "q", "", "Free-word filter")
}
