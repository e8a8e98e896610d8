// dpgen renders DLCF OROZO display pictures from the command line.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dlcf-orozo/orozo-dp/cmd/dpgen/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dpgen",
		Short: "Generate retreat display pictures",
		Long: `dpgen composes a display picture from a photo, a name, a church
branch and one of the retreat templates, and writes it as a PNG.`,
		SilenceUsage:      true,
		PersistentPreRunE: cmd.Init,
	}
	cmd.AddFlags(rootCmd)

	rootCmd.AddCommand(cmd.RenderCmd)
	rootCmd.AddCommand(cmd.TemplatesCmd)
	rootCmd.AddCommand(cmd.BranchesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
