package cmd

import (
	"fmt"

	"github.com/readmify/readmify/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the version of Readmify`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Readmify v%s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
