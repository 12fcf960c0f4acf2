package cmd

import (
	tea "charm.land/bubbletea/v2"
	"github.com/readmify/readmify/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive README generator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := newPage(settings)
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(tui.New(cmd.Context(), page)).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
