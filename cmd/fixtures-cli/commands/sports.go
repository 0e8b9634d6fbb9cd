package commands

import (
	"os"

	"gaafix-backend/services/fixtures"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sportsCmd)
}

var sportsCmd = &cobra.Command{
	Use:   "sports",
	Short: "Prints the sports the collector knows about.",
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Sport"})
		for _, sport := range fixtures.AllSports() {
			t.AppendRow(table.Row{sport})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
