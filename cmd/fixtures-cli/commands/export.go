package commands

import (
	"fmt"
	"os"

	"gaafix-backend/lib/serviceutil"
	"gaafix-backend/lib/sqliteutil"
	"gaafix-backend/services/fixtures"
	"gaafix-backend/services/fixtures/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	exportDb         *string
	exportCollection *int64
	exportCsv        *bool
)

func init() {
	exportDb = exportCmd.Flags().String("db", "fixtures.db", "The database to read from.")
	exportCollection = exportCmd.Flags().Int64("collection", 0, "Collection to export, defaults to the most recent one.")
	exportCsv = exportCmd.Flags().Bool("csv", false, "Emit csv instead of a table.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--db <path>] [--collection <id>] [--csv]",
	Short: "Prints the fixtures of a saved collection.",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := sqliteutil.OpenDB(db.Schema, *exportDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		store, err := fixtures.NewStore(database)
		if err != nil {
			serviceutil.Fatal("failed to initialize store", err)
		}

		ctx := cmd.Context()
		collectionId := *exportCollection
		if collectionId == 0 {
			collectionId, err = store.LatestCollectionId(ctx)
			if err != nil {
				serviceutil.Fatal("failed to look up latest collection", err)
			}
			if collectionId == 0 {
				serviceutil.Fatal("no collections saved yet", fmt.Errorf("database is empty"))
			}
		}

		rows, err := store.ListFixtures(ctx, collectionId)
		if err != nil {
			serviceutil.Fatal("failed to list fixtures", err)
		}

		columns := fixtures.Columns(rows)
		header := make(table.Row, len(columns))
		for i, c := range columns {
			header[i] = c
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(header)
		for _, f := range rows {
			row := make(table.Row, len(columns))
			for i, c := range columns {
				row[i] = f.Get(c)
			}
			t.AppendRow(row)
		}

		if *exportCsv {
			t.RenderCSV()
			return
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
