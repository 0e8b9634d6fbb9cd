package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gaafix-backend/lib/configutil"
	"gaafix-backend/lib/scrapers/listing"
	"gaafix-backend/lib/scrapers/sportlomo"
	"gaafix-backend/lib/serviceutil"
	"gaafix-backend/lib/sqliteutil"
	"gaafix-backend/lib/timezone"
	"gaafix-backend/services/fixtures"
	"gaafix-backend/services/fixtures/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Config struct {
	// the sportlomo instance hosting the ajax endpoint
	SportlomoUrl string `json:"sportlomo_url"`
	// the public site whose listing page is the fallback
	MainSiteUrl string `json:"main_site_url"`
	// page to pull a wp nonce from, empty skips discovery
	NoncePage string `json:"nonce_page"`
}

func (c Config) withDefaults() Config {
	if c.SportlomoUrl == "" {
		c.SportlomoUrl = "https://dublingaa.sportlomo.com"
	}
	if c.MainSiteUrl == "" {
		c.MainSiteUrl = "https://www.dublingaa.ie"
	}
	return c
}

var (
	collectFrom    *string
	collectTo      *string
	collectSports  *[]string
	collectDb      *string
	collectBatch   *int
	collectDelay   *time.Duration
	collectCapture *string
)

func init() {
	collectFrom = collectCmd.Flags().String("from", "", "First day to collect (YYYY-MM-DD), defaults to today.")
	collectTo = collectCmd.Flags().String("to", "", "Last day to collect (YYYY-MM-DD), defaults to 13 days after from.")
	collectSports = collectCmd.Flags().StringSlice("sports", nil, "Sports to collect, defaults to all of them.")
	collectDb = collectCmd.Flags().String("db", "fixtures.db", "The database to write results to.")
	collectBatch = collectCmd.Flags().Int("batch-days", 7, "Days per upstream request window.")
	collectDelay = collectCmd.Flags().Duration("delay", 500*time.Millisecond, "Pause between upstream requests.")
	collectCapture = collectCmd.Flags().String("capture", "", "Directory to mirror raw http exchanges to.")
	rootCmd.AddCommand(collectCmd)
}

func parseDay(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	day, err := time.ParseInLocation(time.DateOnly, value, timezone.Location)
	if err != nil {
		return time.Time{}, err
	}
	return day, nil
}

var collectCmd = &cobra.Command{
	Use:   "collect [--from <day>] [--to <day>] [--sports <name,...>] [--db <path>]",
	Short: "Collects fixtures for the requested window and saves them.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("failed to read config", err)
		}
		cfg = cfg.withDefaults()

		from, err := parseDay(*collectFrom, timezone.Midnight(timezone.Now()))
		if err != nil {
			serviceutil.Fatal("failed to parse --from", err)
		}
		to, err := parseDay(*collectTo, from.AddDate(0, 0, 13))
		if err != nil {
			serviceutil.Fatal("failed to parse --to", err)
		}

		var sports []fixtures.Sport
		for _, name := range *collectSports {
			sports = append(sports, fixtures.Sport(name))
		}

		ctx := cmd.Context()

		primary, err := sportlomo.NewClient(ctx, sportlomo.ClientOptions{
			BaseUrl:    cfg.SportlomoUrl,
			Delay:      *collectDelay,
			CaptureDir: *collectCapture,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize ajax client", err)
		}
		if cfg.NoncePage != "" {
			primary.DiscoverNonce(ctx, cfg.NoncePage)
		}

		fallback, err := listing.NewClient(ctx, listing.ClientOptions{
			BaseUrl:    cfg.MainSiteUrl,
			CaptureDir: *collectCapture,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize listing client", err)
		}

		collector := fixtures.NewCollector(fixtures.CollectorOptions{
			Primary:      primary,
			Fallback:     fallback,
			BatchDays:    *collectBatch,
			RequestDelay: *collectDelay,
		})

		t1 := time.Now()
		result := collector.FetchAllSports(ctx, from, to, sports)
		t2 := time.Now()

		out, err := sqliteutil.OpenDB(db.Schema, *collectDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer out.Close()

		store, err := fixtures.NewStore(out)
		if err != nil {
			serviceutil.Fatal("failed to initialize store", err)
		}
		collectionId, err := store.SaveCollection(ctx, result)
		if err != nil {
			serviceutil.Fatal("failed to save collection", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Sport", "Success", "Fixtures", "Error"})
		for _, sport := range result.Sports {
			r := result.BySport[sport]
			t.AppendRow(table.Row{sport, r.Success, len(r.Fixtures), r.Error})
		}
		t.AppendFooter(table.Row{"Total", "", result.TotalFixtures, ""})
		t.SetStyle(table.StyleRounded)
		t.Render()

		slog.Info("collection saved",
			"collection", collectionId,
			"range", result.DateRange,
			"fixtures", result.TotalFixtures,
			"seconds", fmt.Sprintf("%.1f", t2.Sub(t1).Seconds()))
	},
}
