package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pincode-cli/internal/dataset"
	"github.com/sells-group/pincode-cli/internal/enrich"
	"github.com/sells-group/pincode-cli/pkg/geocode"
)

var (
	enrichInput           string
	enrichOutput          string
	enrichLatCol          string
	enrichLonCol          string
	enrichCodeCol         string
	enrichLimit           int
	enrichCheckpointEvery int
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fill the pincode column by reverse-geocoding each row",
	Long: `Loads the input dataset, resolves a postal code for every row that has
numeric coordinates and no pincode yet, and writes the enriched dataset to the
output path. Rows that already carry a pincode are kept untouched, so re-runs
only look up what is still missing.

Examples:
  # Defaults: database.xlsx -> database_with_pincodes.xlsx
  pincode-cli enrich

  # CSV in, custom column names, stop after 100 rows
  pincode-cli enrich --input sites.csv --output out.csv \
    --lat-col Latitude --lon-col Longitude --limit 100

  # Persist partial progress every 200 rows
  pincode-cli enrich --checkpoint-every 200`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		input := firstNonEmpty(enrichInput, cfg.Input)
		output := firstNonEmpty(enrichOutput, cfg.Output)
		latCol := firstNonEmpty(enrichLatCol, cfg.Columns.Lat)
		lonCol := firstNonEmpty(enrichLonCol, cfg.Columns.Lon)
		codeCol := firstNonEmpty(enrichCodeCol, cfg.Columns.Code)

		if cfg.Geoapify.Key == "" {
			return eris.New("enrich: geoapify api key not configured (set PIN_GEOAPIFY_KEY)")
		}

		ds, err := dataset.Load(input)
		if err != nil {
			return eris.Wrapf(err, "enrich: load %s", input)
		}

		client := geocode.NewGeoapifyClient(cfg.Geoapify.Key,
			geocode.WithBaseURL(cfg.Geoapify.BaseURL),
			geocode.WithTimeout(time.Duration(cfg.Geoapify.TimeoutSecs)*time.Second),
		)

		checkpointEvery := cfg.Enrich.CheckpointEvery
		if enrichCheckpointEvery > 0 {
			checkpointEvery = enrichCheckpointEvery
		}

		enricher := enrich.New(ds, client, enrich.Options{
			LatColumn:       latCol,
			LonColumn:       lonCol,
			CodeColumn:      codeCol,
			OutputPath:      output,
			Delay:           time.Duration(cfg.Enrich.DelayMS) * time.Millisecond,
			ProgressEvery:   cfg.Enrich.ProgressEvery,
			CheckpointEvery: checkpointEvery,
			Limit:           enrichLimit,
		})

		summary, err := enricher.Run(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("Saved %s\n", output)
		cmd.Printf("  Total rows:  %d\n", summary.Total)
		cmd.Printf("  Resolved:    %d\n", summary.Resolved)
		cmd.Printf("  Unresolved:  %d\n", summary.Unresolved)
		return nil
	},
}

// firstNonEmpty returns the first non-empty string, letting flags override
// config values.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(enrichCmd)
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "input dataset path (.xlsx or .csv)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "output dataset path")
	enrichCmd.Flags().StringVar(&enrichLatCol, "lat-col", "", "latitude column name")
	enrichCmd.Flags().StringVar(&enrichLonCol, "lon-col", "", "longitude column name")
	enrichCmd.Flags().StringVar(&enrichCodeCol, "pincode-col", "", "pincode column name")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "process only the first N rows (0 = all)")
	enrichCmd.Flags().IntVar(&enrichCheckpointEvery, "checkpoint-every", 0, "write partial output every N rows (0 = only at end)")
}
