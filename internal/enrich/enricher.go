// Package enrich runs the batch postal-code enrichment pass: one sequential
// sweep over the dataset, resolving the pincode column row by row through a
// rate-limited reverse-geocode client.
package enrich

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/pincode-cli/internal/dataset"
	"github.com/sells-group/pincode-cli/pkg/geocode"
)

// Options configures an enrichment run.
type Options struct {
	LatColumn  string
	LonColumn  string
	CodeColumn string
	OutputPath string

	// Delay is the fixed interval between consecutive network-eligible
	// lookups. Rows that never reach the network incur no delay.
	Delay time.Duration

	// ProgressEvery controls how often a progress notice is logged.
	ProgressEvery int

	// CheckpointEvery, when positive, persists the partially enriched dataset
	// to OutputPath every N processed rows. Zero keeps the original
	// commit-once-at-end behavior.
	CheckpointEvery int

	// Limit, when positive, bounds how many rows are processed. Remaining
	// rows pass through untouched.
	Limit int
}

// Summary reports the result of a completed run.
type Summary struct {
	RunID      string
	Total      int
	Resolved   int
	Unresolved int
}

// Enricher owns the dataset for the duration of a run. It is not safe for
// concurrent use; the pass is strictly sequential by contract.
type Enricher struct {
	ds      *dataset.Dataset
	client  geocode.Client
	limiter *rate.Limiter
	opts    Options
}

// New creates an Enricher over the given dataset and geocode client.
func New(ds *dataset.Dataset, client geocode.Client, opts Options) *Enricher {
	if opts.Delay <= 0 {
		opts.Delay = 100 * time.Millisecond
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 50
	}
	return &Enricher{
		ds:      ds,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(opts.Delay), 1),
		opts:    opts,
	}
}

// Run executes the full enrichment pass and persists the dataset to the
// output path. Row-level faults never abort the run; only configuration
// errors and persistence failures do.
func (e *Enricher) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))

	latIdx, ok := e.ds.ColumnIndex(e.opts.LatColumn)
	if !ok {
		return nil, eris.Errorf("enrich: latitude column %q not found", e.opts.LatColumn)
	}
	lonIdx, ok := e.ds.ColumnIndex(e.opts.LonColumn)
	if !ok {
		return nil, eris.Errorf("enrich: longitude column %q not found", e.opts.LonColumn)
	}

	codeIdx, ok := e.ds.ColumnIndex(e.opts.CodeColumn)
	if !ok {
		codeIdx = e.ds.AddColumn(e.opts.CodeColumn)
	} else {
		e.ds.NormalizeColumn(codeIdx)
	}

	total := e.ds.Len()
	log.Info("starting enrichment",
		zap.Int("rows", total),
		zap.String("lat_column", e.opts.LatColumn),
		zap.String("lon_column", e.opts.LonColumn),
		zap.String("code_column", e.opts.CodeColumn),
	)

	// Outcomes are buffered and committed as one block assignment after the
	// pass. Seeding from the existing column keeps kept values intact and
	// makes checkpoint writes safe at any point.
	codes := make([]string, total)
	for i := range codes {
		codes[i] = e.ds.Cell(i, codeIdx)
	}

	var looked, found int
	for i := 0; i < total; i++ {
		if e.opts.Limit > 0 && i >= e.opts.Limit {
			break
		}

		switch {
		case strings.TrimSpace(codes[i]) != "":
			// Already resolved; idempotent re-runs issue no call here.

		default:
			lat, latErr := strconv.ParseFloat(strings.TrimSpace(e.ds.Cell(i, latIdx)), 64)
			lon, lonErr := strconv.ParseFloat(strings.TrimSpace(e.ds.Cell(i, lonIdx)), 64)
			if latErr != nil || lonErr != nil {
				log.Debug("skipping row with non-numeric coordinate",
					zap.Int("row", i),
					zap.String("lat", e.ds.Cell(i, latIdx)),
					zap.String("lon", e.ds.Cell(i, lonIdx)),
				)
				break
			}

			if err := e.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "enrich: rate limiter wait")
			}
			looked++
			if out := e.client.ReverseLookup(ctx, lat, lon); out.Resolved {
				codes[i] = out.Code
				found++
			}
		}

		if (i+1)%e.opts.ProgressEvery == 0 {
			log.Info("progress",
				zap.Int("processed", i+1),
				zap.Int("total", total),
				zap.Int("lookups", looked),
				zap.Int("resolved_by_lookup", found),
			)
		}

		if e.opts.CheckpointEvery > 0 && (i+1)%e.opts.CheckpointEvery == 0 {
			if err := e.commit(codeIdx, codes); err != nil {
				return nil, eris.Wrap(err, "enrich: checkpoint")
			}
			log.Info("checkpoint written",
				zap.Int("processed", i+1),
				zap.String("path", e.opts.OutputPath),
			)
		}
	}

	if err := e.commit(codeIdx, codes); err != nil {
		return nil, err
	}

	summary := &Summary{RunID: runID, Total: total}
	for _, code := range codes {
		if strings.TrimSpace(code) != "" {
			summary.Resolved++
		}
	}
	summary.Unresolved = summary.Total - summary.Resolved

	log.Info("enrichment complete",
		zap.Int("total", summary.Total),
		zap.Int("resolved", summary.Resolved),
		zap.Int("unresolved", summary.Unresolved),
		zap.Int("lookups", looked),
		zap.String("output", e.opts.OutputPath),
	)
	return summary, nil
}

func (e *Enricher) commit(codeIdx int, codes []string) error {
	if err := e.ds.SetColumn(codeIdx, codes); err != nil {
		return eris.Wrap(err, "enrich: assign code column")
	}
	if err := e.ds.Save(e.opts.OutputPath); err != nil {
		return eris.Wrap(err, "enrich: save dataset")
	}
	return nil
}
