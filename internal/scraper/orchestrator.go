package scraper

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// Orchestrator drives one full crawl: paginate the index, then fetch,
// extract and reconcile each discovered listing in order. Runs are strictly
// sequential; the fetcher's delay is the only pacing mechanism. Nothing
// stops two overlapping runs from racing on the same rows — last write wins,
// and the run id keeps interleaved logs readable.
type Orchestrator struct {
	config     *Config
	fetcher    *Fetcher
	index      *IndexScraper
	detail     *DetailScraper
	reconciler *Reconciler
}

// RunStats tallies what one run did.
type RunStats struct {
	Found   int
	New     int
	Updated int
	Skipped int
	Errors  int
}

// NewOrchestrator wires a run-owned fetcher and scrapers over the store.
// Each run should use a fresh orchestrator; nothing is shared between runs.
func NewOrchestrator(config *Config, store ListingStore) *Orchestrator {
	fetcher := NewFetcher(config)
	return &Orchestrator{
		config:     config,
		fetcher:    fetcher,
		index:      NewIndexScraper(fetcher, config),
		detail:     NewDetailScraper(fetcher, config),
		reconciler: NewReconciler(store, config.ActiveUnsoldOnly),
	}
}

// Run executes the crawl to completion and returns its tallies. Per-listing
// failures are counted and logged but never abort the run.
func (o *Orchestrator) Run(ctx context.Context) RunStats {
	runID := uuid.NewString()[:8]
	log.Printf("[run %s] Starting scraping job", runID)
	if o.config.ActiveUnsoldOnly {
		log.Printf("[run %s] Mode: active unsold listings only", runID)
	}

	defer o.fetcher.Close()

	var refs []ListingRef
	for page := 1; ; page++ {
		batch := o.index.ScrapePage(ctx, page)
		if len(batch) == 0 {
			break
		}
		refs = append(refs, batch...)
		if page >= o.config.MaxPages {
			log.Printf("[run %s] Reached page ceiling (%d), stopping pagination", runID, o.config.MaxPages)
			break
		}
	}

	stats := RunStats{Found: len(refs)}
	log.Printf("[run %s] Found %d listings to process", runID, stats.Found)

	for _, ref := range refs {
		data, err := o.detail.ScrapeDetail(ctx, ref.DetailURL)
		if err != nil {
			log.Printf("[run %s] No data scraped for %s: %v", runID, ref.DetailURL, err)
			stats.Errors++
			continue
		}

		switch o.reconciler.Reconcile(data, ref.Category) {
		case OutcomeCreated:
			stats.New++
		case OutcomeUpdated:
			stats.Updated++
		case OutcomeSkipped:
			stats.Skipped++
		case OutcomeError:
			stats.Errors++
		}
	}

	log.Printf("[run %s] Scraping finished. New: %d, Updated: %d, Skipped: %d, Errors: %d",
		runID, stats.New, stats.Updated, stats.Skipped, stats.Errors)
	return stats
}
