package scraper

import (
	"log"
)

const maxErrorLen = 500

// ListingStore is the persistence surface the reconciler needs. Listings are
// matched by detail URL only; there is no other identity key.
type ListingStore interface {
	Exists(url string) (bool, error)
	Insert(data *ListingData) error
	Update(url string, data *ListingData) error
	AttachError(url string, message string) error
}

// Outcome classifies what reconciliation did with one extracted record.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
	OutcomeSkipped
	OutcomeError
)

// Reconciler decides whether an extracted record becomes a new row, updates
// an existing one, or is discarded by the active-and-unsold filter.
type Reconciler struct {
	store            ListingStore
	activeUnsoldOnly bool
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(store ListingStore, activeUnsoldOnly bool) *Reconciler {
	return &Reconciler{store: store, activeUnsoldOnly: activeUnsoldOnly}
}

// Reconcile merges the index-page category hint, applies the activity
// filter, and upserts the record by detail URL. A store failure is recorded
// onto the existing row's scrape_errors field when one exists; it never
// propagates to the caller beyond the Error outcome.
func (r *Reconciler) Reconcile(data *ListingData, category string) Outcome {
	if data.Category == "" && category != "" {
		data.Category = category
	}

	if r.activeUnsoldOnly && (!data.IsActive || data.IsSold) {
		log.Printf("Skipping %s (active=%v, sold=%v)", data.DetailURL, data.IsActive, data.IsSold)
		return OutcomeSkipped
	}

	exists, err := r.store.Exists(data.DetailURL)
	if err != nil {
		return r.recordError(data.DetailURL, err)
	}

	if exists {
		log.Printf("Updating existing listing: %s", data.DetailURL)
		if err := r.store.Update(data.DetailURL, data); err != nil {
			return r.recordError(data.DetailURL, err)
		}
		return OutcomeUpdated
	}

	log.Printf("Creating new listing: %s", data.DetailURL)
	if err := r.store.Insert(data); err != nil {
		return r.recordError(data.DetailURL, err)
	}
	return OutcomeCreated
}

// recordError logs a reconciliation failure and best-effort attaches the
// truncated message to an already stored row with the same URL.
func (r *Reconciler) recordError(url string, err error) Outcome {
	log.Printf("Error processing listing %s: %v", url, err)

	message := err.Error()
	if len(message) > maxErrorLen {
		message = message[:maxErrorLen]
	}
	if attachErr := r.store.AttachError(url, message); attachErr != nil {
		log.Printf("Could not save error to database: %v", attachErr)
	}
	return OutcomeError
}
