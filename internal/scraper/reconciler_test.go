package scraper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory ListingStore for reconciler tests.
type fakeStore struct {
	rows      map[string]*ListingData
	errors    map[string]string
	failWith  error
	mutations int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:   make(map[string]*ListingData),
		errors: make(map[string]string),
	}
}

func (s *fakeStore) Exists(url string) (bool, error) {
	if s.failWith != nil {
		return false, s.failWith
	}
	_, ok := s.rows[url]
	return ok, nil
}

func (s *fakeStore) Insert(data *ListingData) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.mutations++
	copied := *data
	s.rows[data.DetailURL] = &copied
	return nil
}

func (s *fakeStore) Update(url string, data *ListingData) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.mutations++
	copied := *data
	s.rows[url] = &copied
	delete(s.errors, url)
	return nil
}

func (s *fakeStore) AttachError(url string, message string) error {
	if _, ok := s.rows[url]; ok {
		s.errors[url] = message
	}
	return nil
}

func activeListing(url string) *ListingData {
	return &ListingData{
		DetailURL: url,
		Title:     "Autoturism DACIA",
		Status:    "Active",
		IsActive:  true,
	}
}

func TestReconcileCreatesNewListing(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store, false)

	outcome := reconciler.Reconcile(activeListing("https://anabi.just.ro/ads/1"), "")
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Len(t, store.rows, 1)
}

func TestReconcileUpdatesExistingListing(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store, false)

	first := activeListing("https://anabi.just.ro/ads/1")
	first.Title = "Autoturism DACIA"
	require.Equal(t, OutcomeCreated, reconciler.Reconcile(first, ""))

	second := activeListing("https://anabi.just.ro/ads/1")
	second.Title = "Autoturism DACIA Logan"
	second.BidCount = 3
	assert.Equal(t, OutcomeUpdated, reconciler.Reconcile(second, ""))

	require.Len(t, store.rows, 1)
	stored := store.rows["https://anabi.just.ro/ads/1"]
	assert.Equal(t, "Autoturism DACIA Logan", stored.Title)
	assert.Equal(t, 3, stored.BidCount)
	assert.Empty(t, store.errors)
}

func TestReconcileMergesIndexCategory(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store, false)

	data := activeListing("https://anabi.just.ro/ads/1")
	reconciler.Reconcile(data, "Autovehicule")
	assert.Equal(t, "Autovehicule", store.rows[data.DetailURL].Category)
}

func TestReconcileKeepsDetailCategory(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store, false)

	data := activeListing("https://anabi.just.ro/ads/1")
	data.Category = "Echipamente"
	reconciler.Reconcile(data, "Autovehicule")
	assert.Equal(t, "Echipamente", store.rows[data.DetailURL].Category)
}

func TestReconcileFilterSkipsInactive(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store, true)

	data := activeListing("https://anabi.just.ro/ads/1")
	data.IsActive = false

	assert.Equal(t, OutcomeSkipped, reconciler.Reconcile(data, ""))
	assert.Zero(t, store.mutations)
	assert.Empty(t, store.rows)
}

func TestReconcileFilterSkipsSold(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store, true)

	data := activeListing("https://anabi.just.ro/ads/1")
	data.IsSold = true

	assert.Equal(t, OutcomeSkipped, reconciler.Reconcile(data, ""))
	assert.Zero(t, store.mutations)
}

func TestReconcileFilterDisabledKeepsInactive(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store, false)

	data := activeListing("https://anabi.just.ro/ads/1")
	data.IsActive = false

	assert.Equal(t, OutcomeCreated, reconciler.Reconcile(data, ""))
}

func TestReconcileRecordsStoreError(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store, false)

	// Seed a stored row, then make every mutation fail
	require.Equal(t, OutcomeCreated, reconciler.Reconcile(activeListing("https://anabi.just.ro/ads/1"), ""))
	store.failWith = fmt.Errorf("deadlock found when trying to get lock")

	outcome := reconciler.Reconcile(activeListing("https://anabi.just.ro/ads/1"), "")
	assert.Equal(t, OutcomeError, outcome)
	assert.Equal(t, "deadlock found when trying to get lock", store.errors["https://anabi.just.ro/ads/1"])
}

func TestReconcileTruncatesLongErrors(t *testing.T) {
	store := newFakeStore()
	reconciler := NewReconciler(store, false)

	require.Equal(t, OutcomeCreated, reconciler.Reconcile(activeListing("https://anabi.just.ro/ads/1"), ""))
	store.failWith = fmt.Errorf("%s", strings.Repeat("x", 900))

	reconciler.Reconcile(activeListing("https://anabi.just.ro/ads/1"), "")
	assert.Len(t, store.errors["https://anabi.just.ro/ads/1"], 500)
}
