package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Aakash694/EcoFinds/api-gateway/internal/notify"
	"github.com/Aakash694/EcoFinds/internal/catalog"
	"github.com/Aakash694/EcoFinds/internal/query"
	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.ListingEvent
	err    error
	closed bool
}

func (f *fakePublisher) Name() string { return "fake" }

func (f *fakePublisher) Publish(_ context.Context, event *models.ListingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePublisher) published() []*models.ListingEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.ListingEvent(nil), f.events...)
}

var fixedNow = time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, pubs ...Publisher) (*MarketplaceService, *notify.Board) {
	t.Helper()

	seed, err := catalog.DefaultSeed()
	require.NoError(t, err)

	store := catalog.NewStore(
		catalog.WithListings(seed),
		catalog.WithClock(func() time.Time { return fixedNow }),
	)
	board := notify.NewBoard(time.Minute, nil)
	t.Cleanup(board.Close)

	svc := NewMarketplaceService(store, board, nil, pubs...)
	board.OnShow(svc.PublishToast)
	return svc, board
}

func validCandidate() models.Candidate {
	return models.Candidate{
		Title:       "Road Bike",
		Description: "Lightweight aluminium frame, 21 gears",
		Price:       "18000",
		Category:    "sports",
		Location:    "pune",
		Seller:      "Meera Joshi",
		Phone:       "9876500000",
	}
}

func TestCreateListing(t *testing.T) {
	pub := &fakePublisher{}
	svc, board := newTestService(t, pub)

	before := svc.CountByCategory("sports")
	listing, err := svc.CreateListing(context.Background(), validCandidate())
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.Equal(t, int64(9), listing.ID)
	assert.Equal(t, fixedNow, listing.PostedAt)
	assert.Equal(t, before+1, svc.CountByCategory("sports"))
	assert.Equal(t, listing.ID, svc.Recent()[0].ID)

	toasts := board.Active()
	require.Len(t, toasts, 1)
	assert.Equal(t, MsgListingPosted, toasts[0].Message)

	events := pub.published()
	require.Len(t, events, 2)

	var created *models.ListingEvent
	for _, e := range events {
		if e.Type == models.EventListingCreated {
			created = e
		}
	}
	require.NotNil(t, created)
	assert.Equal(t, listing.ID, created.ListingID)
	assert.Equal(t, "sports", created.Category)
	assert.Equal(t, before+1, created.CategoryCount)
	assert.NotEmpty(t, created.EventID)
	assert.True(t, pub.closed)
}

func TestCreateListing_Invalid(t *testing.T) {
	pub := &fakePublisher{}
	svc, board := newTestService(t, pub)

	c := validCandidate()
	c.Title = "  "
	c.Phone = ""

	_, err := svc.CreateListing(context.Background(), c)
	require.NoError(t, svc.Close())

	var verr *catalog.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"title", "phone"}, verr.Fields)
	assert.Len(t, svc.Search(query.Params{}), 8)

	toasts := board.Active()
	require.Len(t, toasts, 1)
	assert.Equal(t, MsgMissingFields, toasts[0].Message)
	assert.Equal(t, models.ToastError, toasts[0].Kind)

	events := pub.published()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventToast, events[0].Type)
	assert.Equal(t, models.AllFilter, events[0].Category)
}

func TestCreateListing_PublishFailureIsIgnored(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, _ := newTestService(t, pub)

	_, err := svc.CreateListing(context.Background(), validCandidate())
	assert.NoError(t, err)
	assert.NoError(t, svc.Close())
}

func TestContactSeller(t *testing.T) {
	svc, board := newTestService(t)
	defer svc.Close()

	contact, err := svc.ContactSeller(1)
	require.NoError(t, err)
	assert.Equal(t, "Raj Kumar", contact.Seller)
	assert.Equal(t, "9876543210", contact.Phone)
	assert.Equal(t, "Calling Raj Kumar at 9876543210...", contact.Message)

	toasts := board.Active()
	require.Len(t, toasts, 1)
	assert.Equal(t, contact.Message, toasts[0].Message)
}

func TestContactSeller_NotFound(t *testing.T) {
	svc, board := newTestService(t)
	defer svc.Close()

	_, err := svc.ContactSeller(999)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Empty(t, board.Active())
}

func TestCategoryCounts(t *testing.T) {
	svc, _ := newTestService(t)
	defer svc.Close()

	counts := svc.CategoryCounts()
	require.Len(t, counts, len(models.Categories))

	total := 0
	for i, c := range counts {
		assert.Equal(t, models.Categories[i].Name, c.Name)
		assert.Equal(t, svc.CountByCategory(c.Name), c.Count)
		total += c.Count
	}
	assert.Equal(t, svc.Stats().Total, total)
}

func TestFilterToasts(t *testing.T) {
	svc, _ := newTestService(t)
	defer svc.Close()

	svc.FiltersApplied()
	svc.FiltersCleared()

	toasts := svc.Toasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, MsgFiltersApplied, toasts[0].Message)
	assert.Equal(t, MsgFiltersCleared, toasts[1].Message)
}

func TestPublishAfterClose(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(t, pub)
	require.NoError(t, svc.Close())

	svc.FiltersApplied()
	assert.Empty(t, pub.published())
}
