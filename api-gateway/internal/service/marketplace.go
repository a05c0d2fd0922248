package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Aakash694/EcoFinds/internal/catalog"
	"github.com/Aakash694/EcoFinds/internal/query"
	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Toast messages shown by the marketplace
const (
	MsgListingPosted  = "Your ad has been posted successfully!"
	MsgMissingFields  = "Please fill all required fields!"
	MsgFiltersApplied = "Filters applied!"
	MsgFiltersCleared = "Filters cleared!"
)

const publishTimeout = 5 * time.Second

// Publisher delivers events to a downstream system (Redis, NATS)
type Publisher interface {
	Name() string
	Publish(ctx context.Context, event *models.ListingEvent) error
	Close() error
}

// Notifier shows transient messages to the user
type Notifier interface {
	Success(message string) models.Toast
	Error(message string) models.Toast
	Active() []models.Toast
}

// Contact is the result of the contact-seller action
type Contact struct {
	ListingID int64  `json:"listing_id"`
	Seller    string `json:"seller"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

// MarketplaceService handles the business logic of browsing and posting listings
type MarketplaceService struct {
	store      *catalog.Store
	engine     *query.Engine
	notifier   Notifier
	publishers []Publisher
	logger     *zap.Logger

	// in-flight publishes, waited for on Close
	wg      sync.WaitGroup
	mu      sync.Mutex
	closing bool
}

// NewMarketplaceService creates a new marketplace service.
// With no publishers, events are simply not sent anywhere.
func NewMarketplaceService(store *catalog.Store, notifier Notifier, logger *zap.Logger, publishers ...Publisher) *MarketplaceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketplaceService{
		store:      store,
		engine:     query.NewEngine(store),
		notifier:   notifier,
		publishers: publishers,
		logger:     logger,
	}
}

// CreateListing validates and stores a new listing, then announces it:
// 1. success or error toast for the user
// 2. listing.created event for live views (async, best effort)
func (s *MarketplaceService) CreateListing(ctx context.Context, c models.Candidate) (models.Listing, error) {
	listing, err := s.store.Add(c)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			s.notifier.Error(MsgMissingFields)
		}
		return models.Listing{}, fmt.Errorf("failed to create listing: %w", err)
	}

	s.notifier.Success(MsgListingPosted)

	s.publish(&models.ListingEvent{
		EventID:       uuid.New().String(),
		Type:          models.EventListingCreated,
		ListingID:     listing.ID,
		Title:         listing.Title,
		Category:      listing.Category,
		Location:      listing.Location,
		Price:         listing.Price,
		CategoryCount: s.store.CountByCategory(listing.Category),
		Timestamp:     time.Now().UTC(),
	})

	return listing, nil
}

// Search runs a query over the catalog
func (s *MarketplaceService) Search(p query.Params) []models.Listing {
	return s.engine.Run(p)
}

// Recent returns the newest listings for the home page
func (s *MarketplaceService) Recent() []models.Listing {
	return s.engine.Recent()
}

// GetListing looks a listing up by id
func (s *MarketplaceService) GetListing(id int64) (models.Listing, error) {
	listing, err := s.store.Get(id)
	if err != nil {
		return models.Listing{}, fmt.Errorf("failed to get listing %d: %w", id, err)
	}
	return listing, nil
}

// CategoryCounts returns every category with its current number of listings
func (s *MarketplaceService) CategoryCounts() []models.CategoryCount {
	counts := make([]models.CategoryCount, len(models.Categories))
	for i, c := range models.Categories {
		counts[i] = models.CategoryCount{Category: c, Count: s.store.CountByCategory(c.Name)}
	}
	return counts
}

// CountByCategory returns the number of listings in a category
func (s *MarketplaceService) CountByCategory(category string) int {
	return s.store.CountByCategory(category)
}

// Stats returns catalog totals
func (s *MarketplaceService) Stats() catalog.Stats {
	return s.store.Stats()
}

// ContactSeller returns the seller's details for a listing and tells the user
// who is being called. Nothing is actually dialled.
func (s *MarketplaceService) ContactSeller(id int64) (*Contact, error) {
	listing, err := s.GetListing(id)
	if err != nil {
		return nil, err
	}

	contact := &Contact{
		ListingID: listing.ID,
		Seller:    listing.Seller,
		Phone:     listing.Phone,
		Message:   fmt.Sprintf("Calling %s at %s...", listing.Seller, listing.Phone),
	}
	s.notifier.Success(contact.Message)
	return contact, nil
}

// FiltersApplied and FiltersCleared raise the toasts of the filter bar
func (s *MarketplaceService) FiltersApplied() { s.notifier.Success(MsgFiltersApplied) }

func (s *MarketplaceService) FiltersCleared() { s.notifier.Success(MsgFiltersCleared) }

// Toasts returns the toasts currently visible
func (s *MarketplaceService) Toasts() []models.Toast {
	return s.notifier.Active()
}

// PublishToast forwards a toast to live views on the "all" channel
func (s *MarketplaceService) PublishToast(t models.Toast) {
	s.publish(&models.ListingEvent{
		EventID:   t.ID,
		Type:      models.EventToast,
		Category:  models.AllFilter,
		Message:   t.Message,
		Kind:      t.Kind,
		Timestamp: t.CreatedAt.UTC(),
	})
}

// publish hands the event to every publisher without blocking the caller.
// Failures are logged and otherwise ignored.
func (s *MarketplaceService) publish(event *models.ListingEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return
	}

	for _, p := range s.publishers {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()

			if err := p.Publish(ctx, event); err != nil {
				s.logger.Warn("failed to publish event",
					zap.String("publisher", p.Name()),
					zap.String("event_id", event.EventID),
					zap.String("type", event.Type),
					zap.Error(err),
				)
			}
		}()
	}
}

// Close waits for in-flight publishes and closes the publishers
func (s *MarketplaceService) Close() error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	s.wg.Wait()

	var errs []error
	for _, p := range s.publishers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s publisher: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}
