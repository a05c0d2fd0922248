// Package catalog owns the in-memory collection of marketplace listings.
package catalog

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Aakash694/EcoFinds/shared/models"
	"go.uber.org/zap"
)

// Store holds every listing, most recent first.
// All methods are safe for concurrent use; readers always get copies.
type Store struct {
	mu       sync.RWMutex
	listings []models.Listing
	nextID   int64

	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for PostedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for store events
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithListings seeds the store. Listings keep the given order and ids;
// new ids continue after the highest seeded id.
func WithListings(listings []models.Listing) Option {
	return func(s *Store) {
		for _, l := range listings {
			s.listings = append(s.listings, l.Clone())
			if l.ID >= s.nextID {
				s.nextID = l.ID + 1
			}
		}
	}
}

// NewStore creates a new catalog store
func NewStore(opts ...Option) *Store {
	s := &Store{
		nextID: 1,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add validates the candidate and, if it is complete, stores it at the front
// of the catalog. On a *ValidationError the catalog is left untouched.
func (s *Store) Add(c models.Candidate) (models.Listing, error) {
	listing, err := validate(c)
	if err != nil {
		s.logger.Debug("rejected listing candidate", zap.Error(err))
		return models.Listing{}, err
	}

	s.mu.Lock()
	listing.ID = s.nextID
	s.nextID++
	listing.PostedAt = s.now()
	s.listings = append([]models.Listing{listing}, s.listings...)
	s.mu.Unlock()

	s.logger.Info("listing added",
		zap.Int64("id", listing.ID),
		zap.String("category", listing.Category),
		zap.String("location", listing.Location),
		zap.Int64("price", listing.Price))

	return listing.Clone(), nil
}

// Get returns the listing with the given id or ErrNotFound
func (s *Store) Get(id int64) (models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.listings {
		if l.ID == id {
			return l.Clone(), nil
		}
	}
	return models.Listing{}, ErrNotFound
}

// All returns a copy of the catalog in insertion order
func (s *Store) All() []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Listing, len(s.listings))
	for i, l := range s.listings {
		out[i] = l.Clone()
	}
	return out
}

// Len returns the number of listings in the catalog
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}

// CountByCategory counts the listings in category
func (s *Store) CountByCategory(category string) int {
	return s.count(func(l *models.Listing) bool { return l.Category == category })
}

// CountByLocation counts the listings posted from location
func (s *Store) CountByLocation(location string) int {
	return s.count(func(l *models.Listing) bool { return l.Location == location })
}

func (s *Store) count(match func(*models.Listing) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for i := range s.listings {
		if match(&s.listings[i]) {
			n++
		}
	}
	return n
}

// Stats summarises the catalog per category and per location
type Stats struct {
	Total      int            `json:"total_listings"`
	Categories map[string]int `json:"categories"`
	Locations  map[string]int `json:"locations"`
}

// Stats computes catalog totals from the current contents
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Total:      len(s.listings),
		Categories: make(map[string]int),
		Locations:  make(map[string]int),
	}
	for _, l := range s.listings {
		st.Categories[l.Category]++
		st.Locations[l.Location]++
	}
	return st
}

// validate turns a candidate into a listing without id or timestamp
func validate(c models.Candidate) (models.Listing, error) {
	var bad []string

	title := strings.TrimSpace(c.Title)
	if title == "" {
		bad = append(bad, "title")
	}
	description := strings.TrimSpace(c.Description)
	if description == "" {
		bad = append(bad, "description")
	}
	price, err := strconv.ParseInt(strings.TrimSpace(c.Price), 10, 64)
	if err != nil || price < 0 {
		bad = append(bad, "price")
	}
	category := strings.TrimSpace(c.Category)
	if !models.IsCategory(category) {
		bad = append(bad, "category")
	}
	location := strings.TrimSpace(c.Location)
	if !models.IsLocation(location) {
		bad = append(bad, "location")
	}
	seller := strings.TrimSpace(c.Seller)
	if seller == "" {
		bad = append(bad, "seller")
	}
	phone := strings.TrimSpace(c.Phone)
	if phone == "" {
		bad = append(bad, "phone")
	}

	if len(bad) > 0 {
		return models.Listing{}, &ValidationError{Fields: bad}
	}

	condition := strings.TrimSpace(c.Condition)
	if condition == "" {
		condition = models.DefaultCondition
	}

	var images []string
	for _, img := range c.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		images = []string{models.PlaceholderImage}
	}

	return models.Listing{
		Title:       title,
		Description: description,
		Price:       price,
		Category:    category,
		Location:    location,
		Seller:      seller,
		Phone:       phone,
		Images:      images,
		Condition:   condition,
	}, nil
}
