// Package query derives filtered and sorted views of the catalog.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Aakash694/EcoFinds/shared/models"
)

// RecentLimit is the number of listings shown in the recent listings preview
const RecentLimit = 6

// Source provides the listings a query runs over
type Source interface {
	All() []models.Listing
}

// Engine runs queries against a catalog. It never modifies the catalog.
type Engine struct {
	source Source
}

// NewEngine creates a query engine over source
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Run returns the listings matching p, ordered by p.SortBy.
// The result may be empty but is never nil.
func (e *Engine) Run(p Params) []models.Listing {
	return Apply(e.source.All(), p)
}

// Recent returns the newest listings, at most RecentLimit of them
func (e *Engine) Recent() []models.Listing {
	out := e.Run(Params{SortBy: SortNewest})
	if len(out) > RecentLimit {
		out = out[:RecentLimit]
	}
	return out
}

// Apply filters and sorts listings according to p. The input slice is not modified.
func Apply(listings []models.Listing, p Params) []models.Listing {
	term := strings.ToLower(strings.TrimSpace(p.SearchTerm))

	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		// cheap equality checks first, substring scans last
		if filterEnabled(p.Category) && l.Category != p.Category {
			continue
		}
		if filterEnabled(p.Location) && l.Location != p.Location {
			continue
		}
		if p.MinPrice != nil && l.Price < *p.MinPrice {
			continue
		}
		if p.MaxPrice != nil && l.Price > *p.MaxPrice {
			continue
		}
		if term != "" && !matchesTerm(l, term) {
			continue
		}
		out = append(out, l)
	}

	slices.SortStableFunc(out, comparator(ParseSortKey(string(p.SortBy))))
	return out
}

func matchesTerm(l models.Listing, term string) bool {
	return strings.Contains(strings.ToLower(l.Title), term) ||
		strings.Contains(strings.ToLower(l.Description), term) ||
		strings.Contains(strings.ToLower(l.Category), term)
}

func comparator(key SortKey) func(a, b models.Listing) int {
	switch key {
	case SortOldest:
		return func(a, b models.Listing) int { return a.PostedAt.Compare(b.PostedAt) }
	case SortPriceLow:
		return func(a, b models.Listing) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b models.Listing) int { return cmp.Compare(b.Price, a.Price) }
	default:
		return func(a, b models.Listing) int { return b.PostedAt.Compare(a.PostedAt) }
	}
}
