package query

import (
	"strconv"
	"strings"

	"github.com/Aakash694/EcoFinds/shared/models"
)

// SortKey selects the ordering of query results
type SortKey string

// Supported sort keys
const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

// ParseSortKey maps s to a sort key; anything unrecognised sorts newest first
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortNewest, SortOldest, SortPriceLow, SortPriceHigh:
		return k
	default:
		return SortNewest
	}
}

// Params describes a catalog query. The zero value matches every listing, newest first.
type Params struct {
	Category   string
	Location   string
	SearchTerm string
	MinPrice   *int64
	MaxPrice   *int64
	SortBy     SortKey
}

// RawParams carries query parameters as typed by a user
type RawParams struct {
	Category   string
	Location   string
	SearchTerm string
	MinPrice   string
	MaxPrice   string
	SortBy     string
}

// Parse converts raw input into Params. Bounds that are not integers are dropped.
func (r RawParams) Parse() Params {
	return Params{
		Category:   strings.TrimSpace(r.Category),
		Location:   strings.TrimSpace(r.Location),
		SearchTerm: r.SearchTerm,
		MinPrice:   ParseBound(r.MinPrice),
		MaxPrice:   ParseBound(r.MaxPrice),
		SortBy:     ParseSortKey(r.SortBy),
	}
}

// ParseBound parses a price bound from its leading integer, so "12.5" and
// "12abc" both mean 12. It returns nil when the input does not start with a
// number (after an optional sign) or does not fit an int64.
func ParseBound(s string) *int64 {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return nil
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// Bound is a convenience for building Params in code
func Bound(n int64) *int64 {
	return &n
}

func filterEnabled(v string) bool {
	return v != "" && v != models.AllFilter
}
