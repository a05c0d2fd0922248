package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/Aakash694/EcoFinds/internal/query"
	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var renderNow = time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

func sampleListing() models.Listing {
	return models.Listing{
		ID:          8,
		Title:       "Cricket Kit Complete Set",
		Description: "Professional cricket kit with bat, pads, helmet, and gear bag.",
		Price:       12000,
		Category:    "sports",
		Location:    "mumbai",
		Seller:      "Arjun Kapoor",
		Phone:       "9876543217",
		Images:      []string{"https://via.placeholder.com/300x200/00B894/ffffff?text=Cricket+Kit"},
		PostedAt:    time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC),
		Condition:   "Very Good",
	}
}

func categoryCounts() []models.CategoryCount {
	out := make([]models.CategoryCount, len(models.Categories))
	for i, c := range models.Categories {
		out[i] = models.CategoryCount{Category: c, Count: i}
	}
	return out
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(func() time.Time { return renderNow })
	require.NoError(t, err)
	return r
}

func TestRenderer_Home(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	err := r.Home(&buf, HomePage{
		Chrome: Chrome{
			Categories: categoryCounts(),
			Toasts:     []models.Toast{{Message: "Your ad has been posted successfully!", Kind: models.ToastSuccess}},
		},
		Recent: []models.Listing{sampleListing()},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Cricket Kit Complete Set")
	assert.Contains(t, out, "₹ 12,000")
	assert.Contains(t, out, "3 days ago")
	assert.Contains(t, out, "7 ads")
	assert.Contains(t, out, "Your ad has been posted successfully!")
	assert.Contains(t, out, "serviceWorker")
}

func TestRenderer_ListingsEscapesAndCounts(t *testing.T) {
	r := newTestRenderer(t)

	evil := sampleListing()
	evil.Title = "<script>alert(1)</script>"
	evil.Images = []string{"javascript:alert(1)"}

	var buf bytes.Buffer
	err := r.Listings(&buf, ListingsPage{
		Chrome:   Chrome{Categories: categoryCounts(), Query: query.RawParams{Category: "sports", SortBy: "price-low"}},
		Listings: []models.Listing{sampleListing(), evil},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Sports Listings")
	assert.Contains(t, out, "2 results")
	// the title is escaped as text; no script element is injected after the heading tag
	assert.Contains(t, out, "&lt;script>alert(1)")
	assert.NotContains(t, out, "<h3><script>")
	assert.NotContains(t, out, "javascript:alert(1)")
}

func TestRenderer_ListingsEmpty(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Listings(&buf, ListingsPage{Chrome: Chrome{Categories: categoryCounts()}}))
	assert.Contains(t, buf.String(), "All Listings")
	assert.Contains(t, buf.String(), "0 results")
	assert.Contains(t, buf.String(), "No listings found.")
}

func TestRenderer_DetailShowsInlinePhotos(t *testing.T) {
	r := newTestRenderer(t)

	l := sampleListing()
	l.Images = append(l.Images, "data:image/png;base64,iVBORw0KGgo=")

	var buf bytes.Buffer
	require.NoError(t, r.Detail(&buf, DetailPage{Chrome: Chrome{Categories: categoryCounts()}, Listing: l}))

	out := buf.String()
	assert.Contains(t, out, "Seller Details")
	assert.Contains(t, out, "Arjun Kapoor")
	assert.Contains(t, out, "/listings/8/contact")
	assert.Contains(t, out, "data:image/png")
}

func TestRenderer_SellFlagsErrors(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	err := r.Sell(&buf, SellPage{
		Chrome: Chrome{Categories: categoryCounts()},
		Values: models.Candidate{Title: "Sofa", Price: "abc"},
		Errors: []string{"price", "phone"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "price, phone")
	assert.Contains(t, out, "Sofa")
	assert.Contains(t, out, "up to 12")
}

func TestRenderer_Grid(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Grid(&buf, []models.Listing{sampleListing()}))
	assert.Contains(t, buf.String(), `data-listing-id=8`)
}
