package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Aakash694/EcoFinds/internal/catalog"
	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := (&app{now: func() time.Time { return fixedNow }}).rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func listedIDs(t *testing.T, out string) []int64 {
	t.Helper()
	var resp struct {
		Listings []models.Listing `json:"listings"`
		Total    int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Len(t, resp.Listings, resp.Total)

	ids := make([]int64, len(resp.Listings))
	for i, l := range resp.Listings {
		ids[i] = l.ID
	}
	return ids
}

func TestList(t *testing.T) {
	out, err := run(t, "list", "--category", "sports")
	require.NoError(t, err)
	assert.Contains(t, out, "Sports Listings (1 results)")
	assert.Contains(t, out, "Cricket Kit Complete Set")
	assert.Contains(t, out, "₹ 12,000")
}

func TestList_JSON(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []int64
	}{
		{"default", nil, []int64{1, 5, 8, 3, 6, 2, 7, 4}},
		{"location", []string{"--location", "mumbai"}, []int64{1, 8}},
		{"search", []string{"-q", "cricket"}, []int64{8}},
		{"price high", []string{"--max-price", "12000", "--sort", "price-high"}, []int64{8, 5, 7}},
		{"bad sort", []string{"--category", "all", "--sort", "cheapest"}, []int64{1, 5, 8, 3, 6, 2, 7, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"list", "--json"}, tt.args...)...)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, listedIDs(t, out)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecent(t *testing.T) {
	out, err := run(t, "recent", "--json")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5, 8, 3, 6, 2}, listedIDs(t, out))
}

func TestShow(t *testing.T) {
	out, err := run(t, "show", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Arjun Kapoor")
	assert.Contains(t, out, "9876543217")

	_, err = run(t, "show", "99")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = run(t, "show", "eight")
	assert.Error(t, err)
}

func TestCounts(t *testing.T) {
	out, err := run(t, "counts")
	require.NoError(t, err)
	assert.Contains(t, out, "Cars")
	assert.Contains(t, out, "1 ads")

	out, err = run(t, "counts", "--json")
	require.NoError(t, err)
	var counts []models.CategoryCount
	require.NoError(t, json.Unmarshal([]byte(out), &counts))
	assert.Len(t, counts, len(models.Categories))
}

func TestStats(t *testing.T) {
	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total listings: 8")
	assert.Contains(t, out, "mumbai")
}

func TestAdd(t *testing.T) {
	out, err := run(t, "add",
		"--title", "Tennis Racket",
		"--description", "Graphite, strung",
		"--price", "4500",
		"--category", "sports",
		"--location", "delhi",
		"--seller", "Ishaan",
		"--phone", "9000000004",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Tennis Racket")
	assert.Contains(t, out, "Seller:    Ishaan")
	assert.Contains(t, out, "sports now has 2 ads")
}

func TestAdd_Invalid(t *testing.T) {
	_, err := run(t, "add", "--title", "Tennis Racket", "--price", "free")

	var verr *catalog.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("price"))
	assert.True(t, verr.Has("phone"))
	assert.False(t, verr.Has("title"))
}

func TestSeedFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: 3
  title: Bookshelf
  description: Five shelves
  price: 2500
  category: furniture
  location: pune
  seller: Neha
  phone: "9000000005"
  posted_at: "2024-01-10T09:00:00Z"
`), 0o644))

	out, err := run(t, "--seed", path, "list", "--json")
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, listedIDs(t, out))

	_, err = run(t, "--seed", filepath.Join(t.TempDir(), "missing.yaml"), "list")
	assert.Error(t, err)
}
