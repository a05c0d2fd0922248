package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)
	require.Len(t, seed, 8)

	first := seed[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "iPhone 13 Pro Max 128GB", first.Title)
	assert.Equal(t, int64(75000), first.Price)
	assert.Equal(t, "9876543210", first.Phone)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), first.PostedAt)
	assert.Len(t, first.Images, 1)

	assert.Equal(t, `MacBook Pro 13" M1`, seed[2].Title)
}

func TestLoadSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed yaml", "- id: [1"},
		{"missing id", "- title: x\n  posted_at: \"2024-01-01\""},
		{"duplicate id", "- id: 1\n  posted_at: \"2024-01-01\"\n- id: 1\n  posted_at: \"2024-01-02\""},
		{"bad date", "- id: 1\n  posted_at: yesterday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeed(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestStoreContinuesAfterSeededIDs(t *testing.T) {
	seed, err := LoadSeed(strings.NewReader("- id: 40\n  posted_at: \"2024-01-01T10:00:00Z\"\n- id: 7\n  posted_at: \"2024-01-02\""))
	require.NoError(t, err)

	store := NewStore(WithListings(seed))
	l, err := store.Add(validCandidate())
	require.NoError(t, err)
	assert.Equal(t, int64(41), l.ID)
}
