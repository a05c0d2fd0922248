package redis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvent(t *testing.T) {
	event := &models.ListingEvent{
		EventID:       "evt-1",
		Type:          models.EventListingCreated,
		ListingID:     9,
		Title:         "Road Bike",
		Category:      "sports",
		Location:      "pune",
		Price:         18000,
		CategoryCount: 2,
		Timestamp:     time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC),
	}

	data, err := encodeEvent(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "listing.created", decoded["type"])
	assert.Equal(t, "sports", decoded["category"])
	assert.EqualValues(t, 18000, decoded["price"])
	assert.EqualValues(t, 2, decoded["category_count"])
	assert.NotContains(t, decoded, "message")
}

func TestEncodeEvent_RequiresCategory(t *testing.T) {
	_, err := encodeEvent(&models.ListingEvent{EventID: "evt-2", Type: models.EventToast})
	assert.Error(t, err)
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient("127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
