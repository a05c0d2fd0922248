package render

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₹ 0", FormatPrice(0))
	assert.Equal(t, "₹ 3,500", FormatPrice(3500))
	assert.Equal(t, "₹ 550,000", FormatPrice(550000))
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "Just now"},
		{59 * time.Second, "Just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{23*time.Hour + 59*time.Minute, "23 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{5*24*time.Hour + 3*time.Hour, "5 days ago"},
		{-time.Hour, "Just now"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeAgo(now, now.Add(-tt.ago)), "ago %s", tt.ago)
	}
}

func TestListingsHeading(t *testing.T) {
	assert.Equal(t, "All Listings", ListingsHeading(""))
	assert.Equal(t, "All Listings", ListingsHeading(models.AllFilter))
	assert.Equal(t, "Cars Listings", ListingsHeading("cars"))
	assert.Equal(t, "Real-estate Listings", ListingsHeading("real-estate"))
	assert.Equal(t, "Élan Listings", ListingsHeading("élan"))
	assert.Equal(t, "Ωmega Listings", ListingsHeading("ωmega"))
	assert.True(t, utf8.ValidString(ListingsHeading("ünterwegs")))
}

func TestCover(t *testing.T) {
	assert.Equal(t, models.PlaceholderImage, cover(nil))
	assert.Equal(t, "a.png", cover([]string{"a.png", "b.png"}))
}
