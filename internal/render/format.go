package render

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/dustin/go-humanize"
)

// FormatPrice renders a price as rupees with thousands separators, e.g. "₹ 75,000"
func FormatPrice(price int64) string {
	return "₹ " + humanize.Comma(price)
}

// TimeAgo describes how long before now t was, in whole days, hours or minutes
func TimeAgo(now, t time.Time) string {
	diff := now.Sub(t)
	days := int(diff / (24 * time.Hour))
	hours := int(diff / time.Hour)
	minutes := int(diff / time.Minute)

	switch {
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	case minutes > 0:
		return plural(minutes, "minute")
	default:
		return "Just now"
	}
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

// ListingsHeading is the title of a listings page for a category filter
func ListingsHeading(category string) string {
	if category == "" || category == models.AllFilter {
		return "All Listings"
	}
	r, size := utf8.DecodeRuneInString(category)
	return string(unicode.ToUpper(r)) + category[size:] + " Listings"
}

// cover returns the first image of a listing, or the placeholder when there is none
func cover(images []string) string {
	if len(images) == 0 {
		return models.PlaceholderImage
	}
	return images[0]
}
