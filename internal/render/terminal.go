package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	primary = lipgloss.Color("#667eea")
	accent  = lipgloss.Color("#00D4AA")
	muted   = lipgloss.Color("#9aa0a6")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1).
			Width(56)

	titleStyle     = lipgloss.NewStyle().Bold(true)
	priceStyle     = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle     = lipgloss.NewStyle().Foreground(muted)
	conditionStyle = lipgloss.NewStyle().Foreground(primary)
	headingStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1)
)

// TerminalCard renders a listing as a bordered terminal card
func TerminalCard(l models.Listing, now time.Time) string {
	lines := []string{
		fmt.Sprintf("%s %s", titleStyle.Render(l.Title), mutedStyle.Render(fmt.Sprintf("#%d", l.ID))),
		l.Description,
		fmt.Sprintf("%s  %s", priceStyle.Render(FormatPrice(l.Price)), conditionStyle.Render(l.Condition)),
		mutedStyle.Render(fmt.Sprintf("%s · %s · %s", l.Location, l.Seller, TimeAgo(now, l.PostedAt))),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// TerminalGrid renders a heading, a result count and one card per listing
func TerminalGrid(heading string, listings []models.Listing, now time.Time) string {
	blocks := []string{headingStyle.Render(fmt.Sprintf("%s (%d results)", heading, len(listings)))}
	for _, l := range listings {
		blocks = append(blocks, TerminalCard(l, now))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// TerminalDetail renders every field of a listing, including seller contact details
func TerminalDetail(l models.Listing, now time.Time) string {
	category := l.Category
	if c, ok := models.LookupCategory(l.Category); ok {
		category = c.DisplayName
	}
	lines := []string{
		titleStyle.Render(l.Title),
		priceStyle.Render(FormatPrice(l.Price)),
		"",
		l.Description,
		"",
		fmt.Sprintf("Category:  %s", category),
		fmt.Sprintf("Condition: %s", l.Condition),
		fmt.Sprintf("Seller:    %s", l.Seller),
		fmt.Sprintf("Phone:     %s", l.Phone),
		fmt.Sprintf("Location:  %s", l.Location),
		fmt.Sprintf("Posted:    %s", TimeAgo(now, l.PostedAt)),
		fmt.Sprintf("Images:    %d", len(l.Images)),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}
