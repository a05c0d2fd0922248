// Package render turns catalog data into HTML pages and terminal output.
// Rendering is a pure function of its input; nothing here touches the catalog.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/Aakash694/EcoFinds/internal/query"
	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

//go:embed templates/*.html
var templateFS embed.FS

// MaxPhotos is the number of photos accepted with one listing
const MaxPhotos = 12

// Chrome is the data every page shares: the header search box, the toasts
// and the footer category links.
type Chrome struct {
	Toasts     []models.Toast
	Categories []models.CategoryCount
	Query      query.RawParams
}

// HomePage shows category badges and the most recent listings
type HomePage struct {
	Chrome
	Recent []models.Listing
}

// SortOption is one entry of the sort selector
type SortOption struct {
	Value string
	Label string
}

// SortOptions lists the sort keys in selector order
var SortOptions = []SortOption{
	{Value: string(query.SortNewest), Label: "Newest first"},
	{Value: string(query.SortOldest), Label: "Oldest first"},
	{Value: string(query.SortPriceLow), Label: "Price: low to high"},
	{Value: string(query.SortPriceHigh), Label: "Price: high to low"},
}

// ListingsPage shows the result of a query
type ListingsPage struct {
	Chrome
	Heading     string
	Listings    []models.Listing
	Locations   []string
	SortOptions []SortOption
}

// DetailPage shows a single listing
type DetailPage struct {
	Chrome
	Listing models.Listing
}

// SellPage shows the sell form, refilled with Values and flagging Errors
type SellPage struct {
	Chrome
	Values    models.Candidate
	Errors    []string
	Locations []string
	MaxPhotos int
}

var pageNames = []string{"home", "listings", "detail", "sell"}

// Renderer executes the page templates and minifies their output
type Renderer struct {
	pages    map[string]*template.Template
	minifier *minify.M
	now      func() time.Time
}

// NewRenderer parses the embedded templates. now is used for "time ago" labels.
func NewRenderer(now func() time.Time) (*Renderer, error) {
	if now == nil {
		now = time.Now
	}
	r := &Renderer{
		pages:    make(map[string]*template.Template, len(pageNames)),
		minifier: minify.New(),
		now:      now,
	}
	r.minifier.AddFunc("text/html", html.Minify)

	base, err := template.New("layout").Funcs(r.funcs()).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	for _, name := range pageNames {
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := page.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = page
	}
	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"price":    FormatPrice,
		"timeAgo":  func(t time.Time) string { return TimeAgo(r.now(), t) },
		"cover":    cover,
		"imageURL": imageURL,
		"join":     strings.Join,
		"isAll":    func(s string) bool { return s == "" || s == models.AllFilter },
		"hasError": func(errs []string, field string) bool {
			for _, e := range errs {
				if e == field {
					return true
				}
			}
			return false
		},
	}
}

// Home renders the landing page
func (r *Renderer) Home(w io.Writer, p HomePage) error {
	return r.execute(w, "home", "layout", p)
}

// Listings renders a query result page
func (r *Renderer) Listings(w io.Writer, p ListingsPage) error {
	if p.Heading == "" {
		p.Heading = ListingsHeading(p.Query.Category)
	}
	if p.Locations == nil {
		p.Locations = models.Locations
	}
	if p.SortOptions == nil {
		p.SortOptions = SortOptions
	}
	return r.execute(w, "listings", "layout", p)
}

// Detail renders the detail page of one listing
func (r *Renderer) Detail(w io.Writer, p DetailPage) error {
	return r.execute(w, "detail", "layout", p)
}

// Sell renders the sell form
func (r *Renderer) Sell(w io.Writer, p SellPage) error {
	if p.Locations == nil {
		p.Locations = models.Locations
	}
	if p.MaxPhotos == 0 {
		p.MaxPhotos = MaxPhotos
	}
	return r.execute(w, "sell", "layout", p)
}

// Grid renders only the listing cards, for embedding in other documents
func (r *Renderer) Grid(w io.Writer, listings []models.Listing) error {
	return r.execute(w, "home", "grid", listings)
}

func (r *Renderer) execute(w io.Writer, page, tmpl string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	if err := r.minifier.Minify("text/html", w, &buf); err != nil {
		return fmt.Errorf("failed to minify %s: %w", page, err)
	}
	return nil
}

// imageURL trusts http(s) links and inline image data; anything else is dropped
func imageURL(s string) template.URL {
	switch {
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "data:image/"):
		return template.URL(s)
	default:
		return template.URL("#")
	}
}
