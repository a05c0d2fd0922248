package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/Aakash694/EcoFinds/internal/catalog"
	"github.com/Aakash694/EcoFinds/internal/query"
	"github.com/Aakash694/EcoFinds/internal/render"
	"github.com/Aakash694/EcoFinds/shared/models"
	"go.uber.org/zap"
)

func (h *Handler) chrome(q query.RawParams) render.Chrome {
	return render.Chrome{
		Toasts:     h.marketplace.Toasts(),
		Categories: h.marketplace.CategoryCounts(),
		Query:      q,
	}
}

// HomePage shows the category badges and the newest listings
func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return h.renderer.Home(buf, render.HomePage{
			Chrome: h.chrome(query.RawParams{}),
			Recent: h.marketplace.Recent(),
		})
	})
}

// ListingsPage shows the filtered listing grid. ?clear=1 resets every filter
// except the category; ?apply=1 comes from the filter bar's apply button.
func (h *Handler) ListingsPage(w http.ResponseWriter, r *http.Request) {
	raw := rawParams(r)
	switch {
	case r.URL.Query().Get("clear") != "":
		raw = query.RawParams{Category: raw.Category}
		h.marketplace.FiltersCleared()
	case r.URL.Query().Get("apply") != "":
		h.marketplace.FiltersApplied()
	}

	params := raw.Parse()
	listings := h.marketplace.Search(params)

	h.renderPage(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return h.renderer.Listings(buf, render.ListingsPage{
			Chrome:      h.chrome(raw),
			Heading:     render.ListingsHeading(params.Category),
			Listings:    listings,
			Locations:   models.Locations,
			SortOptions: render.SortOptions,
		})
	})
}

// DetailPage shows one listing. Unknown ids go back to the home page.
func (h *Handler) DetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(w, r)
	if !ok {
		return
	}

	listing, err := h.marketplace.GetListing(id)
	if errors.Is(err, catalog.ErrNotFound) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.renderFailed(w, err)
		return
	}

	h.renderPage(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return h.renderer.Detail(buf, render.DetailPage{
			Chrome:  h.chrome(query.RawParams{}),
			Listing: listing,
		})
	})
}

// ContactPage raises the "Calling ..." toast and returns to the listing
func (h *Handler) ContactPage(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(w, r)
	if !ok {
		return
	}

	if _, err := h.marketplace.ContactSeller(id); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/listings/%d", id), http.StatusSeeOther)
}

// SellPage shows an empty sell form
func (h *Handler) SellPage(w http.ResponseWriter, r *http.Request) {
	h.renderSell(w, http.StatusOK, models.Candidate{}, nil)
}

// SubmitSell creates a listing from the sell form and its photos
func (h *Handler) SubmitSell(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.Warn("failed to parse sell form", zap.Error(err))
		h.renderSell(w, http.StatusBadRequest, models.Candidate{}, []string{"photos"})
		return
	}

	candidate := formCandidate(r)
	if r.MultipartForm != nil {
		photos, err := readPhotos(r.Context(), r.MultipartForm.File["photos"])
		if err != nil {
			h.logger.Warn("failed to read photos", zap.Error(err))
			h.renderSell(w, http.StatusBadRequest, candidate, []string{"photos"})
			return
		}
		candidate.Images = photos
	}

	_, err := h.marketplace.CreateListing(r.Context(), candidate)
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderSell(w, http.StatusBadRequest, candidate, verr.Fields)
	case err != nil:
		h.renderFailed(w, err)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h *Handler) renderSell(w http.ResponseWriter, status int, values models.Candidate, fields []string) {
	h.renderPage(w, status, func(buf *bytes.Buffer) error {
		return h.renderer.Sell(buf, render.SellPage{
			Chrome:    h.chrome(query.RawParams{}),
			Values:    values,
			Errors:    fields,
			Locations: models.Locations,
			MaxPhotos: render.MaxPhotos,
		})
	})
}

// renderPage renders into a buffer first so that a template error still
// produces a clean 500 response
func (h *Handler) renderPage(w http.ResponseWriter, status int, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		h.renderFailed(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) renderFailed(w http.ResponseWriter, err error) {
	h.logger.Error("failed to render page", zap.Error(err))
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
