package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/Aakash694/EcoFinds/api-gateway/internal/service"
	"github.com/Aakash694/EcoFinds/internal/catalog"
	"github.com/Aakash694/EcoFinds/internal/render"
	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Options tunes the HTTP layer
type Options struct {
	// PostLimit is the number of listings one client may post per PostWindow.
	// Zero disables the limit.
	PostLimit  int
	PostWindow time.Duration
	// TrustedProxies are the proxies whose X-Forwarded-For header is believed
	// when identifying a client. Empty means clients are keyed by their
	// connection address only.
	TrustedProxies []netip.Prefix
}

// Handler contains HTTP request handlers
type Handler struct {
	marketplace *service.MarketplaceService
	renderer    *render.Renderer
	logger      *zap.Logger
	limiter     *rateLimiter
}

// NewHandler creates a new HTTP handler
func NewHandler(marketplace *service.MarketplaceService, renderer *render.Renderer, logger *zap.Logger, opts Options) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PostWindow <= 0 {
		opts.PostWindow = time.Minute
	}
	return &Handler{
		marketplace: marketplace,
		renderer:    renderer,
		logger:      logger,
		limiter:     newRateLimiter(opts.PostLimit, opts.PostWindow, opts.TrustedProxies),
	}
}

// SetupRoutes configures all HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Preflight; answered by corsMiddleware
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health check
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/listings", h.ListListings).Methods("GET")
	api.Handle("/listings", h.limiter.middleware(http.HandlerFunc(h.CreateListing))).Methods("POST")
	api.HandleFunc("/listings/recent", h.RecentListings).Methods("GET")
	api.HandleFunc("/listings/{id:[0-9]+}", h.GetListing).Methods("GET")
	api.HandleFunc("/listings/{id:[0-9]+}/contact", h.ContactSeller).Methods("POST")
	api.HandleFunc("/categories", h.ListCategories).Methods("GET")
	api.HandleFunc("/categories/{category}/count", h.CategoryCount).Methods("GET")
	api.HandleFunc("/stats", h.Stats).Methods("GET")
	api.HandleFunc("/toasts", h.Toasts).Methods("GET")

	// Pages
	router.HandleFunc("/", h.HomePage).Methods("GET")
	router.HandleFunc("/listings", h.ListingsPage).Methods("GET")
	router.HandleFunc("/listings/{id:[0-9]+}", h.DetailPage).Methods("GET")
	router.HandleFunc("/listings/{id:[0-9]+}/contact", h.ContactPage).Methods("POST")
	router.HandleFunc("/sell", h.SellPage).Methods("GET")
	router.Handle("/sell", h.limiter.middleware(http.HandlerFunc(h.SubmitSell))).Methods("POST")

	// Middleware
	router.Use(loggingMiddleware(h.logger))
	router.Use(corsMiddleware)

	return router
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// ListListings runs a catalog query built from the URL parameters
func (h *Handler) ListListings(w http.ResponseWriter, r *http.Request) {
	listings := h.marketplace.Search(rawParams(r).Parse())
	respondJSON(w, http.StatusOK, map[string]any{
		"listings": listings,
		"total":    len(listings),
	})
}

// RecentListings returns the newest listings
func (h *Handler) RecentListings(w http.ResponseWriter, r *http.Request) {
	listings := h.marketplace.Recent()
	respondJSON(w, http.StatusOK, map[string]any{
		"listings": listings,
		"total":    len(listings),
	})
}

// GetListing returns a single listing
func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(w, r)
	if !ok {
		return
	}

	listing, err := h.marketplace.GetListing(id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

// CreateListing handles listing creation requests
func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	listing, err := h.marketplace.CreateListing(r.Context(), req.candidate())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, listing)
}

// ContactSeller returns the seller's name and phone number
func (h *Handler) ContactSeller(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(w, r)
	if !ok {
		return
	}

	contact, err := h.marketplace.ContactSeller(id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contact)
}

// ListCategories returns every category with its listing count
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.marketplace.CategoryCounts())
}

// CategoryCount returns the number of listings in one category
func (h *Handler) CategoryCount(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	if !models.IsCategory(category) {
		respondError(w, http.StatusNotFound, "Unknown category")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"count":    h.marketplace.CountByCategory(category),
	})
}

// Stats returns catalog totals per category and location
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.marketplace.Stats())
}

// Toasts returns the toasts currently visible
func (h *Handler) Toasts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.marketplace.Toasts())
}

// listingID parses the {id} route variable, answering 400 when it does not fit an int64
func listingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid listing ID")
		return 0, false
	}
	return id, true
}

// respondServiceError maps domain errors to HTTP status codes
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Please fill all required fields",
			"fields": verr.Fields,
		})
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, "Listing not found")
	default:
		h.logger.Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
