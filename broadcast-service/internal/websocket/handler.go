package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development (use proper CORS in production)
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler handles WebSocket connections
type Handler struct {
	manager *Manager
	logger  *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(manager *Manager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// SetupRoutes configures WebSocket routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// WebSocket endpoint: /ws/categories/{category}, or /ws/categories/all
	router.HandleFunc("/ws/categories/{category}", h.HandleWebSocket)

	// Health check
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	// Stats endpoint
	router.HandleFunc("/stats/categories/{category}", h.GetStats).Methods("GET")

	return router
}

// welcome is the first message a client receives
type welcome struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	ClientID string `json:"clientId"`
}

// HandleWebSocket upgrades HTTP connection to WebSocket
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	category, ok := watchable(r)
	if !ok {
		http.Error(w, "Unknown category", http.StatusNotFound)
		return
	}

	// Upgrade connection to WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:       uuid.New().String(),
		Category: category,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
	}

	// Queue the welcome message before the writer starts
	msg, _ := json.Marshal(welcome{Type: "connected", Category: category, ClientID: client.ID})
	client.Send <- msg

	if !h.manager.RegisterClient(client) {
		conn.Close()
		return
	}

	// Start reading from client (handles disconnects)
	go client.readPump(h.manager)
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "broadcast-service",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// GetStats returns the number of live viewers of a category
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	category, ok := watchable(r)
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "Unknown category"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"category":    category,
		"subscribers": h.manager.GetSubscriberCount(category),
	})
}

// watchable returns the {category} route variable if clients may watch it
func watchable(r *http.Request) (string, bool) {
	category := mux.Vars(r)["category"]
	return category, category == models.AllFilter || models.IsCategory(category)
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
