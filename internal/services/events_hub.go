package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gearshare-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event represents a message pushed to a connected client
type Event struct {
	Type       string               `json:"type"`
	Timestamp  int64                `json:"timestamp"`
	BookingID  string               `json:"booking_id,omitempty"`
	ResourceID string               `json:"resource_id,omitempty"`
	Status     models.BookingStatus `json:"status,omitempty"`
	Message    string               `json:"message,omitempty"`
}

// EventHub manages WebSocket connections keyed by user ID. Delivery is
// best-effort: offline users simply miss events.
type EventHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewEventHub creates a new event hub
func NewEventHub() *EventHub {
	return &EventHub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register registers a WebSocket connection for a user, replacing any
// existing one.
func (h *EventHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a user's WebSocket connection
func (h *EventHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[userID]; ok {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a user has a live connection
func (h *EventHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// SendToUser sends an event to a specific user
func (h *EventHub) SendToUser(userID string, event Event) error {
	h.mu.RLock()
	conn, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send event: %w", err)
	}

	return nil
}

// NotifyBookingRequested tells the resource owner a new request arrived
func (h *EventHub) NotifyBookingRequested(ownerID string, b *models.Booking) error {
	return h.SendToUser(ownerID, Event{
		Type:       "booking_requested",
		Timestamp:  time.Now().UnixMilli(),
		BookingID:  b.ID,
		ResourceID: b.ResourceID,
		Status:     b.Status,
	})
}

// NotifyBookingStatusChanged tells a participant the booking moved state
func (h *EventHub) NotifyBookingStatusChanged(userID string, b *models.Booking) error {
	return h.SendToUser(userID, Event{
		Type:       "booking_status_changed",
		Timestamp:  time.Now().UnixMilli(),
		BookingID:  b.ID,
		ResourceID: b.ResourceID,
		Status:     b.Status,
	})
}
