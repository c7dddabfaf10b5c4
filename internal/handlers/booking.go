package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"gearshare-backend/internal/middleware"
	"gearshare-backend/internal/models"
	"gearshare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	bookingService *services.BookingService
	authService    *services.AuthService
	hub            *services.EventHub
	push           *services.PushService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(
	bookingService *services.BookingService,
	authService *services.AuthService,
	hub *services.EventHub,
	push *services.PushService,
) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		authService:    authService,
		hub:            hub,
		push:           push,
	}
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	renterID := middleware.GetUserID(ctx)

	var req services.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	booking, err := h.bookingService.Create(ctx, renterID, req)
	if err != nil {
		log.Error().
			Err(err).
			Str("renter_id", renterID).
			Str("resource_id", req.ResourceID).
			Msg("Failed to create booking")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("booking_id", booking.ID).
		Str("resource_id", booking.ResourceID).
		Str("renter_id", renterID).
		Float64("total_price", booking.TotalPrice).
		Msg("Booking created")

	// Best-effort notifications; the booking itself already succeeded.
	if h.hub.IsOnline(booking.OwnerID) {
		if err := h.hub.NotifyBookingRequested(booking.OwnerID, booking); err != nil {
			log.Error().Err(err).Str("owner_id", booking.OwnerID).Msg("Failed to notify owner")
		}
	}
	h.pushToUser(ctx, booking.OwnerID, booking, true)

	respondJSON(w, http.StatusCreated, booking)
}

// UpdateStatusRequest represents the request body for a status transition
type UpdateStatusRequest struct {
	Status models.BookingStatus `json:"status"`
}

// UpdateStatus handles PATCH /api/v1/bookings/{booking_id}/status
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)
	bookingID := chi.URLParam(r, "booking_id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	booking, err := h.bookingService.UpdateStatus(ctx, actorID, bookingID, req.Status)
	if err != nil {
		log.Error().
			Err(err).
			Str("actor_id", actorID).
			Str("booking_id", bookingID).
			Str("status", string(req.Status)).
			Msg("Failed to update booking status")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("booking_id", booking.ID).
		Str("status", string(booking.Status)).
		Msg("Booking status updated")

	// Tell the other party what happened.
	counterpart := booking.RenterID
	if actorID == booking.RenterID {
		counterpart = booking.OwnerID
	}
	if h.hub.IsOnline(counterpart) {
		if err := h.hub.NotifyBookingStatusChanged(counterpart, booking); err != nil {
			log.Error().Err(err).Str("user_id", counterpart).Msg("Failed to notify counterpart")
		}
	}
	h.pushToUser(ctx, counterpart, booking, false)

	respondJSON(w, http.StatusOK, booking)
}

// Get handles GET /api/v1/bookings/{booking_id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)
	bookingID := chi.URLParam(r, "booking_id")

	booking, err := h.bookingService.GetByID(ctx, callerID, bookingID)
	if err != nil {
		log.Warn().Err(err).Str("booking_id", bookingID).Msg("Failed to get booking")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, booking)
}

// pushToUser sends an APNs notification if the target user registered a
// device token. Failures are logged inside the push service.
func (h *BookingHandler) pushToUser(ctx context.Context, userID string, booking *models.Booking, requested bool) {
	if h.push == nil {
		return
	}

	profile, err := h.authService.GetProfile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load profile for push")
		return
	}
	if profile.PushToken == nil {
		return
	}

	if requested {
		h.push.NotifyBookingRequested(*profile.PushToken)
	} else {
		h.push.NotifyBookingStatusChanged(*profile.PushToken, string(booking.Status))
	}
}
