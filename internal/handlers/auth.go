package handlers

import (
	"encoding/json"
	"net/http"

	"gearshare-backend/internal/middleware"
	"gearshare-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SessionResponse bundles a profile with its session token
type SessionResponse struct {
	Token   string `json:"token"`
	Profile any    `json:"profile"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, token, err := h.authService.Register(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", profile.ID).
		Str("email", profile.Email).
		Msg("Profile registered")

	respondJSON(w, http.StatusCreated, SessionResponse{Token: token, Profile: profile})
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Failed login attempt")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", profile.ID).Msg("Profile logged in")

	respondJSON(w, http.StatusOK, SessionResponse{Token: token, Profile: profile})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	profile, err := h.authService.GetProfile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load profile")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.authService.UpdateProfile(ctx, userID, req)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("Profile updated")

	respondJSON(w, http.StatusOK, profile)
}
