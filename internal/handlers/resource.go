package handlers

import (
	"encoding/json"
	"net/http"

	"gearshare-backend/internal/middleware"
	"gearshare-backend/internal/models"
	"gearshare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ResourceHandler handles resource-related HTTP requests
type ResourceHandler struct {
	resourceService *services.ResourceService
	imageService    *services.ImageService
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resourceService *services.ResourceService, imageService *services.ImageService) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		imageService:    imageService,
	}
}

// List handles GET /api/v1/resources?q=&category=
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := r.URL.Query().Get("q")
	category := models.Category(r.URL.Query().Get("category"))

	resources, err := h.resourceService.List(ctx, search, category)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list resources")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resources)
}

// Featured handles GET /api/v1/resources/featured. This view is
// non-critical, so a failed read degrades to an empty list.
func (h *ResourceHandler) Featured(w http.ResponseWriter, r *http.Request) {
	resources, err := h.resourceService.Featured(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load featured resources")
		resources = []*models.Resource{}
	}

	respondJSON(w, http.StatusOK, resources)
}

// Get handles GET /api/v1/resources/{resource_id}
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resourceID := chi.URLParam(r, "resource_id")
	viewerID := middleware.GetUserID(ctx)

	resource, err := h.resourceService.Get(ctx, resourceID, viewerID)
	if err != nil {
		log.Warn().Err(err).Str("resource_id", resourceID).Msg("Failed to get resource")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resource)
}

// Create handles POST /api/v1/resources
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.ResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resource, err := h.resourceService.Create(ctx, userID, req)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create resource")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("resource_id", resource.ID).
		Str("category", string(resource.Category)).
		Msg("Resource created")

	respondJSON(w, http.StatusCreated, resource)
}

// Update handles PUT /api/v1/resources/{resource_id}
func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	resourceID := chi.URLParam(r, "resource_id")

	var req services.ResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resource, err := h.resourceService.Update(ctx, userID, resourceID, req)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("resource_id", resourceID).
			Msg("Failed to update resource")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("resource_id", resourceID).Msg("Resource updated")

	respondJSON(w, http.StatusOK, resource)
}

// Delete handles DELETE /api/v1/resources/{resource_id}
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	resourceID := chi.URLParam(r, "resource_id")

	if err := h.resourceService.Delete(ctx, userID, resourceID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("resource_id", resourceID).
			Msg("Failed to delete resource")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("resource_id", resourceID).
		Msg("Resource deleted")

	w.WriteHeader(http.StatusNoContent)
}

// PrepareImageUploadRequest represents the request body for an image upload
type PrepareImageUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// PrepareImageUpload handles POST /api/v1/resources/images
func (h *ResourceHandler) PrepareImageUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if h.imageService == nil {
		respondError(w, "Image uploads are not configured", http.StatusNotImplemented)
		return
	}

	var req PrepareImageUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Filename == "" || req.ContentType == "" {
		respondError(w, "filename and content_type are required", http.StatusBadRequest)
		return
	}

	target, err := h.imageService.PrepareUpload(ctx, userID, req.Filename, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to prepare image upload")
		respondError(w, "Failed to prepare image upload", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, target)
}
