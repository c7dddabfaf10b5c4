package handlers

import (
	"net/http"

	"gearshare-backend/internal/middleware"
	"gearshare-backend/internal/services"
)

// DashboardHandler handles the aggregated owner/renter dashboard view
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get handles GET /api/v1/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	respondJSON(w, http.StatusOK, h.dashboardService.Load(ctx, userID))
}
