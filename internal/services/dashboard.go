package services

import (
	"context"

	"gearshare-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// Dashboard aggregates everything an identity sees on their dashboard:
// the resources they own, the bookings they made and the booking requests
// received against their resources.
type Dashboard struct {
	Resources []*models.Resource            `json:"resources"`
	Bookings  []*models.BookingWithResource `json:"bookings"`
	Requests  []*models.BookingWithResource `json:"requests"`
}

// DashboardService composes the three dashboard reads
type DashboardService struct {
	resources ResourceStore
	bookings  BookingStore
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(resources ResourceStore, bookings BookingStore) *DashboardService {
	return &DashboardService{
		resources: resources,
		bookings:  bookings,
	}
}

// Load issues the three dashboard reads independently. A failed read is
// logged and its section left empty; one failing read never hides the
// results of the others.
func (s *DashboardService) Load(ctx context.Context, userID string) *Dashboard {
	dash := &Dashboard{
		Resources: make([]*models.Resource, 0),
		Bookings:  make([]*models.BookingWithResource, 0),
		Requests:  make([]*models.BookingWithResource, 0),
	}

	if owned, err := s.resources.ListByOwner(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load owned resources")
	} else {
		dash.Resources = owned
	}

	if made, err := s.bookings.ListByRenter(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load bookings made")
	} else {
		dash.Bookings = made
	}

	if received, err := s.bookings.ListByOwner(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load booking requests")
	} else {
		dash.Requests = received
	}

	return dash
}
