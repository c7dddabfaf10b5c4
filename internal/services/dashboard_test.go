package services

import (
	"context"
	"testing"

	"gearshare-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Load(t *testing.T) {
	ctx := context.Background()
	resources := newFakeResourceStore()
	bookings := newFakeBookingStore(resources)
	bookingSvc := NewBookingService(bookings, resources)
	svc := NewDashboardService(resources, bookings)

	owned := seedResource(t, resources, "alice", true)
	theirs := seedResource(t, resources, "bob", true)

	// Alice books Bob's resource; Carol requests Alice's.
	_, err := bookingSvc.Create(ctx, "alice", CreateBookingRequest{
		ResourceID: theirs.ID,
		StartDate:  date("2025-01-02"),
		EndDate:    date("2025-01-04"),
	})
	require.NoError(t, err)
	_, err = bookingSvc.Create(ctx, "carol", CreateBookingRequest{
		ResourceID: owned.ID,
		StartDate:  date("2025-01-03"),
		EndDate:    date("2025-01-05"),
	})
	require.NoError(t, err)

	dash := svc.Load(ctx, "alice")
	require.Len(t, dash.Resources, 1)
	assert.Equal(t, owned.ID, dash.Resources[0].ID)
	require.Len(t, dash.Bookings, 1)
	assert.Equal(t, theirs.ID, dash.Bookings[0].ResourceID)
	assert.Equal(t, theirs.Title, dash.Bookings[0].ResourceTitle)
	require.Len(t, dash.Requests, 1)
	assert.Equal(t, "carol", dash.Requests[0].RenterID)
}

func TestDashboardService_PartialFailure(t *testing.T) {
	ctx := context.Background()
	resources := newFakeResourceStore()
	bookings := newFakeBookingStore(resources)
	bookingSvc := NewBookingService(bookings, resources)
	svc := NewDashboardService(resources, bookings)

	theirs := seedResource(t, resources, "bob", true)
	_, err := bookingSvc.Create(ctx, "alice", CreateBookingRequest{
		ResourceID: theirs.ID,
		StartDate:  date("2025-01-02"),
		EndDate:    date("2025-01-04"),
	})
	require.NoError(t, err)

	// The resources read fails; the booking sections still load.
	resources.failAll = true
	dash := svc.Load(ctx, "alice")
	assert.Empty(t, dash.Resources)
	require.Len(t, dash.Bookings, 1)
	assert.NotNil(t, dash.Requests)
}

func TestDashboardService_EmptySectionsAreNotNil(t *testing.T) {
	resources := newFakeResourceStore()
	bookings := newFakeBookingStore(resources)
	svc := NewDashboardService(resources, bookings)

	dash := svc.Load(context.Background(), "nobody")
	assert.NotNil(t, dash.Resources)
	assert.NotNil(t, dash.Bookings)
	assert.NotNil(t, dash.Requests)
	assert.Empty(t, dash.Resources)
}

func TestDashboardService_DeleteRemovesFromList(t *testing.T) {
	ctx := context.Background()
	resources := newFakeResourceStore()
	bookings := newFakeBookingStore(resources)
	resourceSvc := NewResourceService(resources)
	svc := NewDashboardService(resources, bookings)

	owned := seedResource(t, resources, "alice", true)
	require.NoError(t, resourceSvc.Delete(ctx, "alice", owned.ID))

	dash := svc.Load(ctx, "alice")
	assert.Empty(t, dash.Resources)
}

func TestEventHub_OfflineUser(t *testing.T) {
	hub := NewEventHub()

	assert.False(t, hub.IsOnline("nobody"))
	err := hub.SendToUser("nobody", Event{Type: "booking_requested"})
	require.Error(t, err)

	b := &models.Booking{ID: "b1", ResourceID: "r1", Status: models.BookingPending}
	require.Error(t, hub.NotifyBookingRequested("nobody", b))
}
