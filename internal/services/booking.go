package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gearshare-backend/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrResourceUnavailable signals the resource is missing or not open
	// for booking.
	ErrResourceUnavailable = errors.New("resource is not available")
	// ErrOwnBooking signals an owner tried to book their own resource.
	ErrOwnBooking = errors.New("cannot book your own resource")
	// ErrNotParticipant signals the caller is neither renter nor owner of
	// the booking.
	ErrNotParticipant = errors.New("caller is not a participant of this booking")
	// ErrInvalidTransition signals a status change not allowed from the
	// booking's current state for the caller's role.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// BookingStore is the persistence surface the booking service needs.
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByRenter(ctx context.Context, renterID string) ([]*models.BookingWithResource, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.BookingWithResource, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
}

// BookingService handles reservation requests and their status lifecycle
type BookingService struct {
	bookings  BookingStore
	resources ResourceStore
}

// NewBookingService creates a new booking service
func NewBookingService(bookings BookingStore, resources ResourceStore) *BookingService {
	return &BookingService{
		bookings:  bookings,
		resources: resources,
	}
}

// TotalPrice computes the rental total for a date range: the span is
// rounded up to whole days, floored at one day, then multiplied by the
// per-day rate. A zero or negative span therefore charges one day.
func TotalPrice(start, end time.Time, pricePerDay float64) float64 {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return float64(days) * pricePerDay
}

// CreateBookingRequest represents a request to book a resource
type CreateBookingRequest struct {
	ResourceID    string    `json:"resource_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	PaymentMethod *string   `json:"payment_method,omitempty"`
}

// Create creates a booking with status pending. The total price is always
// computed here, never taken from the client, and the renter must not be
// the resource's owner. Overlapping bookings on the same resource are not
// rejected.
func (s *BookingService) Create(ctx context.Context, renterID string, req CreateBookingRequest) (*models.Booking, error) {
	if req.ResourceID == "" {
		return nil, fmt.Errorf("%w: resource_id is required", ErrValidation)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start_date and end_date are required", ErrValidation)
	}

	res, err := s.resources.GetByID(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	if !res.IsAvailable {
		return nil, ErrResourceUnavailable
	}
	if res.OwnerID == renterID {
		return nil, ErrOwnBooking
	}

	now := time.Now()
	booking := &models.Booking{
		ID:            uuid.New().String(),
		ResourceID:    res.ID,
		RenterID:      renterID,
		OwnerID:       res.OwnerID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		TotalPrice:    TotalPrice(req.StartDate, req.EndDate, res.PricePerDay),
		Status:        models.BookingPending,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// GetByID retrieves a booking visible to the caller (renter or owner only)
func (s *BookingService) GetByID(ctx context.Context, callerID, bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != callerID && booking.OwnerID != callerID {
		return nil, ErrNotParticipant
	}
	return booking, nil
}

// ListMade retrieves bookings the caller made as a renter
func (s *BookingService) ListMade(ctx context.Context, renterID string) ([]*models.BookingWithResource, error) {
	return s.bookings.ListByRenter(ctx, renterID)
}

// ListReceived retrieves booking requests against the caller's resources
func (s *BookingService) ListReceived(ctx context.Context, ownerID string) ([]*models.BookingWithResource, error) {
	return s.bookings.ListByOwner(ctx, ownerID)
}

// UpdateStatus transitions a booking's status on behalf of actorID.
// The owner resolves pending requests (confirm or reject) and marks
// confirmed rentals completed; either party may cancel while the booking
// is still pending or confirmed.
func (s *BookingService) UpdateStatus(ctx context.Context, actorID, bookingID string, next models.BookingStatus) (*models.Booking, error) {
	if !models.ValidBookingStatus(next) {
		return nil, fmt.Errorf("%w: unknown status %s", ErrValidation, next)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != actorID && booking.OwnerID != actorID {
		return nil, ErrNotParticipant
	}

	if !transitionAllowed(booking, actorID, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, next); err != nil {
		return nil, err
	}
	booking.Status = next
	return booking, nil
}

func transitionAllowed(b *models.Booking, actorID string, next models.BookingStatus) bool {
	isOwner := actorID == b.OwnerID

	switch next {
	case models.BookingConfirmed, models.BookingRejected:
		return isOwner && b.Status == models.BookingPending
	case models.BookingCompleted:
		return isOwner && b.Status == models.BookingConfirmed
	case models.BookingCancelled:
		return b.Status == models.BookingPending || b.Status == models.BookingConfirmed
	}
	return false
}
