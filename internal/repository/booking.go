package repository

import (
	"context"
	"errors"
	"fmt"

	"gearshare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository handles database operations for bookings
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create creates a new booking
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (id, resource_id, renter_id, owner_id, start_date, end_date, total_price, status, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.ResourceID, b.RenterID, b.OwnerID, b.StartDate, b.EndDate,
		b.TotalPrice, b.Status, b.PaymentMethod, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `
		SELECT id, resource_id, renter_id, owner_id, start_date, end_date, total_price, status, payment_method, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var b models.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.ResourceID, &b.RenterID, &b.OwnerID, &b.StartDate, &b.EndDate,
		&b.TotalPrice, &b.Status, &b.PaymentMethod, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// ListByRenter retrieves bookings made by a renter, joined with resource
// summary fields, newest first
func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*models.BookingWithResource, error) {
	return r.listJoined(ctx, `b.renter_id = $1`, renterID)
}

// ListByOwner retrieves booking requests received against an owner's
// resources, joined with resource summary fields, newest first
func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.BookingWithResource, error) {
	return r.listJoined(ctx, `b.owner_id = $1`, ownerID)
}

func (r *BookingRepository) listJoined(ctx context.Context, where string, arg any) ([]*models.BookingWithResource, error) {
	query := `
		SELECT b.id, b.resource_id, b.renter_id, b.owner_id, b.start_date, b.end_date,
		       b.total_price, b.status, b.payment_method, b.created_at, b.updated_at,
		       res.title, res.location, res.image_url
		FROM bookings b
		JOIN resources res ON res.id = b.resource_id
		WHERE ` + where + `
		ORDER BY b.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.BookingWithResource, 0)
	for rows.Next() {
		var b models.BookingWithResource
		err := rows.Scan(
			&b.ID, &b.ResourceID, &b.RenterID, &b.OwnerID, &b.StartDate, &b.EndDate,
			&b.TotalPrice, &b.Status, &b.PaymentMethod, &b.CreatedAt, &b.UpdatedAt,
			&b.ResourceTitle, &b.ResourceLocation, &b.ResourceImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read booking rows: %w", err)
	}
	return bookings, nil
}

// UpdateStatus sets the status of a booking
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return nil
}
