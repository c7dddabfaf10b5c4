package repository

import (
	"context"
	"errors"
	"fmt"

	"gearshare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, full_name, phone, location, avatar_url, push_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.Email, p.PasswordHash, p.FullName, p.Phone, p.Location,
		p.AvatarURL, p.PushToken, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `
		SELECT id, email, password_hash, full_name, phone, location, avatar_url, push_token, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	var p models.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Phone, &p.Location,
		&p.AvatarURL, &p.PushToken, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `
		SELECT id, email, password_hash, full_name, phone, location, avatar_url, push_token, created_at, updated_at
		FROM profiles
		WHERE email = $1
	`
	var p models.Profile
	err := r.db.QueryRow(ctx, query, email).Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Phone, &p.Location,
		&p.AvatarURL, &p.PushToken, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile by email: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return &p, nil
}

// EmailExists checks if an email is already registered
func (r *ProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE email = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// Update updates the mutable display fields of a profile
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $1, phone = $2, location = $3, avatar_url = $4, push_token = $5, updated_at = now()
		WHERE id = $6
	`
	result, err := r.db.Exec(ctx, query,
		p.FullName, p.Phone, p.Location, p.AvatarURL, p.PushToken, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", p.ID, ErrNotFound)
	}
	return nil
}
