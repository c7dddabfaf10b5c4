package repository

import (
	"context"
	"errors"
	"fmt"

	"gearshare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const resourceColumns = `id, owner_id, title, description, category, price_per_day, location, image_url, available_from, available_to, is_available, created_at, updated_at`

// ResourceRepository handles database operations for resources
type ResourceRepository struct {
	db *pgxpool.Pool
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(db *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func scanResource(row pgx.Row) (*models.Resource, error) {
	var res models.Resource
	err := row.Scan(
		&res.ID, &res.OwnerID, &res.Title, &res.Description, &res.Category,
		&res.PricePerDay, &res.Location, &res.ImageURL, &res.AvailableFrom,
		&res.AvailableTo, &res.IsAvailable, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Create creates a new resource
func (r *ResourceRepository) Create(ctx context.Context, res *models.Resource) error {
	query := `
		INSERT INTO resources (id, owner_id, title, description, category, price_per_day, location, image_url, available_from, available_to, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		res.ID, res.OwnerID, res.Title, res.Description, res.Category,
		res.PricePerDay, res.Location, res.ImageURL, res.AvailableFrom,
		res.AvailableTo, res.IsAvailable, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

// GetByID retrieves a resource by ID regardless of availability
func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`
	res, err := scanResource(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("resource %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return res, nil
}

// ListAvailable retrieves all available resources, newest first
func (r *ResourceRepository) ListAvailable(ctx context.Context) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE is_available = TRUE ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list available resources: %w", err)
	}
	defer rows.Close()

	return collectResources(rows)
}

// ListAvailableLimit retrieves up to limit available resources, newest first
func (r *ResourceRepository) ListAvailableLimit(ctx context.Context, limit int) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE is_available = TRUE ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list available resources: %w", err)
	}
	defer rows.Close()

	return collectResources(rows)
}

// ListByOwner retrieves all resources owned by ownerID, newest first
func (r *ResourceRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources by owner: %w", err)
	}
	defer rows.Close()

	return collectResources(rows)
}

// Update updates a resource row
func (r *ResourceRepository) Update(ctx context.Context, res *models.Resource) error {
	query := `
		UPDATE resources
		SET title = $1, description = $2, category = $3, price_per_day = $4,
		    location = $5, image_url = $6, available_from = $7, available_to = $8,
		    is_available = $9, updated_at = now()
		WHERE id = $10
	`
	result, err := r.db.Exec(ctx, query,
		res.Title, res.Description, res.Category, res.PricePerDay,
		res.Location, res.ImageURL, res.AvailableFrom, res.AvailableTo,
		res.IsAvailable, res.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resource %s: %w", res.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a resource by ID. Dependent bookings are removed by the
// database's ON DELETE CASCADE rule, not here.
func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resource %s: %w", id, ErrNotFound)
	}
	return nil
}

func collectResources(rows pgx.Rows) ([]*models.Resource, error) {
	resources := make([]*models.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resource rows: %w", err)
	}
	return resources, nil
}
