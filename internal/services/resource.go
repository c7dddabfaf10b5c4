package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gearshare-backend/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotOwner signals the caller does not own the resource.
	ErrNotOwner = errors.New("caller is not the owner of this resource")
	// ErrUnknownCategory signals a category outside the fixed set.
	ErrUnknownCategory = errors.New("unknown category")
)

// ResourceStore is the persistence surface the resource service needs.
type ResourceStore interface {
	Create(ctx context.Context, res *models.Resource) error
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	ListAvailable(ctx context.Context) ([]*models.Resource, error)
	ListAvailableLimit(ctx context.Context, limit int) ([]*models.Resource, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Resource, error)
	Update(ctx context.Context, res *models.Resource) error
	Delete(ctx context.Context, id string) error
}

// ResourceService handles listing, search and owner-scoped mutations
type ResourceService struct {
	resources ResourceStore
}

// NewResourceService creates a new resource service
func NewResourceService(resources ResourceStore) *ResourceService {
	return &ResourceService{resources: resources}
}

const featuredLimit = 6

// List retrieves available resources newest first and applies two
// composable predicates: a case-insensitive substring match of search
// against title, description or location, and an exact category match.
// Both must hold; an empty term or category passes everything through.
func (s *ResourceService) List(ctx context.Context, search string, category models.Category) ([]*models.Resource, error) {
	if category != "" && !models.ValidCategory(category) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	all, err := s.resources.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Resource, 0, len(all))
	for _, res := range all {
		if matchesSearch(res, search) && matchesCategory(res, category) {
			filtered = append(filtered, res)
		}
	}
	return filtered, nil
}

// Featured retrieves a bounded sample of available resources for the
// landing view, newest first.
func (s *ResourceService) Featured(ctx context.Context) ([]*models.Resource, error) {
	return s.resources.ListAvailableLimit(ctx, featuredLimit)
}

// Get retrieves one resource. Available resources are public; the owner can
// see their own regardless of the availability flag, anyone else gets
// repository.ErrNotFound semantics via ErrResourceUnavailable.
func (s *ResourceService) Get(ctx context.Context, id, viewerID string) (*models.Resource, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.IsAvailable && res.OwnerID != viewerID {
		return nil, ErrResourceUnavailable
	}
	return res, nil
}

// ListOwned retrieves all resources owned by the caller, including
// unavailable ones.
func (s *ResourceService) ListOwned(ctx context.Context, ownerID string) ([]*models.Resource, error) {
	return s.resources.ListByOwner(ctx, ownerID)
}

// ResourceRequest represents a request to create or update a resource
type ResourceRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      models.Category `json:"category"`
	PricePerDay   float64         `json:"price_per_day"`
	Location      string          `json:"location"`
	ImageURL      *string         `json:"image_url,omitempty"`
	AvailableFrom time.Time       `json:"available_from"`
	AvailableTo   time.Time       `json:"available_to"`
	IsAvailable   *bool           `json:"is_available,omitempty"`
}

func (req *ResourceRequest) validate() error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !models.ValidCategory(req.Category) {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, req.Category)
	}
	if req.PricePerDay < 0 {
		return fmt.Errorf("%w: price_per_day must be non-negative", ErrValidation)
	}
	if strings.TrimSpace(req.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrValidation)
	}
	if req.AvailableFrom.IsZero() || req.AvailableTo.IsZero() {
		return fmt.Errorf("%w: availability window is required", ErrValidation)
	}
	return nil
}

// Create creates a resource owned by ownerID with the availability flag set
func (s *ResourceService) Create(ctx context.Context, ownerID string, req ResourceRequest) (*models.Resource, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	res := &models.Resource{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Category:      req.Category,
		PricePerDay:   req.PricePerDay,
		Location:      strings.TrimSpace(req.Location),
		ImageURL:      req.ImageURL,
		AvailableFrom: req.AvailableFrom,
		AvailableTo:   req.AvailableTo,
		IsAvailable:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.resources.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Update updates a resource; only its owner may do so
func (s *ResourceService) Update(ctx context.Context, userID, resourceID string, req ResourceRequest) (*models.Resource, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if res.OwnerID != userID {
		return nil, ErrNotOwner
	}

	res.Title = strings.TrimSpace(req.Title)
	res.Description = req.Description
	res.Category = req.Category
	res.PricePerDay = req.PricePerDay
	res.Location = strings.TrimSpace(req.Location)
	res.ImageURL = req.ImageURL
	res.AvailableFrom = req.AvailableFrom
	res.AvailableTo = req.AvailableTo
	if req.IsAvailable != nil {
		res.IsAvailable = *req.IsAvailable
	}

	if err := s.resources.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Delete deletes a resource; only its owner may do so
func (s *ResourceService) Delete(ctx context.Context, userID, resourceID string) error {
	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return err
	}
	if res.OwnerID != userID {
		return ErrNotOwner
	}
	return s.resources.Delete(ctx, resourceID)
}

func matchesSearch(res *models.Resource, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(res.Title), term) ||
		strings.Contains(strings.ToLower(res.Description), term) ||
		strings.Contains(strings.ToLower(res.Location), term)
}

func matchesCategory(res *models.Resource, category models.Category) bool {
	return category == "" || res.Category == category
}
