package handlers

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"gearshare-backend/internal/middleware"
	"gearshare-backend/internal/models"
	"gearshare-backend/internal/repository"
	"gearshare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// In-memory stores backing the real services in handler tests.

type memProfileStore struct {
	profiles map[string]*models.Profile
}

func (m *memProfileStore) Create(_ context.Context, p *models.Profile) error {
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m *memProfileStore) GetByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, repository.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *memProfileStore) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range m.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("profile by email: %w", repository.ErrNotFound)
}

func (m *memProfileStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, p := range m.profiles {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProfileStore) Update(_ context.Context, p *models.Profile) error {
	if _, ok := m.profiles[p.ID]; !ok {
		return fmt.Errorf("profile %s: %w", p.ID, repository.ErrNotFound)
	}
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

type memResourceStore struct {
	resources map[string]*models.Resource
}

func (m *memResourceStore) Create(_ context.Context, res *models.Resource) error {
	cp := *res
	m.resources[res.ID] = &cp
	return nil
}

func (m *memResourceStore) GetByID(_ context.Context, id string) (*models.Resource, error) {
	res, ok := m.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %s: %w", id, repository.ErrNotFound)
	}
	cp := *res
	return &cp, nil
}

func (m *memResourceStore) ListAvailable(_ context.Context) ([]*models.Resource, error) {
	out := make([]*models.Resource, 0)
	for _, res := range m.resources {
		if res.IsAvailable {
			cp := *res
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memResourceStore) ListAvailableLimit(ctx context.Context, limit int) ([]*models.Resource, error) {
	all, err := m.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memResourceStore) ListByOwner(_ context.Context, ownerID string) ([]*models.Resource, error) {
	out := make([]*models.Resource, 0)
	for _, res := range m.resources {
		if res.OwnerID == ownerID {
			cp := *res
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memResourceStore) Update(_ context.Context, res *models.Resource) error {
	if _, ok := m.resources[res.ID]; !ok {
		return fmt.Errorf("resource %s: %w", res.ID, repository.ErrNotFound)
	}
	cp := *res
	m.resources[res.ID] = &cp
	return nil
}

func (m *memResourceStore) Delete(_ context.Context, id string) error {
	if _, ok := m.resources[id]; !ok {
		return fmt.Errorf("resource %s: %w", id, repository.ErrNotFound)
	}
	delete(m.resources, id)
	return nil
}

type memBookingStore struct {
	bookings  map[string]*models.Booking
	resources *memResourceStore
}

func (m *memBookingStore) Create(_ context.Context, b *models.Booking) error {
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memBookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingStore) ListByRenter(ctx context.Context, renterID string) ([]*models.BookingWithResource, error) {
	return m.list(ctx, func(b *models.Booking) bool { return b.RenterID == renterID })
}

func (m *memBookingStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.BookingWithResource, error) {
	return m.list(ctx, func(b *models.Booking) bool { return b.OwnerID == ownerID })
}

func (m *memBookingStore) list(ctx context.Context, match func(*models.Booking) bool) ([]*models.BookingWithResource, error) {
	out := make([]*models.BookingWithResource, 0)
	for _, b := range m.bookings {
		if !match(b) {
			continue
		}
		joined := &models.BookingWithResource{Booking: *b}
		if res, err := m.resources.GetByID(ctx, b.ResourceID); err == nil {
			joined.ResourceTitle = res.Title
			joined.ResourceLocation = res.Location
			joined.ResourceImageURL = res.ImageURL
		}
		out = append(out, joined)
	}
	return out, nil
}

func (m *memBookingStore) UpdateStatus(_ context.Context, id string, status models.BookingStatus) error {
	b, ok := m.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

// testEnv wires the real services and router over the in-memory stores.
type testEnv struct {
	server    *httptest.Server
	auth      *services.AuthService
	profiles  *memProfileStore
	resources *memResourceStore
	bookings  *memBookingStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	profiles := &memProfileStore{profiles: make(map[string]*models.Profile)}
	resources := &memResourceStore{resources: make(map[string]*models.Resource)}
	bookings := &memBookingStore{bookings: make(map[string]*models.Booking), resources: resources}

	authService := services.NewAuthService(profiles, "test-secret")
	resourceService := services.NewResourceService(resources)
	bookingService := services.NewBookingService(bookings, resources)
	dashboardService := services.NewDashboardService(resources, bookings)
	hub := services.NewEventHub()

	authHandler := NewAuthHandler(authService)
	resourceHandler := NewResourceHandler(resourceService, nil)
	bookingHandler := NewBookingHandler(bookingService, authService, hub, nil)
	dashboardHandler := NewDashboardHandler(dashboardService)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/resources", resourceHandler.List)
		r.Get("/resources/featured", resourceHandler.Featured)

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthMiddleware(authService))
			r.Get("/resources/{resource_id}", resourceHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))
			r.Get("/auth/me", authHandler.Me)
			r.Put("/profile", authHandler.UpdateProfile)
			r.Post("/resources", resourceHandler.Create)
			r.Put("/resources/{resource_id}", resourceHandler.Update)
			r.Delete("/resources/{resource_id}", resourceHandler.Delete)
			r.Post("/bookings", bookingHandler.Create)
			r.Get("/bookings/{booking_id}", bookingHandler.Get)
			r.Patch("/bookings/{booking_id}/status", bookingHandler.UpdateStatus)
			r.Get("/dashboard", dashboardHandler.Get)
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testEnv{
		server:    server,
		auth:      authService,
		profiles:  profiles,
		resources: resources,
		bookings:  bookings,
	}
}

// registerUser creates an account directly through the service and returns
// its id and bearer token.
func (e *testEnv) registerUser(t *testing.T, email string) (string, string) {
	t.Helper()
	profile, token, err := e.auth.Register(context.Background(), services.RegisterRequest{
		Email:    email,
		Password: "longenough",
		FullName: "Test User",
	})
	require.NoError(t, err)
	return profile.ID, token
}

func (e *testEnv) seedResource(t *testing.T, ownerID string, available bool) *models.Resource {
	t.Helper()
	now := time.Now()
	res := &models.Resource{
		ID:            fmt.Sprintf("res-%d", len(e.resources.resources)+1),
		OwnerID:       ownerID,
		Title:         "Cordless drill",
		Description:   "18V",
		Category:      models.CategoryTools,
		PricePerDay:   5,
		Location:      "Springfield",
		AvailableFrom: now,
		AvailableTo:   now.AddDate(0, 1, 0),
		IsAvailable:   available,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, e.resources.Create(context.Background(), res))
	return res
}
