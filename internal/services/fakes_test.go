package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gearshare-backend/internal/models"
	"gearshare-backend/internal/repository"
)

// In-memory stores standing in for the pgx repositories.

type fakeProfileStore struct {
	profiles map[string]*models.Profile
	failAll  bool
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileStore) Create(_ context.Context, p *models.Profile) error {
	if f.failAll {
		return fmt.Errorf("store down")
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfileStore) GetByID(_ context.Context, id string) (*models.Profile, error) {
	if f.failAll {
		return nil, fmt.Errorf("store down")
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, repository.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("profile by email: %w", repository.ErrNotFound)
}

func (f *fakeProfileStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfileStore) Update(_ context.Context, p *models.Profile) error {
	if _, ok := f.profiles[p.ID]; !ok {
		return fmt.Errorf("profile %s: %w", p.ID, repository.ErrNotFound)
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

type fakeResourceStore struct {
	resources map[string]*models.Resource
	failAll   bool
}

func newFakeResourceStore() *fakeResourceStore {
	return &fakeResourceStore{resources: make(map[string]*models.Resource)}
}

func (f *fakeResourceStore) Create(_ context.Context, res *models.Resource) error {
	if f.failAll {
		return fmt.Errorf("store down")
	}
	cp := *res
	f.resources[res.ID] = &cp
	return nil
}

func (f *fakeResourceStore) GetByID(_ context.Context, id string) (*models.Resource, error) {
	if f.failAll {
		return nil, fmt.Errorf("store down")
	}
	res, ok := f.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %s: %w", id, repository.ErrNotFound)
	}
	cp := *res
	return &cp, nil
}

func (f *fakeResourceStore) ListAvailable(_ context.Context) ([]*models.Resource, error) {
	if f.failAll {
		return nil, fmt.Errorf("store down")
	}
	out := make([]*models.Resource, 0)
	for _, res := range f.resources {
		if res.IsAvailable {
			cp := *res
			out = append(out, &cp)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeResourceStore) ListAvailableLimit(ctx context.Context, limit int) ([]*models.Resource, error) {
	all, err := f.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeResourceStore) ListByOwner(_ context.Context, ownerID string) ([]*models.Resource, error) {
	if f.failAll {
		return nil, fmt.Errorf("store down")
	}
	out := make([]*models.Resource, 0)
	for _, res := range f.resources {
		if res.OwnerID == ownerID {
			cp := *res
			out = append(out, &cp)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeResourceStore) Update(_ context.Context, res *models.Resource) error {
	if _, ok := f.resources[res.ID]; !ok {
		return fmt.Errorf("resource %s: %w", res.ID, repository.ErrNotFound)
	}
	cp := *res
	f.resources[res.ID] = &cp
	return nil
}

func (f *fakeResourceStore) Delete(_ context.Context, id string) error {
	if _, ok := f.resources[id]; !ok {
		return fmt.Errorf("resource %s: %w", id, repository.ErrNotFound)
	}
	delete(f.resources, id)
	return nil
}

func sortNewestFirst(resources []*models.Resource) {
	sort.Slice(resources, func(i, j int) bool {
		return resources[i].CreatedAt.After(resources[j].CreatedAt)
	})
}

type fakeBookingStore struct {
	bookings  map[string]*models.Booking
	resources *fakeResourceStore
	failAll   bool
}

func newFakeBookingStore(resources *fakeResourceStore) *fakeBookingStore {
	return &fakeBookingStore{
		bookings:  make(map[string]*models.Booking),
		resources: resources,
	}
}

func (f *fakeBookingStore) Create(_ context.Context, b *models.Booking) error {
	if f.failAll {
		return fmt.Errorf("store down")
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) ListByRenter(ctx context.Context, renterID string) ([]*models.BookingWithResource, error) {
	return f.list(ctx, func(b *models.Booking) bool { return b.RenterID == renterID })
}

func (f *fakeBookingStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.BookingWithResource, error) {
	return f.list(ctx, func(b *models.Booking) bool { return b.OwnerID == ownerID })
}

func (f *fakeBookingStore) list(ctx context.Context, match func(*models.Booking) bool) ([]*models.BookingWithResource, error) {
	if f.failAll {
		return nil, fmt.Errorf("store down")
	}
	out := make([]*models.BookingWithResource, 0)
	for _, b := range f.bookings {
		if !match(b) {
			continue
		}
		joined := &models.BookingWithResource{Booking: *b}
		if res, err := f.resources.GetByID(ctx, b.ResourceID); err == nil {
			joined.ResourceTitle = res.Title
			joined.ResourceLocation = res.Location
			joined.ResourceImageURL = res.ImageURL
		}
		out = append(out, joined)
	}
	return out, nil
}

func (f *fakeBookingStore) UpdateStatus(_ context.Context, id string, status models.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}
