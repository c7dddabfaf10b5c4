package models

import "time"

// Category is the fixed set of resource categories.
type Category string

const (
	CategoryTools       Category = "tools"
	CategoryVehicles    Category = "vehicles"
	CategoryElectronics Category = "electronics"
	CategorySports      Category = "sports"
	CategoryOutdoors    Category = "outdoors"
	CategoryOther       Category = "other"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryTools, CategoryVehicles, CategoryElectronics,
		CategorySports, CategoryOutdoors, CategoryOther:
		return true
	}
	return false
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ValidBookingStatus reports whether s is one of the known statuses.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingRejected,
		BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Profile represents an authenticated identity. Exactly one exists per
// account; it is created together with the account at registration.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        *string   `json:"phone,omitempty"`
	Location     *string   `json:"location,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	PushToken    *string   `json:"push_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Resource represents a shareable item listed by an owner
type Resource struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      Category  `json:"category"`
	PricePerDay   float64   `json:"price_per_day"`
	Location      string    `json:"location"`
	ImageURL      *string   `json:"image_url,omitempty"`
	AvailableFrom time.Time `json:"available_from"`
	AvailableTo   time.Time `json:"available_to"`
	IsAvailable   bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Booking represents a renter's reservation request against a resource.
// OwnerID is a copy of the resource's owner at booking time.
type Booking struct {
	ID            string        `json:"id"`
	ResourceID    string        `json:"resource_id"`
	RenterID      string        `json:"renter_id"`
	OwnerID       string        `json:"owner_id"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
	TotalPrice    float64       `json:"total_price"`
	Status        BookingStatus `json:"status"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// BookingWithResource is a booking joined with summary fields of its
// resource, used by the dashboard views.
type BookingWithResource struct {
	Booking
	ResourceTitle    string  `json:"resource_title"`
	ResourceLocation string  `json:"resource_location"`
	ResourceImageURL *string `json:"resource_image_url,omitempty"`
}
