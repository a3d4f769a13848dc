package model

import (
	"time"
)

// Location is a geographic point with a human-readable address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// ContactInfo holds optional contact channels for a business.
type ContactInfo struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// Business is a self-registered listing.
type Business struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Location    Location    `json:"location"`
	Images      []string    `json:"images,omitempty"`
	ContactInfo ContactInfo `json:"contact_info"`
	Amenities   []string    `json:"amenities,omitempty"`
	Rating      float64     `json:"rating"`
	ReviewCount int         `json:"review_count"`
	OwnerID     string      `json:"owner_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreateBusinessRequest is the request to register a business listing.
type CreateBusinessRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Location    Location    `json:"location"`
	Images      []string    `json:"images,omitempty"`
	ContactInfo ContactInfo `json:"contact_info"`
	Amenities   []string    `json:"amenities,omitempty"`
}

// UpdateBusinessRequest is a partial update to a listing.
type UpdateBusinessRequest struct {
	Name        string       `json:"name,omitempty"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	Images      []string     `json:"images,omitempty"`
	ContactInfo *ContactInfo `json:"contact_info,omitempty"`
	Amenities   []string     `json:"amenities,omitempty"`
}

// Review is a user review of a business.
type Review struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	UserID     string    `json:"user_id"`
	Rating     float64   `json:"rating"`
	Text       string    `json:"text"`
	Images     []string  `json:"images,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateReviewRequest is the request to post a review.
type CreateReviewRequest struct {
	Rating float64  `json:"rating"`
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"`
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a user booking against a business.
type Booking struct {
	ID         string        `json:"id"`
	BusinessID string        `json:"business_id"`
	UserID     string        `json:"user_id"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	Status     BookingStatus `json:"status"`
	Notes      string        `json:"notes,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// CreateBookingRequest is the request to create a booking.
type CreateBookingRequest struct {
	BusinessID string `json:"business_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Notes      string `json:"notes,omitempty"`
}

// UserProfile is the stored profile for an authenticated user.
type UserProfile struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Favorites   []string  `json:"favorites,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
