package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/discoverdiani/discovery-platform/internal/model"
	"github.com/discoverdiani/discovery-platform/internal/store"
	"github.com/discoverdiani/discovery-platform/pkg/logger"
)

// Collection names in the document store.
const (
	CollectionUsers      = "users"
	CollectionBusinesses = "businesses"
	CollectionReviews    = "reviews"
	CollectionBookings   = "bookings"
)

// DirectoryService manages business listings, reviews, bookings, and user
// profiles on top of the document store.
type DirectoryService struct {
	store  store.DocumentStore
	logger *logger.Logger
}

// NewDirectoryService creates a new directory service.
func NewDirectoryService(st store.DocumentStore, log *logger.Logger) *DirectoryService {
	return &DirectoryService{store: st, logger: log}
}

// CreateUserProfile stores a profile for a newly authenticated user.
func (s *DirectoryService) CreateUserProfile(ctx context.Context, profile *model.UserProfile) error {
	profile.CreatedAt = time.Now()
	data, err := store.Encode(profile)
	if err != nil {
		return err
	}
	if err := s.store.Create(ctx, CollectionUsers, profile.UID, data); err != nil {
		return fmt.Errorf("failed to create user profile: %w", err)
	}
	return nil
}

// GetUserProfile fetches a profile, or nil when absent.
func (s *DirectoryService) GetUserProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	data, err := s.store.Get(ctx, CollectionUsers, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var profile model.UserProfile
	if err := store.Decode(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// AddFavorite records a business in a user's favorites list.
func (s *DirectoryService) AddFavorite(ctx context.Context, userID, businessID string) error {
	profile, err := s.GetUserProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("user profile not found")
	}

	for _, fav := range profile.Favorites {
		if fav == businessID {
			return nil
		}
	}
	profile.Favorites = append(profile.Favorites, businessID)

	if err := s.store.Update(ctx, CollectionUsers, userID, map[string]any{
		"favorites": profile.Favorites,
	}); err != nil {
		return fmt.Errorf("failed to update favorites: %w", err)
	}
	return nil
}

// RemoveFavorite drops a business from a user's favorites list.
func (s *DirectoryService) RemoveFavorite(ctx context.Context, userID, businessID string) error {
	profile, err := s.GetUserProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("user profile not found")
	}

	kept := profile.Favorites[:0]
	for _, fav := range profile.Favorites {
		if fav != businessID {
			kept = append(kept, fav)
		}
	}

	if err := s.store.Update(ctx, CollectionUsers, userID, map[string]any{
		"favorites": kept,
	}); err != nil {
		return fmt.Errorf("failed to update favorites: %w", err)
	}
	return nil
}

// CreateBusiness registers a new listing owned by ownerID.
func (s *DirectoryService) CreateBusiness(ctx context.Context, ownerID string, req *model.CreateBusinessRequest) (*model.Business, error) {
	now := time.Now()
	business := &model.Business{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Images:      req.Images,
		ContactInfo: req.ContactInfo,
		Amenities:   req.Amenities,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data, err := store.Encode(business)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, CollectionBusinesses, business.ID, data); err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}

	s.logger.Info("business created", "business_id", business.ID, "owner_id", ownerID)
	return business, nil
}

// GetBusiness fetches a listing, or nil when absent.
func (s *DirectoryService) GetBusiness(ctx context.Context, businessID string) (*model.Business, error) {
	data, err := s.store.Get(ctx, CollectionBusinesses, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var business model.Business
	if err := store.Decode(data, &business); err != nil {
		return nil, err
	}
	return &business, nil
}

// UpdateBusiness applies a partial update. Only the listing owner may
// update it.
func (s *DirectoryService) UpdateBusiness(ctx context.Context, ownerID, businessID string, req *model.UpdateBusinessRequest) (*model.Business, error) {
	business, err := s.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, nil
	}
	if business.OwnerID != ownerID {
		return nil, fmt.Errorf("business %s is not owned by caller", businessID)
	}

	if req.Name != "" {
		business.Name = req.Name
	}
	if req.Description != "" {
		business.Description = req.Description
	}
	if req.Category != "" {
		business.Category = req.Category
	}
	if req.Location != nil {
		business.Location = *req.Location
	}
	if req.Images != nil {
		business.Images = req.Images
	}
	if req.ContactInfo != nil {
		business.ContactInfo = *req.ContactInfo
	}
	if req.Amenities != nil {
		business.Amenities = req.Amenities
	}
	business.UpdatedAt = time.Now()

	data, err := store.Encode(business)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, CollectionBusinesses, business.ID, data); err != nil {
		return nil, fmt.Errorf("failed to update business: %w", err)
	}
	return business, nil
}

// GetBusinessesByCategory lists businesses in a category.
func (s *DirectoryService) GetBusinessesByCategory(ctx context.Context, category string) ([]model.Business, error) {
	docs, err := s.store.Query(ctx, CollectionBusinesses, "category", "==", category)
	if err != nil {
		return nil, fmt.Errorf("failed to query businesses: %w", err)
	}
	return decodeBusinesses(docs)
}

// ListBusinesses lists every registered business.
func (s *DirectoryService) ListBusinesses(ctx context.Context) ([]model.Business, error) {
	docs, err := s.store.GetAll(ctx, CollectionBusinesses)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	return decodeBusinesses(docs)
}

// CreateReview stores a review and recomputes the business rating and
// review count from all of its reviews.
func (s *DirectoryService) CreateReview(ctx context.Context, userID, businessID string, req *model.CreateReviewRequest) (*model.Review, error) {
	business, err := s.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, fmt.Errorf("business not found")
	}

	now := time.Now()
	review := &model.Review{
		ID:         uuid.Must(uuid.NewV7()).String(),
		BusinessID: businessID,
		UserID:     userID,
		Rating:     req.Rating,
		Text:       req.Text,
		Images:     req.Images,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	data, err := store.Encode(review)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, CollectionReviews, review.ID, data); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	reviews, err := s.GetBusinessReviews(ctx, businessID)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, r := range reviews {
		total += r.Rating
	}
	rating := total / float64(len(reviews))

	if err := s.store.Update(ctx, CollectionBusinesses, businessID, map[string]any{
		"rating":       rating,
		"review_count": len(reviews),
	}); err != nil {
		return nil, fmt.Errorf("failed to update business rating: %w", err)
	}

	return review, nil
}

// GetBusinessReviews lists all reviews for a business.
func (s *DirectoryService) GetBusinessReviews(ctx context.Context, businessID string) ([]model.Review, error) {
	docs, err := s.store.Query(ctx, CollectionReviews, "business_id", "==", businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}

	reviews := make([]model.Review, 0, len(docs))
	for _, doc := range docs {
		var review model.Review
		if err := store.Decode(doc.Data, &review); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// CreateBooking stores a pending booking.
func (s *DirectoryService) CreateBooking(ctx context.Context, userID string, req *model.CreateBookingRequest) (*model.Booking, error) {
	business, err := s.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, fmt.Errorf("business not found")
	}

	now := time.Now()
	booking := &model.Booking{
		ID:         uuid.Must(uuid.NewV7()).String(),
		BusinessID: req.BusinessID,
		UserID:     userID,
		Date:       req.Date,
		Time:       req.Time,
		Status:     model.BookingPending,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	data, err := store.Encode(booking)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, CollectionBookings, booking.ID, data); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return booking, nil
}

// GetUserBookings lists a user's bookings.
func (s *DirectoryService) GetUserBookings(ctx context.Context, userID string) ([]model.Booking, error) {
	docs, err := s.store.Query(ctx, CollectionBookings, "user_id", "==", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}

	bookings := make([]model.Booking, 0, len(docs))
	for _, doc := range docs {
		var booking model.Booking
		if err := store.Decode(doc.Data, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

// UpdateBookingStatus transitions a booking's lifecycle state.
func (s *DirectoryService) UpdateBookingStatus(ctx context.Context, bookingID string, status model.BookingStatus) error {
	switch status {
	case model.BookingPending, model.BookingConfirmed, model.BookingCancelled:
	default:
		return fmt.Errorf("invalid booking status %q", status)
	}

	err := s.store.Update(ctx, CollectionBookings, bookingID, map[string]any{
		"status":     status,
		"updated_at": time.Now().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return nil
}

func decodeBusinesses(docs []store.Document) ([]model.Business, error) {
	businesses := make([]model.Business, 0, len(docs))
	for _, doc := range docs {
		var business model.Business
		if err := store.Decode(doc.Data, &business); err != nil {
			return nil, err
		}
		businesses = append(businesses, business)
	}
	return businesses, nil
}
