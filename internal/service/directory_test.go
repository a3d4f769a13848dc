package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/discoverdiani/discovery-platform/internal/model"
	"github.com/discoverdiani/discovery-platform/internal/store"
	"github.com/discoverdiani/discovery-platform/pkg/logger"
)

func newTestDirectory(t *testing.T) *DirectoryService {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewDirectoryService(st, logger.NewNop())
}

func createTestBusiness(t *testing.T, svc *DirectoryService, owner, name, category string) *model.Business {
	t.Helper()
	business, err := svc.CreateBusiness(context.Background(), owner, &model.CreateBusinessRequest{
		Name:     name,
		Category: category,
		Location: model.Location{Latitude: -4.28, Longitude: 39.59, Address: "Diani Beach Road"},
	})
	require.NoError(t, err)
	return business
}

func TestCreateAndGetBusiness(t *testing.T) {
	svc := newTestDirectory(t)
	ctx := context.Background()

	created := createTestBusiness(t, svc, "owner_1", "Sands Restaurant", "restaurant")

	got, err := svc.GetBusiness(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Sands Restaurant", got.Name)
	require.Equal(t, "owner_1", got.OwnerID)
	require.Zero(t, got.Rating)
	require.Zero(t, got.ReviewCount)
}

func TestGetBusinessMissing(t *testing.T) {
	svc := newTestDirectory(t)

	got, err := svc.GetBusiness(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestUpdateBusinessOwnership(t *testing.T) {
	svc := newTestDirectory(t)
	ctx := context.Background()

	created := createTestBusiness(t, svc, "owner_1", "Kite Centre", "activity")

	_, err := svc.UpdateBusiness(ctx, "someone_else", created.ID, &model.UpdateBusinessRequest{Name: "Hijacked"})
	require.Error(t, err)

	updated, err := svc.UpdateBusiness(ctx, "owner_1", created.ID, &model.UpdateBusinessRequest{Name: "Kite & Surf Centre"})
	require.NoError(t, err)
	require.Equal(t, "Kite & Surf Centre", updated.Name)
	require.Equal(t, "activity", updated.Category, "unset fields are untouched")
}

func TestGetBusinessesByCategory(t *testing.T) {
	svc := newTestDirectory(t)
	ctx := context.Background()

	createTestBusiness(t, svc, "owner_1", "Sands Restaurant", "restaurant")
	createTestBusiness(t, svc, "owner_1", "Diani Reef Hotel", "hotel")
	createTestBusiness(t, svc, "owner_2", "Ali Barbour's Cave", "restaurant")

	restaurants, err := svc.GetBusinessesByCategory(ctx, "restaurant")
	require.NoError(t, err)
	require.Len(t, restaurants, 2)

	all, err := svc.ListBusinesses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestCreateReviewRecomputesRating(t *testing.T) {
	svc := newTestDirectory(t)
	ctx := context.Background()

	business := createTestBusiness(t, svc, "owner_1", "Sands Restaurant", "restaurant")

	_, err := svc.CreateReview(ctx, "user_a", business.ID, &model.CreateReviewRequest{Rating: 5, Text: "great"})
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, "user_b", business.ID, &model.CreateReviewRequest{Rating: 3, Text: "ok"})
	require.NoError(t, err)

	got, err := svc.GetBusiness(ctx, business.ID)
	require.NoError(t, err)
	require.Equal(t, 4.0, got.Rating)
	require.Equal(t, 2, got.ReviewCount)

	reviews, err := svc.GetBusinessReviews(ctx, business.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
}

func TestCreateReviewForMissingBusiness(t *testing.T) {
	svc := newTestDirectory(t)

	_, err := svc.CreateReview(context.Background(), "user_a", "missing", &model.CreateReviewRequest{Rating: 5})
	require.Error(t, err)
}

func TestBookingLifecycle(t *testing.T) {
	svc := newTestDirectory(t)
	ctx := context.Background()

	business := createTestBusiness(t, svc, "owner_1", "Diani Reef Hotel", "hotel")

	booking, err := svc.CreateBooking(ctx, "user_a", &model.CreateBookingRequest{
		BusinessID: business.ID,
		Date:       "2025-07-01",
		Time:       "14:00",
	})
	require.NoError(t, err)
	require.Equal(t, model.BookingPending, booking.Status)

	require.NoError(t, svc.UpdateBookingStatus(ctx, booking.ID, model.BookingConfirmed))
	require.Error(t, svc.UpdateBookingStatus(ctx, booking.ID, model.BookingStatus("lost")))

	bookings, err := svc.GetUserBookings(ctx, "user_a")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.Equal(t, model.BookingConfirmed, bookings[0].Status)
}

func TestFavorites(t *testing.T) {
	svc := newTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateUserProfile(ctx, &model.UserProfile{
		UID:   "user_a",
		Email: "a@example.com",
	}))

	require.NoError(t, svc.AddFavorite(ctx, "user_a", "b1"))
	require.NoError(t, svc.AddFavorite(ctx, "user_a", "b2"))
	require.NoError(t, svc.AddFavorite(ctx, "user_a", "b1"), "adding twice is a no-op")

	profile, err := svc.GetUserProfile(ctx, "user_a")
	require.NoError(t, err)
	require.Equal(t, []string{"b1", "b2"}, profile.Favorites)

	require.NoError(t, svc.RemoveFavorite(ctx, "user_a", "b1"))
	profile, err = svc.GetUserProfile(ctx, "user_a")
	require.NoError(t, err)
	require.Equal(t, []string{"b2"}, profile.Favorites)
}
