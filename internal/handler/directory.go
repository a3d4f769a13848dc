package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/discoverdiani/discovery-platform/internal/middleware"
	"github.com/discoverdiani/discovery-platform/internal/model"
	"github.com/discoverdiani/discovery-platform/internal/service"
	"github.com/discoverdiani/discovery-platform/pkg/logger"
)

// DirectoryHandler handles business listing, review, booking, and
// profile endpoints.
type DirectoryHandler struct {
	service *service.DirectoryService
	logger  *logger.Logger
}

// NewDirectoryHandler creates a new directory handler.
func NewDirectoryHandler(svc *service.DirectoryService, log *logger.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		service: svc,
		logger:  log,
	}
}

// CreateBusiness handles POST /api/v1/businesses
func (h *DirectoryHandler) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetAuthUserID(r.Context())

	var req model.CreateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "name and category are required")
		return
	}

	business, err := h.service.CreateBusiness(r.Context(), ownerID, &req)
	if err != nil {
		h.logger.Error("failed to create business", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create business")
		return
	}
	writeJSON(w, http.StatusCreated, business)
}

// ListBusinesses handles GET /api/v1/businesses?category=
func (h *DirectoryHandler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	var (
		businesses []model.Business
		err        error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		businesses, err = h.service.GetBusinessesByCategory(r.Context(), category)
	} else {
		businesses, err = h.service.ListBusinesses(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to list businesses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list businesses")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"businesses": businesses})
}

// GetBusiness handles GET /api/v1/businesses/{id}
func (h *DirectoryHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateBusinessID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	business, err := h.service.GetBusiness(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get business", "error", err, "business_id", id)
		writeError(w, http.StatusInternalServerError, "failed to get business")
		return
	}
	if business == nil {
		writeError(w, http.StatusNotFound, "business not found")
		return
	}
	writeJSON(w, http.StatusOK, business)
}

// UpdateBusiness handles PUT /api/v1/businesses/{id}
func (h *DirectoryHandler) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateBusinessID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.UpdateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	business, err := h.service.UpdateBusiness(r.Context(), middleware.GetAuthUserID(r.Context()), id, &req)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	if business == nil {
		writeError(w, http.StatusNotFound, "business not found")
		return
	}
	writeJSON(w, http.StatusOK, business)
}

// CreateReview handles POST /api/v1/businesses/{id}/reviews
func (h *DirectoryHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "id")
	if err := middleware.ValidateBusinessID(businessID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateRating(req.Rating); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.service.CreateReview(r.Context(), middleware.GetAuthUserID(r.Context()), businessID, &req)
	if err != nil {
		h.logger.Error("failed to create review", "error", err, "business_id", businessID)
		writeError(w, http.StatusInternalServerError, "failed to create review")
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// ListReviews handles GET /api/v1/businesses/{id}/reviews
func (h *DirectoryHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "id")
	if err := middleware.ValidateBusinessID(businessID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reviews, err := h.service.GetBusinessReviews(r.Context(), businessID)
	if err != nil {
		h.logger.Error("failed to list reviews", "error", err, "business_id", businessID)
		writeError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

// CreateBooking handles POST /api/v1/bookings
func (h *DirectoryHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BusinessID == "" || req.Date == "" {
		writeError(w, http.StatusBadRequest, "business_id and date are required")
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), middleware.GetAuthUserID(r.Context()), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// ListBookings handles GET /api/v1/bookings
func (h *DirectoryHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.GetUserBookings(r.Context(), middleware.GetAuthUserID(r.Context()))
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// UpdateBookingStatusRequest is the body of PATCH /api/v1/bookings/{id}/status.
type UpdateBookingStatusRequest struct {
	Status model.BookingStatus `json:"status"`
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/{id}/status
func (h *DirectoryHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.UpdateBookingStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

// GetProfile handles GET /api/v1/profile
func (h *DirectoryHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAuthUserID(r.Context())

	profile, err := h.service.GetUserProfile(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get profile", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// CreateProfile handles POST /api/v1/profile
func (h *DirectoryHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile model.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	profile.UID = middleware.GetAuthUserID(r.Context())

	if err := h.service.CreateUserProfile(r.Context(), &profile); err != nil {
		h.logger.Error("failed to create profile", "error", err, "user_id", profile.UID)
		writeError(w, http.StatusInternalServerError, "failed to create profile")
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

// AddFavorite handles PUT /api/v1/profile/favorites/{businessID}
func (h *DirectoryHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")

	if err := h.service.AddFavorite(r.Context(), middleware.GetAuthUserID(r.Context()), businessID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveFavorite handles DELETE /api/v1/profile/favorites/{businessID}
func (h *DirectoryHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")

	if err := h.service.RemoveFavorite(r.Context(), middleware.GetAuthUserID(r.Context()), businessID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
