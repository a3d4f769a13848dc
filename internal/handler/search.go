// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/discoverdiani/discovery-platform/internal/middleware"
	"github.com/discoverdiani/discovery-platform/internal/service"
	"github.com/discoverdiani/discovery-platform/pkg/logger"
)

// SearchHandler handles the AI-backed search endpoints.
type SearchHandler struct {
	service *service.SearchService
	logger  *logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(svc *service.SearchService, log *logger.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  log,
	}
}

// TextSearchRequest is the body of POST /api/v1/search/text.
type TextSearchRequest struct {
	Query string `json:"query"`
}

// ImageSearchRequest is the body of POST /api/v1/search/image.
type ImageSearchRequest struct {
	ImageURL string `json:"image_url"`
}

// Text handles POST /api/v1/search/text
func (h *SearchHandler) Text(w http.ResponseWriter, r *http.Request) {
	var req TextSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateQuery(req.Query); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := h.service.Text(r.Context(), req.Query, requester(r))
	if resp.Err != "" {
		writeError(w, http.StatusBadGateway, resp.Err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Image handles POST /api/v1/search/image
func (h *SearchHandler) Image(w http.ResponseWriter, r *http.Request) {
	var req ImageSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateImageURL(req.ImageURL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := h.service.Image(r.Context(), req.ImageURL, requester(r))
	if resp.Err != "" {
		writeError(w, http.StatusBadGateway, resp.Err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Voice handles POST /api/v1/search/voice. The recording arrives as a
// multipart form with an "audio" file part.
func (h *SearchHandler) Voice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, middleware.MaxAudioBytes+1024)
	if err := r.ParseMultipartForm(middleware.MaxAudioBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio")
		return
	}
	if err := middleware.ValidateAudio(audio); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := h.service.Voice(r.Context(), audio, header.Filename, requester(r))
	if resp.Err != "" {
		writeError(w, http.StatusBadGateway, resp.Err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requester(r *http.Request) service.Requester {
	return service.Requester{
		UserID:    middleware.GetClientID(r.Context()),
		UserAgent: r.UserAgent(),
	}
}
