package middleware

import (
	"errors"
	"net/url"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxAudioBytes caps uploaded voice recordings at 10MB.
const MaxAudioBytes = 10 << 20

// ValidateQuery validates a free-text search query.
func ValidateQuery(query string) error {
	if len(query) == 0 {
		return errors.New("query cannot be empty")
	}
	if len(query) > 2000 {
		return errors.New("query exceeds maximum length")
	}
	if !utf8.ValidString(query) {
		return errors.New("query must be valid UTF-8")
	}
	return nil
}

// ValidateImageURL validates an image search URL.
func ValidateImageURL(raw string) error {
	if len(raw) == 0 {
		return errors.New("image URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("invalid image URL")
	}
	return nil
}

// ValidateAudio validates an uploaded voice recording.
func ValidateAudio(audio []byte) error {
	if len(audio) == 0 {
		return errors.New("audio cannot be empty")
	}
	if len(audio) > MaxAudioBytes {
		return errors.New("audio exceeds maximum size")
	}
	return nil
}

// ValidateBusinessID validates a business listing ID.
func ValidateBusinessID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid business ID format")
	}
	return nil
}

// ValidateRating validates a review rating.
func ValidateRating(rating float64) error {
	if rating < 1 || rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}
