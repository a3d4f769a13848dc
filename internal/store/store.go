// Package store provides the document persistence collaborator: a small
// collection/document contract with equality and range queries.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Update when the target document is missing.
var ErrNotFound = errors.New("document not found")

// Document is a stored record with its identifier.
type Document struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// DocumentStore is the persistence contract. Get returns (nil, nil) when
// the document does not exist; every other failure is a returned error.
type DocumentStore interface {
	Create(ctx context.Context, collection, id string, data map[string]any) error
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	Update(ctx context.Context, collection, id string, partial map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection, field, operator string, value any) ([]Document, error)
	GetAll(ctx context.Context, collection string) ([]Document, error)
}

// Encode converts a struct into a document body via its JSON form.
func Encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// Decode converts a document body back into a typed struct.
func Decode(data map[string]any, out any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
