package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
`

// comparison operators accepted by Query.
var operators = map[string]string{
	"==": "=",
	"!=": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

// SQLiteStore implements DocumentStore over a single SQLite table with
// JSON document bodies.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database in dataDir and applies the schema.
// Pass ":memory:" for an in-memory database (used by tests).
func Open(dataDir string) (*SQLiteStore, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "discovery.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Single connection avoids "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Create writes the document, replacing any existing body under the same
// collection and id.
func (s *SQLiteStore) Create(ctx context.Context, collection, id string, data map[string]any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data)
		VALUES (?, ?, ?)
		ON CONFLICT (collection, id)
		DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		collection, id, string(body))
	if err != nil {
		return fmt.Errorf("creating document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Get fetches a document body, or (nil, nil) when absent.
func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?",
		collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %s/%s: %w", collection, id, err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return nil, fmt.Errorf("unmarshaling document %s/%s: %w", collection, id, err)
	}
	return data, nil
}

// Update merges the partial body into an existing document. Missing
// documents yield ErrNotFound.
func (s *SQLiteStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	patch, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("marshaling patch: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET data = json_patch(data, ?), updated_at = CURRENT_TIMESTAMP
		WHERE collection = ? AND id = ?`,
		string(patch), collection, id)
	if err != nil {
		return fmt.Errorf("updating document %s/%s: %w", collection, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating document %s/%s: %w", collection, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("updating document %s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?",
		collection, id)
	if err != nil {
		return fmt.Errorf("deleting document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Query returns documents whose field compares to value under the given
// operator (==, !=, <, <=, >, >=).
func (s *SQLiteStore) Query(ctx context.Context, collection, field, operator string, value any) ([]Document, error) {
	op, ok := operators[operator]
	if !ok {
		return nil, fmt.Errorf("unsupported operator %q", operator)
	}

	query := fmt.Sprintf(
		"SELECT id, data FROM documents WHERE collection = ? AND json_extract(data, ?) %s ?", op)
	rows, err := s.db.QueryContext(ctx, query, collection, "$."+field, value)
	if err != nil {
		return nil, fmt.Errorf("querying %s by %s: %w", collection, field, err)
	}
	defer rows.Close()

	return scanDocuments(rows, collection)
}

// GetAll returns every document in a collection.
func (s *SQLiteStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, data FROM documents WHERE collection = ?", collection)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	defer rows.Close()

	return scanDocuments(rows, collection)
}

func scanDocuments(rows *sql.Rows, collection string) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", collection, err)
		}
		var data map[string]any
		if err := json.Unmarshal([]byte(body), &data); err != nil {
			return nil, fmt.Errorf("unmarshaling document %s/%s: %w", collection, id, err)
		}
		docs = append(docs, Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", collection, err)
	}
	return docs, nil
}
