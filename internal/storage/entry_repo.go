package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_entry_store.go -package=mocks knowitall/internal/storage EntryStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// EntryRecord is the full text of one indexed knowledge entry.
// The vector store payload carries only a short preview; the complete
// document text lives here, keyed by the same ID as the vector point.
type EntryRecord struct {
	ID         string // Deterministic entry ID (same as vector point ID)
	FileName   string // Source CSV file name
	ChunkIndex int    // Row ordinal within the source file
	Name       string
	Topic      string
	Source     string
	Text       string // Formatted entry text
}

// EntryStore defines the interface for entry storage operations.
type EntryStore interface {
	// Insert stores an entry record, replacing any record with the same ID.
	Insert(ctx context.Context, entry *EntryRecord) error
	// GetByID gets an entry by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*EntryRecord, error)
	// DeleteByFile removes all entries originating from the given file.
	DeleteByFile(ctx context.Context, fileName string) error
	// Count returns the total number of stored entries.
	Count(ctx context.Context) (int, error)
}

// EntryRepo provides methods for entry operations.
// It implements the EntryStore interface.
type EntryRepo struct {
	db *sql.DB
}

// NewEntryRepo creates a new EntryRepo.
func NewEntryRepo(db *sql.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// Insert stores an entry record, replacing any record with the same ID.
// Replacement matters on re-index: entry IDs are deterministic, so an
// unchanged row in a touched file maps to the same ID.
func (r *EntryRepo) Insert(ctx context.Context, entry *EntryRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (id, file_name, chunk_index, name, topic, source, text)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		 file_name = excluded.file_name, chunk_index = excluded.chunk_index,
		 name = excluded.name, topic = excluded.topic, source = excluded.source,
		 text = excluded.text`,
		entry.ID, entry.FileName, entry.ChunkIndex, entry.Name, entry.Topic, entry.Source, entry.Text,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// GetByID gets an entry by ID. Returns ErrNotFound if absent.
func (r *EntryRepo) GetByID(ctx context.Context, id string) (*EntryRecord, error) {
	var entry EntryRecord

	err := r.db.QueryRowContext(ctx,
		"SELECT id, file_name, chunk_index, name, topic, source, text FROM entries WHERE id = ?",
		id,
	).Scan(&entry.ID, &entry.FileName, &entry.ChunkIndex, &entry.Name, &entry.Topic, &entry.Source, &entry.Text)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}

	return &entry, nil
}

// DeleteByFile removes all entries originating from the given file.
func (r *EntryRepo) DeleteByFile(ctx context.Context, fileName string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM entries WHERE file_name = ?", fileName)
	if err != nil {
		return fmt.Errorf("failed to delete entries for %s: %w", fileName, err)
	}
	return nil
}

// Count returns the total number of stored entries.
func (r *EntryRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}
