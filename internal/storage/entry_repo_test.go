package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) *EntryRepo {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return NewEntryRepo(db)
}

func testEntry(id, fileName string) *EntryRecord {
	return &EntryRecord{
		ID:         id,
		FileName:   fileName,
		ChunkIndex: 0,
		Name:       "Matrícula",
		Topic:      "Admisiones",
		Source:     "Reglamento",
		Text:       "Matrícula: Proceso ordinario (Admisiones, Reglamento)",
	}
}

func TestInsertAndGetByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := testEntry("id-1", "entries.csv")
	if err := repo.Insert(ctx, want); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "id-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if *got != *want {
		t.Errorf("GetByID() = %+v, want %+v", got, want)
	}
}

func TestInsertReplacesExisting(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entry := testEntry("id-1", "entries.csv")
	if err := repo.Insert(ctx, entry); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	entry.Text = "texto actualizado"
	if err := repo.Insert(ctx, entry); err != nil {
		t.Fatalf("Insert() replace error = %v", err)
	}

	got, err := repo.GetByID(ctx, "id-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Text != "texto actualizado" {
		t.Errorf("Text = %q, want updated text", got.Text)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1 after replace", count)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteByFile(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i, row := range []struct{ id, file string }{
		{"id-1", "a.csv"},
		{"id-2", "a.csv"},
		{"id-3", "b.csv"},
	} {
		entry := testEntry(row.id, row.file)
		entry.ChunkIndex = i
		if err := repo.Insert(ctx, entry); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	if err := repo.DeleteByFile(ctx, "a.csv"); err != nil {
		t.Fatalf("DeleteByFile() error = %v", err)
	}

	if _, err := repo.GetByID(ctx, "id-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("entry id-1 survived DeleteByFile: %v", err)
	}
	if _, err := repo.GetByID(ctx, "id-3"); err != nil {
		t.Errorf("entry from another file was deleted: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestDeleteByFileNoRows(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.DeleteByFile(context.Background(), "absent.csv"); err != nil {
		t.Errorf("DeleteByFile() on empty table error = %v", err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func(db *sql.DB) {
		_ = db.Close()
	}(db)

	if err := Migrate(db); err != nil {
		t.Fatalf("first Migrate() error = %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}
