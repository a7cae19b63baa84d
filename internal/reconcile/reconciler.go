// Package reconcile keeps the vector store in lockstep with the CSV files
// in the watch directory: new and modified files are re-embedded, files
// removed from disk are removed from the index, unchanged files are left
// untouched.
package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"knowitall/internal/contextutil"
	"knowitall/internal/indexer"
	"knowitall/internal/manifest"
	"knowitall/internal/storage"
	"knowitall/internal/vectorstore"
)

// Embedder turns text into fixed-length vectors. It may fail per call.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Report summarizes one reconciliation pass.
type Report struct {
	FilesSeen       int // CSV files found in the watch directory
	FilesIndexed    int // Files re-embedded this pass
	FilesRemoved    int // Manifest records removed for deleted files
	EntriesEmbedded int // Entries successfully embedded and stored
	EntriesSkipped  int // Entries dropped due to embedding failures
	Errors          int // Units of work abandoned due to errors
}

// Reconciler drives re-embedding so the vector store mirrors current file
// contents exactly once per file version.
type Reconciler struct {
	manifest   *manifest.Store
	store      vectorstore.VectorStore
	entries    storage.EntryStore
	embedder   Embedder
	collection string
	watchDir   string
}

// New creates a reconciler over the given watch directory.
func New(
	manifestStore *manifest.Store,
	store vectorstore.VectorStore,
	entries storage.EntryStore,
	embedder Embedder,
	collection string,
	watchDir string,
) *Reconciler {
	return &Reconciler{
		manifest:   manifestStore,
		store:      store,
		entries:    entries,
		embedder:   embedder,
		collection: collection,
		watchDir:   watchDir,
	}
}

// sourceFile is one CSV file found in the watch directory.
type sourceFile struct {
	Name     string
	Path     string
	Modified time.Time
}

// Reconcile runs one pass: remove index state for deleted files, then
// re-embed every new or modified file. Individual file errors are logged
// and counted but never abort the pass.
func (r *Reconciler) Reconcile(ctx context.Context) (Report, error) {
	logger := contextutil.LoggerFromContext(ctx)
	var report Report

	m, err := r.manifest.Load()
	if err != nil {
		return report, fmt.Errorf("failed to load manifest: %w", err)
	}

	files, err := r.listFiles()
	if err != nil {
		return report, fmt.Errorf("failed to list watch directory: %w", err)
	}
	report.FilesSeen = len(files)

	onDisk := make(map[string]bool, len(files))
	for _, f := range files {
		onDisk[f.Name] = true
	}

	// Deletion: vectors and entry rows go first; the manifest record is
	// dropped only once they are gone, so a failed delete retries next pass.
	for name := range m {
		if onDisk[name] {
			continue
		}

		logger.InfoContext(ctx, "file removed from watch directory", "file_name", name)

		if err := r.store.DeleteByFile(ctx, r.collection, name); err != nil {
			logger.ErrorContext(ctx, "failed to delete vectors for removed file, keeping manifest record", "file_name", name, "error", err)
			report.Errors++
			continue
		}
		if err := r.entries.DeleteByFile(ctx, name); err != nil {
			logger.ErrorContext(ctx, "failed to delete entries for removed file, keeping manifest record", "file_name", name, "error", err)
			report.Errors++
			continue
		}

		delete(m, name)
		if err := r.manifest.Save(m); err != nil {
			return report, fmt.Errorf("failed to persist manifest: %w", err)
		}
		report.FilesRemoved++
	}

	// Change detection and re-embedding, in directory enumeration order.
	for _, file := range files {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		record, known := m[file.Name]
		if known && !file.Modified.After(record.Modified) {
			logger.DebugContext(ctx, "skipping unchanged file", "file_name", file.Name)
			continue
		}

		inserted, skipped, err := r.indexFile(ctx, file)
		report.EntriesSkipped += skipped
		if err != nil {
			logger.ErrorContext(ctx, "failed to index file", "file_name", file.Name, "error", err)
			report.Errors++
			continue
		}
		if len(inserted) == 0 {
			// Nothing embedded: no manifest record, so the file is retried
			// on the next pass.
			continue
		}

		m[file.Name] = manifest.Record{
			Modified: file.Modified,
			Vectors:  inserted,
			Name:     file.Name,
		}
		if err := r.manifest.Save(m); err != nil {
			return report, fmt.Errorf("failed to persist manifest: %w", err)
		}

		report.FilesIndexed++
		report.EntriesEmbedded += len(inserted)
		logger.InfoContext(ctx, "indexed file", "file_name", file.Name, "entries", len(inserted), "skipped", skipped)
	}

	logger.InfoContext(ctx, "reconciliation completed",
		"files_seen", report.FilesSeen,
		"files_indexed", report.FilesIndexed,
		"files_removed", report.FilesRemoved,
		"entries_embedded", report.EntriesEmbedded,
		"entries_skipped", report.EntriesSkipped,
		"errors", report.Errors,
	)

	return report, nil
}

// indexFile re-embeds one dirty file: stale state is cleared, entries are
// loaded, formatted and embedded one at a time (a failed embedding drops
// that entry only), and the surviving points are stored in one batch.
func (r *Reconciler) indexFile(ctx context.Context, file sourceFile) (inserted []string, skipped int, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Best-effort cleanup of the previous file version.
	if err := r.store.DeleteByFile(ctx, r.collection, file.Name); err != nil {
		logger.WarnContext(ctx, "failed to delete stale vectors, continuing", "file_name", file.Name, "error", err)
	}
	if err := r.entries.DeleteByFile(ctx, file.Name); err != nil {
		logger.WarnContext(ctx, "failed to delete stale entries, continuing", "file_name", file.Name, "error", err)
	}

	entries, err := indexer.LoadEntries(file.Path)
	if err != nil {
		// Malformed CSV means nothing to embed, not a failed pass.
		logger.WarnContext(ctx, "failed to load entries", "file_name", file.Name, "error", err)
		entries = nil
	}

	formatted := indexer.FormatEntries(file.Name, entries)
	if len(formatted) == 0 {
		logger.InfoContext(ctx, "no embeddable entries", "file_name", file.Name)
		return nil, 0, nil
	}

	points := make([]vectorstore.Point, 0, len(formatted))
	records := make([]*storage.EntryRecord, 0, len(formatted))
	for _, entry := range formatted {
		vecs, err := r.embedder.EmbedTexts(ctx, []string{entry.Text})
		if err != nil || len(vecs) == 0 {
			logger.WarnContext(ctx, "failed to embed entry, skipping", "file_name", file.Name, "chunk_index", entry.Ordinal, "error", err)
			skipped++
			continue
		}

		points = append(points, vectorstore.Point{
			ID:  entry.ID,
			Vec: vecs[0],
			Meta: map[string]any{
				"file_name":   file.Name,
				"chunk_index": entry.Ordinal,
				"text":        preview(entry.Text, 100),
			},
		})
		records = append(records, &storage.EntryRecord{
			ID:         entry.ID,
			FileName:   file.Name,
			ChunkIndex: entry.Ordinal,
			Name:       entry.Name,
			Topic:      entry.Topic,
			Source:     entry.Source,
			Text:       entry.Text,
		})
	}

	if len(points) == 0 {
		return nil, skipped, nil
	}

	if err := r.store.Upsert(ctx, r.collection, points); err != nil {
		return nil, skipped, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	for _, record := range records {
		if err := r.entries.Insert(ctx, record); err != nil {
			// The vector is live; the query path falls back to the payload preview.
			logger.WarnContext(ctx, "failed to store entry text", "entry_id", record.ID, "error", err)
		}
	}

	inserted = make([]string, len(points))
	for i, p := range points {
		inserted[i] = p.ID
	}
	return inserted, skipped, nil
}

// listFiles enumerates CSV files in the watch directory, creating the
// directory on first run. Non-CSV files are ignored.
func (r *Reconciler) listFiles() ([]sourceFile, error) {
	if err := os.MkdirAll(r.watchDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create watch directory: %w", err)
	}

	dirEntries, err := os.ReadDir(r.watchDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read watch directory: %w", err)
	}

	var files []sourceFile
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".csv") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		files = append(files, sourceFile{
			Name:     de.Name(),
			Path:     filepath.Join(r.watchDir, de.Name()),
			Modified: info.ModTime(),
		})
	}

	return files, nil
}

// preview truncates text to at most n runes for payload metadata.
func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
