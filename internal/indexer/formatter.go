package indexer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Namespace for deterministic entry IDs. Changing it invalidates every
// stored vector ID, so it is fixed for the life of the index.
var idNamespace = uuid.MustParse("a6e3fbd0-6f4e-4c6b-9a57-2d0c8f1be3a4")

// FormatEntries converts raw CSV rows into embeddable (id, text) pairs.
// All four fields are trimmed; a row is included only if both name and
// content are non-empty after trimming. Empty topic and source render as
// empty parenthetical fields. Pure transform, no side effects.
func FormatEntries(fileName string, entries []Entry) []FormattedEntry {
	formatted := make([]FormattedEntry, 0, len(entries))

	for i, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		topic := strings.TrimSpace(entry.Topic)
		source := strings.TrimSpace(entry.Source)
		content := strings.TrimSpace(entry.Content)

		if name == "" || content == "" {
			continue
		}

		text := fmt.Sprintf("%s: %s (%s, %s)", name, content, topic, source)
		formatted = append(formatted, FormattedEntry{
			ID:      EntryID(fileName, i, text),
			Text:    text,
			Ordinal: i,
			Name:    name,
			Topic:   topic,
			Source:  source,
		})
	}

	return formatted
}

// EntryID derives a stable, unique ID for a logical entry from a strong
// content hash combined with file identity and row ordinal. Re-running on
// unchanged input yields identical IDs, so a re-index of an unchanged row
// upserts rather than duplicates. The UUID form is what Qdrant accepts as
// a point ID.
func EntryID(fileName string, ordinal int, text string) string {
	return uuid.NewSHA1(idNamespace, fmt.Appendf(nil, "%s|%d|%s", fileName, ordinal, text)).String()
}
