package indexer

// Entry is one raw CSV row from a knowledge file.
type Entry struct {
	Name    string
	Topic   string
	Source  string
	Content string
}

// FormattedEntry is an embeddable (id, text) pair derived from an Entry.
type FormattedEntry struct {
	ID      string // Deterministic ID: UUIDv5 of (file, ordinal, text)
	Text    string // "{name}: {content} ({topic}, {source})"
	Ordinal int    // Row position in the source file, skipped rows included
	Name    string
	Topic   string
	Source  string
}
