package indexer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadEntries reads a knowledge CSV file into raw entries.
// The header row must contain at least the columns name, topic, source and
// content; extra columns are ignored. An unreadable or unparsable file is
// an error — the caller treats it as "nothing to embed", not as fatal.
func LoadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"name", "topic", "source", "content"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv header missing column %q", required)
		}
	}

	field := func(record []string, col string) string {
		i := columns[col]
		if i < len(record) {
			return record[i]
		}
		return ""
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed csv row: %w", err)
		}

		entries = append(entries, Entry{
			Name:    field(record, "name"),
			Topic:   field(record, "topic"),
			Source:  field(record, "source"),
			Content: field(record, "content"),
		})
	}

	return entries, nil
}
