package indexer

import (
	"testing"

	"github.com/google/uuid"
)

func TestFormatEntries(t *testing.T) {
	entries := []Entry{
		{Name: " Matrícula ", Topic: " Admisiones ", Source: " Reglamento ", Content: " Proceso ordinario "},
	}

	formatted := FormatEntries("entries.csv", entries)
	if len(formatted) != 1 {
		t.Fatalf("got %d formatted entries, want 1", len(formatted))
	}

	got := formatted[0]
	if got.Text != "Matrícula: Proceso ordinario (Admisiones, Reglamento)" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Ordinal != 0 {
		t.Errorf("Ordinal = %d, want 0", got.Ordinal)
	}
	if got.Name != "Matrícula" || got.Topic != "Admisiones" || got.Source != "Reglamento" {
		t.Errorf("trimmed fields = %q/%q/%q", got.Name, got.Topic, got.Source)
	}
	if _, err := uuid.Parse(got.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", got.ID, err)
	}
}

func TestFormatEntriesExclusion(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  bool // included
	}{
		{"complete row", Entry{Name: "A", Topic: "B", Source: "C", Content: "D"}, true},
		{"empty name", Entry{Name: "", Content: "D"}, false},
		{"whitespace name", Entry{Name: "   ", Content: "D"}, false},
		{"empty content", Entry{Name: "A", Content: ""}, false},
		{"whitespace content", Entry{Name: "A", Content: "   "}, false},
		{"missing topic and source", Entry{Name: "A", Content: "D"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatted := FormatEntries("f.csv", []Entry{tt.entry})
			if got := len(formatted) == 1; got != tt.want {
				t.Errorf("included = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatEntriesEmptyOptionalFields(t *testing.T) {
	formatted := FormatEntries("f.csv", []Entry{{Name: "A", Content: "D"}})
	if len(formatted) != 1 {
		t.Fatalf("got %d entries, want 1", len(formatted))
	}
	if formatted[0].Text != "A: D (, )" {
		t.Errorf("Text = %q, want empty parenthetical fields", formatted[0].Text)
	}
}

func TestFormatEntriesOrdinalTracksSourceRow(t *testing.T) {
	entries := []Entry{
		{Name: "A", Content: "first"},
		{Name: "", Content: "skipped"},
		{Name: "C", Content: "third"},
	}

	formatted := FormatEntries("f.csv", entries)
	if len(formatted) != 2 {
		t.Fatalf("got %d entries, want 2", len(formatted))
	}
	if formatted[0].Ordinal != 0 || formatted[1].Ordinal != 2 {
		t.Errorf("ordinals = %d, %d; want 0, 2", formatted[0].Ordinal, formatted[1].Ordinal)
	}
}

func TestEntryIDDeterministic(t *testing.T) {
	a := EntryID("f.csv", 3, "A: D (, )")
	b := EntryID("f.csv", 3, "A: D (, )")
	if a != b {
		t.Errorf("same input produced different IDs: %q vs %q", a, b)
	}
}

func TestEntryIDUniqueness(t *testing.T) {
	base := EntryID("f.csv", 0, "text")
	variants := map[string]string{
		"different file":    EntryID("g.csv", 0, "text"),
		"different ordinal": EntryID("f.csv", 1, "text"),
		"different text":    EntryID("f.csv", 0, "other"),
	}

	for name, id := range variants {
		if id == base {
			t.Errorf("%s produced the same ID as base", name)
		}
	}
}

func TestEntryIDDistinguishesDuplicateRows(t *testing.T) {
	// Two identical rows in one file still get distinct IDs through the
	// ordinal.
	entries := []Entry{
		{Name: "A", Content: "same"},
		{Name: "A", Content: "same"},
	}

	formatted := FormatEntries("f.csv", entries)
	if len(formatted) != 2 {
		t.Fatalf("got %d entries, want 2", len(formatted))
	}
	if formatted[0].ID == formatted[1].ID {
		t.Error("duplicate rows share an ID")
	}
}
