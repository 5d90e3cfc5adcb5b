package backup

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSelectTablesDefault(t *testing.T) {
	tables, err := selectTables(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != len(exportTables) {
		t.Fatalf("got %d tables, want %d", len(tables), len(exportTables))
	}
}

func TestSelectTablesSubset(t *testing.T) {
	tables, err := selectTables([]string{" Words ", "streaks"})
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 2 || tables[0].name != "words" || tables[1].name != "streaks" {
		t.Fatalf("unexpected selection: %v", tableNames(tables))
	}
}

func TestSelectTablesUnknown(t *testing.T) {
	if _, err := selectTables([]string{"nope"}); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestWriteRecordRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec := record{Type: "words", Payload: map[string]any{"id": 1, "word": "cat"}}
	if err := writeRecord(&buf, rec); err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "\n") {
		t.Fatal("record must be a single NDJSON line")
	}

	var raw rawRecord
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		t.Fatal(err)
	}
	if raw.Type != "words" || len(raw.Payload) == 0 {
		t.Fatalf("unexpected decoded record: %+v", raw)
	}
}

func TestHasColumn(t *testing.T) {
	words := exportTables[2]
	if !hasColumn(words, "user_id") {
		t.Fatal("words table should carry user_id")
	}
	if hasColumn(words, "result_uuid") {
		t.Fatal("words table should not carry result_uuid")
	}
}
