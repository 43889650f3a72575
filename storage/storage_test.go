package storage

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"housing-agent/models"
	"housing-agent/utils"
)

func newTestLogger() *utils.Logger {
	var buf bytes.Buffer
	return utils.NewLoggerTo(&buf, &buf)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMemoryStoreRecordSeen(t *testing.T) {
	s := NewMemoryStore()
	first := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	s.SetClock(fixedClock(first))

	s.RecordSeen([]string{"https://a", "", "https://b", "https://a"})
	if s.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", s.Len())
	}
	if !s.IsKnown("https://a") || !s.IsKnown("https://b") {
		t.Error("recorded urls should be known")
	}
	if s.IsKnown("") {
		t.Error("empty url must never be recorded")
	}

	s.SetClock(fixedClock(first.Add(24 * time.Hour)))
	s.RecordSeen([]string{"https://a"})
	got, _ := s.FirstSeen("https://a")
	if !got.Equal(first) {
		t.Errorf("FirstSeen moved to %v; want %v", got, first)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "seen.json")
	logger := newTestLogger()

	s := OpenFileStore(path, logger)
	if s.Len() != 0 {
		t.Fatalf("new store Len() = %d; want 0", s.Len())
	}
	when := time.Date(2025, 5, 10, 12, 30, 0, 0, time.UTC)
	s.SetClock(fixedClock(when))
	s.RecordSeen([]string{"https://x/1", "https://x/2"})
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reopened := OpenFileStore(path, logger)
	if reopened.Len() != 2 {
		t.Fatalf("reopened Len() = %d; want 2", reopened.Len())
	}
	got, ok := reopened.FirstSeen("https://x/2")
	if !ok || !got.Equal(when) {
		t.Errorf("FirstSeen = %v, %v; want %v", got, ok, when)
	}
}

func TestFileStoreFirstSeenNeverMoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	logger := newTestLogger()
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s := OpenFileStore(path, logger)
	s.SetClock(fixedClock(first))
	s.RecordSeen([]string{"https://x/1"})
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	s2 := OpenFileStore(path, logger)
	s2.SetClock(fixedClock(first.AddDate(0, 1, 0)))
	s2.RecordSeen([]string{"https://x/1", "https://x/9"})
	if err := s2.Save(); err != nil {
		t.Fatal(err)
	}

	s3 := OpenFileStore(path, logger)
	got, _ := s3.FirstSeen("https://x/1")
	if !got.Equal(first) {
		t.Errorf("FirstSeen = %v; want %v", got, first)
	}
	if s3.Len() != 2 {
		t.Errorf("Len() = %d; want 2", s3.Len())
	}
}

func TestFileStoreCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := OpenFileStore(path, newTestLogger())
	if s.Len() != 0 {
		t.Errorf("corrupt file Len() = %d; want 0", s.Len())
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seen.json")

	s := OpenFileStore(path, newTestLogger())
	s.RecordSeen([]string{"https://x/1"})
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "seen.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents = %v; want only seen.json", names)
	}
}

func TestFileStoreStateIsWorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	s := OpenFileStore(path, newTestLogger())
	s.RecordSeen([]string{"https://x/1"})
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0644 {
		t.Errorf("state file mode = %o; want 644", perm)
	}
}

func TestFileStoreBadTimestampKeepsURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	doc := `{"https://x/1": "yesterday", "https://x/2": "2025-02-03T04:05:06.000Z"}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s := OpenFileStore(path, newTestLogger())
	if !s.IsKnown("https://x/1") {
		t.Error("url with bad timestamp should still be known")
	}
	got, _ := s.FirstSeen("https://x/2")
	if want := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC); !got.Equal(want) {
		t.Errorf("FirstSeen = %v; want %v", got, want)
	}
}

func TestCSVWriterWritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "raw.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatal(err)
	}

	err = w.WriteRaw([]models.RawListing{
		{Source: models.SourceOLX, Title: "Apartament 3 camere, Titan", Price: "280 000 €", URL: "https://www.olx.ro/d/1"},
		{Source: models.SourceStoria, Title: "Casa, Dristor", URL: "https://www.storia.ro/ro/oferta/2"},
	})
	if err != nil {
		t.Fatalf("WriteRaw() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows; want header + 2", len(rows))
	}
	if rows[0][0] != "source" || rows[1][0] != "olx" || rows[2][3] != "https://www.storia.ro/ro/oferta/2" {
		t.Errorf("unexpected rows: %v", rows)
	}
}
