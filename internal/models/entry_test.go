package models

import (
	"strings"
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 30, 15, 123456789, time.FixedZone("X", 3600))
	entry := NewEntry("  wrote the report \n", now)

	if entry.Text != "wrote the report" {
		t.Errorf("expected trimmed text, got %q", entry.Text)
	}
	if entry.TS.Location() != time.UTC {
		t.Error("expected UTC timestamp")
	}
	if got := entry.Timestamp(); got != "2024-03-05T08:30:15.123Z" {
		t.Errorf("Timestamp() = %q", got)
	}
	if !entry.Valid() {
		t.Error("entry should be valid")
	}
}

func TestEntryValid(t *testing.T) {
	if (Entry{Text: "   ", TS: time.Now()}).Valid() {
		t.Error("blank text should be invalid")
	}
	if (Entry{Text: "x"}).Valid() {
		t.Error("zero timestamp should be invalid")
	}
	if !strings.HasSuffix(NewEntry("x", time.Now()).Timestamp(), "Z") {
		t.Error("timestamps should be written in UTC")
	}
}
