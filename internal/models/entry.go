package models

import (
	"strings"
	"time"

	"github.com/julianstephens/worktrack/internal/constants"
)

// Entry is one timestamped free-text log record
type Entry struct {
	Text string    `json:"text"`
	TS   time.Time `json:"ts"`
}

// NewEntry trims text and stamps it with now in UTC (millisecond precision).
func NewEntry(text string, now time.Time) Entry {
	return Entry{
		Text: strings.TrimSpace(text),
		TS:   now.UTC().Truncate(time.Millisecond),
	}
}

// Timestamp returns the ISO-8601 form used on disk
func (e Entry) Timestamp() string {
	return e.TS.UTC().Format(constants.TimestampFormat)
}

// Valid reports whether the entry has non-empty text and a timestamp
func (e Entry) Valid() bool {
	return strings.TrimSpace(e.Text) != "" && !e.TS.IsZero()
}
