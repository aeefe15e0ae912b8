package export

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/worktrack/internal/constants"
	"github.com/julianstephens/worktrack/internal/models"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatSQLite   Format = "sqlite"
)

// Formats lists the accepted --format values.
func Formats() []string {
	return []string{string(FormatJSON), string(FormatMarkdown), string(FormatSQLite)}
}

// ParseFormat accepts a format name, case-insensitively, with "md" as an alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "sqlite", "db":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("unknown export format %q (want one of %s)", s, strings.Join(Formats(), ", "))
}

// WriteJSON writes entries as the same indented array stored in data.json.
func WriteJSON(w io.Writer, entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteMarkdown writes one section per day in loc, newest day first. Entries
// must already be newest first.
func WriteMarkdown(w io.Writer, entries []models.Entry, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	b.WriteString("# Work log\n")
	if len(entries) == 0 {
		b.WriteString("\n_No entries._\n")
	}

	currentDay := ""
	for _, e := range entries {
		local := e.TS.In(loc)
		day := local.Format(constants.DateFormat)
		if day != currentDay {
			fmt.Fprintf(&b, "\n## %s (%s)\n\n", day, local.Format("Monday"))
			currentDay = day
		}
		text := strings.ReplaceAll(strings.TrimSpace(e.Text), "\n", " ")
		fmt.Fprintf(&b, "- **%s** %s\n", local.Format("15:04"), text)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

const createEntriesTable = `CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY,
	ts TEXT NOT NULL,
	text TEXT NOT NULL
)`

// WriteSQLite creates (or replaces) a database at path holding an entries table.
func WriteSQLite(path string, entries []models.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPerm); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(createEntriesTable); err != nil {
		return fmt.Errorf("failed to create entries table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO entries (ts, text) VALUES (?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	// Oldest first so row ids follow chronological order.
	for i := len(entries) - 1; i >= 0; i-- {
		if _, err := stmt.Exec(entries[i].Timestamp(), entries[i].Text); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}
	return nil
}
