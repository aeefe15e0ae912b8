package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/worktrack/internal/constants"
	"github.com/julianstephens/worktrack/internal/models"
	"github.com/julianstephens/worktrack/internal/session"
)

// NotifyChecker reports whether native notifications can be attempted, and why not.
type NotifyChecker interface {
	Available() bool
	Reason() string
}

type Context struct {
	Session     *session.Session
	NotifyCheck NotifyChecker
	Debug       bool
	Out         io.Writer
	In          io.Reader
}

// Printf writes to Out, or stdout when Out is unset.
func (c *Context) Printf(format string, args ...interface{}) {
	w := c.Out
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, format, args...)
}

// Writer returns Out, or stdout when Out is unset.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Reader returns In, or stdin when In is unset.
func (c *Context) Reader() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// FormatEntry renders one entry as a local-time line.
func FormatEntry(e models.Entry) string {
	return fmt.Sprintf("%s  %s", e.TS.Local().Format("2006-01-02 15:04"), e.Text)
}

// FormatRemaining renders a prompt countdown like "12m30s".
func FormatRemaining(ms int64) string {
	d := (time.Duration(ms) * time.Millisecond).Round(time.Second)
	if d <= 0 {
		return "now"
	}
	return d.String()
}

// DefaultDataDir is <user config dir>/worktrack, or ./.worktrack when the
// user config dir is unknown.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "." + constants.AppName
	}
	return filepath.Join(dir, constants.AppName)
}

// DefaultBackupRoot is the directory holding the executable.
func DefaultBackupRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
