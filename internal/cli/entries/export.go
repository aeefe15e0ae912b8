package entries

import (
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/worktrack/internal/cli"
	"github.com/julianstephens/worktrack/internal/constants"
	apperrors "github.com/julianstephens/worktrack/internal/errors"
	"github.com/julianstephens/worktrack/internal/export"
)

type ExportCmd struct {
	Format string `help:"Output format (json, markdown, sqlite)." default:"json" short:"f"`
	Output string `help:"Output file. Defaults to stdout; required for sqlite." short:"o" type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	entries := ctx.Session.AllEntries()

	if format == export.FormatSQLite {
		if c.Output == "" {
			return apperrors.Validationf("--output is required for sqlite export")
		}
		if err := export.WriteSQLite(c.Output, entries); err != nil {
			return err
		}
		ctx.Printf("✓ Exported %d entries to %s\n", len(entries), c.Output)
		return nil
	}

	w := ctx.Writer()
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePerm)
		if err != nil {
			return apperrors.NewIOError("create", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case export.FormatMarkdown:
		err = export.WriteMarkdown(w, entries, time.Local)
	default:
		err = export.WriteJSON(w, entries)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if c.Output != "" {
		ctx.Printf("✓ Exported %d entries to %s\n", len(entries), c.Output)
	}
	return nil
}
