package entries

import (
	"strings"

	"github.com/julianstephens/worktrack/internal/cli"
	"github.com/julianstephens/worktrack/internal/constants"
	"github.com/julianstephens/worktrack/internal/models"
)

type AddCmd struct {
	Text []string `arg:"" help:"What you are working on."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Session.SaveEntry(strings.Join(c.Text, " "))
	if err != nil {
		return err
	}
	ctx.Printf("✓ Saved: %s\n", cli.FormatEntry(entries[0]))
	return nil
}

type ListCmd struct {
	Limit int  `help:"Maximum number of entries to show." default:"20"`
	All   bool `help:"Show the whole log."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	var entries []models.Entry
	if c.All {
		entries = ctx.Session.AllEntries()
	} else {
		limit := c.Limit
		if limit <= 0 {
			limit = constants.DefaultReadLimit
		}
		entries = ctx.Session.ReadEntries(limit)
	}
	if len(entries) == 0 {
		ctx.Printf("No entries yet.\n")
		return nil
	}
	for _, e := range entries {
		ctx.Printf("%s\n", cli.FormatEntry(e))
	}
	return nil
}
