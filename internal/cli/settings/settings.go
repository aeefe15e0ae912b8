package settings

import (
	"github.com/julianstephens/worktrack/internal/cli"
	"github.com/julianstephens/worktrack/internal/models"
)

type SettingsCmd struct {
	List  bool `help:"List current settings."`
	Raw   bool `help:"With --list, print key=value pairs as stored in config.json."`
	Reset bool `help:"Restore the default settings."`

	AskEnabled    *bool `help:"Enable or disable the periodic prompt."`
	Interval      *int  `help:"Minutes between prompts."`
	Notifications *bool `help:"Enable or disable native notifications."`
	KeepDays      *int  `help:"Number of daily backup files to keep."`
}

func (c *SettingsCmd) patch() models.ConfigPatch {
	return models.ConfigPatch{
		AskEnabled:           c.AskEnabled,
		AskIntervalMinutes:   c.Interval,
		NotificationsEnabled: c.Notifications,
		BackupKeepDays:       c.KeepDays,
	}
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if c.List {
		cfg := ctx.Session.GetConfig()
		if c.Raw {
			values := models.ConfigToMap(cfg)
			for _, k := range models.ConfigKeys() {
				ctx.Printf("%s=%s\n", k, values[k])
			}
			return nil
		}
		printSettings(ctx, cfg)
		return nil
	}

	patch := c.patch()
	if c.Reset {
		patch = models.DefaultsPatch()
	}
	if patch.IsEmpty() {
		ctx.Printf("No changes specified. Use --list to view settings or flags to update them.\n")
		return nil
	}

	cfg, err := ctx.Session.SetConfig(patch)
	if err != nil {
		return err
	}
	ctx.Printf("Settings updated successfully.\n")
	printSettings(ctx, cfg)
	return nil
}

func printSettings(ctx *cli.Context, cfg models.Config) {
	ctx.Printf("Current Settings:\n")
	ctx.Printf("  Ask Enabled:           %v\n", cfg.AskEnabled)
	ctx.Printf("  Interval:              %d min\n", cfg.AskIntervalMinutes)
	ctx.Printf("  Notifications Enabled: %v\n", cfg.NotificationsEnabled)
	ctx.Printf("  Backups Kept:          %d\n", cfg.BackupKeepDays)
	ctx.Printf("  Skip Next:             %v\n", cfg.SkipNext)
}

type SkipCmd struct{}

func (c *SkipCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session.SkipNext(); err != nil {
		return err
	}
	ctx.Printf("✓ The next prompt will be skipped.\n")
	return nil
}

// NextCmd reports the schedule stored on disk. A one-shot process never runs
// the scheduler, so it shows the interval rather than a live countdown.
type NextCmd struct {
	JSON bool `help:"Print machine-readable output."`
}

func (c *NextCmd) Run(ctx *cli.Context) error {
	info := ctx.Session.NextPromptInfo()
	cfg := ctx.Session.GetConfig()

	if c.JSON {
		return cli.WriteJSON(ctx.Writer(), info)
	}

	switch {
	case !cfg.AskEnabled:
		ctx.Printf("Prompting is disabled.\n")
	case info.Running:
		ctx.Printf("Next prompt in %s (every %d min)\n", cli.FormatRemaining(info.RemainingMs), info.IntervalMin)
	default:
		ctx.Printf("Prompting every %d min while worktrack is running.\n", info.IntervalMin)
	}
	if cfg.SkipNext {
		ctx.Printf("The next prompt will be skipped.\n")
	}
	return nil
}
