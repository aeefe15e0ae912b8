package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/worktrack/internal/cli"
	"github.com/julianstephens/worktrack/internal/cli/backups"
	"github.com/julianstephens/worktrack/internal/cli/entries"
	"github.com/julianstephens/worktrack/internal/cli/settings"
	"github.com/julianstephens/worktrack/internal/cli/system"
	"github.com/julianstephens/worktrack/internal/constants"
	apperrors "github.com/julianstephens/worktrack/internal/errors"
	"github.com/julianstephens/worktrack/internal/logger"
	"github.com/julianstephens/worktrack/internal/notifier"
	"github.com/julianstephens/worktrack/internal/session"
)

var CLI struct {
	Version    kong.VersionFlag
	DataDir    string `help:"Directory holding data.json and config.json." type:"path" default:"${data_dir}" env:"WORKTRACK_DATA_DIR"`
	BackupRoot string `help:"Preferred parent directory for backups/. Falls back to the data directory when not writable." type:"path" default:"${backup_root}" env:"WORKTRACK_BACKUP_ROOT"`
	Debug      bool   `help:"Enable debug logging."`
	NoNotify   bool   `help:"Never attempt native notifications." env:"WORK_TRACKER_DISABLE_NOTIFICATIONS"`

	Run      system.RunCmd        `cmd:"" help:"Launch the TUI and the prompt scheduler." default:"1"`
	Add      entries.AddCmd       `cmd:"" help:"Log what you are working on."`
	List     entries.ListCmd      `cmd:"" help:"List recent entries, newest first."`
	Export   entries.ExportCmd    `cmd:"" help:"Export the work log."`
	Settings settings.SettingsCmd `cmd:"" help:"View or change settings."`
	Skip     settings.SkipCmd     `cmd:"" help:"Skip the next prompt."`
	Next     settings.NextCmd     `cmd:"" help:"Show when the next prompt is due."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a backup now." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Replace the work log with a backup."`
		Path    backups.BackupPathCmd    `cmd:"" help:"Print the backup directory."`
		Open    backups.BackupOpenCmd    `cmd:"" help:"Open the backup directory in the file manager."`
	} `cmd:"" help:"Manage backups."`
	Serve  system.ServeCmd  `cmd:"" help:"Run as an MCP server over stdio."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send a test notification."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Asks what you are working on, on a timer, and keeps the answers."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"data_dir":    cli.DefaultDataDir(),
			"backup_root": cli.DefaultBackupRoot(),
		},
	)

	// The TUI owns the terminal, so debug output only goes to the log file there.
	quiet := ctx.Command() == "run"
	if err := logger.Init(logger.Config{Debug: CLI.Debug, DataDir: CLI.DataDir, Quiet: quiet}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	check := notifier.NotifyCheck{Disabled: CLI.NoNotify}
	sess, err := session.New(session.Options{
		DataDir:     CLI.DataDir,
		BackupRoot:  CLI.BackupRoot,
		NotifyCheck: check,
	})
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Session:     sess,
		NotifyCheck: check,
		Debug:       CLI.Debug,
	}

	apperrors.Fatal(ctx.Run(appCtx))
}
