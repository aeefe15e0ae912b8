package system

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/worktrack/internal/cli"
	"github.com/julianstephens/worktrack/internal/constants"
	"github.com/julianstephens/worktrack/internal/models"
	"github.com/julianstephens/worktrack/internal/notifier"
)

var trayStatus = notifier.TrayStatus

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Running diagnostics...\n\n")

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}
	warn := func(name string, msg string) {
		ctx.Printf("⚠ %s: WARNING\n", name)
		ctx.Printf("   %s\n", msg)
	}
	ok := func(name string) {
		ctx.Printf("✓ %s: OK\n", name)
	}

	store := ctx.Session.Store()

	// Check 1: data directory writable
	if err := checkWritable(store.Dir()); err != nil {
		fail("Data directory writable", err)
	} else {
		ok("Data directory writable")
	}

	// Check 2: entry log parses
	if n, err := checkEntries(store.DataPath()); err != nil {
		fail("Entry log", err)
	} else {
		ctx.Printf("✓ Entry log: OK (%d entries)\n", n)
	}

	// Check 3: config parses and validates
	if err := checkConfig(store.ConfigPath()); err != nil {
		fail("Config", err)
	} else {
		ok("Config")
	}

	// Check 4: backups present (warning only)
	backupDir := ctx.Session.GetBackupPath()
	if backupList, err := ctx.Session.ListBackups(); err != nil {
		fail("Backups present", err)
	} else if len(backupList) == 0 {
		warn("Backups present", fmt.Sprintf("no backups in %s yet", backupDir))
	} else {
		ctx.Printf("✓ Backups present: OK (%d in %s)\n", len(backupList), backupDir)
	}

	// Check 5: notifications (warning only)
	if reason := ctx.NotifyCheck.Reason(); reason != "" {
		warn("Notifications", reason+"; prompts open in the TUI instead")
	} else if err := trayStatus(); err != nil {
		warn("Notifications", fmt.Sprintf("tray app: %v; falling back to the system notifier", err))
	} else {
		ok("Notifications")
	}

	// Check 6: clock sanity
	if err := checkClock(); err != nil {
		fail("Clock", err)
	} else {
		ok("Clock")
	}

	ctx.Printf("\n")
	if hasError {
		ctx.Printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Printf("All diagnostics passed!\n")
	return nil
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func checkEntries(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var entries []models.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("%s is not a JSON entry array: %w", filepath.Base(path), err)
	}
	for i, e := range entries {
		if !e.Valid() {
			return 0, fmt.Errorf("entry %d has empty text or timestamp", i)
		}
	}
	return len(entries), nil
}

func checkConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg := models.DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("%s is not valid JSON: %w", filepath.Base(path), err)
	}
	return cfg.Validate()
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock reads %s", now.Format(constants.DateFormat))
	}
	return nil
}
