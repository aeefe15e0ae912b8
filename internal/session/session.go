package session

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/worktrack/internal/backup"
	"github.com/julianstephens/worktrack/internal/constants"
	apperrors "github.com/julianstephens/worktrack/internal/errors"
	"github.com/julianstephens/worktrack/internal/logger"
	"github.com/julianstephens/worktrack/internal/models"
	"github.com/julianstephens/worktrack/internal/notifier"
	"github.com/julianstephens/worktrack/internal/scheduler"
	"github.com/julianstephens/worktrack/internal/storage"
	"github.com/julianstephens/worktrack/internal/ui"
)

var openPathFunc = openPath

// Options configures a Session.
type Options struct {
	DataDir     string
	BackupRoot  string // preferred parent of backups/; DataDir is the fallback
	Notifier    notifier.Notifier
	NotifyCheck scheduler.Availability // defaults to notifier.NotifyCheck{}
}

// PromptInfo describes the next scheduled prompt.
type PromptInfo struct {
	Running     bool      `json:"running"`
	RemainingMs int64     `json:"remaining_ms"`
	NextFire    time.Time `json:"next_fire"`
	IntervalMin int       `json:"interval_minutes"`
}

// Session owns the runtime state of one worktrack process.
type Session struct {
	id        string
	dataDir   string
	store     *storage.Store
	backups   *backup.Manager
	scheduler *scheduler.Scheduler
	notifier  notifier.Notifier
	check     scheduler.Availability
	log       *log.Logger

	closeOnce sync.Once
}

// New opens the data directory, selects the backup directory and wires the
// threshold backup hook. The scheduler is not started.
func New(opts Options) (*Session, error) {
	if opts.DataDir == "" {
		return nil, apperrors.Validationf("data directory is required")
	}

	store := storage.New(opts.DataDir)
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	backupDir := backup.SelectBackupDir(opts.BackupRoot, opts.DataDir)
	mgr := backup.NewManager(store, backupDir)
	store.SetBackupHook(func() error {
		_, err := mgr.CreateBackup()
		return err
	})

	n := opts.Notifier
	if n == nil {
		n = notifier.Default()
	}
	check := opts.NotifyCheck
	if check == nil {
		check = notifier.NotifyCheck{}
	}

	id := uuid.NewString()
	s := &Session{
		id:        id,
		dataDir:   opts.DataDir,
		store:     store,
		backups:   mgr,
		scheduler: scheduler.New(store, nil, n, check),
		notifier:  n,
		check:     check,
		log:       logger.With("session", id),
	}
	s.log.Debug("Session opened", "data_dir", opts.DataDir, "backup_dir", backupDir)
	return s, nil
}

func (s *Session) ID() string                      { return s.id }
func (s *Session) Store() *storage.Store           { return s.store }
func (s *Session) Scheduler() *scheduler.Scheduler { return s.scheduler }

// AttachSurface routes scheduler prompts to surface.
func (s *Session) AttachSurface(surface ui.Surface) {
	s.scheduler.SetSurface(surface)
}

// Start arms the prompt scheduler from the stored interval.
func (s *Session) Start() {
	cfg := s.store.ReadConfig()
	s.scheduler.Start(cfg.AskIntervalMinutes)
	s.log.Info("Prompt scheduler started", "interval_minutes", cfg.AskIntervalMinutes)
}

// Close stops the scheduler, then writes a final backup. A failed backup is
// logged and not retried. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.scheduler.Stop()
		if path, err := s.backups.CreateBackup(); err != nil {
			s.log.Warn("Backup on exit failed", "error", err)
		} else {
			s.log.Debug("Backup on exit written", "path", path)
		}
	})
}

// ReadEntries returns up to limit entries, newest first.
func (s *Session) ReadEntries(limit int) []models.Entry {
	return s.store.ReadEntries(limit)
}

// AllEntries returns the full log, newest first.
func (s *Session) AllEntries() []models.Entry {
	return s.store.AllEntries()
}

// SaveEntry stores text and returns the refreshed entry list.
func (s *Session) SaveEntry(text string) ([]models.Entry, error) {
	entry, err := s.store.SaveEntry(text)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Entry saved", "ts", entry.Timestamp())
	return s.store.ReadEntries(0), nil
}

func (s *Session) GetConfig() models.Config {
	return s.store.ReadConfig()
}

// SetConfig merges patch into the stored config. A changed interval restarts a
// running scheduler. When notifications are allowed a confirmation is shown.
func (s *Session) SetConfig(patch models.ConfigPatch) (models.Config, error) {
	cfg, err := s.store.WriteConfig(patch)
	if err != nil {
		return models.Config{}, err
	}
	s.log.Info("Config updated", "config", models.ConfigToMap(cfg))

	if patch.AskIntervalMinutes != nil && s.scheduler.Running() {
		s.scheduler.Restart(cfg.AskIntervalMinutes)
	}
	if cfg.NotificationsEnabled && s.check.Available() {
		body := fmt.Sprintf(constants.SettingsSavedFormat, cfg.AskIntervalMinutes)
		if err := s.notifier.Notify(constants.SettingsSavedTitle, body); err != nil {
			s.log.Debug("Settings confirmation not shown", "error", err)
		}
	}
	return cfg, nil
}

// SyncSchedule restarts a running scheduler whose interval no longer matches the
// stored config, e.g. after another process edited config.json.
func (s *Session) SyncSchedule() {
	if !s.scheduler.Running() {
		return
	}
	cfg := s.store.ReadConfig()
	interval := time.Duration(cfg.AskIntervalMinutes) * time.Minute
	if s.scheduler.Interval() != interval {
		s.scheduler.Restart(cfg.AskIntervalMinutes)
	}
}

// SkipNext suppresses exactly the next prompt.
func (s *Session) SkipNext() (models.Config, error) {
	if err := s.scheduler.SkipNext(); err != nil {
		return models.Config{}, err
	}
	return s.store.ReadConfig(), nil
}

func (s *Session) CreateBackup() (string, error) {
	return s.backups.CreateBackup()
}

func (s *Session) ListBackups() ([]backup.Info, error) {
	return s.backups.ListBackups()
}

func (s *Session) GetBackupPath() string {
	return s.backups.Dir()
}

// OpenBackupFolder opens the backup directory in the platform file manager.
func (s *Session) OpenBackupFolder() (string, error) {
	dir := s.backups.Dir()
	if err := os.MkdirAll(dir, constants.DirPerm); err != nil {
		return "", apperrors.NewIOError("mkdir", dir, err)
	}
	if err := openPathFunc(dir); err != nil {
		return "", fmt.Errorf("failed to open %s: %w", dir, err)
	}
	return dir, nil
}

// RestoreFromFile replaces the live log with the entries in path.
func (s *Session) RestoreFromFile(path string) (int, error) {
	n, err := s.backups.RestoreFromBackup(path)
	if err != nil {
		s.log.Warn("Restore failed", "path", path, "error", err)
		return 0, err
	}
	return n, nil
}

func (s *Session) NextPromptInfo() PromptInfo {
	info := PromptInfo{
		Running:     s.scheduler.Running(),
		RemainingMs: s.scheduler.Remaining().Milliseconds(),
		NextFire:    s.scheduler.NextFire(),
	}
	if iv := s.scheduler.Interval(); iv > 0 {
		info.IntervalMin = int(iv / time.Minute)
	} else {
		info.IntervalMin = s.store.ReadConfig().AskIntervalMinutes
	}
	return info
}

func (s *Session) UserDataPath() string {
	return s.dataDir
}

// Watch forwards store change events until ctx is done.
func (s *Session) Watch(ctx context.Context) (<-chan storage.Event, error) {
	return s.store.Watch(ctx)
}

func openPath(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
