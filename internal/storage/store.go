package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/worktrack/internal/constants"
	apperrors "github.com/julianstephens/worktrack/internal/errors"
	"github.com/julianstephens/worktrack/internal/logger"
	"github.com/julianstephens/worktrack/internal/models"
)

var nowFunc = time.Now

// BackupFunc is invoked when the unsaved-write counter reaches the threshold.
type BackupFunc func() error

// Store reads and writes the entry log and config as whole-file JSON.
type Store struct {
	dir        string
	dataPath   string
	configPath string

	mu        sync.Mutex
	unsaved   int
	threshold int
	onBackup  BackupFunc
}

// New creates a Store rooted at dir. Call Init before first use.
func New(dir string) *Store {
	return &Store{
		dir:        dir,
		dataPath:   filepath.Join(dir, constants.DataFileName),
		configPath: filepath.Join(dir, constants.ConfigFileName),
		threshold:  constants.BackupWriteThreshold,
	}
}

// Init creates the data directory, an empty entry log and a default config if missing.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, constants.DirPerm); err != nil {
		return apperrors.NewIOError("mkdir", s.dir, err)
	}
	if _, err := os.Stat(s.dataPath); os.IsNotExist(err) {
		if err := WriteJSONAtomic(s.dataPath, []models.Entry{}); err != nil {
			return err
		}
	}
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		if err := WriteJSONAtomic(s.configPath, models.DefaultConfig()); err != nil {
			return err
		}
	}
	return nil
}

// SetBackupHook registers the function run every threshold writes.
func (s *Store) SetBackupHook(fn BackupFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onBackup = fn
}

func (s *Store) Dir() string        { return s.dir }
func (s *Store) DataPath() string   { return s.dataPath }
func (s *Store) ConfigPath() string { return s.configPath }

// UnsavedWrites returns the number of saves since the last threshold backup.
func (s *Store) UnsavedWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsaved
}

// ReadEntries returns at most limit entries, newest first. A non-positive limit
// uses the default. Missing or malformed files yield an empty slice.
func (s *Store) ReadEntries(limit int) []models.Entry {
	if limit <= 0 {
		limit = constants.DefaultReadLimit
	}

	s.mu.Lock()
	entries, _ := s.loadEntries()
	s.mu.Unlock()

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// AllEntries returns the full entry log.
func (s *Store) AllEntries() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, _ := s.loadEntries()
	return entries
}

// SaveEntry prepends a new entry and rewrites the log. Empty text (after trimming)
// returns ErrValidation and persists nothing.
func (s *Store) SaveEntry(text string) (models.Entry, error) {
	if strings.TrimSpace(text) == "" {
		return models.Entry{}, apperrors.Validationf("entry text is empty")
	}
	entry := models.NewEntry(text, nowFunc())

	s.mu.Lock()
	entries, malformed := s.loadEntries()
	if malformed {
		s.quarantine()
	}

	updated := make([]models.Entry, 0, len(entries)+1)
	updated = append(updated, entry)
	updated = append(updated, entries...)

	if err := WriteJSONAtomic(s.dataPath, updated); err != nil {
		s.mu.Unlock()
		return models.Entry{}, err
	}

	s.unsaved++
	var hook BackupFunc
	if s.unsaved >= s.threshold {
		hook = s.onBackup
		s.unsaved = 0
	}
	s.mu.Unlock()

	if hook != nil {
		if err := hook(); err != nil {
			logger.Warn("Threshold backup failed", "error", err)
		}
	}
	return entry, nil
}

// ReplaceEntries overwrites the entry log wholesale.
func (s *Store) ReplaceEntries(entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteJSONAtomic(s.dataPath, entries)
}

// ReadConfig returns the stored config with missing keys filled from defaults.
func (s *Store) ReadConfig() models.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadConfig()
}

// WriteConfig shallow-merges patch over the stored config and persists the result.
func (s *Store) WriteConfig(patch models.ConfigPatch) (models.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := patch.Apply(s.loadConfig())
	if err := merged.Validate(); err != nil {
		return models.Config{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := WriteJSONAtomic(s.configPath, merged); err != nil {
		return models.Config{}, err
	}
	return merged, nil
}

// loadEntries must be called with mu held. The bool reports a malformed file.
func (s *Store) loadEntries() ([]models.Entry, bool) {
	var entries []models.Entry
	if err := readJSON(s.dataPath, &entries); err != nil {
		if os.IsNotExist(err) {
			return []models.Entry{}, false
		}
		logger.Warn("Failed to read entry log, using empty log", "path", s.dataPath, "error", err)
		return []models.Entry{}, errors.Is(err, apperrors.ErrMalformedData)
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, false
}

// loadConfig must be called with mu held.
func (s *Store) loadConfig() models.Config {
	cfg := models.DefaultConfig()
	if err := readJSON(s.configPath, &cfg); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read config, using defaults", "path", s.configPath, "error", err)
		}
		cfg = models.DefaultConfig()
	}
	models.ApplyDefaultConfig(&cfg)
	return cfg
}

// quarantine moves a malformed entry log aside before it is overwritten.
func (s *Store) quarantine() {
	dest := fmt.Sprintf("%s.corrupt-%s", s.dataPath, nowFunc().UTC().Format("20060102-150405"))
	if err := os.Rename(s.dataPath, dest); err != nil {
		logger.Warn("Failed to move malformed entry log aside", "path", s.dataPath, "error", err)
		return
	}
	logger.Warn("Moved malformed entry log aside", "path", dest)
}
