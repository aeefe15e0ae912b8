package backup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/worktrack/internal/constants"
	apperrors "github.com/julianstephens/worktrack/internal/errors"
	"github.com/julianstephens/worktrack/internal/logger"
	"github.com/julianstephens/worktrack/internal/models"
	"github.com/julianstephens/worktrack/internal/storage"
)

var (
	nowFunc    = time.Now
	removeFunc = os.Remove

	backupNamePattern = regexp.MustCompile(`^` + regexp.QuoteMeta(constants.BackupFilePrefix) +
		`\d{4}-\d{2}-\d{2}` + regexp.QuoteMeta(constants.BackupFileSuffix) + `$`)
)

// Source is the live entry log a Manager snapshots and restores into.
type Source interface {
	AllEntries() []models.Entry
	ReplaceEntries(entries []models.Entry) error
	ReadConfig() models.Config
}

// Info contains information about a backup file
type Info struct {
	Path    string
	Name    string
	ModTime time.Time
	Size    int64
}

// envelope is the on-disk backup format.
type envelope struct {
	Version   int            `json:"version"`
	UpdatedAt time.Time      `json:"updated_at"`
	Entries   []models.Entry `json:"entries"`
}

// Manager handles backup operations
type Manager struct {
	src       Source
	backupDir string
}

// NewManager creates a backup manager writing into backupDir
func NewManager(src Source, backupDir string) *Manager {
	return &Manager{
		src:       src,
		backupDir: backupDir,
	}
}

// Dir returns the backup directory path
func (m *Manager) Dir() string {
	return m.backupDir
}

// CreateBackup snapshots the full entry log into today's (UTC) backup file,
// replacing an earlier same-day snapshot, then prunes with backup_keep_days.
func (m *Manager) CreateBackup() (string, error) {
	if err := os.MkdirAll(m.backupDir, constants.DirPerm); err != nil {
		return "", apperrors.NewIOError("mkdir", m.backupDir, err)
	}

	now := nowFunc().UTC()
	name := constants.BackupFilePrefix + now.Format(constants.DateFormat) + constants.BackupFileSuffix
	path := filepath.Join(m.backupDir, name)

	env := envelope{
		Version:   constants.BackupFormatVer,
		UpdatedAt: now.Truncate(time.Millisecond),
		Entries:   m.src.AllEntries(),
	}
	if err := storage.WriteJSONAtomic(path, env); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	logger.Debug("Backup written", "path", path, "entries", len(env.Entries))

	keep := m.src.ReadConfig().BackupKeepDays
	if err := m.PruneBackups(keep); err != nil {
		logger.Warn("Failed to prune old backups", "error", err)
	}
	return path, nil
}

// ListBackups returns backup files sorted by modification time, newest first
func (m *Manager) ListBackups() ([]Info, error) {
	dirEntries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, apperrors.NewIOError("read dir", m.backupDir, err)
	}

	backups := []Info{}
	for _, entry := range dirEntries {
		if entry.IsDir() || !backupNamePattern.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:    filepath.Join(m.backupDir, entry.Name()),
			Name:    entry.Name(),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

// PruneBackups deletes every backup beyond the keep newest. Individual delete
// failures are logged and skipped.
func (m *Manager) PruneBackups(keep int) error {
	if keep < 1 {
		keep = constants.DefaultBackupKeepDays
	}
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) <= keep {
		return nil
	}

	for _, b := range backups[keep:] {
		if err := removeFunc(b.Path); err != nil {
			logger.Warn("Failed to remove old backup", "path", b.Path, "error", err)
			continue
		}
		logger.Debug("Removed old backup", "path", b.Path)
	}
	return nil
}

// RestoreFromBackup replaces the live entry log with the entries in path and
// returns how many were restored. The live log is untouched on any error.
func (m *Manager) RestoreFromBackup(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, apperrors.NewIOError("read", path, err)
	}

	entries, err := decodeBackup(data)
	if err != nil {
		return 0, err
	}
	if err := m.src.ReplaceEntries(entries); err != nil {
		return 0, fmt.Errorf("failed to restore entries: %w", err)
	}
	logger.Info("Restored entries from backup", "path", path, "entries", len(entries))
	return len(entries), nil
}

// record mirrors models.Entry with pointers so missing fields are detectable.
type record struct {
	Text *string    `json:"text"`
	TS   *time.Time `json:"ts"`
}

// decodeBackup accepts either the envelope or a bare entries array.
func decodeBackup(data []byte) ([]models.Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, apperrors.RestoreFormatf("file is empty")
	}

	var records []record
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, apperrors.RestoreFormatf("invalid entries array: %v", err)
		}
	case '{':
		var env struct {
			Entries *[]record `json:"entries"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, apperrors.RestoreFormatf("invalid backup object: %v", err)
		}
		if env.Entries == nil {
			return nil, apperrors.RestoreFormatf("no entries array")
		}
		records = *env.Entries
	default:
		return nil, apperrors.RestoreFormatf("expected a JSON array or object")
	}

	entries := make([]models.Entry, 0, len(records))
	for i, r := range records {
		if r.Text == nil || r.TS == nil {
			return nil, apperrors.RestoreFormatf("record %d is missing text or ts", i)
		}
		e := models.Entry{Text: *r.Text, TS: r.TS.UTC()}
		if !e.Valid() {
			return nil, apperrors.RestoreFormatf("record %d has empty text or ts", i)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SelectBackupDir prefers <appDir>/backups and falls back to <userDataDir>/backups
// when the former cannot be created or written.
func SelectBackupDir(appDir, userDataDir string) string {
	if appDir != "" {
		preferred := filepath.Join(appDir, constants.BackupDirName)
		err := checkWritable(preferred)
		if err == nil {
			return preferred
		}
		logger.Debug("Backup dir not writable, falling back", "path", preferred, "error", err)
	}

	fallback := filepath.Join(userDataDir, constants.BackupDirName)
	if err := os.MkdirAll(fallback, constants.DirPerm); err != nil {
		logger.Warn("Failed to create fallback backup dir", "path", fallback, "error", err)
	}
	return fallback
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, constants.DirPerm); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, constants.BackupWriteTestPrefix+"*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
