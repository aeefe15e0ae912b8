package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/worktrack/internal/constants"
	apperrors "github.com/julianstephens/worktrack/internal/errors"
	"github.com/julianstephens/worktrack/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

// fixedClock makes nowFunc tick forward one second per call.
func fixedClock(t *testing.T) {
	t.Helper()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	calls := 0
	orig := nowFunc
	nowFunc = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	t.Cleanup(func() { nowFunc = orig })
}

func TestReadEntriesFreshInstall(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "never-created"))

	entries := store.ReadEntries(0)
	if entries == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(entries))
	}
}

func TestInitCreatesFiles(t *testing.T) {
	store := setupTestStore(t)

	data, err := os.ReadFile(store.DataPath())
	if err != nil {
		t.Fatalf("failed to read data file: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected empty array, got %q", string(data))
	}

	cfg := store.ReadConfig()
	if cfg.AskIntervalMinutes != constants.DefaultAskIntervalMinutes {
		t.Errorf("expected default interval, got %d", cfg.AskIntervalMinutes)
	}

	info, err := os.Stat(store.DataPath())
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != constants.FilePerm {
		t.Errorf("expected perm %o, got %o", constants.FilePerm, info.Mode().Perm())
	}
}

func TestSaveEntryRoundTrip(t *testing.T) {
	fixedClock(t)
	store := setupTestStore(t)

	saved, err := store.SaveEntry("  wrote the report  ")
	if err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}
	if saved.Text != "wrote the report" {
		t.Errorf("expected trimmed text, got %q", saved.Text)
	}

	entries := store.ReadEntries(0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Text != "wrote the report" {
		t.Errorf("unexpected text %q", entries[0].Text)
	}
	if !entries[0].TS.Equal(saved.TS) {
		t.Errorf("timestamp mismatch: %v vs %v", entries[0].TS, saved.TS)
	}
}

func TestSaveEntryRejectsEmpty(t *testing.T) {
	store := setupTestStore(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := store.SaveEntry(text)
		if !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("SaveEntry(%q): expected ErrValidation, got %v", text, err)
		}
	}
	if n := len(store.ReadEntries(0)); n != 0 {
		t.Errorf("expected nothing persisted, got %d entries", n)
	}
	if store.UnsavedWrites() != 0 {
		t.Errorf("rejected saves must not count toward the threshold")
	}
}

func TestReadEntriesNewestFirstWithLimit(t *testing.T) {
	fixedClock(t)
	store := setupTestStore(t)

	for _, text := range []string{"first", "second", "third"} {
		if _, err := store.SaveEntry(text); err != nil {
			t.Fatalf("SaveEntry(%q) failed: %v", text, err)
		}
	}

	all := store.ReadEntries(0)
	want := []string{"third", "second", "first"}
	if len(all) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(all))
	}
	for i, text := range want {
		if all[i].Text != text {
			t.Errorf("entry %d: expected %q, got %q", i, text, all[i].Text)
		}
	}

	limited := store.ReadEntries(2)
	if len(limited) != 2 || limited[0].Text != "third" || limited[1].Text != "second" {
		t.Errorf("unexpected limited result: %+v", limited)
	}
}

func TestBackupThreshold(t *testing.T) {
	tests := []struct {
		name    string
		saves   int
		backups int
	}{
		{"below threshold", 19, 0},
		{"at threshold", 20, 1},
		{"between thresholds", 39, 1},
		{"second threshold", 40, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			calls := 0
			store.SetBackupHook(func() error {
				calls++
				// The hook must be able to read the store without deadlocking.
				_ = store.AllEntries()
				return nil
			})

			for i := 0; i < tt.saves; i++ {
				if _, err := store.SaveEntry("entry"); err != nil {
					t.Fatalf("SaveEntry #%d failed: %v", i, err)
				}
			}
			if calls != tt.backups {
				t.Errorf("expected %d backups, got %d", tt.backups, calls)
			}
		})
	}
}

func TestBackupHookFailureDoesNotFailSave(t *testing.T) {
	store := setupTestStore(t)
	store.SetBackupHook(func() error { return errors.New("disk full") })

	for i := 0; i < constants.BackupWriteThreshold; i++ {
		if _, err := store.SaveEntry("entry"); err != nil {
			t.Fatalf("SaveEntry #%d failed: %v", i, err)
		}
	}
	if store.UnsavedWrites() != 0 {
		t.Errorf("expected counter reset, got %d", store.UnsavedWrites())
	}
}

func TestWriteConfigMerge(t *testing.T) {
	store := setupTestStore(t)

	interval := 5
	cfg, err := store.WriteConfig(models.ConfigPatch{AskIntervalMinutes: &interval})
	if err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}
	if cfg.AskIntervalMinutes != 5 {
		t.Errorf("expected interval 5, got %d", cfg.AskIntervalMinutes)
	}
	if !cfg.AskEnabled || !cfg.NotificationsEnabled {
		t.Errorf("unpatched keys lost their defaults: %+v", cfg)
	}

	reread := store.ReadConfig()
	if reread.AskIntervalMinutes != 5 || reread.BackupKeepDays != constants.DefaultBackupKeepDays {
		t.Errorf("unexpected persisted config: %+v", reread)
	}
}

func TestWriteConfigRejectsInvalid(t *testing.T) {
	store := setupTestStore(t)

	zero := 0
	if _, err := store.WriteConfig(models.ConfigPatch{AskIntervalMinutes: &zero}); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got := store.ReadConfig().AskIntervalMinutes; got != constants.DefaultAskIntervalMinutes {
		t.Errorf("invalid patch was persisted: interval=%d", got)
	}
}

func TestWriteConfigPreservesUnknownKeys(t *testing.T) {
	store := setupTestStore(t)
	raw := `{"ask_interval_minutes": 30, "theme": "dark"}`
	if err := os.WriteFile(store.ConfigPath(), []byte(raw), constants.FilePerm); err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	off := false
	if _, err := store.WriteConfig(models.ConfigPatch{AskEnabled: &off}); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	data, err := os.ReadFile(store.ConfigPath())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("config is not valid JSON: %v", err)
	}
	if decoded["theme"] != "dark" {
		t.Errorf("unknown key dropped: %v", decoded)
	}
	if decoded["ask_enabled"] != false {
		t.Errorf("patch not applied: %v", decoded)
	}
	if decoded["ask_interval_minutes"] != float64(30) {
		t.Errorf("existing key lost: %v", decoded)
	}
}

func TestReadConfigMissingKeysUseDefaults(t *testing.T) {
	store := setupTestStore(t)
	if err := os.WriteFile(store.ConfigPath(), []byte(`{"ask_enabled": false}`), constants.FilePerm); err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	cfg := store.ReadConfig()
	if cfg.AskEnabled {
		t.Error("expected ask_enabled=false from file")
	}
	if cfg.AskIntervalMinutes != constants.DefaultAskIntervalMinutes {
		t.Errorf("expected default interval, got %d", cfg.AskIntervalMinutes)
	}
	if cfg.BackupKeepDays != constants.DefaultBackupKeepDays {
		t.Errorf("expected default keep days, got %d", cfg.BackupKeepDays)
	}
}

func TestMalformedLogIsQuarantined(t *testing.T) {
	fixedClock(t)
	store := setupTestStore(t)
	if err := os.WriteFile(store.DataPath(), []byte("{not json"), constants.FilePerm); err != nil {
		t.Fatalf("failed to corrupt data file: %v", err)
	}

	if n := len(store.ReadEntries(0)); n != 0 {
		t.Errorf("expected empty result for malformed log, got %d", n)
	}

	if _, err := store.SaveEntry("after corruption"); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}

	matches, err := filepath.Glob(store.DataPath() + ".corrupt-*")
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 quarantined file, got %d", len(matches))
	}
	kept, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read quarantined file: %v", err)
	}
	if string(kept) != "{not json" {
		t.Errorf("quarantined content changed: %q", kept)
	}

	entries := store.ReadEntries(0)
	if len(entries) != 1 || entries[0].Text != "after corruption" {
		t.Errorf("unexpected entries after recovery: %+v", entries)
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	store := setupTestStore(t)
	for i := 0; i < 5; i++ {
		if _, err := store.SaveEntry("entry"); err != nil {
			t.Fatalf("SaveEntry failed: %v", err)
		}
	}

	dirEntries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range dirEntries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestReplaceEntries(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.SaveEntry("old"); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}

	replacement := []models.Entry{
		models.NewEntry("restored b", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)),
		models.NewEntry("restored a", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	if err := store.ReplaceEntries(replacement); err != nil {
		t.Fatalf("ReplaceEntries failed: %v", err)
	}

	entries := store.AllEntries()
	if len(entries) != 2 || entries[0].Text != "restored b" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	if err := store.ReplaceEntries(nil); err != nil {
		t.Fatalf("ReplaceEntries(nil) failed: %v", err)
	}
	if entries := store.AllEntries(); entries == nil || len(entries) != 0 {
		t.Errorf("expected empty log, got %+v", entries)
	}
}
