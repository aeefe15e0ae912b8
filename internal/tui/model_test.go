package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/worktrack/internal/models"
	"github.com/julianstephens/worktrack/internal/session"
	"github.com/julianstephens/worktrack/internal/storage"
)

type silentNotifier struct{}

func (silentNotifier) Notify(string, string) error { return nil }

type noNotify struct{}

func (noNotify) Available() bool { return false }

func setupTestModel(t *testing.T) (Model, *session.Session, *Surface) {
	t.Helper()
	sess, err := session.New(session.Options{
		DataDir:     t.TempDir(),
		BackupRoot:  t.TempDir(),
		Notifier:    silentNotifier{},
		NotifyCheck: noNotify{},
	})
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	t.Cleanup(sess.Close)

	surface := NewSurface()
	return NewModel(context.Background(), sess, surface), sess, surface
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

// collect runs cmd and flattens batches. Only pass commands that return promptly.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestPromptKeyOpensAndEscCloses(t *testing.T) {
	m, _, surface := setupTestModel(t)

	m, cmd := update(t, m, keyPress("p"))
	if m.state != ViewPrompt || m.form == nil {
		t.Fatalf("expected prompt view, got state %d", m.state)
	}
	if cmd == nil {
		t.Error("expected form init command")
	}
	if !surface.Focused() {
		t.Error("surface should report focus while prompting")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != ViewLog || m.form != nil {
		t.Errorf("expected log view after esc, got state %d", m.state)
	}
	if surface.Focused() {
		t.Error("surface still focused after prompt closed")
	}
}

func TestSchedulerMessagesOpenPromptOnce(t *testing.T) {
	m, _, _ := setupTestModel(t)

	m, _ = update(t, m, focusMsg{})
	if m.state != ViewPrompt {
		t.Fatalf("focus should open the prompt, got state %d", m.state)
	}
	first := m.form
	m.promptForm.Text = "half typed"

	m, cmd := update(t, m, promptMsg{})
	if m.form != first || m.promptForm.Text != "half typed" {
		t.Error("second prompt request replaced the open prompt")
	}
	if cmd != nil {
		t.Error("expected no command for an already open prompt")
	}
}

func TestSavedMsgRefreshesEntries(t *testing.T) {
	m, sess, _ := setupTestModel(t)

	entries, err := sess.SaveEntry("wrote tests")
	if err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}
	m, _ = update(t, m, savedMsg{entries: entries})

	if len(m.entries) != 1 || m.status != "Saved" {
		t.Errorf("unexpected model after save: %d entries, status %q", len(m.entries), m.status)
	}
	if !strings.Contains(m.View(), "wrote tests") {
		t.Error("view does not show the saved entry")
	}
}

func TestSaveEntryCmd(t *testing.T) {
	_, sess, _ := setupTestModel(t)

	msgs := collect(saveEntryCmd(sess, "review"))
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	saved, ok := msgs[0].(savedMsg)
	if !ok || len(saved.entries) != 1 || saved.entries[0].Text != "review" {
		t.Errorf("unexpected message %#v", msgs[0])
	}

	if _, ok := collect(saveEntryCmd(sess, "  "))[0].(errMsg); !ok {
		t.Error("expected errMsg for blank entry")
	}
}

func TestWatchEventReloads(t *testing.T) {
	m, sess, _ := setupTestModel(t)

	if _, err := sess.SaveEntry("from another process"); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}
	_, cmd := update(t, m, watchEventMsg{event: storage.Event{Type: storage.EventEntriesChanged}})

	var found bool
	for _, msg := range collect(cmd) {
		if entries, ok := msg.(entriesMsg); ok && len(entries) == 1 {
			found = true
		}
	}
	if !found {
		t.Error("entries change did not reload the log")
	}

	_, cmd = update(t, m, watchEventMsg{event: storage.Event{Type: storage.EventConfigChanged}})
	var gotConfig, gotInfo bool
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case configMsg:
			gotConfig = true
		case infoMsg:
			gotInfo = true
		}
	}
	if !gotConfig || !gotInfo {
		t.Errorf("config change: reloaded=%v synced=%v", gotConfig, gotInfo)
	}
}

func TestSkipKey(t *testing.T) {
	m, sess, _ := setupTestModel(t)

	_, cmd := update(t, m, keyPress("x"))
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if _, ok := msgs[0].(statusMsg); !ok {
		t.Errorf("expected statusMsg, got %#v", msgs[0])
	}
	if !sess.GetConfig().SkipNext {
		t.Error("skip_next not persisted")
	}
}

func TestSettingsKeyPrefillsForm(t *testing.T) {
	m, _, _ := setupTestModel(t)
	m.config.AskIntervalMinutes = 25

	m, _ = update(t, m, keyPress("s"))
	if m.state != ViewSettings || m.settingsForm == nil {
		t.Fatalf("expected settings view, got state %d", m.state)
	}
	if m.settingsForm.AskIntervalMinutes != "25" {
		t.Errorf("expected prefilled interval 25, got %q", m.settingsForm.AskIntervalMinutes)
	}
}

func TestSettingsFormPatch(t *testing.T) {
	current := models.DefaultConfig()

	tests := []struct {
		name    string
		form    SettingsFormModel
		wantErr bool
		check   func(t *testing.T, p models.ConfigPatch)
	}{
		{
			name: "unchanged",
			form: *settingsFormFrom(current),
			check: func(t *testing.T, p models.ConfigPatch) {
				if !p.IsEmpty() {
					t.Errorf("expected empty patch, got %+v", p)
				}
			},
		},
		{
			name: "interval and notifications",
			form: SettingsFormModel{
				AskEnabled:           current.AskEnabled,
				AskIntervalMinutes:   " 30 ",
				NotificationsEnabled: !current.NotificationsEnabled,
				BackupKeepDays:       "10",
			},
			check: func(t *testing.T, p models.ConfigPatch) {
				if p.AskIntervalMinutes == nil || *p.AskIntervalMinutes != 30 {
					t.Errorf("expected interval 30, got %v", p.AskIntervalMinutes)
				}
				if p.NotificationsEnabled == nil {
					t.Error("expected notifications change")
				}
				if p.AskEnabled != nil || p.BackupKeepDays != nil {
					t.Errorf("unexpected fields in patch %+v", p)
				}
			},
		},
		{
			name:    "bad interval",
			form:    SettingsFormModel{AskIntervalMinutes: "soon", BackupKeepDays: "10"},
			wantErr: true,
		},
		{
			name:    "bad keep days",
			form:    SettingsFormModel{AskIntervalMinutes: "15", BackupKeepDays: ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.form.Patch(current)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Patch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, p)
			}
		})
	}
}

func TestQuitKey(t *testing.T) {
	m, _, _ := setupTestModel(t)

	m, cmd := update(t, m, keyPress("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("expected empty view after quit")
	}
}

func TestErrMsgShowsInStatus(t *testing.T) {
	m, _, _ := setupTestModel(t)
	m.status = "Saved"

	m, _ = update(t, m, errMsg{err: context.DeadlineExceeded})
	if m.status != "" || !strings.Contains(m.View(), "Error:") {
		t.Error("error not rendered")
	}
}

func TestSurface(t *testing.T) {
	s := NewSurface()
	if err := s.Focus(); err == nil {
		t.Error("expected error with no program attached")
	}
	s.OpenPrompt()

	var bell strings.Builder
	var sent []tea.Msg
	s.bell = &bell
	s.send = func(msg tea.Msg) { sent = append(sent, msg) }

	if err := s.Focus(); err != nil {
		t.Fatalf("Focus failed: %v", err)
	}
	if !s.Focused() {
		t.Error("expected focused after Focus")
	}
	if bell.String() != "\a" {
		t.Errorf("expected one bell, got %q", bell.String())
	}
	s.OpenPrompt()

	if len(sent) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(sent))
	}
	if _, ok := sent[0].(focusMsg); !ok {
		t.Errorf("expected focusMsg, got %T", sent[0])
	}
	if _, ok := sent[1].(promptMsg); !ok {
		t.Errorf("expected promptMsg, got %T", sent[1])
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00"},
		{1500, "00:02"},
		{int64(15 * time.Minute / time.Millisecond), "15:00"},
		{int64((90*time.Minute + 5*time.Second) / time.Millisecond), "90:05"},
	}
	for _, tt := range tests {
		if got := formatRemaining(tt.ms); got != tt.want {
			t.Errorf("formatRemaining(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestInfoAndConfigMessagesUpdateModel(t *testing.T) {
	m, _, _ := setupTestModel(t)

	m, _ = update(t, m, infoMsg(session.PromptInfo{Running: true, RemainingMs: 90000, IntervalMin: 7}))
	if !m.info.Running || m.info.IntervalMin != 7 {
		t.Errorf("info not applied: %+v", m.info)
	}
	if !strings.Contains(m.View(), "01:30") {
		t.Error("countdown not rendered from info")
	}

	cfg := models.DefaultConfig()
	cfg.AskEnabled = false
	m, cmd := update(t, m, configMsg(cfg))
	if m.config.AskEnabled {
		t.Error("config not applied")
	}
	if cmd == nil {
		t.Error("expected countdown refresh after config change")
	}
	if !strings.Contains(m.View(), "Prompting is off") {
		t.Error("view does not reflect disabled prompting")
	}
}

func TestFilterEntries(t *testing.T) {
	m, sess, _ := setupTestModel(t)
	for _, text := range []string{"Review PR", "lunch", "review notes"} {
		if _, err := sess.SaveEntry(text); err != nil {
			t.Fatalf("SaveEntry failed: %v", err)
		}
	}
	m, _ = update(t, m, entriesMsg(sess.ReadEntries(0)))

	m, _ = update(t, m, keyPress("/"))
	if !m.filtering {
		t.Fatal("expected filter input to open")
	}
	m, _ = update(t, m, keyPress("review"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.filtering {
		t.Error("enter should leave the filter input")
	}

	got := m.visibleEntries()
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %+v", got)
	}
	view := m.View()
	if !strings.Contains(view, "Review PR") || strings.Contains(view, "lunch") {
		t.Errorf("filtered view wrong:\n%s", view)
	}

	m, _ = update(t, m, keyPress("/"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.filtering || m.filter.Value() != "" || len(m.visibleEntries()) != 3 {
		t.Errorf("esc should clear the filter: filtering=%v value=%q", m.filtering, m.filter.Value())
	}
}

func TestFilterCapturesLetterKeys(t *testing.T) {
	m, _, _ := setupTestModel(t)

	m, _ = update(t, m, keyPress("/"))
	m, _ = update(t, m, keyPress("q"))
	if m.quitting {
		t.Fatal("typing q in the filter quit the TUI")
	}
	if m.filter.Value() != "q" {
		t.Errorf("expected filter value q, got %q", m.filter.Value())
	}
}

func TestPromptSaveAndStopAsking(t *testing.T) {
	m, sess, _ := setupTestModel(t)

	m, _ = update(t, m, keyPress("p"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.state != ViewPrompt || m.formError == "" || cmd != nil {
		t.Fatal("empty entry should stay in the prompt with an error")
	}

	m.promptForm.Text = "  deep work "
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.state != ViewLog {
		t.Fatalf("expected log view after save, got state %d", m.state)
	}

	var saved *savedMsg
	for _, msg := range collect(cmd) {
		if s, ok := msg.(savedMsg); ok {
			saved = &s
		}
	}
	if saved == nil || saved.config == nil {
		t.Fatal("expected savedMsg carrying the updated config")
	}
	if len(saved.entries) != 1 || saved.entries[0].Text != "deep work" {
		t.Errorf("unexpected entries %+v", saved.entries)
	}
	if sess.GetConfig().AskEnabled {
		t.Error("ask_enabled still on after save and stop")
	}

	m, _ = update(t, m, *saved)
	if m.config.AskEnabled || m.status != "Saved and disabled prompts" {
		t.Errorf("model not updated: ask=%v status=%q", m.config.AskEnabled, m.status)
	}
}

func TestPromptSkipNext(t *testing.T) {
	m, sess, surface := setupTestModel(t)

	m, _ = update(t, m, keyPress("p"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.state != ViewLog || surface.Focused() {
		t.Fatal("skip should close the prompt")
	}

	var found bool
	for _, msg := range collect(cmd) {
		if _, ok := msg.(statusMsg); ok {
			found = true
		}
	}
	if !found {
		t.Error("expected a status message")
	}
	if !sess.GetConfig().SkipNext {
		t.Error("skip_next not persisted")
	}
}

func TestSettingsReset(t *testing.T) {
	m, sess, _ := setupTestModel(t)
	if _, err := sess.SetConfig(models.ConfigPatch{AskIntervalMinutes: intPtr(40)}); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}

	m, _ = update(t, m, keyPress("s"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.state != ViewLog || cmd == nil {
		t.Fatal("reset should close the settings form")
	}

	msg, ok := cmd().(settingsSavedMsg)
	if !ok {
		t.Fatal("expected settingsSavedMsg")
	}
	if msg.config.AskIntervalMinutes != 15 || sess.GetConfig().AskIntervalMinutes != 15 {
		t.Errorf("interval not reset: %d", sess.GetConfig().AskIntervalMinutes)
	}

	m, _ = update(t, m, msg)
	if m.status != "Settings reset" || m.config.AskIntervalMinutes != 15 {
		t.Errorf("model not updated: status=%q config=%+v", m.status, m.config)
	}
}

func intPtr(v int) *int { return &v }
