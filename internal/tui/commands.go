package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/worktrack/internal/models"
	"github.com/julianstephens/worktrack/internal/session"
	"github.com/julianstephens/worktrack/internal/storage"
)

// Every session call runs inside a tea.Cmd. The scheduler delivers prompts
// through Program.Send, which blocks while Update is running.

type (
	tickMsg    time.Time
	focusMsg   struct{}
	promptMsg  struct{}
	infoMsg    session.PromptInfo
	entriesMsg []models.Entry
	configMsg  models.Config
	statusMsg  string
	errMsg     struct{ err error }
)

// savedMsg carries the refreshed log. config is set when saving also changed settings.
type savedMsg struct {
	entries []models.Entry
	config  *models.Config
}

type settingsSavedMsg struct {
	config models.Config
	status string
}

type watchStartedMsg struct {
	ch     <-chan storage.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event storage.Event
}

type watchStoppedMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func infoCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return infoMsg(sess.NextPromptInfo())
	}
}

func loadEntriesCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return entriesMsg(sess.ReadEntries(0))
	}
}

func loadConfigCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return configMsg(sess.GetConfig())
	}
}

func saveEntryCmd(sess *session.Session, text string) tea.Cmd {
	return func() tea.Msg {
		entries, err := sess.SaveEntry(text)
		if err != nil {
			return errMsg{err}
		}
		return savedMsg{entries: entries}
	}
}

// saveAndStopCmd saves text, then turns prompting off.
func saveAndStopCmd(sess *session.Session, text string) tea.Cmd {
	return func() tea.Msg {
		entries, err := sess.SaveEntry(text)
		if err != nil {
			return errMsg{err}
		}
		off := false
		cfg, err := sess.SetConfig(models.ConfigPatch{AskEnabled: &off})
		if err != nil {
			return errMsg{err}
		}
		return savedMsg{entries: entries, config: &cfg}
	}
}

func setConfigCmd(sess *session.Session, patch models.ConfigPatch, status string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := sess.SetConfig(patch)
		if err != nil {
			return errMsg{err}
		}
		return settingsSavedMsg{config: cfg, status: status}
	}
}

func skipNextCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		if _, err := sess.SkipNext(); err != nil {
			return errMsg{err}
		}
		return statusMsg("Next prompt will be skipped")
	}
}

func backupCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		path, err := sess.CreateBackup()
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("Backup written to %s", path))
	}
}

func openBackupsCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		dir, err := sess.OpenBackupFolder()
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("Opened %s", dir))
	}
}

// syncScheduleCmd re-reads the interval after config.json changed on disk.
func syncScheduleCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		sess.SyncSchedule()
		return infoMsg(sess.NextPromptInfo())
	}
}

func startWatchCmd(parent context.Context, sess *session.Session) tea.Cmd {
	if sess == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := sess.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}
