package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/worktrack/internal/constants"
	"github.com/julianstephens/worktrack/internal/logger"
	"github.com/julianstephens/worktrack/internal/models"
	"github.com/julianstephens/worktrack/internal/session"
	"github.com/julianstephens/worktrack/internal/storage"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Messages that arrive regardless of the active view
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tickMsg:
		return m, tea.Batch(infoCmd(m.sess), tickCmd())
	case infoMsg:
		m.info = session.PromptInfo(msg)
		return m, nil
	case entriesMsg:
		m.entries = msg
		return m, nil
	case configMsg:
		m.config = models.Config(msg)
		return m, infoCmd(m.sess)
	case savedMsg:
		m.entries = msg.entries
		if msg.config != nil {
			m.config = *msg.config
			m.setStatus("Saved and disabled prompts")
			return m, infoCmd(m.sess)
		}
		m.setStatus("Saved")
		return m, nil
	case settingsSavedMsg:
		m.config = msg.config
		m.setStatus(msg.status)
		return m, infoCmd(m.sess)
	case statusMsg:
		m.setStatus(string(msg))
		return m, nil
	case errMsg:
		m.err = msg.err
		m.status = ""
		logger.Debug("TUI action failed", "error", msg.err)
		return m, nil
	case focusMsg:
		return m, tea.Batch(tea.SetWindowTitle(constants.PromptTitle), m.openPrompt())
	case promptMsg:
		return m, m.openPrompt()
	case watchStartedMsg:
		if msg.err != nil {
			logger.Warn("Watching data directory failed", "error", msg.err)
			return m, nil
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		return m, m.waitForWatch()
	case watchEventMsg:
		switch msg.event.Type {
		case storage.EventEntriesChanged:
			cmds = append(cmds, loadEntriesCmd(m.sess))
		case storage.EventConfigChanged:
			cmds = append(cmds, loadConfigCmd(m.sess), syncScheduleCmd(m.sess))
		}
		cmds = append(cmds, m.waitForWatch())
		return m, tea.Batch(cmds...)
	case watchStoppedMsg:
		m.stopWatch()
		if m.ctx.Err() != nil {
			return m, nil
		}
		return m, startWatchCmd(m.ctx, m.sess)
	}

	switch m.state {
	case ViewPrompt:
		return m.updatePrompt(msg)
	case ViewSettings:
		return m.updateSettings(msg)
	}

	if m.filtering {
		return m.updateFilter(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.stopWatch()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Prompt):
			return m, m.openPrompt()
		case key.Matches(msg, m.keys.Settings):
			m.settingsForm = settingsFormFrom(m.config)
			m.form = newSettingsForm(m.settingsForm)
			m.formError = ""
			m.state = ViewSettings
			return m, m.form.Init()
		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, m.filter.Focus()
		case key.Matches(msg, m.keys.Skip):
			return m, skipNextCmd(m.sess)
		case key.Matches(msg, m.keys.Backup):
			return m, backupCmd(m.sess)
		case key.Matches(msg, m.keys.Open):
			return m, openBackupsCmd(m.sess)
		case key.Matches(msg, m.keys.Refresh):
			return m, tea.Batch(loadEntriesCmd(m.sess), loadConfigCmd(m.sess))
		}
	}
	return m, tea.Batch(cmds...)
}

// openPrompt shows the entry input. An open prompt keeps what was typed so far.
func (m *Model) openPrompt() tea.Cmd {
	if m.state == ViewPrompt {
		return nil
	}
	m.promptForm = &PromptFormModel{}
	m.formError = ""
	m.form = newPromptForm(m.promptForm)
	m.state = ViewPrompt
	if m.surface != nil {
		m.surface.setFocused(true)
	}
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.state = ViewLog
	m.form = nil
	if m.surface != nil {
		m.surface.setFocused(false)
	}
}

// updateFilter owns the keyboard while the filter input is focused. Enter keeps
// the query, esc clears it.
func (m Model) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.filtering = false
			m.filter.Blur()
			return m, nil
		case tea.KeyEsc:
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m Model) updatePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.closeForm()
			return m, tea.SetWindowTitle(constants.AppName)
		case key.Matches(msg, m.keys.SkipThis):
			m.closeForm()
			return m, tea.Batch(skipNextCmd(m.sess), tea.SetWindowTitle(constants.AppName))
		case key.Matches(msg, m.keys.SaveStop):
			text := strings.TrimSpace(m.promptForm.Text)
			if text == "" {
				m.formError = "entry cannot be empty"
				return m, nil
			}
			m.closeForm()
			return m, tea.Batch(saveAndStopCmd(m.sess, text), tea.SetWindowTitle(constants.AppName))
		}
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		text := strings.TrimSpace(m.promptForm.Text)
		m.closeForm()
		cmds = append(cmds, saveEntryCmd(m.sess, text), tea.SetWindowTitle(constants.AppName))
	case huh.StateAborted:
		m.closeForm()
		cmds = append(cmds, tea.SetWindowTitle(constants.AppName))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.closeForm()
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			m.closeForm()
			return m, setConfigCmd(m.sess, models.DefaultsPatch(), "Settings reset")
		}
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		patch, err := m.settingsForm.Patch(m.config)
		if err != nil {
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, tea.Batch(cmds...)
		}
		m.closeForm()
		if patch.IsEmpty() {
			m.setStatus("No changes")
			break
		}
		cmds = append(cmds, setConfigCmd(m.sess, patch, "Settings saved"))
	case huh.StateAborted:
		m.closeForm()
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.err = nil
}
