package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/worktrack/internal/constants"
	"github.com/julianstephens/worktrack/internal/models"
	"github.com/julianstephens/worktrack/internal/session"
	"github.com/julianstephens/worktrack/internal/storage"
)

type ViewState int

const (
	ViewLog ViewState = iota
	ViewPrompt
	ViewSettings
)

type PromptFormModel struct {
	Text string
}

type SettingsFormModel struct {
	AskEnabled           bool
	AskIntervalMinutes   string
	NotificationsEnabled bool
	BackupKeepDays       string
}

// Patch converts the form fields into a config patch. Only changed fields are set.
func (fm SettingsFormModel) Patch(current models.Config) (models.ConfigPatch, error) {
	var patch models.ConfigPatch

	interval, err := strconv.Atoi(strings.TrimSpace(fm.AskIntervalMinutes))
	if err != nil {
		return patch, errors.New("interval must be a whole number of minutes")
	}
	keep, err := strconv.Atoi(strings.TrimSpace(fm.BackupKeepDays))
	if err != nil {
		return patch, errors.New("backups to keep must be a whole number")
	}

	if fm.AskEnabled != current.AskEnabled {
		patch.AskEnabled = &fm.AskEnabled
	}
	if interval != current.AskIntervalMinutes {
		patch.AskIntervalMinutes = &interval
	}
	if fm.NotificationsEnabled != current.NotificationsEnabled {
		patch.NotificationsEnabled = &fm.NotificationsEnabled
	}
	if keep != current.BackupKeepDays {
		patch.BackupKeepDays = &keep
	}
	return patch, nil
}

type Model struct {
	ctx     context.Context
	sess    *session.Session
	surface *Surface

	keys KeyMap
	help help.Model

	state   ViewState
	entries []models.Entry
	config  models.Config
	info    session.PromptInfo

	filter    textinput.Model
	filtering bool

	form         *huh.Form
	promptForm   *PromptFormModel
	settingsForm *SettingsFormModel
	formError    string

	status string
	err    error

	watchCh     <-chan storage.Event
	watchCancel context.CancelFunc

	width    int
	height   int
	quitting bool
}

// NewModel builds the TUI for sess. surface may be nil when no scheduler
// prompts are routed to the TUI.
func NewModel(ctx context.Context, sess *session.Session, surface *Surface) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter entries"

	return Model{
		ctx:     ctx,
		sess:    sess,
		surface: surface,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		state:   ViewLog,
		config:  sess.GetConfig(),
		entries: sess.ReadEntries(0),
		info:    sess.NextPromptInfo(),
		filter:  filter,
	}
}

// visibleEntries applies the filter query, a case-insensitive substring match.
func (m Model) visibleEntries() []models.Entry {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if q == "" {
		return m.entries
	}
	var out []models.Entry
	for _, e := range m.entries {
		if strings.Contains(strings.ToLower(e.Text), q) {
			out = append(out, e)
		}
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(constants.AppName),
		tickCmd(),
		startWatchCmd(m.ctx, m.sess),
	)
}

func newPromptForm(fm *PromptFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(constants.PromptTitle).
				Description(constants.PromptBody).
				Placeholder("Writing the quarterly report").
				Value(&fm.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("entry cannot be empty")
					}
					return nil
				}),
		),
	)
}

func newSettingsForm(fm *SettingsFormModel) *huh.Form {
	positive := func(label string) func(string) error {
		return func(s string) error {
			i, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return err
			}
			if i < constants.MinIntervalMinutes {
				return errors.New(label + " must be at least 1")
			}
			return nil
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Ask what I'm working on").
				Value(&fm.AskEnabled),
			huh.NewInput().
				Title("Interval (minutes)").
				Value(&fm.AskIntervalMinutes).
				Validate(positive("interval")),
			huh.NewConfirm().
				Title("Native notifications").
				Description("Falls back to opening the prompt when unavailable").
				Value(&fm.NotificationsEnabled),
			huh.NewInput().
				Title("Backup files to keep").
				Value(&fm.BackupKeepDays).
				Validate(positive("backups to keep")),
		),
	)
}

func settingsFormFrom(cfg models.Config) *SettingsFormModel {
	return &SettingsFormModel{
		AskEnabled:           cfg.AskEnabled,
		AskIntervalMinutes:   strconv.Itoa(cfg.AskIntervalMinutes),
		NotificationsEnabled: cfg.NotificationsEnabled,
		BackupKeepDays:       strconv.Itoa(cfg.BackupKeepDays),
	}
}
