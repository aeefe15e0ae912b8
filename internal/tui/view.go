package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/worktrack/internal/constants"
)

// rows taken by tabs, countdown, status and help
const chromeHeight = 8

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case ViewPrompt, ViewSettings:
		content = m.viewForm()
	default:
		content = m.viewLog()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewCountdown(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m.helpKeys()),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Log", "Prompt", "Settings"} {
		if m.state == ViewState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewCountdown() string {
	switch {
	case !m.config.AskEnabled:
		return mutedStyle.Render("Prompting is off")
	case !m.info.Running:
		return mutedStyle.Render(fmt.Sprintf("Scheduler stopped (every %d min)", m.info.IntervalMin))
	}

	line := fmt.Sprintf("Next prompt in %s", countdownStyle.Render(formatRemaining(m.info.RemainingMs)))
	line += mutedStyle.Render(fmt.Sprintf("  every %d min", m.info.IntervalMin))
	if m.config.SkipNext {
		line += mutedStyle.Render("  (skipping next)")
	}
	return line
}

func (m Model) viewLog() string {
	if len(m.entries) == 0 {
		return mutedStyle.Render("No entries yet. Press p to log what you're working on.")
	}

	var b strings.Builder
	chrome := chromeHeight
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		chrome += 2
	}

	entries := m.visibleEntries()
	if len(entries) == 0 {
		b.WriteString(mutedStyle.Render("No entries match the filter."))
		return b.String()
	}

	limit := len(entries)
	if m.height > chrome {
		if avail := m.height - chrome; avail < limit {
			limit = avail
		}
	}

	var day string
	lines := 0
	for _, e := range entries {
		if lines >= limit {
			break
		}
		ts := e.TS.Local()
		if d := ts.Format(constants.DateFormat); d != day {
			if day != "" {
				b.WriteString("\n")
			}
			day = d
			b.WriteString(dayStyle.Render(ts.Format("Monday, Jan 2")))
			b.WriteString("\n")
			lines++
		}
		text := strings.ReplaceAll(e.Text, "\n", " ")
		fmt.Fprintf(&b, "%s  %s\n", timeStyle.Render(ts.Format("15:04")), text)
		lines++
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	view := m.form.View()
	if m.formError != "" {
		view += "\n" + errorStyle.Render(m.formError)
	}
	return view
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

func formatRemaining(ms int64) string {
	d := (time.Duration(ms) * time.Millisecond).Round(time.Second)
	m := int(d / time.Minute)
	s := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%02d:%02d", m, s)
}
