package notifier

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/julianstephens/worktrack/internal/constants"
)

var runCommand = func(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// CommandNotifier shells out to the platform notification tool.
type CommandNotifier struct {
	goos string
}

func NewCommand() *CommandNotifier {
	return &CommandNotifier{goos: runtime.GOOS}
}

func (n *CommandNotifier) Notify(title, body string) error {
	name, args, err := notifyCommand(n.goos, title, body)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.NotifyTimeout)
	defer cancel()
	return runCommand(ctx, name, args...)
}

func notifyCommand(goos, title, body string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "notify-send", []string{"--app-name", constants.AppName, title, body}, nil
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", appleScriptQuote(body), appleScriptQuote(title))
		return "osascript", []string{"-e", script}, nil
	case "windows":
		script := fmt.Sprintf(windowsToastScript, powershellQuote(title), powershellQuote(body), constants.NotificationDurationMs)
		return "powershell", []string{"-NoProfile", "-NonInteractive", "-Command", script}, nil
	default:
		return "", nil, fmt.Errorf("notifications are not supported on %s", goos)
	}
}

const windowsToastScript = `Add-Type -AssemblyName System.Windows.Forms;` +
	`$n = New-Object System.Windows.Forms.NotifyIcon;` +
	`$n.Icon = [System.Drawing.SystemIcons]::Information;` +
	`$n.Visible = $true;` +
	`$n.ShowBalloonTip(5000, %s, %s, 'Info');` +
	`Start-Sleep -Milliseconds %d;` +
	`$n.Dispose()`

func appleScriptQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func powershellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
