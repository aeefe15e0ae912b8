package notifier

import (
	"os"
	"runtime"
	"strings"

	"github.com/julianstephens/worktrack/internal/constants"
)

var (
	getenv   = os.Getenv
	readFile = os.ReadFile
	goos     = runtime.GOOS
)

// NotifyCheck decides whether a native notification is worth attempting.
type NotifyCheck struct {
	// Disabled is set by the --no-notify flag.
	Disabled bool
}

// Available reports false when notifications are disabled by flag or environment,
// when a Linux host has no graphical session, or when running under WSL.
func (p NotifyCheck) Available() bool {
	return p.Reason() == ""
}

// Reason explains why Available returned false, or "" when it did not.
func (p NotifyCheck) Reason() string {
	switch {
	case p.Disabled:
		return "disabled by flag"
	case getenv(constants.EnvDisableNotifications) == "1":
		return "disabled by " + constants.EnvDisableNotifications
	case goos != "linux":
		return ""
	case getenv("DISPLAY") == "" && getenv("WAYLAND_DISPLAY") == "" && getenv("XDG_RUNTIME_DIR") == "":
		return "no graphical session"
	}
	if data, err := readFile("/proc/version"); err == nil {
		v := strings.ToLower(string(data))
		if strings.Contains(v, "microsoft") || strings.Contains(v, "wsl") {
			return "running under WSL"
		}
	}
	return ""
}
