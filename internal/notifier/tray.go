package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/worktrack/internal/constants"
)

// ErrTrayNotRunning means no live companion tray process was found.
var ErrTrayNotRunning = errors.New(constants.TrayProcessPrefix + " is not running")

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// trayLock is the "port|pid|secret" record the tray process writes on startup.
type trayLock struct {
	Port   int
	PID    int
	Secret string
}

func parseTrayLock(data []byte) (trayLock, error) {
	parts := strings.Split(strings.TrimSpace(string(data)), "|")
	if len(parts) != 3 {
		return trayLock{}, fmt.Errorf("lockfile is malformed: want port|pid|secret, got %d fields", len(parts))
	}

	var lock trayLock
	var err error
	if lock.Port, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return trayLock{}, fmt.Errorf("lockfile port %q: %w", parts[0], err)
	}
	if lock.Port < 1 || lock.Port > 65535 {
		return trayLock{}, fmt.Errorf("lockfile port %d is out of range", lock.Port)
	}
	if lock.PID, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return trayLock{}, fmt.Errorf("lockfile pid %q: %w", parts[1], err)
	}
	if lock.Secret = strings.TrimSpace(parts[2]); lock.Secret == "" {
		return trayLock{}, errors.New("lockfile secret is empty")
	}
	return lock, nil
}

// verify checks that the pid still belongs to the tray binary. A stale lockfile
// left by a crashed tray often points at a recycled pid.
func (l trayLock) verify() error {
	proc, err := findProcessFunc(l.PID)
	if err != nil || proc == nil {
		return ErrTrayNotRunning
	}
	if !strings.HasPrefix(proc.Executable(), constants.TrayProcessPrefix) {
		return fmt.Errorf("%w: pid %d belongs to %s", ErrTrayNotRunning, l.PID, proc.Executable())
	}
	return nil
}

// TrayLockPath is <user config dir>/worktrack-tray/worktrack-notifier.lock.
func TrayLockPath() (string, error) {
	dir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(dir, constants.TrayAppIdentifier, constants.NotifierLockfileName), nil
}

func readTrayLock() (trayLock, error) {
	path, err := TrayLockPath()
	if err != nil {
		return trayLock{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return trayLock{}, ErrTrayNotRunning
		}
		return trayLock{}, err
	}
	lock, err := parseTrayLock(data)
	if err != nil {
		return trayLock{}, err
	}
	return lock, lock.verify()
}

// TrayStatus returns nil when a live tray process owns the lockfile.
func TrayStatus() error {
	_, err := readTrayLock()
	return err
}

// trayMessage is the JSON body the tray process accepts.
type trayMessage struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	TimeoutMs uint32 `json:"timeout_ms"`
}

// TrayNotifier posts notifications to the optional worktrack-tray companion.
// The companion ships separately; without it Notify returns ErrTrayNotRunning
// and the Chain moves on.
type TrayNotifier struct {
	client *http.Client
}

func NewTray() *TrayNotifier {
	return &TrayNotifier{client: &http.Client{Timeout: constants.NotifyTimeout}}
}

func (n *TrayNotifier) Notify(title, body string) error {
	lock, err := readTrayLock()
	if err != nil {
		return err
	}
	return n.post(lock, trayMessage{
		Title:     title,
		Body:      body,
		TimeoutMs: constants.NotificationDurationMs,
	})
}

func (n *TrayNotifier) post(lock trayLock, msg trayMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.NotifyTimeout)
	defer cancel()

	url := "http://127.0.0.1:" + strconv.Itoa(lock.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TraySecretHeader, lock.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("tray rejected notification: %s: %s", res.Status, strings.TrimSpace(string(detail)))
	}
	return nil
}
