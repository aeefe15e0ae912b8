package constants

import "time"

const (
	AppName = "worktrack"
	Version = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat matches the millisecond ISO-8601 form written for entries
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// Data file constants
	DataFileName   = "data.json"
	ConfigFileName = "config.json"
	LogDirName     = "logs"
	LogFileName    = "worktrack.log"
	FilePerm       = 0600
	DirPerm        = 0700

	// DefaultReadLimit is the number of entries returned when no limit is given
	DefaultReadLimit = 200

	// BackupWriteThreshold is the number of saved entries that triggers a backup
	BackupWriteThreshold = 20

	// Backup constants
	BackupDirName         = "backups"
	BackupFilePrefix      = "data-"
	BackupFileSuffix      = ".json"
	BackupFormatVer       = 1
	BackupWriteTestPrefix = ".write-test-"

	// Prompt constants
	PromptTitle        = "What are you working on?"
	PromptBody         = "Click to log your activity."
	StartupPromptDelay = 300 * time.Millisecond
	MinIntervalMinutes = 1

	SettingsSavedTitle  = "Work Tracker settings saved"
	SettingsSavedFormat = "Next prompt in %d minute(s)"

	// Focus retry constants
	FocusMaxAttempts = 3
	FocusRetryDelay  = 500 * time.Millisecond

	// Notify constants
	NotifyTimeout          = 2 * time.Second
	NotifierLockfileName   = "worktrack-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "worktrack-tray"
	TrayProcessPrefix      = "worktrack-tray"
	TraySecretHeader       = "X-Worktrack-Secret"

	// Environment override checked by the notification check
	EnvDisableNotifications = "WORK_TRACKER_DISABLE_NOTIFICATIONS"
)
