package constants

const (
	// Config keys
	SettingAskEnabled           = "ask_enabled"
	SettingAskIntervalMinutes   = "ask_interval_minutes"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingBackupKeepDays       = "backup_keep_days"
	SettingSkipNext             = "skip_next"

	// Default config values
	DefaultAskEnabled           = true
	DefaultAskIntervalMinutes   = 15
	DefaultNotificationsEnabled = true
	DefaultBackupKeepDays       = 10
	DefaultSkipNext             = false
)
