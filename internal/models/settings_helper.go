package models

import (
	"fmt"

	"github.com/julianstephens/worktrack/internal/constants"
)

// ApplyDefaultConfig repairs out-of-range values with defaults.
func ApplyDefaultConfig(cfg *Config) {
	if cfg.AskIntervalMinutes < constants.MinIntervalMinutes {
		cfg.AskIntervalMinutes = constants.DefaultAskIntervalMinutes
	}
	if cfg.BackupKeepDays < 1 {
		cfg.BackupKeepDays = constants.DefaultBackupKeepDays
	}
}

// ConfigToMap converts a Config to a map of key-value strings for display.
func ConfigToMap(cfg Config) map[string]string {
	return map[string]string{
		constants.SettingAskEnabled:           fmt.Sprintf("%v", cfg.AskEnabled),
		constants.SettingAskIntervalMinutes:   fmt.Sprintf("%d", cfg.AskIntervalMinutes),
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", cfg.NotificationsEnabled),
		constants.SettingBackupKeepDays:       fmt.Sprintf("%d", cfg.BackupKeepDays),
		constants.SettingSkipNext:             fmt.Sprintf("%v", cfg.SkipNext),
	}
}

// ConfigKeys lists recognized keys in display order
func ConfigKeys() []string {
	return []string{
		constants.SettingAskEnabled,
		constants.SettingAskIntervalMinutes,
		constants.SettingNotificationsEnabled,
		constants.SettingBackupKeepDays,
		constants.SettingSkipNext,
	}
}
