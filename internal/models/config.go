package models

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"

	"github.com/julianstephens/worktrack/internal/constants"
)

// Config represents the persisted application config
type Config struct {
	AskEnabled           bool `json:"ask_enabled"`                                     // whether prompting is active
	AskIntervalMinutes   int  `json:"ask_interval_minutes" validate:"required|min:1"`  // prompt period in minutes
	NotificationsEnabled bool `json:"notifications_enabled"`                           // allow native notification attempts
	BackupKeepDays       int  `json:"backup_keep_days" validate:"required|min:1"`      // retention count for backup files
	SkipNext             bool `json:"skip_next"`                                       // one-shot prompt suppression

	// Extra holds keys this version does not recognize so they survive a rewrite.
	Extra map[string]json.RawMessage `json:"-"`
}

// ConfigPatch is a partial config update. Nil fields are left untouched.
type ConfigPatch struct {
	AskEnabled           *bool `json:"ask_enabled,omitempty"`
	AskIntervalMinutes   *int  `json:"ask_interval_minutes,omitempty"`
	NotificationsEnabled *bool `json:"notifications_enabled,omitempty"`
	BackupKeepDays       *int  `json:"backup_keep_days,omitempty"`
	SkipNext             *bool `json:"skip_next,omitempty"`
}

// DefaultConfig returns the config used on first run
func DefaultConfig() Config {
	return Config{
		AskEnabled:           constants.DefaultAskEnabled,
		AskIntervalMinutes:   constants.DefaultAskIntervalMinutes,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		BackupKeepDays:       constants.DefaultBackupKeepDays,
		SkipNext:             constants.DefaultSkipNext,
	}
}

var knownKeys = map[string]bool{
	constants.SettingAskEnabled:           true,
	constants.SettingAskIntervalMinutes:   true,
	constants.SettingNotificationsEnabled: true,
	constants.SettingBackupKeepDays:       true,
	constants.SettingSkipNext:             true,
}

type configAlias Config

// UnmarshalJSON decodes over the current values, so decoding into DefaultConfig()
// fills missing keys from defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	alias := configAlias(*c)
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra := make(map[string]json.RawMessage)
	for k, v := range raw {
		if !knownKeys[k] {
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		extra = nil
	}

	*c = Config(alias)
	c.Extra = extra
	return nil
}

// MarshalJSON writes the recognized keys plus any preserved unknown keys.
func (c Config) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(knownKeys)+len(c.Extra))
	for k, v := range c.Extra {
		out[k] = v
	}
	out[constants.SettingAskEnabled] = c.AskEnabled
	out[constants.SettingAskIntervalMinutes] = c.AskIntervalMinutes
	out[constants.SettingNotificationsEnabled] = c.NotificationsEnabled
	out[constants.SettingBackupKeepDays] = c.BackupKeepDays
	out[constants.SettingSkipNext] = c.SkipNext
	return json.Marshal(out)
}

// Validate checks value ranges
func (c Config) Validate() error {
	v := validate.Struct(&c)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	return nil
}

// Apply returns c with every non-nil patch field copied over
func (p ConfigPatch) Apply(c Config) Config {
	if p.AskEnabled != nil {
		c.AskEnabled = *p.AskEnabled
	}
	if p.AskIntervalMinutes != nil {
		c.AskIntervalMinutes = *p.AskIntervalMinutes
	}
	if p.NotificationsEnabled != nil {
		c.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.BackupKeepDays != nil {
		c.BackupKeepDays = *p.BackupKeepDays
	}
	if p.SkipNext != nil {
		c.SkipNext = *p.SkipNext
	}
	return c
}

// DefaultsPatch resets every user-facing setting to its first-run value.
// skip_next is left alone.
func DefaultsPatch() ConfigPatch {
	d := DefaultConfig()
	return ConfigPatch{
		AskEnabled:           &d.AskEnabled,
		AskIntervalMinutes:   &d.AskIntervalMinutes,
		NotificationsEnabled: &d.NotificationsEnabled,
		BackupKeepDays:       &d.BackupKeepDays,
	}
}

// IsEmpty reports whether the patch changes nothing
func (p ConfigPatch) IsEmpty() bool {
	return p.AskEnabled == nil && p.AskIntervalMinutes == nil && p.NotificationsEnabled == nil &&
		p.BackupKeepDays == nil && p.SkipNext == nil
}
