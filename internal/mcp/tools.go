package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/julianstephens/worktrack/internal/models"
	"github.com/julianstephens/worktrack/internal/session"
)

// --- Shared types ---

// EntryOut is an entry with its timestamp in the on-disk form.
type EntryOut struct {
	Text string `json:"text" jsonschema:"what was being worked on"`
	TS   string `json:"ts"   jsonschema:"ISO-8601 UTC timestamp"`
}

// EntriesOutput is returned by read_entries and save_entry.
type EntriesOutput struct {
	Count   int        `json:"count"   jsonschema:"number of entries returned"`
	Entries []EntryOut `json:"entries" jsonschema:"entries, newest first"`
}

// ConfigOutput mirrors the recognized config keys.
type ConfigOutput struct {
	AskEnabled           bool `json:"ask_enabled"           jsonschema:"whether prompting is active"`
	AskIntervalMinutes   int  `json:"ask_interval_minutes"  jsonschema:"prompt period in minutes"`
	NotificationsEnabled bool `json:"notifications_enabled" jsonschema:"whether native notifications are attempted"`
	BackupKeepDays       int  `json:"backup_keep_days"      jsonschema:"number of backup files kept"`
	SkipNext             bool `json:"skip_next"             jsonschema:"next prompt will be skipped"`
}

// PathOutput carries a single filesystem path.
type PathOutput struct {
	Path string `json:"path" jsonschema:"absolute path"`
}

type NoInput struct{}

func toEntriesOutput(entries []models.Entry) EntriesOutput {
	out := EntriesOutput{Count: len(entries), Entries: make([]EntryOut, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, EntryOut{Text: e.Text, TS: e.Timestamp()})
	}
	return out
}

func toConfigOutput(cfg models.Config) ConfigOutput {
	return ConfigOutput{
		AskEnabled:           cfg.AskEnabled,
		AskIntervalMinutes:   cfg.AskIntervalMinutes,
		NotificationsEnabled: cfg.NotificationsEnabled,
		BackupKeepDays:       cfg.BackupKeepDays,
		SkipNext:             cfg.SkipNext,
	}
}

// --- Entries ---

type ReadEntriesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum entries to return (default 200)"`
}

func handleReadEntries(sess *session.Session) mcp.ToolHandlerFor[ReadEntriesInput, EntriesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ReadEntriesInput) (*mcp.CallToolResult, EntriesOutput, error) {
		return nil, toEntriesOutput(sess.ReadEntries(input.Limit)), nil
	}
}

type SaveEntryInput struct {
	Text string `json:"text" jsonschema:"what you are working on (required)"`
}

func handleSaveEntry(sess *session.Session) mcp.ToolHandlerFor[SaveEntryInput, EntriesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SaveEntryInput) (*mcp.CallToolResult, EntriesOutput, error) {
		entries, err := sess.SaveEntry(input.Text)
		if err != nil {
			return nil, EntriesOutput{}, err
		}
		return nil, toEntriesOutput(entries), nil
	}
}

// --- Config ---

func handleGetConfig(sess *session.Session) mcp.ToolHandlerFor[NoInput, ConfigOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, ConfigOutput, error) {
		return nil, toConfigOutput(sess.GetConfig()), nil
	}
}

type SetConfigInput struct {
	AskEnabled           *bool `json:"ask_enabled,omitempty"           jsonschema:"enable or disable prompting"`
	AskIntervalMinutes   *int  `json:"ask_interval_minutes,omitempty"  jsonschema:"prompt period in minutes (at least 1)"`
	NotificationsEnabled *bool `json:"notifications_enabled,omitempty" jsonschema:"enable or disable native notifications"`
	BackupKeepDays       *int  `json:"backup_keep_days,omitempty"      jsonschema:"number of backup files to keep (at least 1)"`
}

func handleSetConfig(sess *session.Session) mcp.ToolHandlerFor[SetConfigInput, ConfigOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SetConfigInput) (*mcp.CallToolResult, ConfigOutput, error) {
		patch := models.ConfigPatch{
			AskEnabled:           input.AskEnabled,
			AskIntervalMinutes:   input.AskIntervalMinutes,
			NotificationsEnabled: input.NotificationsEnabled,
			BackupKeepDays:       input.BackupKeepDays,
		}
		if patch.IsEmpty() {
			return nil, ConfigOutput{}, errors.New("no settings given")
		}
		cfg, err := sess.SetConfig(patch)
		if err != nil {
			return nil, ConfigOutput{}, err
		}
		return nil, toConfigOutput(cfg), nil
	}
}

func handleSkipNext(sess *session.Session) mcp.ToolHandlerFor[NoInput, ConfigOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, ConfigOutput, error) {
		cfg, err := sess.SkipNext()
		if err != nil {
			return nil, ConfigOutput{}, err
		}
		return nil, toConfigOutput(cfg), nil
	}
}

// --- Backups ---

func handleCreateBackup(sess *session.Session) mcp.ToolHandlerFor[NoInput, PathOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, PathOutput, error) {
		path, err := sess.CreateBackup()
		if err != nil {
			return nil, PathOutput{}, err
		}
		return nil, PathOutput{Path: path}, nil
	}
}

func handleGetBackupPath(sess *session.Session) mcp.ToolHandlerFor[NoInput, PathOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, PathOutput, error) {
		return nil, PathOutput{Path: sess.GetBackupPath()}, nil
	}
}

type RestoreInput struct {
	Path string `json:"path" jsonschema:"backup file to restore from (required)"`
}

type RestoreOutput struct {
	Restored int `json:"restored" jsonschema:"number of entries now in the log"`
}

func handleRestoreFromFile(sess *session.Session) mcp.ToolHandlerFor[RestoreInput, RestoreOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RestoreInput) (*mcp.CallToolResult, RestoreOutput, error) {
		if input.Path == "" {
			return nil, RestoreOutput{}, errors.New("path is required")
		}
		n, err := sess.RestoreFromFile(input.Path)
		if err != nil {
			return nil, RestoreOutput{}, err
		}
		return nil, RestoreOutput{Restored: n}, nil
	}
}

// --- Scheduler ---

type NextPromptOutput struct {
	Running         bool   `json:"running"              jsonschema:"whether this process is scheduling prompts"`
	RemainingMs     int64  `json:"remaining_ms"         jsonschema:"milliseconds until the next prompt"`
	NextFire        string `json:"next_fire,omitempty"  jsonschema:"RFC3339 time of the next prompt"`
	IntervalMinutes int    `json:"interval_minutes"     jsonschema:"prompt period in minutes"`
}

func handleNextPromptInfo(sess *session.Session) mcp.ToolHandlerFor[NoInput, NextPromptOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, NextPromptOutput, error) {
		info := sess.NextPromptInfo()
		out := NextPromptOutput{
			Running:         info.Running,
			RemainingMs:     info.RemainingMs,
			IntervalMinutes: info.IntervalMin,
		}
		if !info.NextFire.IsZero() {
			out.NextFire = info.NextFire.UTC().Format(time.RFC3339)
		}
		return nil, out, nil
	}
}
