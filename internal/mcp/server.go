// Package mcp exposes worktrack session operations as Model Context Protocol tools.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/julianstephens/worktrack/internal/constants"
	"github.com/julianstephens/worktrack/internal/session"
)

// NewServer creates an MCP server with all worktrack tools registered.
func NewServer(version string, sess *session.Session) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    constants.AppName,
		Version: version,
	}, nil)
	registerTools(server, sess)
	return server
}

func boolPtr(b bool) *bool {
	return &b
}

func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// destructiveAnnotations marks tools that replace existing data.
func destructiveAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
}

func registerTools(server *mcp.Server, sess *session.Session) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_entries",
		Description: "List logged activity entries, newest first. Defaults to the 200 most recent.",
		Annotations: readOnlyAnnotations(),
	}, handleReadEntries(sess))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_entry",
		Description: "Log what you are working on right now. Returns the refreshed entry list.",
		Annotations: writeAnnotations(),
	}, handleSaveEntry(sess))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_config",
		Description: "Show the prompt, notification and backup settings.",
		Annotations: readOnlyAnnotations(),
	}, handleGetConfig(sess))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_config",
		Description: "Change one or more settings. Omitted settings keep their current value.",
		Annotations: writeAnnotations(),
	}, handleSetConfig(sess))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "skip_next",
		Description: "Suppress the next scheduled prompt only.",
		Annotations: writeAnnotations(),
	}, handleSkipNext(sess))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_backup",
		Description: "Write today's backup of the entry log and prune old backups.",
		Annotations: writeAnnotations(),
	}, handleCreateBackup(sess))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_backup_path",
		Description: "Show the directory backups are written to.",
		Annotations: readOnlyAnnotations(),
	}, handleGetBackupPath(sess))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "restore_from_file",
		Description: "Replace the entire entry log with the entries in a backup file.",
		Annotations: destructiveAnnotations(),
	}, handleRestoreFromFile(sess))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "next_prompt_info",
		Description: "Show when the next prompt is due.",
		Annotations: readOnlyAnnotations(),
	}, handleNextPromptInfo(sess))
}
