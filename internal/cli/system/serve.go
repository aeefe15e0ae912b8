package system

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/julianstephens/worktrack/internal/cli"
	"github.com/julianstephens/worktrack/internal/constants"
	worktrackmcp "github.com/julianstephens/worktrack/internal/mcp"
)

// ServeCmd exposes the session over MCP on stdin/stdout.
type ServeCmd struct {
	Schedule bool `help:"Also run the prompt scheduler while serving."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	sess := ctx.Session
	defer sess.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Schedule {
		sess.Start()
	}

	server := worktrackmcp.NewServer(constants.Version, sess)
	if err := server.Run(runCtx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
