package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/worktrack/internal/cli"
	"github.com/julianstephens/worktrack/internal/logger"
	"github.com/julianstephens/worktrack/internal/tui"
)

type RunCmd struct {
	Headless bool `help:"Run the prompt scheduler without the TUI."`
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	sess := ctx.Session
	defer sess.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Headless {
		sess.Start()
		ctx.Printf("worktrack running headless, press Ctrl+C to stop.\n")
		<-runCtx.Done()
		return nil
	}

	surface := tui.NewSurface()
	p := tea.NewProgram(
		tui.NewModel(runCtx, sess, surface),
		tea.WithAltScreen(),
		tea.WithContext(runCtx),
	)
	surface.Attach(p)
	sess.AttachSurface(surface)
	sess.Start()

	_, err := p.Run()
	sess.AttachSurface(nil)
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui failed: %w", err)
	}
	logger.Debug("TUI exited")
	return nil
}
