package system

import (
	"fmt"

	"github.com/julianstephens/worktrack/internal/cli"
	"github.com/julianstephens/worktrack/internal/constants"
	"github.com/julianstephens/worktrack/internal/notifier"
)

var newNotifier = func() notifier.Notifier { return notifier.Default() }

type NotifyCmd struct {
	Title  string `help:"Notification title. Defaults to the prompt title."`
	Body   string `help:"Notification body. Defaults to the prompt text."`
	DryRun bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	title, body := c.Title, c.Body
	if title == "" {
		title = constants.PromptTitle
	}
	if body == "" {
		body = constants.PromptBody
	}

	if reason := ctx.NotifyCheck.Reason(); reason != "" {
		ctx.Printf("Notifications unavailable: %s\n", reason)
		return nil
	}
	if c.DryRun {
		ctx.Printf("[DryRun] %s: %s\n", title, body)
		return nil
	}

	if err := newNotifier().Notify(title, body); err != nil {
		return fmt.Errorf("notification failed: %w", err)
	}
	ctx.Printf("✓ Notification sent.\n")
	return nil
}
