package notifier

import (
	"errors"
)

// Notifier delivers a desktop notification.
type Notifier interface {
	Notify(title, body string) error
}

// Chain tries each backend in order and stops at the first success.
type Chain []Notifier

// Notify returns nil once any backend succeeds, otherwise every backend error joined.
func (c Chain) Notify(title, body string) error {
	if len(c) == 0 {
		return errors.New("no notification backends configured")
	}
	var errs []error
	for _, n := range c {
		if n == nil {
			continue
		}
		if err := n.Notify(title, body); err != nil {
			errs = append(errs, err)
			continue
		}
		return nil
	}
	return errors.Join(errs...)
}

// Default returns the tray backend followed by the platform command.
func Default() Chain {
	return Chain{NewTray(), NewCommand()}
}
