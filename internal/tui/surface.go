package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

var errNoProgram = errors.New("tui program not attached")

// Surface routes scheduler prompts into a running tea.Program.
type Surface struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	bell    io.Writer
	focused bool
}

func NewSurface() *Surface {
	return &Surface{bell: os.Stderr}
}

// Attach starts forwarding to p. Call before p.Run.
func (s *Surface) Attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.send = nil
		return
	}
	s.send = p.Send
}

func (s *Surface) sender() func(tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.send
}

// Focus raises the prompt view. The terminal cannot be pulled to the front,
// so the window title changes and the bell rings instead.
func (s *Surface) Focus() error {
	send := s.sender()
	if send == nil {
		return errNoProgram
	}
	if s.bell != nil {
		fmt.Fprint(s.bell, "\a")
	}
	send(focusMsg{})
	s.setFocused(true)
	return nil
}

// Focused reports whether the prompt view is showing.
func (s *Surface) Focused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

func (s *Surface) OpenPrompt() {
	if send := s.sender(); send != nil {
		send(promptMsg{})
	}
}

func (s *Surface) setFocused(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = v
}
