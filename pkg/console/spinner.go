package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wfgate/gh-wfgate/pkg/styles"
	"github.com/wfgate/gh-wfgate/pkg/tty"
)

// updateMessageMsg changes the spinner message while it is running.
type updateMessageMsg string

// spinnerModel drives the spinner animation. Rendering happens manually in
// Update because the program runs with WithoutRenderer; View always returns
// an empty string.
type spinnerModel struct {
	spinner spinner.Model
	message string
	output  io.Writer
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMessageMsg:
		m.message = string(msg)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.render()
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	return ""
}

func (m spinnerModel) render() {
	if m.output == nil {
		return
	}
	fmt.Fprintf(m.output, "\r\x1b[K%s %s", m.spinner.View(), m.message)
}

// SpinnerWrapper is a terminal spinner that is safe to start, stop, and
// update from multiple goroutines. It is disabled on non-terminal stderr
// and in accessible mode; disabled spinners accept all calls as no-ops.
type SpinnerWrapper struct {
	mu      sync.Mutex
	message string
	enabled bool
	started bool
	program *tea.Program
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(message string) *SpinnerWrapper {
	return &SpinnerWrapper{
		message: message,
		enabled: tty.IsStderrTerminal() && !IsAccessibleMode(),
	}
}

// IsEnabled reports whether the spinner will animate.
func (s *SpinnerWrapper) IsEnabled() bool {
	return s.enabled
}

// Start begins the animation. Calling Start on a running or disabled
// spinner does nothing.
func (s *SpinnerWrapper) Start() {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}

	model := spinnerModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Info)),
		message: s.message,
		output:  os.Stderr,
	}
	s.program = tea.NewProgram(model, tea.WithoutRenderer(), tea.WithInput(nil))
	s.started = true

	go func(p *tea.Program) {
		_, _ = p.Run()
	}(s.program)
}

// UpdateMessage changes the message shown next to the spinner.
func (s *SpinnerWrapper) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	program := s.program
	started := s.started
	s.mu.Unlock()

	if s.enabled && started && program != nil {
		program.Send(updateMessageMsg(message))
	}
}

// Stop halts the animation and clears the spinner line.
func (s *SpinnerWrapper) Stop() {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	program := s.program
	s.started = false
	s.mu.Unlock()

	program.Quit()
	program.Wait()
	fmt.Fprint(os.Stderr, "\r\x1b[K")
}

// StopWithMessage halts the animation and prints a final message in its
// place. The message is printed even when the spinner is disabled.
func (s *SpinnerWrapper) StopWithMessage(message string) {
	s.Stop()
	fmt.Fprintln(os.Stderr, message)
}
