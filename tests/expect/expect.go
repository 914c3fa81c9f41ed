// Package expect drives the folio binary in a pseudo terminal using
// go-expect.
//
// It wraps the Netflix go-expect library so end-to-end tests can type into
// the interactive browser and wait for screen output.
package expect

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
)

// containerSlots caps concurrent folio sessions inside containers.
var containerSlots = make(chan struct{}, 2)

// AcquireTestSlot blocks until a session slot is free when running in a
// container. Elsewhere it returns immediately.
func AcquireTestSlot(t *testing.T) {
	if IsRunningInContainer() {
		containerSlots <- struct{}{}
		t.Cleanup(func() { <-containerSlots })
	}
}

// IsRunningInContainer reports whether the tests run under docker or lxc.
func IsRunningInContainer() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	if data, err := os.ReadFile("/proc/1/cgroup"); err == nil {
		content := string(data)
		if strings.Contains(content, "docker") || strings.Contains(content, "lxc") {
			return true
		}
	}
	return false
}

// Key constants for special keys (ANSI escape sequences)
const (
	KeyRight  = "\x1b[C"
	KeyLeft   = "\x1b[D"
	KeyUp     = "\x1b[A"
	KeyDown   = "\x1b[B"
	KeyEscape = "\x1b"
	KeyEnter  = "\r"
	KeyTab    = "\t"
	KeyCtrlC  = "\x03"
)

// Session is one folio process attached to a pseudo terminal.
type Session struct {
	Console *expect.Console
	Timeout time.Duration
	cmd     *exec.Cmd
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	timeout    time.Duration
	env        []string
	showOutput bool
}

// WithTimeout sets the default timeout for expect operations.
func WithTimeout(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.timeout = d
	}
}

// WithEnv adds environment variables to the process.
func WithEnv(env ...string) SessionOption {
	return func(c *sessionConfig) {
		c.env = append(c.env, env...)
	}
}

// WithOutput copies the terminal output to stdout for debugging.
func WithOutput(show bool) SessionOption {
	return func(c *sessionConfig) {
		c.showOutput = show
	}
}

// NewSession starts folio with args on a fresh console.
func NewSession(args []string, opts ...SessionOption) (*Session, error) {
	cfg := &sessionConfig{
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	bin, err := exec.LookPath("folio")
	if err != nil {
		return nil, fmt.Errorf("folio not found: %w", err)
	}

	var consoleOpts []expect.ConsoleOpt
	consoleOpts = append(consoleOpts, expect.WithDefaultTimeout(cfg.timeout))
	if cfg.showOutput {
		consoleOpts = append(consoleOpts, expect.WithStdout(os.Stdout))
	}

	console, err := expect.NewConsole(consoleOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create console: %w", err)
	}

	cmd := exec.Command(bin, args...) //nolint:gosec // G204: binary from PATH in tests
	cmd.Stdin = console.Tty()
	cmd.Stdout = console.Tty()
	cmd.Stderr = console.Tty()

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, cfg.env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color", "COLUMNS=100", "LINES=40")

	if err := cmd.Start(); err != nil {
		console.Close()
		return nil, fmt.Errorf("failed to start folio: %w", err)
	}

	return &Session{
		Console: console,
		Timeout: cfg.timeout,
		cmd:     cmd,
	}, nil
}

// Send sends text without a newline.
func (s *Session) Send(text string) error {
	_, err := s.Console.Send(text)
	return err
}

// SendKey sends a special key (use Key* constants).
func (s *Session) SendKey(key string) error {
	_, err := s.Console.Send(key)
	return err
}

// Expect waits for an exact string match in the output.
func (s *Session) Expect(str string) (string, error) {
	return s.Console.ExpectString(str)
}

// ExpectTimeout waits for an exact string match with a specific timeout.
func (s *Session) ExpectTimeout(str string, timeout time.Duration) (string, error) {
	return s.Console.Expect(expect.String(str), expect.WithTimeout(timeout))
}

// ExpectRegex waits for a regex pattern match in the output.
func (s *Session) ExpectRegex(pattern string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid regex: %w", err)
	}
	return s.Console.Expect(expect.Regexp(re))
}

// Wait waits for the process to exit.
func (s *Session) Wait() error {
	return s.cmd.Wait()
}

// Close kills the process if still running and closes the console.
func (s *Session) Close() error {
	if s.cmd != nil && s.cmd.Process != nil && s.cmd.ProcessState == nil {
		s.cmd.Process.Kill()
		s.cmd.Wait()
	}
	return s.Console.Close()
}

// SkipIfFolioMissing skips the test if the folio binary is not on PATH.
func SkipIfFolioMissing(t interface{ Skip(args ...interface{}) }) {
	if _, err := exec.LookPath("folio"); err != nil {
		t.Skip("folio not available, skipping")
	}
}

// SkipIfShort skips the test if running in short mode.
func SkipIfShort(t interface {
	Skip(args ...interface{})
}, reason string) {
	if testing.Short() {
		t.Skip("skipping in short mode: " + reason)
	}
}
