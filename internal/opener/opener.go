// Package opener opens portfolio links in the user's browser.
package opener

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/google/shlex"
)

// urlPlaceholder in a browser command is replaced by the URL. Without it the
// URL is appended as the last argument.
const urlPlaceholder = "{url}"

// ErrInvalidURL is returned for links that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("not an http(s) url")

// Opener launches a browser.
type Opener struct {
	command string
	goos    string
	start   func(*exec.Cmd) error
}

// New returns an Opener. An empty command selects the platform default.
func New(command string) *Opener {
	return &Opener{
		command: strings.TrimSpace(command),
		goos:    runtime.GOOS,
		start:   startDetached,
	}
}

// Argv returns the command line that would open rawURL.
func (o *Opener) Argv(rawURL string) ([]string, error) {
	if err := validate(rawURL); err != nil {
		return nil, err
	}

	if o.command == "" {
		return defaultArgv(o.goos, rawURL), nil
	}

	// Argv mode: split using POSIX shlex, no shell involved.
	argv, err := shlex.Split(o.command)
	if err != nil {
		return nil, fmt.Errorf("splitting browser command: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("browser command produced empty argv")
	}

	replaced := false
	for i, arg := range argv {
		if strings.Contains(arg, urlPlaceholder) {
			argv[i] = strings.ReplaceAll(arg, urlPlaceholder, rawURL)
			replaced = true
		}
	}
	if !replaced {
		argv = append(argv, rawURL)
	}
	return argv, nil
}

// Open starts the browser for rawURL and returns without waiting for it.
func (o *Opener) Open(ctx context.Context, rawURL string) error {
	argv, err := o.Argv(rawURL)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if err := o.start(cmd); err != nil {
		return fmt.Errorf("open %s: %w", rawURL, err)
	}
	return nil
}

func validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return nil
}

func defaultArgv(goos, rawURL string) []string {
	switch goos {
	case "darwin":
		return []string{"open", rawURL}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", rawURL}
	default:
		return []string{"xdg-open", rawURL}
	}
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
