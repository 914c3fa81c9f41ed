package opener

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgv_PlatformDefaults(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{"linux", []string{"xdg-open", "https://folio.test/p/1"}},
		{"freebsd", []string{"xdg-open", "https://folio.test/p/1"}},
		{"darwin", []string{"open", "https://folio.test/p/1"}},
		{"windows", []string{"rundll32", "url.dll,FileProtocolHandler", "https://folio.test/p/1"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			o := New("")
			o.goos = tt.goos
			argv, err := o.Argv("https://folio.test/p/1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, argv)
		})
	}
}

func TestArgv_CustomCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"appended", "firefox --new-tab", []string{"firefox", "--new-tab", "https://x.test"}},
		{"placeholder", "chromium --app={url} --incognito", []string{"chromium", "--app=https://x.test", "--incognito"}},
		{"quoted", `"/opt/My Browser/browser" {url}`, []string{"/opt/My Browser/browser", "https://x.test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, err := New(tt.command).Argv("https://x.test")
			require.NoError(t, err)
			assert.Equal(t, tt.want, argv)
		})
	}
}

func TestArgv_RejectsNonHTTP(t *testing.T) {
	for _, raw := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "folio.test/no-scheme", "https://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := New("").Argv(raw)
			assert.True(t, errors.Is(err, ErrInvalidURL), "got %v", err)
		})
	}
}

func TestArgv_BadCommand(t *testing.T) {
	_, err := New(`browser "unterminated`).Argv("https://x.test")
	assert.Error(t, err)
}

func TestOpen_StartsCommand(t *testing.T) {
	var started *exec.Cmd
	o := New("browser {url}")
	o.start = func(cmd *exec.Cmd) error {
		started = cmd
		return nil
	}

	require.NoError(t, o.Open(context.Background(), "https://x.test/a"))
	require.NotNil(t, started)
	assert.Equal(t, []string{"browser", "https://x.test/a"}, started.Args)
}

func TestOpen_StartError(t *testing.T) {
	o := New("browser")
	o.start = func(*exec.Cmd) error { return errors.New("no such file") }

	err := o.Open(context.Background(), "https://x.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such file")
}
