package ui

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Browser opens source links with the system URL handler.
type Browser struct{}

// NewBrowser creates a new browser launcher
func NewBrowser() *Browser {
	return &Browser{}
}

// Open launches the URL handler detached so the TUI keeps the terminal.
// Only web links are accepted.
func (b *Browser) Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open non-web link %q", url)
	}

	// Allow overriding the opener for testing via env var
	bin := os.Getenv("SONAR_BROWSER")
	args := []string{url}
	if bin == "" {
		switch runtime.GOOS {
		case "darwin":
			bin = "open"
		case "windows":
			bin = "rundll32"
			args = []string{"url.dll,FileProtocolHandler", url}
		default:
			bin = "xdg-open"
		}
	}

	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("no URL handler found (%s): %w", bin, err)
	}

	cmd := exec.Command(bin, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the handler in the background; its exit status is not ours to report.
	go func() { _ = cmd.Wait() }()
	return nil
}
