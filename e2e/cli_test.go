//go:build e2e && unix

package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCLI executes a one-shot subcommand with an isolated $HOME and
// returns the combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	cmd := exec.Command(binPath, args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestSearchCommandPrintsAnswer(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	defer backend.Close()

	out, err := runCLI(t, "search", "why is the sky blue", "--api-base", backend.URL)
	require.NoError(t, err, "search should succeed: %s", out)
	require.Contains(t, out, "scatters short wavelengths of sunlight")
	require.Contains(t, out, "Sources:")
	require.Contains(t, out, "[1] Rayleigh scattering")
	require.Contains(t, out, "https://example.com/rayleigh")
}

func TestSearchCommandHonorsKFlag(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	defer backend.Close()

	out, err := runCLI(t, "search", "why is the sky blue", "-k", "1", "--api-base", backend.URL)
	require.NoError(t, err, "search should succeed: %s", out)
	require.Contains(t, out, "[1]")
	require.NotContains(t, out, "[2]", "k=1 should limit the source list")
}

func TestSearchCommandJSONPrintsRawBody(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	defer backend.Close()

	out, err := runCLI(t, "search", "why is the sky blue", "--json", "--api-base", backend.URL)
	require.NoError(t, err, "search should succeed: %s", out)
	require.Contains(t, out, `"answer"`)
	require.Contains(t, out, `"sources"`)
	require.NotContains(t, out, "Sources:", "--json must print the body verbatim")
}

func TestSearchCommandReportsBackendError(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	backend.detail = "boom"
	defer backend.Close()

	out, err := runCLI(t, "search", "doomed", "--api-base", backend.URL)
	require.Error(t, err, "a backend failure should fail the command")

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "should be an exit error")
	require.Equal(t, 1, exitErr.ExitCode())
	require.Contains(t, out, "Error:")
	require.Contains(t, out, "boom")
}

func TestSearchCommandRejectsEmptyQuery(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	defer backend.Close()

	out, err := runCLI(t, "search", "   ", "--api-base", backend.URL)
	require.Error(t, err, "an empty query should fail the command")
	require.Contains(t, out, "query must not be empty")
	require.EqualValues(t, 0, backend.Requests(), "empty queries must never reach the backend")
}

func TestHealthCommandReportsOK(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	defer backend.Close()

	out, err := runCLI(t, "health", "--api-base", backend.URL)
	require.NoError(t, err, "health should succeed: %s", out)
	require.Contains(t, out, backend.URL)
	require.Contains(t, out, " ok")
}

func TestHealthCommandFailsWhenUnreachable(t *testing.T) {
	t.Parallel()

	// A server that is already gone leaves a known-free address behind
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	out, err := runCLI(t, "health", "--api-base", deadURL)
	require.Error(t, err, "an unreachable backend should fail the command")
	require.Contains(t, out, "Error:")
	require.Contains(t, out, "unreachable")
}

func TestConfigCommandPrintsEffectiveConfig(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "config")
	require.NoError(t, err, "config should succeed: %s", out)
	require.Contains(t, out, "version = 1")
	require.Contains(t, out, "default_k = 6")
	require.Contains(t, out, "# config file:")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "version")
	require.NoError(t, err, "version should succeed: %s", out)
	require.Contains(t, out, "sonar v0.1.0")
}

func TestHelpFlagListsCommands(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "--help")
	require.NoError(t, err, "--help should succeed: %s", out)
	require.Contains(t, out, "Usage:")
	require.Contains(t, out, "search")
	require.Contains(t, out, "health")
	require.Contains(t, out, "config")
}
