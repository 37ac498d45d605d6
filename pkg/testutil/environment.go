// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Isolated home directories for tests

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/billxc/git-file-vault/pkg/paths"
)

// TestEnvironment is a temporary home with gfv's directories redirected.
type TestEnvironment struct {
	HomeDir   string
	GfvHome   string
	StateHome string
	Paths     paths.Paths

	t *testing.T
}

// NewTestEnvironment creates the environment and points HOME, GFV_HOME and
// XDG_STATE_HOME at it for the duration of the test.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	env := &TestEnvironment{
		HomeDir:   filepath.Join(root, "home"),
		StateHome: filepath.Join(root, "state"),
		t:         t,
	}
	env.GfvHome = filepath.Join(env.HomeDir, paths.GfvDirName)

	for _, dir := range []string{env.HomeDir, env.StateHome} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv(paths.EnvGfvHome, env.GfvHome)
	t.Setenv("XDG_STATE_HOME", env.StateHome)
	t.Setenv("SSH_AUTH_SOCK", "")

	env.Paths = paths.NewWithHome(env.HomeDir)
	return env
}

// HomePath joins rel onto the home directory.
func (e *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(e.HomeDir, filepath.FromSlash(rel))
}

// WriteHomeFile writes content at rel under the home directory.
func (e *TestEnvironment) WriteHomeFile(rel, content string) string {
	e.t.Helper()
	path := e.HomePath(rel)
	WriteFile(e.t, path, content)
	return path
}
