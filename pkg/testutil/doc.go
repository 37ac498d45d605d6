// Package testutil provides isolated environments and git fixtures for tests.
//
// Every environment lives under t.TempDir(): HOME, GFV_HOME and
// XDG_STATE_HOME are redirected there, so tests never touch the real user
// configuration. Git fixtures (bare remotes, scratch clones) are built with
// go-git and pushed over the local file transport.
package testutil
