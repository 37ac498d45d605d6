package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/billxc/git-file-vault/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/billxc/git-file-vault/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/billxc/git-file-vault/internal/version.Date={{.Date}}
)

// String is the version line printed by --version.
func String() string {
	if Commit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
