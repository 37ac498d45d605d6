// Package paths centralizes path handling for gfv.
//
// It resolves the user's home directory, the gfv home (where the global
// configuration and the default vault directories live), the per-vault
// layout (repository and manifest locations) and the XDG state directory
// used for logs. It also owns the rules that turn an absolute source path
// into the vault-relative name under which it is stored.
package paths
