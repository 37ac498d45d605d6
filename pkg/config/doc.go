// Package config loads and saves the global gfv configuration.
//
// The configuration is a single TOML file (by default ~/.gfv/config.toml)
// holding the vault registry, the active vault, AI commit-message settings,
// sync defaults and command aliases. It is loaded once per command with
// koanf, layered as:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, when present
//  3. GFV_AI_* and GFV_SYNC_* environment variables, when requested
//
// and handed around as an explicit *Config. Saving writes the struct back
// with go-toml, atomically.
package config
