package config

// Config is the global configuration.
type Config struct {
	Vaults  map[string]string `koanf:"vaults" toml:"vaults"`
	Current Current           `koanf:"current" toml:"current"`
	AI      AI                `koanf:"ai" toml:"ai"`
	Sync    Sync              `koanf:"sync" toml:"sync"`
	Aliases map[string]string `koanf:"aliases" toml:"aliases,omitempty"`
}

// Current holds the active vault name.
type Current struct {
	Active string `koanf:"active" toml:"active"`
}

// AI configures the optional commit-message provider.
type AI struct {
	Endpoint string `koanf:"endpoint" toml:"endpoint,omitempty"`
	APIKey   string `koanf:"api_key" toml:"api_key,omitempty"`
	Model    string `koanf:"model" toml:"model,omitempty"`
}

// Enabled reports whether enough is configured to call the provider.
func (a AI) Enabled() bool {
	return a.Endpoint != "" && a.APIKey != "" && a.Model != ""
}

// Sync holds defaults for vault synchronization.
type Sync struct {
	ConflictStrategy string `koanf:"conflict_strategy" toml:"conflict_strategy"`
	DefaultBranch    string `koanf:"default_branch" toml:"default_branch"`
}

// Conflict strategies accepted for sync.conflict_strategy.
const (
	StrategyPrompt = "prompt"
	StrategyLocal  = "local"
	StrategyRemote = "remote"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Vaults:  map[string]string{},
		Current: Current{Active: "default"},
		Sync: Sync{
			ConflictStrategy: StrategyPrompt,
			DefaultBranch:    "main",
		},
		Aliases: map[string]string{},
	}
}

// VaultDir returns the directory registered for name.
func (c *Config) VaultDir(name string) (string, bool) {
	dir, ok := c.Vaults[name]
	return dir, ok
}

// HasActive reports whether the active name refers to a registered vault.
func (c *Config) HasActive() bool {
	_, ok := c.Vaults[c.Current.Active]
	return c.Current.Active != "" && ok
}

func (c *Config) normalize() {
	if c.Vaults == nil {
		c.Vaults = map[string]string{}
	}
	if c.Aliases == nil {
		c.Aliases = map[string]string{}
	}
	if c.Sync.DefaultBranch == "" {
		c.Sync.DefaultBranch = "main"
	}
	if c.Sync.ConflictStrategy == "" {
		c.Sync.ConflictStrategy = StrategyPrompt
	}
}
