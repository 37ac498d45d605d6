package config

import (
	"strings"

	"github.com/billxc/git-file-vault/pkg/errors"
)

// Keys addressable through `gfv config`.
const (
	KeyAIEndpoint       = "ai.endpoint"
	KeyAIAPIKey         = "ai.api_key"
	KeyAIModel          = "ai.model"
	KeyConflictStrategy = "sync.conflict_strategy"
	KeyDefaultBranch    = "sync.default_branch"
)

// Keys returns every settable key in display order.
func Keys() []string {
	return []string{KeyAIEndpoint, KeyAIAPIKey, KeyAIModel, KeyConflictStrategy, KeyDefaultBranch}
}

// IsSecret reports whether a key's value should be masked on display.
func IsSecret(key string) bool {
	return key == KeyAIAPIKey
}

// Get returns the value of key.
func (c *Config) Get(key string) (string, error) {
	field, err := c.field(key)
	if err != nil {
		return "", err
	}
	return *field, nil
}

// Set assigns value to key after validating it.
func (c *Config) Set(key, value string) error {
	field, err := c.field(key)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	switch key {
	case KeyConflictStrategy:
		switch value {
		case StrategyPrompt, StrategyLocal, StrategyRemote:
		default:
			return errors.Newf(errors.ErrInvalidInput,
				"invalid conflict strategy %q: use prompt, local or remote", value)
		}
	case KeyDefaultBranch:
		if value == "" || strings.ContainsAny(value, " ~^:?*[\\") {
			return errors.Newf(errors.ErrInvalidInput, "invalid branch name %q", value)
		}
	}

	*field = value
	return nil
}

// Unset restores key to its default.
func (c *Config) Unset(key string) error {
	field, err := c.field(key)
	if err != nil {
		return err
	}
	def := Default()
	defField, _ := def.field(key)
	*field = *defField
	return nil
}

func (c *Config) field(key string) (*string, error) {
	switch key {
	case KeyAIEndpoint:
		return &c.AI.Endpoint, nil
	case KeyAIAPIKey:
		return &c.AI.APIKey, nil
	case KeyAIModel:
		return &c.AI.Model, nil
	case KeyConflictStrategy:
		return &c.Sync.ConflictStrategy, nil
	case KeyDefaultBranch:
		return &c.Sync.DefaultBranch, nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown configuration key: %s", key)
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + secret[len(secret)-4:]
}
