package config

import (
	"regexp"
	"sort"
	"strings"

	"github.com/billxc/git-file-vault/pkg/errors"
)

// ReservedCommands cannot be shadowed by aliases.
var ReservedCommands = []string{
	"init", "link", "unlink", "list", "status", "backup", "restore",
	"config", "alias", "vault", "debug", "help", "completion",
}

var aliasNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAlias checks an alias name and expansion.
func ValidateAlias(name, expansion string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "alias name cannot be empty")
	}
	if !aliasNamePattern.MatchString(name) {
		return errors.Newf(errors.ErrInvalidInput, "invalid alias name %q", name)
	}
	for _, reserved := range ReservedCommands {
		if name == reserved {
			return errors.Newf(errors.ErrInvalidInput,
				"cannot create alias %q: this is a reserved command name", name)
		}
	}
	if strings.TrimSpace(expansion) == "" {
		return errors.New(errors.ErrInvalidInput, "alias command cannot be empty")
	}
	return nil
}

// AddAlias records name -> expansion and returns the previous expansion, if any.
func (c *Config) AddAlias(name, expansion string) (string, error) {
	if err := ValidateAlias(name, expansion); err != nil {
		return "", err
	}
	if c.Aliases == nil {
		c.Aliases = map[string]string{}
	}
	previous := c.Aliases[name]
	c.Aliases[name] = strings.TrimSpace(expansion)
	return previous, nil
}

// RemoveAlias deletes name and returns its expansion.
func (c *Config) RemoveAlias(name string) (string, error) {
	expansion, ok := c.Aliases[name]
	if !ok {
		return "", errors.Newf(errors.ErrInvalidInput, "alias %q does not exist", name)
	}
	delete(c.Aliases, name)
	return expansion, nil
}

// AliasNames returns alias names sorted.
func (c *Config) AliasNames() []string {
	names := make([]string, 0, len(c.Aliases))
	for name := range c.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpandAlias replaces a leading alias in args with its expansion. Expansion
// is not recursive. The second result reports whether an alias matched.
func (c *Config) ExpandAlias(args []string) ([]string, bool) {
	if len(args) == 0 {
		return args, false
	}
	expansion, ok := c.Aliases[args[0]]
	if !ok {
		return args, false
	}
	expanded := append(strings.Fields(expansion), args[1:]...)
	return expanded, true
}
