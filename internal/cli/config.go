package cli

import (
	"fmt"
	"strings"

	"github.com/billxc/git-file-vault/pkg/config"
	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/ui/display"
	"github.com/spf13/cobra"
)

// Keys describing the selected vault. They are read from the registry and
// the vault manifest, never from config.toml.
const (
	keyVaultName    = "vault.name"
	keyVaultPath    = "vault.path"
	keyRemoteURL    = "remote.url"
	keyRemoteBranch = "remote.branch"
)

var vaultKeys = []string{keyVaultName, keyVaultPath, keyRemoteURL, keyRemoteBranch}

func isVaultKey(key string) bool {
	for _, k := range vaultKeys {
		if k == key {
			return true
		}
	}
	return false
}

func newConfigCmd(a *app) *cobra.Command {
	var (
		list  bool
		unset string
	)

	cmd := &cobra.Command{
		Use:               "config [key [value]]",
		Short:             MsgConfigShort,
		Long:              MsgConfigLong,
		Example:           MsgConfigExample,
		GroupID:           groupMisc,
		Args:              checkArgs(cobra.MaximumNArgs(2)),
		ValidArgsFunction: configKeyCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case list:
				return a.render(a.settings())
			case unset != "":
				return a.unsetConfig(unset)
			case len(args) == 1:
				return a.getConfig(args[0])
			case len(args) == 2:
				return a.setConfig(args[0], args[1])
			default:
				return cmd.Help()
			}
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, MsgFlagList)
	cmd.Flags().StringVar(&unset, "unset", "", MsgFlagUnset)
	_ = cmd.RegisterFlagCompletionFunc("unset", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return config.Keys(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// settings lists the selected vault followed by every configuration key.
// Secrets are masked.
func (a *app) settings() display.Settings {
	out := display.Settings{Title: "Vault Configuration"}
	for _, key := range vaultKeys {
		value, err := a.vaultValue(key)
		if err != nil {
			value = MsgNotSet
		}
		out.Fields = append(out.Fields, display.Field{Key: key, Value: value})
	}
	for _, key := range config.Keys() {
		value, _ := a.cfg.Get(key)
		out.Fields = append(out.Fields, display.Field{Key: key, Value: displayValue(key, value)})
	}
	return out
}

func (a *app) vaultValue(key string) (string, error) {
	name, dir, err := a.registry.Resolve(a.vaultName)
	if err != nil {
		return "", err
	}
	switch key {
	case keyVaultName:
		return name, nil
	case keyVaultPath:
		return dir, nil
	}

	remote, err := a.registry.GetRemote(name)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrNoRemote) {
			return MsgLocalOnly, nil
		}
		return "", err
	}
	if key == keyRemoteURL {
		return remote.URL, nil
	}
	return remote.Branch, nil
}

func displayValue(key, value string) string {
	if value == "" {
		return MsgNotSet
	}
	if config.IsSecret(key) {
		return config.Mask(value)
	}
	return value
}

func (a *app) getConfig(key string) error {
	var (
		value string
		err   error
	)
	if isVaultKey(key) {
		value, err = a.vaultValue(key)
	} else {
		value, err = a.cfg.Get(key)
		if err == nil && config.IsSecret(key) {
			value = config.Mask(value)
		}
	}
	if err != nil {
		return err
	}

	if a.output.Structured() {
		return a.render(display.Settings{Fields: []display.Field{{Key: key, Value: value}}})
	}
	return a.message(value)
}

func (a *app) setConfig(key, value string) error {
	if isVaultKey(key) {
		return readOnlyKey(key)
	}
	if err := a.cfg.Set(key, value); err != nil {
		return err
	}
	if err := a.saveConfig(); err != nil {
		return err
	}
	stored, _ := a.cfg.Get(key)
	return a.message(fmt.Sprintf(MsgConfigSet, key, displayValue(key, stored)))
}

func (a *app) unsetConfig(key string) error {
	if isVaultKey(key) {
		return readOnlyKey(key)
	}
	if err := a.cfg.Unset(key); err != nil {
		return err
	}
	if err := a.saveConfig(); err != nil {
		return err
	}
	return a.message(fmt.Sprintf(MsgConfigUnset, key))
}

func readOnlyKey(key string) error {
	hint := "use 'gfv vault set-remote', 'gfv vault set-branch' or 'gfv vault create'"
	if strings.HasPrefix(key, "vault.") {
		hint = "vault locations are set when the vault is created"
	}
	return errors.Newf(errors.ErrInvalidInput, MsgErrReadOnlyKey, key).WithRemediation(hint)
}

func configKeyCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return append(append([]string{}, vaultKeys...), config.Keys()...), cobra.ShellCompDirectiveNoFileComp
}

func newAliasCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alias",
		Short:   MsgAliasShort,
		Long:    MsgAliasLong,
		Example: MsgAliasExample,
		GroupID: groupMisc,
		Args:    checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newAliasAddCmd(a))
	cmd.AddCommand(newAliasRemoveCmd(a))
	cmd.AddCommand(newAliasListCmd(a))
	return cmd
}

func newAliasAddCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "add <name> <command...>",
		Short: MsgAliasAddShort,
		Args:  checkArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			expansion := strings.Join(args[1:], " ")

			if err := config.ValidateAlias(name, expansion); err != nil {
				return err
			}
			if existing, ok := a.cfg.Aliases[name]; ok && existing != expansion {
				ok, err := a.confirm(yes, fmt.Sprintf(MsgConfirmAliasReplace, name, existing))
				if err != nil {
					return err
				}
				if !ok {
					return a.message(MsgCancelled)
				}
			}

			previous, err := a.cfg.AddAlias(name, expansion)
			if err != nil {
				return err
			}
			if err := a.saveConfig(); err != nil {
				return err
			}
			if previous != "" && previous != expansion {
				return a.message(fmt.Sprintf(MsgAliasReplaced, name, expansion, previous))
			}
			return a.message(fmt.Sprintf(MsgAliasAdded, name, expansion))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}

func newAliasRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: MsgAliasRemoveShort,
		Args:  checkArgs(cobra.ExactArgs(1)),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 || a.setup(cmd) != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return a.cfg.AliasNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			expansion, err := a.cfg.RemoveAlias(args[0])
			if err != nil {
				return err
			}
			if err := a.saveConfig(); err != nil {
				return err
			}
			return a.message(fmt.Sprintf(MsgAliasRemoved, args[0], expansion))
		},
	}
}

func newAliasListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgAliasListShort,
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := display.Settings{Title: "Command Aliases"}
			for _, name := range a.cfg.AliasNames() {
				out.Fields = append(out.Fields, display.Field{Key: name, Value: a.cfg.Aliases[name]})
			}
			return a.render(out)
		},
	}
}
