// Package cli wires the gfv command line: the cobra command tree, global
// flags, alias expansion and error reporting.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/billxc/git-file-vault/internal/version"
	"github.com/billxc/git-file-vault/pkg/config"
	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/billxc/git-file-vault/pkg/paths"
	"github.com/billxc/git-file-vault/pkg/topics"
	"github.com/billxc/git-file-vault/pkg/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Command groups shown in the root help.
const (
	groupSync   = "sync"
	groupVaults = "vaults"
	groupMisc   = "misc"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	a := &app{fs: afero.NewOsFs()}

	rootCmd := &cobra.Command{
		Use:     "gfv",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&a.vaultName, "vault", "V", "", MsgFlagVault)
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "auto", MsgFlagFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("vault", vaultNamesCompletion)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "term", "text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.SetFlagErrorFunc(usageError)

	rootCmd.AddGroup(
		&cobra.Group{ID: groupSync, Title: "SYNC:"},
		&cobra.Group{ID: groupVaults, Title: "VAULTS:"},
		&cobra.Group{ID: groupMisc, Title: "MISC:"},
	)
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInitCmd(a))
	rootCmd.AddCommand(newLinkCmd(a))
	rootCmd.AddCommand(newUnlinkCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newBackupCmd(a))
	rootCmd.AddCommand(newRestoreCmd(a))
	rootCmd.AddCommand(newVaultCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newAliasCmd(a))
	rootCmd.AddCommand(newDebugCmd(a))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Topic-based help replaces the default help command
	_, err := topics.InitializeWithOptions(rootCmd, topics.Builtin(), topics.Options{
		Extensions: []string{".md", ".txt"},
		Renderer:   topics.NewGlamourRenderer(),
	})
	if err != nil {
		logger := logging.GetLogger("cli")
		logger.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID(groupMisc)

	return rootCmd
}

// Run executes rootCmd with args, expanding a leading alias first, and
// reports any error on the command's stderr. It returns the process exit
// code.
func Run(ctx context.Context, rootCmd *cobra.Command, args []string) int {
	if expanded, ok := expandAlias(args); ok {
		logger := logging.GetLogger("cli")
		logger.Debug().Strs("args", args).Strs("expanded", expanded).Msg("Alias expanded")
		args = expanded
	}
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	reportError(rootCmd, err)
	return 1
}

// expandAlias replaces args[0] when it names a configured alias. A missing or
// unreadable configuration expands nothing; the command itself reports it.
func expandAlias(args []string) ([]string, bool) {
	p, err := paths.New()
	if err != nil {
		return args, false
	}
	cfg, err := config.Load(afero.NewOsFs(), p.ConfigFile())
	if err != nil {
		return args, false
	}
	return cfg.ExpandAlias(args)
}

func reportError(rootCmd *cobra.Command, err error) {
	stderr := rootCmd.ErrOrStderr()

	format := ui.FormatAuto
	if flag := rootCmd.PersistentFlags().Lookup("format"); flag != nil {
		if f, perr := ui.ParseFormat(flag.Value.String()); perr == nil {
			format = f
		}
	}

	renderer, rerr := ui.NewRenderer(format, stderr)
	if rerr != nil || renderer.RenderError(err) != nil {
		fallbackError(stderr, err)
	}
}

func fallbackError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}

// usageError turns flag and argument mistakes into INVALID_INPUT errors
// that point at the command's help.
func usageError(cmd *cobra.Command, err error) error {
	return errors.New(errors.ErrInvalidInput, err.Error()).
		WithRemediation(fmt.Sprintf(MsgErrUsageHint, cmd.CommandPath()))
}

// checkArgs wraps a positional argument validator with usageError.
func checkArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(cmd, err)
		}
		return nil
	}
}

// vaultNamesCompletion provides shell completion for registered vault names
func vaultNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	p, err := paths.New()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	cfg, err := config.Load(afero.NewOsFs(), p.ConfigFile())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for name := range cfg.Vaults {
		names = append(names, name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// firstArgVaultCompletion completes a vault name for the first positional
// argument only.
func firstArgVaultCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return vaultNamesCompletion(cmd, args, toComplete)
}
