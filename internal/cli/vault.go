package cli

import (
	"fmt"

	"github.com/billxc/git-file-vault/pkg/registry"
	"github.com/billxc/git-file-vault/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newVaultCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vault",
		Short:   MsgVaultShort,
		Long:    MsgVaultLong,
		GroupID: groupVaults,
		Args:    checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newVaultListCmd(a))
	cmd.AddCommand(newVaultCreateCmd(a))
	cmd.AddCommand(newVaultSwitchCmd(a))
	cmd.AddCommand(newVaultRemoveCmd(a))
	cmd.AddCommand(newVaultInfoCmd(a))
	cmd.AddCommand(newVaultSetRemoteCmd(a))
	cmd.AddCommand(newVaultSetBranchCmd(a))
	cmd.AddCommand(newVaultRemoveRemoteCmd(a))
	return cmd
}

func newVaultListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgVaultListShort,
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(a.registry.List())
		},
	}
}

func newVaultCreateCmd(a *app) *cobra.Command {
	var opts registry.CreateOptions

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: MsgVaultCreateShort,
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = args[0]
			result, err := a.registry.Create(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.render(result)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "path", "p", "", MsgFlagPath)
	cmd.Flags().StringVarP(&opts.RemoteURL, "remote", "r", "", MsgFlagRemote)
	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "", MsgFlagBranch)
	return cmd
}

func newVaultSwitchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "switch <name>",
		Aliases:           []string{"use"},
		Short:             MsgVaultSwitchShort,
		Args:              checkArgs(cobra.ExactArgs(1)),
		ValidArgsFunction: firstArgVaultCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.registry.Switch(args[0]); err != nil {
				return err
			}
			return a.message(fmt.Sprintf(MsgSwitched, args[0]))
		},
	}
}

func newVaultRemoveCmd(a *app) *cobra.Command {
	var (
		deleteDir bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:               "remove <name>",
		Aliases:           []string{"rm"},
		Short:             MsgVaultRemoveShort,
		Args:              checkArgs(cobra.ExactArgs(1)),
		ValidArgsFunction: firstArgVaultCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, dir, err := a.registry.Resolve(args[0])
			if err != nil {
				return err
			}
			if name == a.cfg.Current.Active {
				// refused without asking
				return a.registry.Remove(name, deleteDir)
			}

			question := fmt.Sprintf(MsgConfirmRemove, name)
			if deleteDir {
				question = fmt.Sprintf(MsgConfirmRemoveDelete, name)
			}
			ok, err := a.confirm(yes, question, dir)
			if err != nil {
				return err
			}
			if !ok {
				return a.message(MsgCancelled)
			}

			if err := a.registry.Remove(name, deleteDir); err != nil {
				return err
			}

			out := &display.Result{Command: "vault remove"}
			if deleteDir {
				out.Announce(display.LevelSuccess, fmt.Sprintf(MsgVaultDeleted, name, display.TildePath(dir, a.paths.Home())))
			} else {
				out.Announce(display.LevelSuccess, fmt.Sprintf(MsgVaultUnregistered, name))
				out.Add(display.LevelMuted, fmt.Sprintf(MsgVaultKept, display.TildePath(dir, a.paths.Home())))
			}
			return a.render(out)
		},
	}

	cmd.Flags().BoolVar(&deleteDir, "delete-files", false, MsgFlagDeleteDir)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}

func newVaultInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "info [name]",
		Short:             MsgVaultInfoShort,
		Args:              checkArgs(cobra.MaximumNArgs(1)),
		ValidArgsFunction: firstArgVaultCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.vaultName
			if len(args) == 1 {
				name = args[0]
			}
			entry, err := a.registry.Info(name)
			if err != nil {
				return err
			}
			return a.render(entry)
		},
	}
}

func newVaultSetRemoteCmd(a *app) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "set-remote <url>",
		Short: MsgVaultSetRemoteShort,
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _, err := a.registry.Resolve(a.vaultName)
			if err != nil {
				return err
			}
			remote, err := a.registry.SetRemote(name, args[0], branch)
			if err != nil {
				return err
			}
			return a.message(fmt.Sprintf(MsgRemoteSet, name, remote.URL, remote.Branch))
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", MsgFlagBranch)
	return cmd
}

func newVaultSetBranchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-branch <branch>",
		Short: MsgVaultSetBranchShort,
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _, err := a.registry.Resolve(a.vaultName)
			if err != nil {
				return err
			}
			if err := a.registry.SetBranch(name, args[0]); err != nil {
				return err
			}
			return a.message(fmt.Sprintf(MsgBranchSet, name, args[0]))
		},
	}
}

func newVaultRemoveRemoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-remote",
		Short: MsgVaultRemoveRemoteShort,
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _, err := a.registry.Resolve(a.vaultName)
			if err != nil {
				return err
			}
			if err := a.registry.ClearRemote(name); err != nil {
				return err
			}
			return a.message(fmt.Sprintf(MsgRemoteRemoved, name))
		},
	}
}
