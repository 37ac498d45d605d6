package cli

import (
	"github.com/billxc/git-file-vault/pkg/config"
	"github.com/billxc/git-file-vault/pkg/engine"
	"github.com/billxc/git-file-vault/pkg/registry"
	"github.com/billxc/git-file-vault/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	var opts registry.CreateOptions

	cmd := &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: groupSync,
		Args:    checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.registry.Create(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.render(result)
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "default", MsgFlagName)
	cmd.Flags().StringVarP(&opts.Path, "path", "p", "", MsgFlagPath)
	cmd.Flags().StringVarP(&opts.RemoteURL, "remote", "r", "", MsgFlagRemote)
	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "", MsgFlagBranch)
	return cmd
}

func newLinkCmd(a *app) *cobra.Command {
	var opts engine.LinkOptions

	cmd := &cobra.Command{
		Use:     "link <source> [vault-path]",
		Short:   MsgLinkShort,
		Long:    MsgLinkLong,
		Example: MsgLinkExample,
		GroupID: groupSync,
		Args:    checkArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			opts.Source = args[0]
			if len(args) > 1 {
				opts.VaultPath = args[1]
			}
			result, err := e.Link(opts)
			if err != nil {
				return err
			}
			return a.render(result)
		},
	}

	cmd.Flags().StringVar(&opts.Platform, "platform", "", MsgFlagPlatform)
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, MsgFlagYes)
	_ = cmd.RegisterFlagCompletionFunc("platform", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"macos", "linux", "windows"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newUnlinkCmd(a *app) *cobra.Command {
	var deleteFiles bool

	cmd := &cobra.Command{
		Use:               "unlink <vault-path>",
		Short:             MsgUnlinkShort,
		Long:              MsgUnlinkLong,
		GroupID:           groupSync,
		Args:              checkArgs(cobra.ExactArgs(1)),
		ValidArgsFunction: vaultPathCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			result, err := e.Unlink(args[0], deleteFiles)
			if err != nil {
				return err
			}
			return a.render(result)
		},
	}

	cmd.Flags().BoolVar(&deleteFiles, "delete-files", false, MsgFlagDeleteFiles)
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		GroupID: groupSync,
		Args:    checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			return a.render(&display.FileList{
				Vault: e.Vault().Name,
				Files: e.List(),
				Long:  long,
			})
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, MsgFlagLong)
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		GroupID: groupSync,
		Args:    checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			result, err := e.Status()
			if err != nil {
				return err
			}
			return a.render(result)
		},
	}
}

func newBackupCmd(a *app) *cobra.Command {
	var opts engine.BackupOptions

	cmd := &cobra.Command{
		Use:     "backup",
		Short:   MsgBackupShort,
		Long:    MsgBackupLong,
		Example: MsgBackupExample,
		GroupID: groupSync,
		Args:    checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			result, err := e.Backup(cmd.Context(), opts)
			if result != nil && result.Committed {
				// the local commit stands even when syncing failed
				if rerr := a.render(result); rerr != nil && err == nil {
					err = rerr
				}
				return err
			}
			if err != nil {
				return err
			}
			return a.render(result)
		},
	}

	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", MsgFlagMessage)
	return cmd
}

func newRestoreCmd(a *app) *cobra.Command {
	var opts engine.RestoreOptions

	cmd := &cobra.Command{
		Use:     "restore",
		Short:   MsgRestoreShort,
		Long:    MsgRestoreLong,
		Example: MsgRestoreExample,
		GroupID: groupSync,
		Args:    checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []engine.Option
			switch a.cfg.Sync.ConflictStrategy {
			case config.StrategyRemote:
				opts.Force = true
			case config.StrategyLocal:
				extra = append(extra, engine.WithConfirmer(engine.Decline))
			}

			e, err := a.engine(extra...)
			if err != nil {
				return err
			}
			result, err := e.Restore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.render(result)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, MsgFlagForce)
	return cmd
}

// vaultPathCompletion completes tracked vault paths of the selected vault.
func vaultPathCompletion(a *app) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		if a.registry == nil {
			if err := a.setup(cmd); err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
		}
		v, err := a.registry.Load(a.vaultName)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return v.Manifest.Paths(), cobra.ShellCompDirectiveNoFileComp
	}
}
