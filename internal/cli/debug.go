package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/billxc/git-file-vault/pkg/filesystem"
	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/billxc/git-file-vault/pkg/ui/display"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newDebugCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "debug",
		Short:   MsgDebugShort,
		GroupID: groupMisc,
		Args:    checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newDebugPathsCmd(a))
	cmd.AddCommand(newDebugCleanCmd(a))
	return cmd
}

func newDebugPathsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: MsgDebugPathsShort,
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(a.pathReport())
		},
	}
}

// pathReport lists the locations gfv uses and whether they exist.
func (a *app) pathReport() display.Settings {
	out := display.Settings{Title: "GFV Paths"}
	add := func(key, value string) {
		out.Fields = append(out.Fields, display.Field{Key: key, Value: value})
	}
	located := func(key, path string) {
		status := MsgPathMissing
		if filesystem.Exists(a.fs, path) {
			status = MsgPathExists
		}
		add(key, fmt.Sprintf("%s (%s)", path, status))
	}

	located("config", a.paths.ConfigFile())
	located("home", a.paths.GfvHome())
	if found := a.vaultDirs(); len(found) > 0 {
		add("found", strings.Join(found, ", "))
	}
	located("state", a.paths.StateDir())
	add("log", a.paths.LogFilePath())
	return out
}

// vaultDirs names the directories directly under the gfv home.
func (a *app) vaultDirs() []string {
	infos, err := afero.ReadDir(a.fs, a.paths.GfvHome())
	if err != nil {
		return nil
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names
}

func newDebugCleanCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: MsgDebugCleanShort,
		Long:  MsgDebugCleanLong,
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			home := a.paths.GfvHome()
			if !filesystem.Exists(a.fs, home) {
				return a.message(fmt.Sprintf(MsgNothingToClean, home))
			}

			ok, err := a.confirm(yes, fmt.Sprintf(MsgConfirmClean, home), a.vaultDirs()...)
			if err != nil {
				return err
			}
			if !ok {
				return a.message(MsgCancelled)
			}

			if err := a.fs.RemoveAll(home); err != nil {
				return err
			}
			logger := logging.GetLogger("cli")
			logger.Info().Str("path", home).Msg("Removed gfv home")
			return a.message(fmt.Sprintf(MsgCleaned, home))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}
