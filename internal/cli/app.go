package cli

import (
	"github.com/billxc/git-file-vault/pkg/commitmsg"
	"github.com/billxc/git-file-vault/pkg/config"
	"github.com/billxc/git-file-vault/pkg/engine"
	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/billxc/git-file-vault/pkg/paths"
	"github.com/billxc/git-file-vault/pkg/registry"
	"github.com/billxc/git-file-vault/pkg/ui"
	"github.com/billxc/git-file-vault/pkg/ui/confirmations"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation. It is filled
// in by the root command's PersistentPreRunE, after flags are parsed.
type app struct {
	verbosity int
	vaultName string
	format    string

	fs       afero.Fs
	paths    paths.Paths
	cfg      *config.Config
	registry *registry.Registry
	output   ui.Format
	renderer ui.Renderer
	dialog   *confirmations.ConsoleDialog
}

func (a *app) setup(cmd *cobra.Command) error {
	logging.Configure(a.verbosity, cmd.ErrOrStderr(), logging.LogFilePath())
	logger := logging.GetLogger("cli")
	logger.Debug().Str("command", cmd.CommandPath()).Msg("Command started")

	format, err := ui.ParseFormat(a.format)
	if err != nil {
		return errors.Newf(errors.ErrInvalidInput, MsgErrInvalidFormat, a.format)
	}
	a.output = format

	if a.paths, err = paths.New(); err != nil {
		return err
	}
	if a.cfg, err = config.Load(a.fs, a.paths.ConfigFile(), config.WithEnvOverrides()); err != nil {
		return err
	}
	a.registry = registry.New(a.cfg, a.paths, registry.WithFs(a.fs))

	if a.renderer, err = ui.NewRenderer(format, cmd.OutOrStdout(), ui.WithHome(a.paths.Home())); err != nil {
		return err
	}
	a.dialog = confirmations.NewConsoleDialog(cmd.InOrStdin(), cmd.ErrOrStderr())
	return nil
}

// saveConfig persists settings changed outside the registry.
func (a *app) saveConfig() error {
	return config.Save(a.fs, a.paths.ConfigFile(), a.cfg)
}

// engine loads the selected vault and opens its repository.
func (a *app) engine(opts ...engine.Option) (*engine.Engine, error) {
	v, err := a.registry.Load(a.vaultName)
	if err != nil {
		return nil, err
	}
	repo, err := v.Open(a.registry.GitOptions()...)
	if err != nil {
		return nil, err
	}

	base := []engine.Option{engine.WithConfirmer(a.dialog)}
	if provider := commitmsg.FromConfig(a.cfg.AI); provider != nil {
		base = append(base, engine.WithCommitMessageProvider(provider))
	}
	return engine.New(v, repo, a.paths, append(base, opts...)...), nil
}

// confirm asks question on stderr unless yes is set.
func (a *app) confirm(yes bool, question string, details ...string) (bool, error) {
	return a.dialog.AssumeYes(yes).Confirm(question, details)
}

func (a *app) render(result interface{}) error {
	return a.renderer.RenderResult(result)
}

func (a *app) message(msg string) error {
	return a.renderer.RenderMessage(msg)
}
