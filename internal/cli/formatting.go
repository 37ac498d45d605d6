package cli

import (
	"os"
	"strings"
	"text/template"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// styledHelp is false when help goes to a pipe or NO_COLOR is set.
func styledHelp() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// templateFuncs are available to the usage template in msgs/usage-template.txt.
func templateFuncs(styled bool) template.FuncMap {
	bold := func(s string) string { return s }
	if styled {
		bold = func(s string) string { return pterm.Bold.Sprint(s) }
	}
	return template.FuncMap{
		"bold":      bold,
		"upper":     strings.ToUpper,
		"boldUpper": func(s string) string { return bold(strings.ToUpper(s)) },
	}
}

func initTemplateFormatting() {
	cobra.AddTemplateFuncs(templateFuncs(styledHelp()))
}
