// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/style"
	"github.com/billxc/git-file-vault/pkg/ui/converter"
	"github.com/billxc/git-file-vault/pkg/ui/display"
	"github.com/pterm/pterm"
)

// Renderer provides rich terminal output using lipgloss and pterm styling
type Renderer struct {
	output io.Writer
	conv   *converter.Converter
}

// New creates a new terminal renderer
func New(w io.Writer, conv *converter.Converter) (*Renderer, error) {
	return &Renderer{output: w, conv: conv}, nil
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	view, ok := r.conv.Convert(result)
	if !ok {
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}

	var b strings.Builder
	for _, n := range view.Header {
		b.WriteString(note(n) + "\n")
	}
	if len(view.Header) > 0 && (len(view.Fields) > 0 || view.Table != nil) {
		b.WriteString("\n")
	}
	if view.Empty != "" {
		b.WriteString(style.MutedStyle.Render(style.Render(view.Empty)) + "\n")
	}
	for _, f := range view.Fields {
		b.WriteString(style.Indent(style.KeyValue(f.Key, style.Render(f.Value)), 1) + "\n")
	}
	if view.Table != nil {
		table, err := renderTable(view.Table)
		if err != nil {
			return err
		}
		b.WriteString(table)
	}
	if view.Vault != nil {
		b.WriteString(style.RenderVaultSummary(*view.Vault) + "\n")
	}
	for _, l := range view.Lines {
		b.WriteString(style.RenderEntryLine(l) + "\n")
	}
	if len(view.Footer) > 0 && (view.Vault != nil || len(view.Lines) > 0 || len(view.Fields) > 0) {
		b.WriteString("\n")
	}
	for _, n := range view.Footer {
		b.WriteString(note(n) + "\n")
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

func note(n display.Note) string {
	text := style.Render(n.Text)
	switch n.Level {
	case display.LevelSuccess:
		return style.SuccessIndicator + " " + text
	case display.LevelWarning:
		return style.WarningIndicator + " " + style.WarningStyle.Render(text)
	case display.LevelError:
		return style.ErrorIndicator + " " + style.ErrorStyle.Render(text)
	case display.LevelMuted:
		return style.MutedStyle.Render(text)
	default:
		return style.InfoIndicator + " " + text
	}
}

func renderTable(t *display.Table) (string, error) {
	var data pterm.TableData
	marked := t.Marked != nil
	withHeader := len(t.Header) > 1

	if withHeader {
		header := append([]string(nil), t.Header...)
		if marked {
			header = append([]string{" "}, header...)
		}
		data = append(data, header)
	}
	for i, row := range t.Rows {
		cells := append([]string(nil), row...)
		if marked {
			mark := " "
			if t.Marked[i] {
				mark = style.ActiveIndicator
				cells[0] = style.VaultStyle.Render(cells[0])
			}
			cells = append([]string{mark}, cells...)
		}
		data = append(data, cells)
	}

	if !withHeader {
		var b strings.Builder
		for _, row := range data {
			b.WriteString(style.Indent(strings.Join(row, " "), 1) + "\n")
		}
		return b.String(), nil
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	return out + "\n", nil
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	line := style.ErrorIndicator + " " + style.ErrorStyle.Render("Error:") + " " + err.Error()
	if hint := errors.Remediation(err); hint != "" {
		line += "\n  " + style.MutedStyle.Render("hint: "+hint)
	}
	_, werr := fmt.Fprintln(r.output, line)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.Render(msg))
	return err
}
