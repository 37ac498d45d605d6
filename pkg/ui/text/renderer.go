// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/style"
	"github.com/billxc/git-file-vault/pkg/ui/converter"
	"github.com/billxc/git-file-vault/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
	conv   *converter.Converter
}

// New creates a new text renderer
func New(output io.Writer, conv *converter.Converter) (*Renderer, error) {
	return &Renderer{output: output, conv: conv}, nil
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	view, ok := r.conv.Convert(result)
	if !ok {
		// For unknown types, just print them
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
	return r.render(view)
}

func (r *Renderer) render(view *display.Result) error {
	var b strings.Builder

	for _, n := range view.Header {
		b.WriteString(note(n) + "\n")
	}
	if view.Empty != "" {
		b.WriteString(style.Strip(view.Empty) + "\n")
	}
	for _, f := range view.Fields {
		fmt.Fprintf(&b, "%-10s %s\n", f.Key, style.Strip(f.Value))
	}
	if view.Table != nil {
		if _, err := io.WriteString(r.output, b.String()); err != nil {
			return err
		}
		b.Reset()
		if err := writeTable(r.output, view.Table); err != nil {
			return err
		}
	}
	if view.Vault != nil {
		writeVault(&b, view.Vault)
	}
	for _, l := range view.Lines {
		b.WriteString(entryLine(l) + "\n")
	}
	for _, n := range view.Footer {
		b.WriteString(note(n) + "\n")
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

func note(n display.Note) string {
	text := style.Strip(n.Text)
	switch n.Level {
	case display.LevelWarning:
		return "Warning: " + text
	case display.LevelError:
		return "Error: " + text
	default:
		return text
	}
}

func writeTable(w io.Writer, t *display.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	marker := func(i int) string {
		if t.Marked == nil {
			return ""
		}
		if t.Marked[i] {
			return "* "
		}
		return "  "
	}
	if len(t.Header) > 1 {
		fmt.Fprintln(tw, marker(-1)+strings.Join(t.Header, "\t"))
	}
	for i, row := range t.Rows {
		fmt.Fprintln(tw, marker(i)+strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeVault(b *strings.Builder, v *style.VaultSummary) {
	b.WriteString(v.Name + ":")
	if v.Branch != "" {
		b.WriteString(" " + v.Branch)
	}
	if v.Remote != "" {
		b.WriteString(" -> " + v.Remote)
	} else {
		b.WriteString(" (local only)")
	}
	if v.Dirty {
		b.WriteString(" (uncommitted changes)")
	}
	b.WriteString("\n")
	if len(v.Lines) == 0 {
		b.WriteString("    no tracked files\n")
	}
	for _, l := range v.Lines {
		b.WriteString(entryLine(l) + "\n")
	}
}

func entryLine(l style.EntryLine) string {
	name := l.VaultPath
	if l.Directory {
		name += "/"
	}
	msg := l.Reason
	if msg == "" {
		msg = strings.TrimSpace(style.StatusVerbs[l.Status] + " " + l.Source)
	}
	if l.Platform != "" {
		msg += fmt.Sprintf(" [%s only]", l.Platform)
	}
	return fmt.Sprintf("    %-14s : %-24s : %s", l.Status, name, msg)
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	if _, werr := fmt.Fprintf(r.output, "Error: %v\n", err); werr != nil {
		return werr
	}
	if hint := errors.Remediation(err); hint != "" {
		_, werr := fmt.Fprintf(r.output, "Hint: %s\n", hint)
		return werr
	}
	return nil
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.Strip(msg))
	return err
}
