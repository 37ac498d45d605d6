// Package converter turns command results into the display view model.
package converter

import (
	"fmt"
	"strconv"

	"github.com/billxc/git-file-vault/pkg/commitmsg"
	"github.com/billxc/git-file-vault/pkg/engine"
	"github.com/billxc/git-file-vault/pkg/manifest"
	"github.com/billxc/git-file-vault/pkg/registry"
	"github.com/billxc/git-file-vault/pkg/style"
	"github.com/billxc/git-file-vault/pkg/ui/display"
)

// Converter holds the context used to shorten paths.
type Converter struct {
	Home string
}

// New creates a converter that shows paths under home with a leading ~.
func New(home string) *Converter {
	return &Converter{Home: home}
}

// Convert maps a known result type to a display.Result. The second return
// is false for types it does not know.
func (c *Converter) Convert(result interface{}) (*display.Result, bool) {
	switch v := result.(type) {
	case *display.Result:
		return v, true
	case *engine.LinkResult:
		return c.link(v), true
	case *engine.UnlinkResult:
		return c.unlink(v), true
	case *engine.BackupResult:
		return c.backup(v), true
	case *engine.RestoreResult:
		return c.restore(v), true
	case *engine.StatusResult:
		return c.status(v), true
	case *display.FileList:
		return c.fileList(v), true
	case []registry.Entry:
		return c.vaultList(v), true
	case *registry.Entry:
		return c.vaultInfo(v), true
	case *registry.CreateResult:
		return c.created(v), true
	case *display.Settings:
		return c.settings(*v), true
	case display.Settings:
		return c.settings(v), true
	default:
		return nil, false
	}
}

func (c *Converter) path(p string) string {
	return "[path]" + display.TildePath(p, c.Home) + "[/path]"
}

func (c *Converter) link(r *engine.LinkResult) *display.Result {
	out := &display.Result{Command: "link"}
	if r.Cancelled {
		return out.Add(display.LevelWarning, fmt.Sprintf("Link of %s cancelled", c.path(r.Source)))
	}

	out.Announce(display.LevelSuccess, fmt.Sprintf("Linked %s as [bold]%s[/bold]", c.path(r.Source), r.VaultPath))
	out.Field("type", string(r.Type))
	out.Field("platform", string(r.Platform))
	if r.Sensitive {
		out.Add(display.LevelWarning, "This file looks sensitive; it will be stored unencrypted in the vault")
	}
	switch {
	case !r.SourceExists:
		out.Add(display.LevelInfo, "The source does not exist yet; run 'gfv restore' to create it from the vault")
	case !r.StoredExists:
		out.Add(display.LevelInfo, "Run 'gfv backup' to store it in the vault")
	}
	return out
}

func (c *Converter) unlink(r *engine.UnlinkResult) *display.Result {
	out := &display.Result{Command: "unlink"}
	out.Announce(display.LevelSuccess, fmt.Sprintf("Stopped tracking [bold]%s[/bold]", r.VaultPath))
	if r.DeletedStored {
		out.Add(display.LevelInfo, "Deleted the stored copy from the vault")
	}
	out.Add(display.LevelMuted, fmt.Sprintf("Source left untouched at %s", c.path(r.Entry.SourcePath)))
	if r.Commit != "" {
		out.Add(display.LevelMuted, "Committed "+display.ShortHash(r.Commit))
	}
	return out
}

func (c *Converter) backup(r *engine.BackupResult) *display.Result {
	out := &display.Result{Command: "backup"}
	if r.Empty {
		out.Empty = "No files tracked; use 'gfv link' to add some"
		return out
	}

	for _, p := range r.Copied {
		out.Lines = append(out.Lines, style.EntryLine{VaultPath: p, Status: style.StatusDone, Reason: "backed up"})
	}
	out.Lines = append(out.Lines, skipLines(r.Skipped)...)

	if r.Committed {
		msg := fmt.Sprintf("Committed %s %q", display.ShortHash(r.Commit), r.Message)
		if r.MessageSource != "" && r.MessageSource != commitmsg.SourceExplicit {
			msg += fmt.Sprintf(" [muted](%s message)[/muted]", r.MessageSource)
		}
		out.Add(display.LevelSuccess, msg)
	} else {
		out.Add(display.LevelInfo, "No changes to commit")
	}

	if !r.Remote {
		out.Add(display.LevelMuted, "No remote configured; changes are local only")
		return out
	}
	if r.FirstPush {
		out.Add(display.LevelInfo, fmt.Sprintf("Created remote branch [branch]%s[/branch]", r.Branch))
	} else if r.Pull != "" {
		out.Add(display.LevelMuted, fmt.Sprintf("Pull: %s", r.Pull))
	}
	if r.Pushed {
		out.Add(display.LevelSuccess, fmt.Sprintf("Pushed to origin/[branch]%s[/branch]", r.Branch))
	}
	return out
}

func (c *Converter) restore(r *engine.RestoreResult) *display.Result {
	out := &display.Result{Command: "restore"}
	if r.Empty {
		out.Empty = "No files tracked; nothing to restore"
		return out
	}
	if r.Pull != "" {
		out.Announce(display.LevelMuted, fmt.Sprintf("Pull from origin/%s: %s", r.Branch, r.Pull))
	}

	state := style.StatusDone
	if r.DryRun || r.Cancelled {
		state = style.StatusPlanned
	}
	for _, a := range r.Restored {
		line := style.EntryLine{
			VaultPath: a.VaultPath,
			Source:    display.TildePath(a.Source, c.Home),
			Status:    state,
			Directory: a.Type == manifest.TypeDirectory,
		}
		out.Lines = append(out.Lines, line)
	}
	out.Lines = append(out.Lines, skipLines(r.Skipped)...)

	switch {
	case r.Cancelled:
		out.Add(display.LevelWarning, "Restore cancelled; no files were changed")
	case r.DryRun:
		out.Add(display.LevelInfo, "Dry run; no files were changed")
	default:
		out.Add(display.LevelSuccess, fmt.Sprintf("Restored %d of %d entries", len(r.Restored), len(r.Restored)+len(r.Skipped)))
	}
	return out
}

func skipLines(skips []engine.Skip) []style.EntryLine {
	lines := make([]style.EntryLine, 0, len(skips))
	for _, s := range skips {
		lines = append(lines, style.EntryLine{VaultPath: s.Path, Status: style.StatusSkipped, Reason: s.Reason})
	}
	return lines
}

func stateStatus(s engine.FileState) style.Status {
	switch s {
	case engine.StateUpToDate:
		return style.StatusUpToDate
	case engine.StateMissingSource:
		return style.StatusMissing
	default:
		return style.StatusModified
	}
}

func (c *Converter) status(r *engine.StatusResult) *display.Result {
	summary := &style.VaultSummary{Name: r.Vault, Dirty: r.Dirty}
	if r.Remote != nil {
		summary.Branch = r.Remote.Branch
		summary.Remote = r.Remote.URL
	}
	for _, e := range r.Entries {
		summary.Lines = append(summary.Lines, style.EntryLine{
			VaultPath: e.VaultPath,
			Source:    display.TildePath(e.Entry.SourcePath, c.Home),
			Status:    stateStatus(e.State),
			Directory: e.Entry.Type == manifest.TypeDirectory,
			Platform:  string(e.Entry.Platform),
		})
	}

	out := &display.Result{Command: "status", Vault: summary}
	if len(r.Entries) > 0 {
		out.Add(display.LevelMuted, fmt.Sprintf("%d up to date, %d modified, %d missing",
			r.Count(engine.StateUpToDate), r.Count(engine.StateModified), r.Count(engine.StateMissingSource)))
	}
	return out
}

func (c *Converter) fileList(l *display.FileList) *display.Result {
	out := &display.Result{Command: "list"}
	if len(l.Files) == 0 {
		out.Empty = fmt.Sprintf("No files tracked in vault %s", l.Vault)
		return out
	}

	table := &display.Table{Header: []string{"PATH"}}
	if l.Long {
		table.Header = []string{"PATH", "TYPE", "PLATFORM", "SOURCE"}
	}
	for _, f := range l.Files {
		if !l.Long {
			table.Rows = append(table.Rows, []string{f.VaultPath})
			continue
		}
		platform := string(f.Entry.Platform)
		if platform == "" {
			platform = "all"
		}
		source := display.TildePath(f.Entry.SourcePath, c.Home)
		if !f.SourceExists {
			source += " (missing)"
		}
		table.Rows = append(table.Rows, []string{f.VaultPath, string(f.Entry.Type), platform, source})
	}
	out.Table = table
	return out
}

func (c *Converter) vaultList(entries []registry.Entry) *display.Result {
	out := &display.Result{Command: "vault list"}
	if len(entries) == 0 {
		out.Empty = "No vaults; run 'gfv init' to create one"
		return out
	}

	table := &display.Table{
		Header: []string{"NAME", "DIRECTORY", "BRANCH", "REMOTE", "FILES"},
		Marked: map[int]bool{},
	}
	for i, e := range entries {
		remote := "-"
		if e.Remote != nil {
			remote = e.Remote.URL
		}
		files := strconv.Itoa(e.Files)
		if !e.Initialized {
			files = "-"
		}
		table.Rows = append(table.Rows, []string{e.Name, display.TildePath(e.Dir, c.Home), orDash(e.Branch), remote, files})
		if e.Active {
			table.Marked[i] = true
		}
	}
	out.Table = table
	return out
}

func (c *Converter) vaultInfo(e *registry.Entry) *display.Result {
	out := &display.Result{Command: "vault info"}
	out.Announce(display.LevelInfo, fmt.Sprintf("Vault [vault]%s[/vault]", e.Name))
	out.Field("directory", display.TildePath(e.Dir, c.Home))
	out.Field("active", strconv.FormatBool(e.Active))
	if !e.Initialized {
		out.Field("state", "not initialized")
		return out
	}
	out.Field("branch", e.Branch)
	if e.Remote != nil {
		out.Field("remote", e.Remote.URL)
	} else {
		out.Field("remote", "none (local only)")
	}
	out.Field("files", strconv.Itoa(e.Files))
	return out
}

func (c *Converter) created(r *registry.CreateResult) *display.Result {
	out := &display.Result{Command: "init"}
	verb := "Created"
	if r.Cloned {
		verb = "Cloned"
	}
	out.Announce(display.LevelSuccess, fmt.Sprintf("%s vault [vault]%s[/vault] at %s", verb, r.Name, c.path(r.Dir)))
	out.Field("branch", r.Branch)
	out.Field("remote", r.Remote)
	if r.Cloned {
		out.Field("files", strconv.Itoa(r.Files))
	}
	if r.Active {
		out.Add(display.LevelInfo, fmt.Sprintf("[vault]%s[/vault] is now the active vault", r.Name))
	}
	if r.Warning != "" {
		out.Add(display.LevelWarning, "Initial push failed: "+r.Warning)
	}
	return out
}

func (c *Converter) settings(s display.Settings) *display.Result {
	out := &display.Result{Command: s.Title}
	if s.Title != "" {
		out.Announce(display.LevelInfo, "[bold]"+s.Title+"[/bold]")
	}
	if len(s.Fields) == 0 {
		out.Empty = "Nothing configured"
		return out
	}
	out.Fields = s.Fields
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
