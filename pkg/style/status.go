package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Status of a tracked entry as shown to the user
type Status string

const (
	StatusUpToDate Status = "up-to-date"     // Stored copy matches the source
	StatusModified Status = "modified"       // Source differs or was never backed up
	StatusMissing  Status = "missing-source" // Source path does not exist
	StatusSkipped  Status = "skipped"        // Left out of a backup or restore
	StatusDone     Status = "done"           // Copied during this run
	StatusPlanned  Status = "planned"        // Would be copied (dry run)
)

// StatusVerbs describes each status in the entry line
var StatusVerbs = map[Status]string{
	StatusUpToDate: "in sync with",
	StatusModified: "differs from",
	StatusMissing:  "source missing at",
	StatusSkipped:  "skipped",
	StatusDone:     "copied to",
	StatusPlanned:  "would be copied to",
}

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusUpToDate, StatusDone:
		return pterm.NewStyle(pterm.FgGreen)
	case StatusModified, StatusPlanned:
		return pterm.NewStyle(pterm.FgYellow)
	case StatusMissing:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// EntryLine is one tracked path in a status, backup or restore listing.
type EntryLine struct {
	VaultPath string
	Source    string
	Status    Status
	Directory bool
	Platform  string
	// Reason replaces the verb and source for skipped entries.
	Reason string
}

// RenderEntryLine renders a single entry line.
func RenderEntryLine(line EntryLine) string {
	label := StatusStyle(line.Status).Sprint(fmt.Sprintf("%-14s", line.Status))

	name := line.VaultPath
	if line.Directory {
		name += "/"
	}
	name = fmt.Sprintf("%-24s", name)

	var msg string
	if line.Reason != "" {
		msg = line.Reason
	} else {
		msg = strings.TrimSpace(StatusVerbs[line.Status] + " " + line.Source)
	}
	if line.Platform != "" {
		msg += fmt.Sprintf(" [%s only]", line.Platform)
	}

	return fmt.Sprintf("    %s : %s : %s", label, name, msg)
}

// VaultSummary groups the entry lines of one vault.
type VaultSummary struct {
	Name   string
	Branch string
	Remote string
	Dirty  bool
	Lines  []EntryLine
}

// RenderVaultSummary renders the vault header followed by its entry lines
func RenderVaultSummary(vs VaultSummary) string {
	var b strings.Builder

	header := vs.Name + ":"
	switch AggregateStatus(vs.Lines) {
	case StatusMissing:
		header = StatusStyle(StatusMissing).Sprint(header)
	case StatusModified:
		header = StatusStyle(StatusModified).Sprint(header)
	default:
		header = StatusStyle(StatusUpToDate).Sprint(header)
	}
	b.WriteString(header)
	if vs.Branch != "" {
		b.WriteString(" " + pterm.FgCyan.Sprint(vs.Branch))
	}
	if vs.Remote != "" {
		b.WriteString(" -> " + vs.Remote)
	} else {
		b.WriteString(" " + pterm.FgGray.Sprint("(local only)"))
	}
	if vs.Dirty {
		b.WriteString(" " + pterm.FgYellow.Sprint("(uncommitted changes)"))
	}
	b.WriteString("\n")

	if len(vs.Lines) == 0 {
		b.WriteString("    no tracked files\n")
	}
	for _, line := range vs.Lines {
		b.WriteString(RenderEntryLine(line) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// AggregateStatus is the most severe status among lines. An empty vault is
// up to date.
func AggregateStatus(lines []EntryLine) Status {
	result := StatusUpToDate
	for _, l := range lines {
		switch l.Status {
		case StatusMissing:
			return StatusMissing
		case StatusModified:
			result = StatusModified
		}
	}
	return result
}
