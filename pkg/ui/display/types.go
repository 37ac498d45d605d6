// Package display holds the format-neutral view model that the text and
// terminal renderers draw. Command results are converted into a Result by
// the converter package; markup tags from pkg/style may appear in any text.
package display

import (
	"strings"

	"github.com/billxc/git-file-vault/pkg/engine"
	"github.com/billxc/git-file-vault/pkg/style"
)

// Level of a note
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelMuted   Level = "muted"
)

// Note is a single message line.
type Note struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Field is one key/value row of a details block.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Table is a column listing. The first column of a row may carry an
// active marker.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
	// Marked holds the indexes of rows to flag (the active vault).
	Marked map[int]bool `json:"-"`
}

// Result is everything a command prints, top to bottom: notes before the
// body, then fields, table, vault summary and entry lines, then trailing
// notes.
type Result struct {
	Command string              `json:"command"`
	Header  []Note              `json:"header,omitempty"`
	Fields  []Field             `json:"fields,omitempty"`
	Table   *Table              `json:"table,omitempty"`
	Vault   *style.VaultSummary `json:"vault,omitempty"`
	Lines   []style.EntryLine   `json:"lines,omitempty"`
	Footer  []Note              `json:"footer,omitempty"`
	Empty   string              `json:"empty,omitempty"`
}

// Add appends a trailing note.
func (r *Result) Add(level Level, text string) *Result {
	r.Footer = append(r.Footer, Note{Level: level, Text: text})
	return r
}

// Announce appends a leading note.
func (r *Result) Announce(level Level, text string) *Result {
	r.Header = append(r.Header, Note{Level: level, Text: text})
	return r
}

// Field appends a details row, skipping empty values.
func (r *Result) Field(key, value string) *Result {
	if value != "" {
		r.Fields = append(r.Fields, Field{Key: key, Value: value})
	}
	return r
}

// FileList is the result of `gfv list`. Long selects the detailed layout for
// the text renderers; structured formats always carry every field.
type FileList struct {
	Vault string             `json:"vault" yaml:"vault"`
	Files []engine.ListEntry `json:"files" yaml:"files"`
	Long  bool               `json:"-" yaml:"-"`
}

// Settings is a titled key/value listing (config, aliases, debug paths).
type Settings struct {
	Title  string  `json:"title" yaml:"title"`
	Fields []Field `json:"settings" yaml:"settings"`
}

// Get returns the value stored under key.
func (s Settings) Get(key string) (string, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// ShortHash abbreviates a commit hash the way git log --oneline does.
func ShortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// TildePath replaces a leading home directory with ~.
func TildePath(path, home string) string {
	if home == "" || home == "/" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+"/") {
		return "~" + path[len(home):]
	}
	return path
}

// TruncateLeft shortens s to maxLen runes keeping the end, marking the cut
// with an ellipsis.
func TruncateLeft(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 || len(r) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	return "…" + string(r[len(r)-maxLen+1:])
}
