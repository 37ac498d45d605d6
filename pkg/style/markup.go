package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// tag content may not open another tag; escape sequences left by an inner
// render are allowed.
var tagPattern = regexp.MustCompile(`\[([a-z_]+)\]((?:[^\[\x1b]|\x1b\[)*)\[/([a-z_]+)\]`)

// MarkupParser renders inline tags such as "[path]~/.zshrc[/path]" with the
// matching lipgloss style. Unknown or mismatched tags are left untouched.
type MarkupParser struct {
	styles map[string]lipgloss.Style
	plain  bool
}

// NewMarkupParser creates a parser with the default vault styles.
func NewMarkupParser() *MarkupParser {
	return &MarkupParser{
		styles: map[string]lipgloss.Style{
			"title":    TitleStyle,
			"subtitle": SubtitleStyle,
			"success":  SuccessStyle,
			"error":    ErrorStyle,
			"warning":  WarningStyle,
			"info":     InfoStyle,
			"code":     CodeStyle,
			"path":     PathStyle,
			"muted":    MutedStyle,
			"bold":     lipgloss.NewStyle().Bold(true),
			"vault":    VaultStyle,
			"branch":   BranchStyle,
			"platform": PlatformStyle,
			"dir":      DirectoryStyle,
		},
	}
}

// NewPlainParser creates a parser that strips known tags without styling.
func NewPlainParser() *MarkupParser {
	p := NewMarkupParser()
	p.plain = true
	return p
}

// Render processes markup text and returns styled output. Nested tags are
// resolved innermost first.
func (p *MarkupParser) Render(text string) string {
	result := text
	for {
		next := tagPattern.ReplaceAllStringFunc(result, func(match string) string {
			m := tagPattern.FindStringSubmatch(match)
			if m[1] != m[3] {
				return match
			}
			style, ok := p.styles[m[1]]
			if !ok {
				return match
			}
			if p.plain {
				return m[2]
			}
			return style.Render(m[2])
		})
		if next == result {
			return result
		}
		result = next
	}
}

// AddStyle registers or replaces the style for tag.
func (p *MarkupParser) AddStyle(tag string, style lipgloss.Style) {
	p.styles[tag] = style
}

// RenderTemplate substitutes {{key}} placeholders, then renders markup.
func (p *MarkupParser) RenderTemplate(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return p.Render(result)
}

var (
	defaultParser = NewMarkupParser()
	plainParser   = NewPlainParser()
)

// Render is a convenience function using the default parser
func Render(text string) string {
	return defaultParser.Render(text)
}

// Strip removes known markup tags, keeping their content.
func Strip(text string) string {
	return plainParser.Render(text)
}

// RenderTemplate is a convenience function using the default parser
func RenderTemplate(template string, vars map[string]string) string {
	return defaultParser.RenderTemplate(template, vars)
}
