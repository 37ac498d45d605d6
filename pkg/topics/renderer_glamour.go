package topics

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the wrap column for markdown topics.
const DefaultWidth = 80

// GlamourRenderer renders markdown topics with glamour. Other topics, and
// markdown glamour fails on, are shown unchanged.
type GlamourRenderer struct {
	// Style is a glamour style name or path; empty picks one from the terminal.
	Style string
	// Width wraps lines; 0 means DefaultWidth.
	Width int

	once sync.Once
	term *glamour.TermRenderer
}

func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{}
}

func (r *GlamourRenderer) Render(content, ext string) string {
	if ext != ".md" {
		return content
	}
	r.once.Do(r.init)
	if r.term == nil {
		return content
	}
	out, err := r.term.Render(content)
	if err != nil {
		return content
	}
	return out
}

func (r *GlamourRenderer) init() {
	width := r.Width
	if width <= 0 {
		width = DefaultWidth
	}
	styleOpt := glamour.WithAutoStyle()
	if r.Style != "" {
		styleOpt = glamour.WithStylePath(r.Style)
	}
	term, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width), glamour.WithEmoji())
	if err != nil {
		return
	}
	r.term = term
}
