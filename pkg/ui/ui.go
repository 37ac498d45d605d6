// Package ui provides a unified interface for rendering output in different formats.
// It supports terminal (rich), text (plain), JSON and YAML output formats.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/billxc/git-file-vault/pkg/ui/converter"
	"github.com/billxc/git-file-vault/pkg/ui/json"
	"github.com/billxc/git-file-vault/pkg/ui/terminal"
	"github.com/billxc/git-file-vault/pkg/ui/text"
	"github.com/billxc/git-file-vault/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers.
// It provides methods for rendering different types of data and messages.
type Renderer interface {
	// RenderResult renders any result type (command results, listings, settings)
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message; markup tags are styled or stripped
	RenderMessage(msg string) error
}

type options struct {
	home string
}

// Option customizes a renderer.
type Option func(*options)

// WithHome shortens paths under home to ~ in human readable formats.
func WithHome(home string) Option {
	return func(o *options) {
		o.home = home
	}
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer, opts ...Option) (Renderer, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	conv := converter.New(o.home)

	switch format {
	case FormatAuto:
		// Detect terminal capabilities and choose appropriate format
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output, opts...)
		}
		// If not a file, default to plain text
		return NewRenderer(FormatText, output, opts...)
	case FormatTerminal:
		return terminal.New(output, conv)
	case FormatText:
		return text.New(output, conv)
	case FormatJSON:
		return json.New(output)
	case FormatYAML:
		return yaml.New(output)
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
