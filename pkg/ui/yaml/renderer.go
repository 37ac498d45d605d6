// Package yaml provides YAML output for scripting and human inspection
package yaml

import (
	"io"

	"github.com/billxc/git-file-vault/pkg/style"
	"github.com/billxc/git-file-vault/pkg/ui/json"
	"gopkg.in/yaml.v3"
)

// Renderer emits one YAML document per call.
type Renderer struct {
	output io.Writer
}

// New creates a new YAML renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

func (r *Renderer) encode(v interface{}) error {
	enc := yaml.NewEncoder(r.output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// RenderResult renders any result type as YAML
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encode(result)
}

// RenderError renders an error as YAML
func (r *Renderer) RenderError(err error) error {
	obj := json.NewErrorObject(err)
	return r.encode(map[string]string{
		"error":       obj.Error,
		"code":        obj.Code,
		"remediation": obj.Remediation,
	})
}

// RenderMessage renders a simple message as YAML
func (r *Renderer) RenderMessage(msg string) error {
	return r.encode(map[string]string{"message": style.Strip(msg)})
}
