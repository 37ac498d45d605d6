package topics

// Renderer turns a topic body into terminal text. ext is the extension of
// the topic file, including the dot.
type Renderer interface {
	Render(content, ext string) string
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(content, ext string) string

func (f RendererFunc) Render(content, ext string) string { return f(content, ext) }

// Plain shows topics exactly as written.
var Plain Renderer = RendererFunc(func(content, _ string) string { return content })
