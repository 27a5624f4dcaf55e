package topics

// Renderer turns the raw content of a topic into terminal output. ext is
// the extension of the topic's file.
type Renderer interface {
	Render(content, ext string) string
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(content, ext string) string

func (f RendererFunc) Render(content, ext string) string {
	return f(content, ext)
}

// PlainRenderer shows topics unchanged
type PlainRenderer struct{}

func (PlainRenderer) Render(content, ext string) string {
	return content
}
