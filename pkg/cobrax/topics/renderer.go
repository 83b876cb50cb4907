package topics

// Renderer formats topic content for terminal display.
type Renderer interface {
	// Render returns content formatted for the terminal. ext is the topic
	// file's extension and tells the renderer what markup to expect.
	Render(content string, ext string) string
}

// PlainRenderer is the default renderer; it passes content through
// untouched.
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, ext string) string {
	return content
}
