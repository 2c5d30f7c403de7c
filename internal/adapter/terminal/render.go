package terminal

import "github.com/charmbracelet/glamour"

// Renderer turns a model reply into terminal output.
type Renderer func(markdown string) string

// PlainRenderer prints replies verbatim.
func PlainRenderer(markdown string) string {
	return markdown
}

// MarkdownRenderer renders with glamour, falling back to plain text when the
// renderer cannot be built or fails on a reply.
func MarkdownRenderer(wordWrap int) Renderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return PlainRenderer
	}

	return func(markdown string) string {
		rendered, err := r.Render(markdown)
		if err != nil {
			return markdown
		}
		return rendered
	}
}
