package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders a ticket description through glamour. Falls back to
// the raw text when the renderer cannot be built or the input trips it up, so
// the detail panel never goes blank because of markup.
func renderMarkdown(text string, wrap int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if wrap < 20 {
		wrap = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}
	// Strip trailing whitespace/newlines that glamour adds
	return strings.TrimRight(out, "\n")
}
