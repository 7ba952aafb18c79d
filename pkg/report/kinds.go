package report

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/archx/pkg/commands"
	"github.com/charmbracelet/glamour"
)

// KindsMarkdown lists handlers as a markdown table
func KindsMarkdown(handlers []commands.Handler) string {
	var b strings.Builder
	b.WriteString("# Command kinds\n\n")
	b.WriteString("| Kind | Backend | Provider |\n")
	b.WriteString("|------|---------|----------|\n")
	for _, h := range handlers {
		backend := h.Backend
		if backend == "" {
			backend = "*(default)*"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", h.Kind, backend, h.Provider)
	}
	return b.String()
}

// RenderMarkdown renders markdown for a terminal. Width 0 keeps glamour's
// default wrapping. On any rendering error the markdown is returned as is.
func RenderMarkdown(md string, width int) string {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
