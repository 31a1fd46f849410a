package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdown renders long-form catalog text. It falls back to the raw text
// when the renderer cannot be built or fails.
type markdown struct {
	style    string
	renderer *glamour.TermRenderer
}

func newMarkdown(style string, width int) *markdown {
	md := &markdown{style: style}
	md.resize(width)
	return md
}

func (md *markdown) resize(width int) {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(md.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		md.renderer = nil
		return
	}
	md.renderer = r
}

func (md *markdown) render(text string) string {
	if md.renderer == nil {
		return text
	}
	out, err := md.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
