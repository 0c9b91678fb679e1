package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

type rendererKey struct {
	width int
	style string
}

var (
	renderersMu sync.Mutex
	renderers   = map[rendererKey]*glamour.TermRenderer{}
)

func notesRenderer(width int, style string) (*glamour.TermRenderer, error) {
	if width < 1 {
		width = 80
	}
	if style == "" {
		style = "dark"
	}
	key := rendererKey{width, style}

	renderersMu.Lock()
	defer renderersMu.Unlock()
	if r, ok := renderers[key]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(glamour.WithStylePath(style), glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	renderers[key] = r
	return r, nil
}

// RenderNotes renders event notes written in markdown with the glamour
// style, wrapped at width. Notes that fail to render are returned as is.
func RenderNotes(notes string, width int, style string) string {
	if strings.TrimSpace(notes) == "" {
		return ""
	}
	r, err := notesRenderer(width, style)
	if err != nil {
		return notes
	}
	out, err := r.Render(notes)
	if err != nil {
		return notes
	}
	return strings.Trim(out, "\n")
}
