package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
)

// ddlRenderer highlights DDL as SQL through glamour. A renderer is built
// lazily per wrap width; when glamour fails the text is returned unchanged.
type ddlRenderer struct {
	plain bool

	mu       sync.Mutex
	width    int
	renderer *glamour.TermRenderer
	failed   bool
}

func newDDLRenderer(plain bool) *ddlRenderer {
	return &ddlRenderer{plain: plain}
}

// Render returns ddl ready for the details viewport.
func (r *ddlRenderer) Render(ddl string, width int) string {
	ddl = strings.TrimRight(ddl, "\n")
	if r == nil || r.plain {
		return ddl
	}
	renderer := r.ensure(width)
	if renderer == nil {
		return ddl
	}
	out, err := renderer.Render("```sql\n" + ddl + "\n```\n")
	if err != nil {
		return ddl
	}
	return strings.Trim(out, "\n")
}

func (r *ddlRenderer) ensure(width int) *glamour.TermRenderer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed {
		return nil
	}
	if width < 20 {
		width = 20
	}
	if r.renderer != nil && r.width == width {
		return r.renderer
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Warn().Err(err).Msg("ddl highlighting disabled")
		r.failed = true
		return nil
	}
	r.renderer = renderer
	r.width = width
	return renderer
}
