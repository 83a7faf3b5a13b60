package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"selectext/internal/highlight"
)

// RenderSegments draws each segment with its own style: plain segments with
// base, highlighted ones with emphasis on a background of the segment's
// color (or def). The highlight whose id equals focusID also gets focus.
func RenderSegments(segs []highlight.Segment, base, emphasis, focus lipgloss.Style, def highlight.Color, focusID string) string {
	if len(segs) == 0 {
		return base.Render("—")
	}
	var b strings.Builder
	for _, seg := range segs {
		sty := base
		if seg.Highlight {
			sty = emphasis.Inherit(base)
			if c := seg.ResolveColor(def); c.IsSet() {
				sty = sty.Background(lipgloss.Color(string(c)))
			}
			if focusID != "" && seg.ID == focusID {
				sty = focus.Inherit(sty)
			}
		}
		b.WriteString(sty.Render(seg.Text))
	}
	return b.String()
}

// RenderPlain marks highlighted segments with brackets and their id, for
// output that cannot carry styles.
func RenderPlain(segs []highlight.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		if seg.Highlight {
			b.WriteString("[")
			b.WriteString(seg.Text)
			b.WriteString("]{")
			b.WriteString(seg.ID)
			b.WriteString("}")
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
