// Package highlight turns a text plus a set of possibly overlapping highlight
// ranges into an ordered, gap-free list of segments a renderer can style one
// by one.
package highlight

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRange reports a range that does not fit the text it is applied to.
var ErrInvalidRange = errors.New("invalid range")

// Color is a display color such as "#FFEB3B". The zero value means the
// renderer's default highlight color applies.
type Color string

// IsSet reports whether the color was given explicitly.
func (c Color) IsSet() bool {
	return c != ""
}

// Range marks the half-open interval [Start, End) of a text.
type Range struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	ID    string `json:"id" yaml:"id"`
	Color Color  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Len returns the width of the range, negative for inverted ranges.
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	if r.Color.IsSet() {
		return fmt.Sprintf("[%d,%d) %s %s", r.Start, r.End, r.ID, r.Color)
	}
	return fmt.Sprintf("[%d,%d) %s", r.Start, r.End, r.ID)
}

// Segment stores a slice of the source text and the highlight it belongs to.
// Plain segments carry no ID or Color. Start and End are byte offsets into
// the source text.
type Segment struct {
	Highlight bool   `json:"highlight"`
	Text      string `json:"text"`
	ID        string `json:"id,omitempty"`
	Color     Color  `json:"color,omitempty"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

// ResolveColor returns the segment's own color, falling back to def.
// Plain segments have no highlight color and always return "".
func (s Segment) ResolveColor(def Color) Color {
	if !s.Highlight {
		return ""
	}
	if s.Color.IsSet() {
		return s.Color
	}
	return def
}

// Join renders the segments back into plain text, ignoring highlights.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// HighlightIDs lists the ids of the highlighted segments in order.
func HighlightIDs(segments []Segment) []string {
	ids := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Highlight {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
