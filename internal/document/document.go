package document

import (
	"errors"
	"fmt"

	"selectext/internal/highlight"
)

// ErrUnsupportedFormat is returned for files that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document pairs a flat text with the highlights drawn over it.
type Document struct {
	Name           string            `yaml:"name,omitempty" json:"name,omitempty"`
	Text           string            `yaml:"text" json:"text"`
	Unit           highlight.Unit    `yaml:"unit,omitempty" json:"unit,omitempty"`
	HighlightColor highlight.Color   `yaml:"highlight_color,omitempty" json:"highlight_color,omitempty"`
	Highlights     []highlight.Range `yaml:"highlights" json:"highlights"`
}

// OffsetUnit returns the parsed unit of the highlight offsets.
func (d Document) OffsetUnit() (highlight.Unit, error) {
	return highlight.ParseUnit(string(d.Unit))
}

// Segment splits the document text with s, converting offsets from the
// document's unit first.
func (d Document) Segment(s *highlight.Segmenter) ([]highlight.Segment, error) {
	unit, err := d.OffsetUnit()
	if err != nil {
		return nil, err
	}
	segs, err := s.SegmentUnits(d.Text, d.Highlights, unit)
	if err != nil {
		if d.Name != "" {
			return nil, fmt.Errorf("document %q: %w", d.Name, err)
		}
		return nil, err
	}
	return segs, nil
}

// Normalized returns the merged highlight ranges in the document's own unit.
func (d Document) Normalized(n *highlight.Normalizer) []highlight.Range {
	return n.Normalize(d.Highlights)
}
