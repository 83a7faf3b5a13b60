package highlight

import "fmt"

// Segmenter splits texts by normalized highlight ranges.
type Segmenter struct {
	normalizer *Normalizer
}

// NewSegmenter returns a Segmenter backed by n, or by the process-wide
// normalizer when n is nil.
func NewSegmenter(n *Normalizer) *Segmenter {
	if n == nil {
		n = defaultNormalizer
	}
	return &Segmenter{normalizer: n}
}

// Normalizer returns the normalizer the segmenter merges ranges with.
func (s *Segmenter) Normalizer() *Normalizer {
	return s.normalizer
}

// Segment normalizes ranges and splits text into plain and highlighted
// segments that cover it exactly once. Empty segments are dropped. A range
// that falls outside text or is inverted fails with ErrInvalidRange.
func (s *Segmenter) Segment(text string, ranges []Range) ([]Segment, error) {
	normalized := s.normalizer.Normalize(ranges)
	if err := Validate(text, normalized); err != nil {
		return nil, err
	}

	segments := make([]Segment, 0, len(normalized)*2+1)
	cursor := 0
	for _, r := range normalized {
		segments = appendSegment(segments, Segment{Text: text[cursor:r.Start], Start: cursor, End: r.Start})
		segments = appendSegment(segments, Segment{
			Highlight: true,
			Text:      text[r.Start:r.End],
			ID:        r.ID,
			Color:     r.Color,
			Start:     r.Start,
			End:       r.End,
		})
		cursor = r.End
	}
	segments = appendSegment(segments, Segment{Text: text[cursor:], Start: cursor, End: len(text)})
	return segments, nil
}

// Validate checks every range against text. Ranges are expected in
// normalized order so an overlap with the previous range is also rejected.
func Validate(text string, ranges []Range) error {
	cursor := 0
	for _, r := range ranges {
		switch {
		case r.Start < 0:
			return fmt.Errorf("%w: %s starts before the text", ErrInvalidRange, r)
		case r.Start > r.End:
			return fmt.Errorf("%w: %s is inverted", ErrInvalidRange, r)
		case r.End > len(text):
			return fmt.Errorf("%w: %s ends past text length %d", ErrInvalidRange, r, len(text))
		case r.Start < cursor:
			return fmt.Errorf("%w: %s overlaps the previous range", ErrInvalidRange, r)
		}
		cursor = r.End
	}
	return nil
}

func appendSegment(list []Segment, seg Segment) []Segment {
	if seg.Text == "" {
		return list
	}
	return append(list, seg)
}

var defaultSegmenter = NewSegmenter(nil)

// Segments splits text with the process-wide segmenter.
func Segments(text string, ranges []Range) ([]Segment, error) {
	return defaultSegmenter.Segment(text, ranges)
}
