package pipeline

import (
	"context"
	"time"

	"selectext/internal/document"
	"selectext/internal/highlight"
	"selectext/internal/log"
	"selectext/internal/watch"
)

// SegmentedEvent is consumed by the output layer.
type SegmentedEvent struct {
	Timestamp      time.Time
	Path           string
	Line           int
	Name           string
	Text           string
	HighlightColor highlight.Color
	Segments       []highlight.Segment
	Err            error
}

// Highlights counts the highlighted segments of the event.
func (e SegmentedEvent) Highlights() int {
	return len(highlight.HighlightIDs(e.Segments))
}

type Stream struct {
	segmenter       *highlight.Segmenter
	highlightedOnly bool
}

// New creates a pipeline stream. With highlightedOnly set, documents that
// produce no highlighted segment are dropped.
func New(s *highlight.Segmenter, highlightedOnly bool) Stream {
	if s == nil {
		s = highlight.NewSegmenter(nil)
	}
	return Stream{segmenter: s, highlightedOnly: highlightedOnly}
}

// Process segments one record.
func (s Stream) Process(rec watch.Record) SegmentedEvent {
	evt := SegmentedEvent{Timestamp: time.Now(), Path: rec.Path, Line: rec.Line}
	if rec.Err != nil {
		evt.Err = rec.Err
		return evt
	}
	doc, err := document.ParseLine(rec.Text)
	if err != nil {
		evt.Err = err
		return evt
	}
	evt.Name = doc.Name
	evt.Text = doc.Text
	evt.HighlightColor = doc.HighlightColor
	evt.Segments, evt.Err = doc.Segment(s.segmenter)
	if evt.Err != nil {
		log.ErrorErr(log.CatSegment, "segment record", evt.Err, "path", rec.Path, "line", rec.Line)
	}
	return evt
}

// Connect wires a record stream to segmented output.
func (s Stream) Connect(ctx context.Context, in <-chan watch.Record) <-chan SegmentedEvent {
	out := make(chan SegmentedEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case rec, ok := <-in:
				if !ok {
					return
				}
				evt := s.Process(rec)
				if evt.Err == nil && s.highlightedOnly && evt.Highlights() == 0 {
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
