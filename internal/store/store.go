// Package store keeps the host-side list of highlights for one text and
// turns selection actions into new highlights.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"selectext/internal/highlight"
	"selectext/internal/log"
)

var (
	ErrNotFound       = errors.New("highlight not found")
	ErrEmptySelection = errors.New("empty selection")
)

// ActionHighlight is the selection event type that creates a highlight.
const ActionHighlight = "Highlight"

// DefaultColor is used for highlights created without an explicit color.
const DefaultColor highlight.Color = "#FFEB3B"

// Selection is emitted by the host when the user picks a menu action on a
// selected span of text.
type Selection struct {
	EventType string `json:"eventType"`
	Content   string `json:"content"`
	Start     int    `json:"selectionStart"`
	End       int    `json:"selectionEnd"`
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	ranges  []highlight.Range
	color   highlight.Color
	version uint64
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithColor sets the color given to new highlights.
func WithColor(c highlight.Color) Option {
	return func(s *Store) { s.color = c }
}

// WithIDFunc replaces the uuid generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New returns a store seeded with initial.
func New(initial []highlight.Range, opts ...Option) *Store {
	s := &Store{
		ranges: slices.Clone(initial),
		color:  DefaultColor,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records a highlight over [start, end). An empty color uses the
// store's color.
func (s *Store) Add(start, end int, color highlight.Color) (highlight.Range, error) {
	if start < 0 || start >= end {
		return highlight.Range{}, fmt.Errorf("%w: [%d,%d)", ErrEmptySelection, start, end)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !color.IsSet() {
		color = s.color
	}
	r := highlight.Range{Start: start, End: end, ID: s.newID(), Color: color}
	s.ranges = append(s.ranges, r)
	s.version++
	log.Info(log.CatStore, "highlight added", "id", r.ID, "start", start, "end", end)
	return r, nil
}

// HandleSelection creates a highlight for ActionHighlight events. Other
// event types are left to the host and report false.
func (s *Store) HandleSelection(sel Selection) (highlight.Range, bool, error) {
	if sel.EventType != ActionHighlight {
		return highlight.Range{}, false, nil
	}
	r, err := s.Add(sel.Start, sel.End, "")
	if err != nil {
		return highlight.Range{}, false, err
	}
	return r, true, nil
}

// Remove deletes every range carrying id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.ranges)
	s.ranges = slices.DeleteFunc(s.ranges, func(r highlight.Range) bool {
		return r.ID == id
	})
	if len(s.ranges) == before {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.version++
	log.Info(log.CatStore, "highlight removed", "id", id)
	return nil
}

// Get returns the first range carrying id.
func (s *Store) Get(id string) (highlight.Range, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.ranges {
		if r.ID == id {
			return r, true
		}
	}
	return highlight.Range{}, false
}

// Ranges returns a copy of the stored ranges in insertion order.
func (s *Store) Ranges() []highlight.Range {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ranges)
}

// Version increases on every change.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
