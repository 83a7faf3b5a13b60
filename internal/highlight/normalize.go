package highlight

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/zeebo/xxh3"

	"selectext/internal/cachemanager"
	"selectext/internal/log"
)

const (
	// DefaultMaxEntries bounds the normalizer memo.
	DefaultMaxEntries = 4096
	// DefaultTTL is how long an unused normalized set stays cached.
	DefaultTTL = cachemanager.DefaultExpiration
)

// Merge sorts a copy of ranges by start then end and folds overlapping
// neighbours together. A merged range keeps the first range's start and
// color, takes the later range's id and the larger end. Ranges that only
// touch (a.End == b.Start) stay separate. The input is not modified.
func Merge(ranges []Range) []Range {
	if len(ranges) == 0 {
		return []Range{}
	}

	sorted := slices.Clone(ranges)
	slices.SortStableFunc(sorted, func(a, b Range) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})

	merged := make([]Range, 0, len(sorted))
	for _, next := range sorted {
		if len(merged) == 0 || merged[len(merged)-1].End <= next.Start {
			merged = append(merged, next)
			continue
		}
		last := &merged[len(merged)-1]
		last.End = max(last.End, next.End)
		last.ID = next.ID
	}
	return merged
}

// Stats describes normalizer cache activity.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

type memoEntry struct {
	input  []Range
	output []Range
}

// Normalizer merges range sets and memoizes the results keyed by value.
// It is safe for concurrent use.
type Normalizer struct {
	cache  *cachemanager.ReadThroughCache[memoEntry, []Range]
	ttl    time.Duration
	hits   atomic.Uint64
	misses atomic.Uint64
}

type normalizerConfig struct {
	maxEntries int
	ttl        time.Duration
	skipCache  bool
}

// Option configures a Normalizer.
type Option func(*normalizerConfig)

// WithMaxEntries bounds the number of memoized range sets.
func WithMaxEntries(n int) Option {
	return func(c *normalizerConfig) { c.maxEntries = n }
}

// WithTTL sets how long a memoized range set lives.
func WithTTL(d time.Duration) Option {
	return func(c *normalizerConfig) { c.ttl = d }
}

// WithoutCache makes every call recompute.
func WithoutCache() Option {
	return func(c *normalizerConfig) { c.skipCache = true }
}

// NewNormalizer returns a Normalizer with its own memo cache.
func NewNormalizer(opts ...Option) *Normalizer {
	cfg := normalizerConfig{maxEntries: DefaultMaxEntries, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ttl <= 0 {
		cfg.ttl = DefaultTTL
	}

	n := &Normalizer{ttl: cfg.ttl}
	manager := cachemanager.NewInMemoryCacheManager[memoEntry]("normalize", cfg.ttl, cachemanager.DefaultCleanupInterval, cfg.maxEntries)
	n.cache = cachemanager.NewReadThroughCache[memoEntry, []Range](manager, n.load, cfg.skipCache)
	return n
}

func (n *Normalizer) load(_ context.Context, ranges []Range) (memoEntry, error) {
	n.misses.Add(1)
	return memoEntry{input: slices.Clone(ranges), output: Merge(ranges)}, nil
}

// Normalize returns the merged, ascending form of ranges. Value-equal inputs
// are served from the memo; the returned slice is always the caller's own copy.
func (n *Normalizer) Normalize(ranges []Range) []Range {
	if len(ranges) == 0 {
		return []Range{}
	}

	key := cacheKey(ranges)
	entry, hit, _ := n.cache.Get(context.Background(), key, ranges, n.ttl)
	if !slices.Equal(entry.input, ranges) {
		// Hash collision: the memo holds a different range set under this key.
		log.Warn(log.CatCache, "normalize key collision", "key", key)
		n.misses.Add(1)
		return Merge(ranges)
	}
	if hit {
		n.hits.Add(1)
	}
	return slices.Clone(entry.output)
}

// Stats reports cache hits, computed misses and stored entries.
func (n *Normalizer) Stats() Stats {
	return Stats{
		Hits:    n.hits.Load(),
		Misses:  n.misses.Load(),
		Entries: n.cache.Cache().Len(),
	}
}

// Reset empties the memo and zeroes the counters.
func (n *Normalizer) Reset() {
	_ = n.cache.Cache().Flush(context.Background())
	n.hits.Store(0)
	n.misses.Store(0)
}

// cacheKey hashes a length-prefixed encoding of every field so that distinct
// range lists only share a key on a real 128-bit collision.
func cacheKey(ranges []Range) string {
	buf := make([]byte, 0, len(ranges)*24)
	buf = binary.AppendUvarint(buf, uint64(len(ranges)))
	for _, r := range ranges {
		buf = binary.AppendVarint(buf, int64(r.Start))
		buf = binary.AppendVarint(buf, int64(r.End))
		buf = binary.AppendUvarint(buf, uint64(len(r.ID)))
		buf = append(buf, r.ID...)
		buf = binary.AppendUvarint(buf, uint64(len(r.Color)))
		buf = append(buf, r.Color...)
	}
	h := xxh3.Hash128(buf)
	return fmt.Sprintf("%016x%016x", h.Hi, h.Lo)
}

var defaultNormalizer = NewNormalizer()

// Normalize merges ranges with the process-wide normalizer.
func Normalize(ranges []Range) []Range {
	return defaultNormalizer.Normalize(ranges)
}

// DefaultNormalizer returns the process-wide normalizer.
func DefaultNormalizer() *Normalizer {
	return defaultNormalizer
}
