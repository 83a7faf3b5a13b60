package highlight

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func rangeGen(textLen int) *rapid.Generator[Range] {
	return rapid.Custom(func(t *rapid.T) Range {
		start := rapid.IntRange(0, textLen).Draw(t, "start")
		end := rapid.IntRange(start, textLen).Draw(t, "end")
		return Range{
			Start: start,
			End:   end,
			ID:    rapid.StringMatching(`[a-z]{1,4}`).Draw(t, "id"),
			Color: Color(rapid.SampledFrom([]string{"", "#FFEB3B", "#00FF00"}).Draw(t, "color")),
		}
	})
}

func TestPropertySegmentsCoverText(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z ]{0,40}`).Draw(t, "text")
		ranges := rapid.SliceOfN(rangeGen(len(text)), 0, 8).Draw(t, "ranges")

		segs, err := Segments(text, ranges)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := Join(segs); got != text {
			t.Fatalf("coverage broken: %q != %q", got, text)
		}
		cursor := 0
		for _, s := range segs {
			if s.Text == "" {
				t.Fatalf("empty segment in %v", segs)
			}
			if s.Start != cursor || text[s.Start:s.End] != s.Text {
				t.Fatalf("segment offsets out of step: %+v at cursor %d", s, cursor)
			}
			if !s.Highlight && (s.ID != "" || s.Color != "") {
				t.Fatalf("plain segment carries attribution: %+v", s)
			}
			cursor = s.End
		}
	})
}

func TestPropertyNormalizedRangesAreOrderedAndDisjoint(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ranges := rapid.SliceOfN(rangeGen(50), 0, 10).Draw(t, "ranges")
		out := Normalize(ranges)
		for i := 1; i < len(out); i++ {
			a, b := out[i-1], out[i]
			if a.End > b.Start {
				t.Fatalf("overlap between %v and %v", a, b)
			}
			if a.Start > b.Start {
				t.Fatalf("unsorted %v before %v", a, b)
			}
		}
		for _, r := range out {
			if r.Start > r.End {
				t.Fatalf("inverted member %v", r)
			}
		}
	})
}

func TestPropertyNormalizeIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ranges := rapid.SliceOfN(rangeGen(30), 0, 10).Draw(t, "ranges")
		once := Merge(ranges)
		twice := Merge(once)
		if fmt.Sprint(once) != fmt.Sprint(twice) {
			t.Fatalf("not idempotent: %v vs %v", once, twice)
		}
	})
}

func TestPropertyMergeMonotonicity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		aStart := rapid.IntRange(0, 20).Draw(t, "aStart")
		aEnd := rapid.IntRange(aStart+2, 40).Draw(t, "aEnd")
		bStart := rapid.IntRange(aStart+1, aEnd-1).Draw(t, "bStart")
		bEnd := rapid.IntRange(bStart, 60).Draw(t, "bEnd")
		a := Range{Start: aStart, End: aEnd, ID: "a", Color: "#aaa"}
		b := Range{Start: bStart, End: bEnd, ID: "b", Color: "#bbb"}

		for _, in := range [][]Range{{a, b}, {b, a}} {
			out := Merge(in)
			want := []Range{{Start: aStart, End: max(aEnd, bEnd), ID: "b", Color: "#aaa"}}
			if fmt.Sprint(out) != fmt.Sprint(want) {
				t.Fatalf("merge(%v) = %v, want %v", in, out, want)
			}
		}
	})
}

func TestPropertyCachedMatchesUncached(t *testing.T) {
	cached := NewNormalizer(WithMaxEntries(8))
	plain := NewNormalizer(WithoutCache())
	rapid.Check(t, func(t *rapid.T) {
		ranges := rapid.SliceOfN(rangeGen(20), 0, 6).Draw(t, "ranges")
		first := cached.Normalize(ranges)
		second := cached.Normalize(ranges)
		want := plain.Normalize(ranges)
		if fmt.Sprint(first) != fmt.Sprint(want) || fmt.Sprint(second) != fmt.Sprint(want) {
			t.Fatalf("cached %v/%v, uncached %v", first, second, want)
		}
	})
	require.Positive(t, cached.Stats().Hits)
}
