package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{
		"":       UnitByte,
		"bytes":  UnitByte,
		"Rune":   UnitRune,
		"utf-16": UnitUTF16,
		"utf16":  UnitUTF16,
	} {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseUnit("grapheme")
	require.Error(t, err)
}

func TestToByteOffsetsBytesIsIdentity(t *testing.T) {
	in := []Range{{Start: 0, End: 3, ID: "a"}}
	out, err := ToByteOffsets("héllo", in, UnitByte)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestToByteOffsetsRunes(t *testing.T) {
	// "héllo": é is two bytes.
	out, err := ToByteOffsets("héllo", []Range{{Start: 1, End: 3, ID: "a"}}, UnitRune)
	require.NoError(t, err)
	require.Equal(t, []Range{{Start: 1, End: 4, ID: "a"}}, out)
}

func TestToByteOffsetsUTF16SurrogatePairs(t *testing.T) {
	// 😀 is one rune, four bytes and two UTF-16 code units.
	text := "a😀b"
	out, err := ToByteOffsets(text, []Range{{Start: 1, End: 3, ID: "emoji"}, {Start: 3, End: 4, ID: "b"}}, UnitUTF16)
	require.NoError(t, err)
	require.Equal(t, []Range{{Start: 1, End: 5, ID: "emoji"}, {Start: 5, End: 6, ID: "b"}}, out)

	_, err = ToByteOffsets(text, []Range{{Start: 2, End: 3, ID: "half"}}, UnitUTF16)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestToByteOffsetsOutOfBounds(t *testing.T) {
	_, err := ToByteOffsets("abc", []Range{{Start: 0, End: 4, ID: "long"}}, UnitRune)
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = ToByteOffsets("abc", []Range{{Start: -1, End: 1, ID: "neg"}}, UnitUTF16)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestSegmentUnitsUTF16(t *testing.T) {
	s := NewSegmenter(NewNormalizer())
	got, err := s.SegmentUnits("héllo wörld", []Range{{Start: 6, End: 11, ID: "w"}}, UnitUTF16)
	require.NoError(t, err)
	require.Equal(t, []Segment{
		{Text: "héllo ", Start: 0, End: 7},
		{Highlight: true, Text: "wörld", ID: "w", Start: 7, End: 13},
	}, got)
}
