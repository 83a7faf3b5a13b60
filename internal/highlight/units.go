package highlight

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Unit is the indexing unit range offsets are measured in.
type Unit string

const (
	UnitByte  Unit = "byte"  // Go string indexing
	UnitRune  Unit = "rune"  // Unicode code points
	UnitUTF16 Unit = "utf16" // UTF-16 code units, as JavaScript and Java hosts count
)

// ParseUnit converts user input into a Unit.
func ParseUnit(value string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "byte", "bytes", "":
		return UnitByte, nil
	case "rune", "runes", "codepoint":
		return UnitRune, nil
	case "utf16", "utf-16":
		return UnitUTF16, nil
	default:
		return "", fmt.Errorf("unknown offset unit %q", value)
	}
}

// ToByteOffsets rewrites ranges measured in unit into byte offsets of text.
// An offset past the end of text or inside a character fails with
// ErrInvalidRange.
func ToByteOffsets(text string, ranges []Range, unit Unit) ([]Range, error) {
	if unit == UnitByte || unit == "" {
		return ranges, nil
	}

	table := offsetTable(text, unit)
	out := make([]Range, len(ranges))
	for i, r := range ranges {
		start, ok := lookupOffset(table, r.Start)
		if !ok {
			return nil, fmt.Errorf("%w: %s start is not a %s boundary of the text", ErrInvalidRange, r, unit)
		}
		end, ok := lookupOffset(table, r.End)
		if !ok {
			return nil, fmt.Errorf("%w: %s end is not a %s boundary of the text", ErrInvalidRange, r, unit)
		}
		r.Start, r.End = start, end
		out[i] = r
	}
	return out, nil
}

// offsetTable maps every unit offset to its byte offset; -1 marks an offset
// that falls inside a surrogate pair.
func offsetTable(text string, unit Unit) []int {
	table := make([]int, 0, len(text)+1)
	for i, r := range text {
		table = append(table, i)
		if unit == UnitUTF16 && utf16.RuneLen(r) == 2 {
			table = append(table, -1)
		}
	}
	return append(table, len(text))
}

func lookupOffset(table []int, offset int) (int, bool) {
	if offset < 0 || offset >= len(table) || table[offset] < 0 {
		return 0, false
	}
	return table[offset], true
}

// SegmentUnits converts ranges measured in unit and segments text with s.
func (s *Segmenter) SegmentUnits(text string, ranges []Range, unit Unit) ([]Segment, error) {
	converted, err := ToByteOffsets(text, ranges, unit)
	if err != nil {
		return nil, err
	}
	return s.Segment(text, converted)
}
