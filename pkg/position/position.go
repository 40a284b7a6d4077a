package position

import (
	"fmt"
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Place is a zero-based line and character. Character counts UTF-16 code
// units, the unit editors use when they address a document.
type Place struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Place `json:"start"`
	End   Place `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Character, r.End.Line, r.End.Character)
}

// Protocol converts the range into its language server representation.
func (r Range) Protocol() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(r.Start.Line), Character: protocol.UInteger(r.Start.Character)},
		End:   protocol.Position{Line: protocol.UInteger(r.End.Line), Character: protocol.UInteger(r.End.Character)},
	}
}

// NewRangeFromProtocol is the inverse of [Range.Protocol].
func NewRangeFromProtocol(r protocol.Range) Range {
	return Range{
		Start: Place{Line: int(r.Start.Line), Character: int(r.Start.Character)},
		End:   Place{Line: int(r.End.Line), Character: int(r.End.Character)},
	}
}

// RawPosition represents a position in the source text
type RawPosition struct {
	// Offset is the byte offset in the source text
	Offset int `json:"offset"`
	// Text is the actual text at this position
	Text string `json:"text"`
}

func NewBasicPosition(text string, offset int) RawPosition {
	return RawPosition{Text: text, Offset: offset}
}

// ID returns a unique identifier for this position based on offset and text
func (p RawPosition) ID() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}

func (p RawPosition) Length() int {
	return len(p.Text)
}

func (p RawPosition) End() int {
	return p.Offset + p.Length()
}

func (p RawPosition) HasRangeOverlapWith(start RawPosition) bool {
	startOffset := start.Offset
	endOffset := startOffset + start.Length()

	posOffset := p.Offset
	posEndOffset := posOffset + p.Length()

	// a zero-length position overlaps if it falls within the other range
	if p.Length() == 0 {
		return posOffset >= startOffset && posOffset <= endOffset
	}
	if start.Length() == 0 {
		return startOffset >= posOffset && startOffset <= posEndOffset
	}

	return startOffset < posEndOffset && endOffset > posOffset
}

func (p RawPosition) String() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}

// LineIndex maps byte offsets to lines and characters. It is built once per
// source snapshot and never mutated afterwards.
type LineIndex struct {
	source string
	starts []int
}

func NewLineIndex(source string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{source: source, starts: starts}
}

func (me *LineIndex) LineCount() int {
	return len(me.starts)
}

// LineStart returns the byte offset at which the given line begins.
func (me *LineIndex) LineStart(line int) int {
	if line <= 0 {
		return 0
	}
	if line >= len(me.starts) {
		return len(me.source)
	}
	return me.starts[line]
}

// Line returns the text of a line without its terminating newline.
func (me *LineIndex) Line(line int) string {
	if line < 0 || line >= len(me.starts) {
		return ""
	}
	end := len(me.source)
	if line+1 < len(me.starts) {
		end = me.starts[line+1] - 1
	}
	text := me.source[me.starts[line]:end]
	if n := len(text); n > 0 && text[n-1] == '\r' {
		text = text[:n-1]
	}
	return text
}

// PlaceAt resolves an offset. Offsets past the end clamp to the end of the
// source.
func (me *LineIndex) PlaceAt(offset int) Place {
	if offset < 0 {
		offset = 0
	}
	if offset > len(me.source) {
		offset = len(me.source)
	}
	line := sort.Search(len(me.starts), func(i int) bool { return me.starts[i] > offset }) - 1
	return Place{Line: line, Character: utf16Len(me.source[me.starts[line]:offset])}
}

func (me *LineIndex) RangeOf(start, end int) Range {
	return Range{Start: me.PlaceAt(start), End: me.PlaceAt(end)}
}

// OffsetAt is the inverse of PlaceAt. A character past the end of its line
// clamps to the line end.
func (me *LineIndex) OffsetAt(p Place) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(me.starts) {
		return len(me.source)
	}
	offset := me.starts[p.Line]
	lineEnd := len(me.source)
	if p.Line+1 < len(me.starts) {
		lineEnd = me.starts[p.Line+1] - 1
	}
	units := 0
	for offset < lineEnd && units < p.Character {
		r, size := utf8.DecodeRuneInString(me.source[offset:])
		units += utf16.RuneLen(r)
		offset += size
	}
	return offset
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
