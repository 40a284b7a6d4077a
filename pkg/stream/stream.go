// Package stream provides the position-tracked cursor the scanner reads from.
//
// A Stream wraps an immutable source buffer and a single mutable offset. None of
// its operations fail: a primitive either matches at the cursor (and possibly
// consumes) or it reports false and leaves the cursor where it was.
package stream

import (
	"regexp"
	"strings"
)

type Stream struct {
	source string
	offset int

	token      string
	tokenStart int
}

func New(source string) *Stream {
	return &Stream{source: source}
}

func (s *Stream) Source() string { return s.source }
func (s *Stream) Offset() int    { return s.offset }
func (s *Stream) Len() int       { return len(s.source) }
func (s *Stream) EOS() bool      { return s.offset >= len(s.source) }

// Token is the text captured by the last consuming match.
func (s *Stream) Token() string { return s.token }

// TokenStart is the offset at which Token begins.
func (s *Stream) TokenStart() int { return s.tokenStart }

func (s *Stream) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s.source) {
		end = len(s.source)
	}
	if start >= end {
		return ""
	}
	return s.source[start:end]
}

// Remaining returns the unread part of the buffer.
func (s *Stream) Remaining() string {
	return s.source[s.offset:]
}

// Peek returns the byte n positions ahead of the cursor, or 0 past the end.
func (s *Stream) Peek(n int) byte {
	if i := s.offset + n; i >= 0 && i < len(s.source) {
		return s.source[i]
	}
	return 0
}

// Char returns the byte under the cursor, or 0 at the end.
func (s *Stream) Char() byte {
	return s.Peek(0)
}

// Jump relocates the cursor. It is used to resume scanning at a caller
// specified offset.
func (s *Stream) Jump(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.source) {
		offset = len(s.source)
	}
	s.offset = offset
}

func (s *Stream) Advance(n int) {
	s.Jump(s.offset + n)
}

func (s *Stream) capture(start int) {
	s.tokenStart = start
	s.token = s.source[start:s.offset]
}

func (s *Stream) IsCodeChar(c byte) bool {
	return s.Char() == c && !s.EOS()
}

func (s *Stream) IfCodeChar(c byte) bool {
	if !s.IsCodeChar(c) {
		return false
	}
	start := s.offset
	s.offset++
	s.capture(start)
	return true
}

func (s *Stream) IsSequence(seq string) bool {
	return strings.HasPrefix(s.source[s.offset:], seq)
}

func (s *Stream) IfSequence(seq string) bool {
	if !s.IsSequence(seq) {
		return false
	}
	start := s.offset
	s.offset += len(seq)
	s.capture(start)
	return true
}

func (s *Stream) match(re *regexp.Regexp) []int {
	loc := re.FindStringIndex(s.source[s.offset:])
	if loc == nil || loc[0] != 0 {
		return nil
	}
	return loc
}

// IsRegExp reports whether re matches starting exactly at the cursor.
func (s *Stream) IsRegExp(re *regexp.Regexp) bool {
	return s.match(re) != nil
}

// IfRegExp consumes a match of re starting at the cursor. The matched text
// becomes the current token.
func (s *Stream) IfRegExp(re *regexp.Regexp) bool {
	loc := s.match(re)
	if loc == nil {
		return false
	}
	start := s.offset
	s.offset += loc[1]
	s.capture(start)
	return true
}

// UntilSequence advances to the start of the next match of re without
// consuming it. When there is no match the cursor moves to the end and false
// is returned.
func (s *Stream) UntilSequence(re *regexp.Regexp) bool {
	loc := re.FindStringIndex(s.source[s.offset:])
	if loc == nil {
		s.offset = len(s.source)
		return false
	}
	s.offset += loc[0]
	return true
}

// ConsumeUntil captures text up to the next match of stop. If guard matches
// first the consumption is abandoned: the cursor is left at the guard so the
// construct it opens can be scanned, and false is returned. Without either
// match the cursor moves to the end and false is returned.
func (s *Stream) ConsumeUntil(stop, guard *regexp.Regexp) bool {
	rest := s.source[s.offset:]
	start := s.offset

	stopAt := -1
	if loc := stop.FindStringIndex(rest); loc != nil {
		stopAt = loc[0]
	}
	guardAt := -1
	if guard != nil {
		if loc := guard.FindStringIndex(rest); loc != nil {
			guardAt = loc[0]
		}
	}

	switch {
	case stopAt >= 0 && (guardAt < 0 || stopAt <= guardAt):
		s.offset += stopAt
		s.capture(start)
		return true
	case guardAt >= 0:
		s.offset += guardAt
	default:
		s.offset = len(s.source)
	}
	s.capture(start)
	return false
}

// IsQuote reports whether a single or double quote is under the cursor.
func (s *Stream) IsQuote() bool {
	c := s.Char()
	return !s.EOS() && (c == '"' || c == '\'')
}

// SkipQuotedString consumes a quoted string. Outside attribute mode a
// backslash makes the following character transparent. In attribute mode
// backslashes are literal, matching how HTML treats them. It returns false,
// without moving, when no quote opens at the cursor or the quote is never
// closed.
func (s *Stream) SkipQuotedString(attributeMode bool) bool {
	if !s.IsQuote() {
		return false
	}
	quote := s.Char()
	start := s.offset
	for i := s.offset + 1; i < len(s.source); i++ {
		c := s.source[i]
		if c == '\\' && !attributeMode {
			i++
			continue
		}
		if c == quote {
			s.offset = i + 1
			s.capture(start)
			return true
		}
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func (s *Stream) IsWhitespace() bool {
	return !s.EOS() && isSpace(s.Char())
}

// SkipWhitespace consumes whitespace and reports whether any newline was
// crossed. The consumed text becomes the current token.
func (s *Stream) SkipWhitespace() (newline bool) {
	start := s.offset
	for s.offset < len(s.source) && isSpace(s.source[s.offset]) {
		if s.source[s.offset] == '\n' {
			newline = true
		}
		s.offset++
	}
	s.capture(start)
	return newline
}

// Rewind moves the cursor back to an earlier offset, but only when re matches
// there. It is the single sanctioned backwards move and exists so the scanner
// can re-tokenize a word it split too eagerly.
func (s *Stream) Rewind(to int, re *regexp.Regexp) bool {
	if to < 0 || to > s.offset {
		return false
	}
	loc := re.FindStringIndex(s.source[to:])
	if loc == nil || loc[0] != 0 {
		return false
	}
	s.offset = to
	return true
}
