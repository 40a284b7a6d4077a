package lexer

import (
	"regexp"
	"strings"

	"github.com/walteh/liquidparse/pkg/diagnostic"
	"github.com/walteh/liquidparse/pkg/spec"
)

func (s *Scanner) openTag() Token {
	start := s.s.Offset()
	s.delim = DelimiterBasic
	if s.s.IsSequence("{{") {
		s.delim = DelimiterObject
	}
	s.s.Advance(2)

	s.tagStart = start
	s.tagName = ""
	s.tag = nil
	s.isEnd = false
	s.after = StateTagClose
	s.brackets = s.brackets[:0]
	s.filter = nil
	s.param = nil
	return s.emit(TokenDelimiterOpen, start, StateTagOpen)
}

func (s *Scanner) tagOpen() Token {
	next := StateTagBasic
	if s.delim == DelimiterObject {
		next = StateTagObject
	}
	start := s.s.Offset()
	if s.s.IfCodeChar('-') {
		return s.emit(TokenTrimDashLeft, start, next)
	}
	s.state = next
	return TokenContinue
}

func (s *Scanner) missingClose() Token {
	s.state = StateMissingClose
	return TokenContinue
}

func (s *Scanner) tagBasic() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	if s.atClose() {
		return s.failHere(diagnostic.MissingTagName, StateTagClose)
	}

	start := s.s.Offset()
	if s.s.IfCodeChar('#') {
		return s.namedTag("#", start)
	}
	if s.s.IfRegExp(reEndTag) {
		word := s.s.Token()
		if _, ok := s.adapter.Tag(word); !ok {
			s.isEnd = true
			s.tagName = strings.TrimPrefix(word, "end")
			s.tag, _ = s.adapter.Tag(s.tagName)
			return s.emitValue(TokenLiquidEndTagName, start, s.tagName, StateTagClose)
		}
		s.s.Rewind(start, reIdent)
	}
	if s.s.IfRegExp(reIdent) {
		return s.namedTag(s.s.Token(), start)
	}
	if !s.s.IfRegExp(reTagJunk) {
		s.s.Advance(1)
	}
	return s.fail(diagnostic.InvalidTagName, start, s.s.Offset(), StateGotoTagEnd)
}

// namedTag records the tag and selects the argument grammar it declares.
func (s *Scanner) namedTag(name string, start int) Token {
	s.tagName = name
	s.tag, _ = s.adapter.Tag(name)
	return s.emitValue(TokenLiquidTagName, start, name, s.argumentState())
}

func (s *Scanner) argumentState() State {
	if s.tag == nil {
		return StateGotoTagEnd
	}
	switch s.tag.Arguments {
	case spec.ArgumentsNone:
		return StateTagNone
	case spec.ArgumentsCondition:
		return StateControlCondition
	case spec.ArgumentsValue:
		return StateValue
	case spec.ArgumentsList:
		return StateListValue
	case spec.ArgumentsIteration:
		return StateIterationIteree
	case spec.ArgumentsAssign, spec.ArgumentsVariable:
		return StateVariableName
	case spec.ArgumentsImport:
		return StateImportPath
	}
	return StateGotoTagEnd
}

func (s *Scanner) valueAfter() State {
	if s.tag != nil && s.tag.Filters {
		return StateFilter
	}
	return StateTagClose
}

func (s *Scanner) valueMissing() diagnostic.Kind {
	if s.tag != nil && s.tag.Type == spec.CategoryControl {
		return diagnostic.MissingCondition
	}
	return diagnostic.MissingAssignment
}

func (s *Scanner) tagObject() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	if s.atClose() {
		s.state = StateTagClose
		return TokenContinue
	}
	return s.value(diagnostic.InvalidCharacter, StateFilter, nil)
}

func (s *Scanner) tagNone() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	if s.atClose() {
		s.state = StateTagClose
		return TokenContinue
	}
	return s.failSkip(diagnostic.RejectArguments, s.s.Offset())
}

func (s *Scanner) tagClose() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	start := s.s.Offset()
	if s.s.IsCodeChar('-') && s.atClose() {
		s.s.Advance(1)
		return s.emit(TokenTrimDashRight, start, StateTagClose)
	}
	if s.s.IfSequence(s.closer()) {
		next := s.resume
		if s.tag != nil && !s.isEnd && !s.tag.Singular && s.tag.Type.Opaque() {
			s.bodyStart = s.s.Offset()
			next = StateLiquidBody
		}
		return s.emit(TokenDelimiterClose, start, next)
	}
	return s.failSkip(diagnostic.InvalidCharacter, start)
}

// gotoTagEnd silently skips arguments that are not validated.
func (s *Scanner) gotoTagEnd() Token {
	if s.skipToClose() {
		s.state = StateTagClose
	} else {
		s.state = StateMissingClose
	}
	return TokenContinue
}

// liquidBody consumes the body of comment, raw and embedded tags up to the
// matching end tag, which is then scanned normally.
func (s *Scanner) liquidBody() Token {
	s.s.UntilSequence(bodyEnd(`\{%-?\s*end` + regexp.QuoteMeta(s.tagName) + `\s*-?%\}`))
	s.language = s.tag.Language
	return s.emit(TokenEmbeddedBody, s.bodyStart, s.resume)
}

// value scans a single value: a literal, a range, or the root of an object
// path. check may veto the kind of value found.
func (s *Scanner) value(missing diagnostic.Kind, after State, check func(spec.ArgType) diagnostic.Kind) Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	if s.atClose() {
		return s.failHere(missing, StateTagClose)
	}

	start := s.s.Offset()
	tok, typ, text := s.literal()
	if tok == TokenContinue {
		if s.s.IsQuote() {
			return s.failSkip(diagnostic.MissingQuotation, start)
		}
		if !s.s.IfRegExp(reIdent) {
			if s.s.IsCodeChar('(') {
				return s.failSkip(diagnostic.InvalidRange, start)
			}
			return s.failSkip(diagnostic.InvalidCharacter, start)
		}
		tok, typ = TokenObjectName, spec.ArgReference
	}
	s.argType = typ

	if check != nil {
		if kind := check(typ); kind != diagnostic.KindUnknown {
			if tok == TokenObjectName && s.s.Rewind(start, reReference) {
				s.s.IfRegExp(reReference)
			}
			return s.fail(kind, start, s.s.Offset(), after)
		}
	}
	if tok == TokenObjectName {
		s.after = after
		return s.emit(tok, start, StateObject)
	}
	return s.emitValue(tok, start, text, after)
}
