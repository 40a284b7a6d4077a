package lexer

import (
	"regexp"
	"strings"

	"github.com/walteh/liquidparse/pkg/diagnostic"
)

var (
	reCommentEnd    = regexp.MustCompile(`-->`)
	reDeclEnd       = regexp.MustCompile(`>`)
	reHTMLName      = regexp.MustCompile(`^[a-zA-Z][\w:-]*`)
	reAttrName      = regexp.MustCompile(`^[^\s"'<>/={][^\s"'<>/=]*`)
	reAttrOperator  = regexp.MustCompile(`^\s*=`)
	reUnquotedValue = regexp.MustCompile("^[^\\s\"'=<>`{]+")
	reEndTagStop    = regexp.MustCompile(`[<>]`)
)

func (s *Scanner) htmlStartTag() Token {
	start := s.s.Offset()
	s.s.Advance(1)
	if !s.s.IfRegExp(reHTMLName) {
		return TokenContinue
	}
	s.delim = DelimiterNone
	s.htmlName = strings.ToLower(s.s.Token())
	s.typeAttr = ""
	return s.emitValue(TokenHTMLStartTagName, start, s.htmlName, StateHTMLAttributeName)
}

func (s *Scanner) htmlEndTag() Token {
	start := s.s.Offset()
	s.s.Advance(2)
	if !s.s.IfRegExp(reHTMLName) {
		return TokenContinue
	}
	s.delim = DelimiterNone
	s.htmlName = strings.ToLower(s.s.Token())
	return s.emitValue(TokenHTMLEndTagName, start, s.htmlName, StateHTMLEndTagClose)
}

// liquidInTag opens a Liquid tag nested in HTML markup and arranges for the
// scanner to come back to state once it closes.
func (s *Scanner) liquidInTag(state State) Token {
	s.resume = state
	return s.openTag()
}

func (s *Scanner) htmlAttributeName() Token {
	s.resume = StateCharSeq
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	start := s.s.Offset()
	switch {
	case s.s.EOS():
		return s.failHere(diagnostic.MissingHTMLTagClose, StateCharSeq)
	case s.s.IsRegExp(reTagGuard):
		return s.liquidInTag(StateHTMLAttributeName)
	case s.s.IfSequence("/>"):
		return s.emit(TokenHTMLVoidTagClose, start, StateCharSeq)
	case s.s.IfCodeChar('>'):
		next := StateCharSeq
		s.language = ""
		if el, ok := s.adapter.HTML(s.htmlName); ok && !el.Void {
			if s.language = el.LanguageFor(s.typeAttr); s.language != "" {
				s.bodyStart = s.s.Offset()
				next = StateHTMLBody
			}
		}
		return s.emit(TokenHTMLTagClose, start, next)
	case s.s.IsCodeChar('<'):
		return s.failHere(diagnostic.MissingHTMLTagClose, StateCharSeq)
	case s.s.IfRegExp(reAttrName):
		s.attrName = strings.ToLower(s.s.Token())
		s.attrStart = start
		return s.emit(TokenHTMLAttributeName, start, StateHTMLAttributeOperator)
	}
	s.s.Advance(1)
	return s.fail(diagnostic.InvalidHTMLAttribute, start, s.s.Offset(), StateHTMLAttributeName)
}

func (s *Scanner) htmlAttributeOperator() Token {
	if !s.s.IsRegExp(reAttrOperator) {
		s.state = StateHTMLAttributeName
		return TokenContinue
	}
	s.s.SkipWhitespace()
	start := s.s.Offset()
	s.s.Advance(1)
	return s.emit(TokenHTMLAttributeOperator, start, StateHTMLAttributeValue)
}

func (s *Scanner) htmlAttributeValue() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	start := s.s.Offset()
	switch {
	case s.s.IsQuote():
		s.quote = s.s.Char()
		s.s.Advance(1)
		s.valueStart = start
		s.state = StateHTMLAttributeValueQuoted
		return TokenContinue
	case s.s.IsRegExp(reTagGuard):
		return s.liquidInTag(StateHTMLAttributeName)
	case s.s.IfRegExp(reUnquotedValue):
		s.attributeValue(s.s.Token())
		return s.emit(TokenHTMLAttributeValue, start, StateHTMLAttributeName)
	}
	return s.fail(diagnostic.MissingHTMLAttributeValue, s.attrStart, start, StateHTMLAttributeName)
}

// htmlAttributeValueQuoted scans to the closing quote. Liquid tags inside the
// value are tokenized in place; the value token spans the whole quoted text.
func (s *Scanner) htmlAttributeValueQuoted() Token {
	for !s.s.EOS() {
		switch {
		case s.s.IsCodeChar(s.quote):
			s.s.Advance(1)
			text := s.s.Slice(s.valueStart+1, s.s.Offset()-1)
			s.attributeValue(text)
			return s.emitValue(TokenHTMLAttributeValue, s.valueStart, text, StateHTMLAttributeName)
		case s.s.IsRegExp(reTagGuard):
			return s.liquidInTag(StateHTMLAttributeValueQuoted)
		}
		s.s.Advance(1)
	}
	return s.fail(diagnostic.MissingQuotation, s.valueStart, s.s.Offset(), StateCharSeq)
}

func (s *Scanner) attributeValue(text string) {
	if s.attrName == "type" {
		s.typeAttr = strings.ToLower(strings.TrimSpace(text))
	}
}

func (s *Scanner) htmlEndTagClose() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	start := s.s.Offset()
	if s.s.IfCodeChar('>') {
		return s.emit(TokenHTMLTagClose, start, StateCharSeq)
	}
	if s.s.UntilSequence(reEndTagStop) && s.s.IsCodeChar('>') {
		return s.fail(diagnostic.InvalidHTMLAttribute, start, s.s.Offset(), StateHTMLEndTagClose)
	}
	return s.fail(diagnostic.MissingHTMLTagClose, start, s.s.Offset(), StateCharSeq)
}

// htmlBody consumes the content of script and style elements up to the
// matching end tag.
func (s *Scanner) htmlBody() Token {
	s.s.UntilSequence(bodyEnd(`(?i)</` + regexp.QuoteMeta(s.htmlName) + `\s*>`))
	return s.emit(TokenEmbeddedBody, s.bodyStart, StateCharSeq)
}
