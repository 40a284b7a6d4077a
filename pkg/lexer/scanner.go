// Package lexer turns Liquid and HTML source into a flat stream of tokens.
//
// The Scanner is a state machine driven by a trampoline: each step either
// emits a token or moves to another state and reports TokenContinue, in which
// case Scan loops. Scan therefore always returns a real token, and every call
// either consumes input or changes state, so a document is always scanned to
// TokenEOS.
package lexer

import (
	"fmt"
	"regexp"
	"sync"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/liquidparse/pkg/diagnostic"
	"github.com/walteh/liquidparse/pkg/spec"
	"github.com/walteh/liquidparse/pkg/stream"
)

// Delimiter tells which kind of Liquid tag is open.
type Delimiter uint8

const (
	DelimiterNone Delimiter = iota
	// DelimiterBasic is "{% ... %}".
	DelimiterBasic
	// DelimiterObject is "{{ ... }}".
	DelimiterObject
)

type Options struct {
	CaptureWhitespace bool
	CaptureNewlines   bool
}

var (
	reTextStop      = regexp.MustCompile(`\{[{%]|<[a-zA-Z!/]`)
	reTextStopLines = regexp.MustCompile(`\{[{%]|<[a-zA-Z!/]|\n`)
	reTagGuard      = regexp.MustCompile(`\{[{%]`)
	reFrontmatter   = regexp.MustCompile(`^---[ \t]*\r?\n(?:[\s\S]*?\r?\n)?---[ \t]*(?:\r?\n|$)`)

	reIdent      = regexp.MustCompile(`^[a-zA-Z_][\w-]*\??`)
	reEndTag     = regexp.MustCompile(`^end[a-zA-Z_][\w-]*`)
	reFloat      = regexp.MustCompile(`^-?\d+\.\d+`)
	reInteger    = regexp.MustCompile(`^-?\d+`)
	reBoolean    = regexp.MustCompile(`^(?:true|false)\b`)
	reKeyword    = regexp.MustCompile(`^(?:nil|null|empty|blank)\b`)
	reRange      = regexp.MustCompile(`^\(\s*(?:-?\d+|[a-zA-Z_][\w.\-]*)\s*\.\.\s*(?:-?\d+|[a-zA-Z_][\w.\-]*)\s*\)`)
	reReference  = regexp.MustCompile(`^[a-zA-Z_][\w-]*\??(?:\.[a-zA-Z_][\w-]*\??|\[[^\]]*\])*`)
	reOperator   = regexp.MustCompile(`^(?:==|!=|<>|<=|>=|<|>|contains\b|and\b|or\b)`)
	reBadOp      = regexp.MustCompile(`^[=!<>&|~]+`)
	reListSep    = regexp.MustCompile(`^(?:,|or\b)`)
	reIn         = regexp.MustCompile(`^in\b`)
	reImportKw   = regexp.MustCompile(`^(?:with|for|as)\b`)
	reColonAhead = regexp.MustCompile(`^\s*:`)
	reNamedParam = regexp.MustCompile(`^[a-zA-Z_][\w-]*\s*:`)
	reSpaceColon = regexp.MustCompile(`^[ \t]+:`)
	reSpaceOpen  = regexp.MustCompile(`^[ \t]+\[`)
	reJunkProp   = regexp.MustCompile(`^[^\s|.\[\]}%,:]+`)
	reTagJunk    = regexp.MustCompile(`^[^\s%}]+`)
)

type bracket struct {
	after State
	open  int
}

// Scanner tokenizes one document. It is not safe for concurrent use.
type Scanner struct {
	s       *stream.Stream
	adapter spec.Adapter
	opts    Options

	state  State
	resume State

	start, end int
	val        string
	kind       diagnostic.Kind
	internal   error

	// open Liquid tag
	delim    Delimiter
	tagStart int
	tagName  string
	tag      *spec.Tag
	isEnd    bool
	after    State
	brackets []bracket

	filter      *spec.Filter
	filterStart int
	argIndex    int
	argType     spec.ArgType
	param       *spec.Parameter

	// open HTML tag
	htmlName   string
	attrName   string
	attrStart  int
	typeAttr   string
	quote      byte
	valueStart int
	bodyStart  int
	language   string
}

func New(source string, adapter spec.Adapter, opts Options) *Scanner {
	return &Scanner{
		s:       stream.New(source),
		adapter: adapter,
		opts:    opts,
		state:   StateCharSeq,
		resume:  StateCharSeq,
	}
}

// Scan advances to the next token.
func (s *Scanner) Scan() Token {
	s.kind = diagnostic.KindUnknown
	s.internal = nil
	s.val = ""

	idle := 0
	offset := s.s.Offset()
	for {
		tok := s.step()
		if tok != TokenContinue {
			return tok
		}
		if s.s.Offset() != offset {
			offset = s.s.Offset()
			idle = 0
			continue
		}
		if idle++; idle > int(stateCount) {
			return s.undefined("no progress in state %s", s.state)
		}
	}
}

func (s *Scanner) Source() string { return s.s.Source() }
func (s *Scanner) Offset() int    { return s.s.Offset() }
func (s *Scanner) State() State   { return s.state }

// Start and End delimit the last token.
func (s *Scanner) Start() int { return s.start }
func (s *Scanner) End() int   { return s.end }

// Text is the raw source of the last token.
func (s *Scanner) Text() string { return s.s.Slice(s.start, s.end) }

// Value is the semantic text of the last token: names without delimiters and
// string contents without quotes.
func (s *Scanner) Value() string {
	if s.val != "" {
		return s.val
	}
	return s.Text()
}

// Error is the kind of the last TokenParseError.
func (s *Scanner) Error() diagnostic.Kind { return s.kind }

// Internal is set alongside an Internal* error kind and describes the defect.
func (s *Scanner) Internal() error { return s.internal }

func (s *Scanner) Delimiter() Delimiter { return s.delim }

// TagStart is the offset of the open delimiter of the current Liquid tag.
func (s *Scanner) TagStart() int { return s.tagStart }

// Tag is the definition of the current Liquid tag, or nil when the name is
// unknown to the adapter.
func (s *Scanner) Tag() *spec.Tag { return s.tag }
func (s *Scanner) TagName() string { return s.tagName }

// Filter is the definition of the current filter, or nil when unknown.
func (s *Scanner) Filter() *spec.Filter { return s.filter }

// ArgType is the kind of the last value token.
func (s *Scanner) ArgType() spec.ArgType { return s.argType }

// Language is the embedded language of the last TokenEmbeddedBody.
func (s *Scanner) Language() string { return s.language }

// HTMLName is the lower-cased name of the current HTML element.
func (s *Scanner) HTMLName() string { return s.htmlName }

func (s *Scanner) emit(tok Token, start int, next State) Token {
	s.start = start
	s.end = s.s.Offset()
	s.state = next
	return tok
}

func (s *Scanner) emitValue(tok Token, start int, value string, next State) Token {
	tok = s.emit(tok, start, next)
	s.val = value
	return tok
}

func (s *Scanner) fail(kind diagnostic.Kind, start, end int, next State) Token {
	s.kind = kind
	s.start = start
	s.end = end
	s.state = next
	return TokenParseError
}

// failHere reports a zero width error at the cursor.
func (s *Scanner) failHere(kind diagnostic.Kind, next State) Token {
	o := s.s.Offset()
	return s.fail(kind, o, o, next)
}

// failSkip reports an error spanning from start over everything up to the
// tag's close delimiter and resumes at the close.
func (s *Scanner) failSkip(kind diagnostic.Kind, start int) Token {
	next := StateTagClose
	if !s.skipToClose() {
		next = StateMissingClose
	}
	end := s.s.Offset()
	for end > start && isSpace(s.s.Source()[end-1]) {
		end--
	}
	if end == start && end < s.s.Offset() {
		end++
	}
	return s.fail(kind, start, end, next)
}

func (s *Scanner) undefined(format string, args ...any) Token {
	s.internal = errors.Errorf("scanner: %s", fmt.Sprintf(format, args...))
	o := s.s.Offset()
	if !s.s.EOS() {
		s.s.Advance(1)
	}
	return s.fail(diagnostic.InternalUndefinedTransition, o, s.s.Offset(), s.resume)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// whitespace consumes blanks under the cursor. When capture is enabled the
// blanks are returned as a token and the state is kept, so the caller
// re-enters with the cursor on the next significant byte.
func (s *Scanner) whitespace() Token {
	if !s.s.IsWhitespace() {
		return TokenContinue
	}
	start := s.s.Offset()
	newline := s.s.SkipWhitespace()
	switch {
	case newline && s.opts.CaptureNewlines:
		return s.emit(TokenNewline, start, s.state)
	case s.opts.CaptureWhitespace:
		return s.emit(TokenWhitespace, start, s.state)
	}
	return TokenContinue
}

// skipToClose moves to the close delimiter, stepping over quoted strings
// that stay inside the tag. It returns false when the tag is cut off by the
// end of input or by another tag.
func (s *Scanner) skipToClose() bool {
	for !s.s.EOS() {
		if s.atClose() {
			return true
		}
		if s.s.IsRegExp(reTagGuard) {
			return false
		}
		if from := s.s.Offset(); s.s.SkipQuotedString(false) {
			if !reTagGuard.MatchString(s.s.Slice(from, s.s.Offset())) {
				continue
			}
			s.s.Jump(from)
		}
		s.s.Advance(1)
	}
	return false
}

var bodyEnds sync.Map // map[string]*regexp.Regexp

// bodyEnd compiles the terminator of an opaque body once per pattern.
func bodyEnd(expr string) *regexp.Regexp {
	if re, ok := bodyEnds.Load(expr); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := bodyEnds.LoadOrStore(expr, regexp.MustCompile(expr))
	return re.(*regexp.Regexp)
}

func (s *Scanner) closer() string {
	if s.delim == DelimiterObject {
		return "}}"
	}
	return "%}"
}

// atClose reports whether the close delimiter, with optional trim dash, is
// under the cursor.
func (s *Scanner) atClose() bool {
	c := s.closer()
	return s.s.IsSequence(c) || (s.s.IsCodeChar('-') && s.s.IsSequence("-"+c))
}

// atBoundary reports whether the tag was cut off by the end of input or by
// the start of another tag.
func (s *Scanner) atBoundary() bool {
	return s.s.EOS() || s.s.IsRegExp(reTagGuard)
}

func (s *Scanner) step() Token {
	switch s.state {
	case StateEOS:
		return s.emit(TokenEOS, s.s.Len(), StateEOS)
	case StateCharSeq:
		return s.charSeq()
	case StateTagOpen:
		return s.tagOpen()
	case StateTagBasic:
		return s.tagBasic()
	case StateTagObject:
		return s.tagObject()
	case StateTagNone:
		return s.tagNone()
	case StateTagClose:
		return s.tagClose()
	case StateGotoTagEnd:
		return s.gotoTagEnd()
	case StateMissingClose:
		return s.failHere(diagnostic.MissingCloseDelimiter, s.resume)
	case StateLiquidBody:
		return s.liquidBody()
	case StateObject:
		return s.object()
	case StateObjectDotNotation:
		return s.objectDot()
	case StateObjectBracketNotation:
		return s.objectBracket()
	case StateObjectBracketNotationEnd:
		return s.objectBracketEnd()
	case StateControlCondition:
		return s.value(diagnostic.MissingCondition, StateControlOperator, nil)
	case StateControlOperator:
		return s.controlOperator()
	case StateValue:
		return s.value(s.valueMissing(), s.valueAfter(), nil)
	case StateListValue:
		return s.value(diagnostic.MissingCondition, StateListSeparator, nil)
	case StateListSeparator:
		return s.listSeparator()
	case StateFilter:
		return s.filterStep()
	case StateFilterIdentifier:
		return s.filterIdentifier()
	case StateFilterOperator:
		return s.filterOperator()
	case StateFilterArgument:
		return s.filterArgument()
	case StateFilterParameterValue:
		return s.value(diagnostic.MissingParameterValue, StateFilterSeparator, s.checkParam)
	case StateFilterSeparator:
		return s.filterSeparator()
	case StateIterationIteree:
		return s.iterationIteree()
	case StateIterationOperator:
		return s.iterationOperator()
	case StateIterationArray:
		return s.value(diagnostic.MissingIterationArray, StateTagParameters, nil)
	case StateTagParameters:
		return s.tagParameters()
	case StateParameterOperator:
		return s.parameterOperator()
	case StateParameterValue:
		return s.value(diagnostic.MissingParameterValue, StateTagParameters, s.checkParam)
	case StateVariableName:
		return s.variableName()
	case StateAssignOperator:
		return s.assignOperator()
	case StateAssignValue:
		return s.value(diagnostic.MissingAssignment, StateFilter, nil)
	case StateImportPath:
		return s.importPath()
	case StateImportAlias:
		return s.importAlias()
	case StateImportValue:
		return s.value(diagnostic.MissingParameterValue, StateTagParameters, nil)
	case StateHTMLAttributeName:
		return s.htmlAttributeName()
	case StateHTMLAttributeOperator:
		return s.htmlAttributeOperator()
	case StateHTMLAttributeValue:
		return s.htmlAttributeValue()
	case StateHTMLAttributeValueQuoted:
		return s.htmlAttributeValueQuoted()
	case StateHTMLEndTagClose:
		return s.htmlEndTagClose()
	case StateHTMLBody:
		return s.htmlBody()
	}
	return s.undefined("undefined state %d", s.state)
}

func (s *Scanner) charSeq() Token {
	if s.s.EOS() {
		return s.emit(TokenEOS, s.s.Len(), StateEOS)
	}
	start := s.s.Offset()
	if start == 0 && s.s.IfRegExp(reFrontmatter) {
		return s.emit(TokenFrontmatter, start, StateCharSeq)
	}

	re := reTextStop
	if s.opts.CaptureNewlines {
		re = reTextStopLines
	}
	if !s.s.UntilSequence(re) {
		return s.emit(TokenEOS, s.s.Len(), StateEOS)
	}

	switch {
	case s.s.IsCodeChar('\n'):
		s.s.Advance(1)
		return s.emit(TokenNewline, s.s.Offset()-1, StateCharSeq)
	case s.s.IsSequence("{{") || s.s.IsSequence("{%"):
		s.resume = StateCharSeq
		return s.openTag()
	case s.s.IsSequence("<!--"):
		s.s.Advance(4)
		if s.s.UntilSequence(reCommentEnd) {
			s.s.Advance(3)
		}
		return TokenContinue
	case s.s.IsSequence("<!"):
		s.s.UntilSequence(reDeclEnd)
		s.s.Advance(1)
		return TokenContinue
	case s.s.IsSequence("</"):
		return s.htmlEndTag()
	default:
		return s.htmlStartTag()
	}
}
