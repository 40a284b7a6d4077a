package lexer

import (
	"github.com/walteh/liquidparse/pkg/diagnostic"
	"github.com/walteh/liquidparse/pkg/spec"
)

// literal consumes a string, number, boolean, keyword or range. It returns
// TokenContinue without moving when none is under the cursor.
func (s *Scanner) literal() (Token, spec.ArgType, string) {
	switch {
	case s.s.SkipQuotedString(false):
		t := s.s.Token()
		return TokenString, spec.ArgString, t[1 : len(t)-1]
	case s.s.IfRegExp(reFloat):
		return TokenFloat, spec.ArgFloat, ""
	case s.s.IfRegExp(reInteger):
		return TokenInteger, spec.ArgInteger, ""
	case s.s.IfRegExp(reBoolean):
		return TokenBoolean, spec.ArgBoolean, ""
	case s.s.IfRegExp(reKeyword):
		return TokenKeyword, spec.ArgAny, ""
	case s.s.IfRegExp(reRange):
		return TokenRange, spec.ArgReference, ""
	}
	return TokenContinue, 0, ""
}

func (s *Scanner) canStartValue() bool {
	c := s.s.Char()
	switch {
	case s.s.IsQuote(), c == '(', c == '_', c == '-':
		return true
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	}
	return false
}

func rejection(t spec.ArgType) diagnostic.Kind {
	switch t {
	case spec.ArgString:
		return diagnostic.RejectString
	case spec.ArgInteger:
		return diagnostic.RejectInteger
	case spec.ArgFloat:
		return diagnostic.RejectFloat
	case spec.ArgBoolean:
		return diagnostic.RejectBoolean
	}
	return diagnostic.RejectReference
}

func checkTypes(declared, got spec.ArgType) diagnostic.Kind {
	if declared == 0 || declared.Accepts(got) {
		return diagnostic.KindUnknown
	}
	return rejection(got)
}

func (s *Scanner) checkParam(t spec.ArgType) diagnostic.Kind {
	if s.param == nil {
		return diagnostic.KindUnknown
	}
	return checkTypes(s.param.Types, t)
}

// object continues an object path after its root or a property.
func (s *Scanner) object() Token {
	start := s.s.Offset()
	switch {
	case s.s.IfCodeChar('.'):
		s.state = StateObjectDotNotation
		return TokenContinue
	case s.s.IsRegExp(reSpaceOpen):
		s.s.SkipWhitespace()
		return s.fail(diagnostic.WarnWhitespace, start, s.s.Offset(), StateObject)
	case s.s.IfCodeChar('['):
		s.brackets = append(s.brackets, bracket{after: s.after, open: start})
		return s.emit(TokenObjectBracketOpen, start, StateObjectBracketNotation)
	case s.s.IsCodeChar(']') && len(s.brackets) == 0:
		s.s.Advance(1)
		return s.fail(diagnostic.InvalidCharacter, start, s.s.Offset(), StateObject)
	}
	s.state = s.after
	return TokenContinue
}

func (s *Scanner) objectDot() Token {
	start := s.s.Offset()
	if s.s.IfRegExp(reIdent) {
		return s.emit(TokenObjectProperty, start, StateObject)
	}
	if s.s.IfRegExp(reJunkProp) {
		return s.fail(diagnostic.InvalidProperty, start, s.s.Offset(), StateObject)
	}
	return s.fail(diagnostic.MissingProperty, start-1, start, StateObject)
}

func (s *Scanner) objectBracket() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	start := s.s.Offset()
	switch {
	case s.atBoundary() || s.atClose():
		return s.unclosedBracket()
	case s.s.IsQuote():
		if !s.s.SkipQuotedString(false) {
			return s.failSkip(diagnostic.MissingQuotation, start)
		}
		t := s.s.Token()
		return s.emitValue(TokenObjectPropertyString, start, t[1:len(t)-1], StateObjectBracketNotationEnd)
	case s.s.IfRegExp(reInteger):
		return s.emit(TokenObjectPropertyNumber, start, StateObjectBracketNotationEnd)
	case s.s.IfRegExp(reIdent):
		s.after = StateObjectBracketNotationEnd
		return s.emit(TokenObjectName, start, StateObject)
	case s.s.IsCodeChar(']'):
		return s.failHere(diagnostic.MissingProperty, StateObjectBracketNotationEnd)
	}
	return s.failSkip(diagnostic.InvalidCharacter, start)
}

func (s *Scanner) objectBracketEnd() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	start := s.s.Offset()
	if s.s.IfCodeChar(']') {
		last := s.brackets[len(s.brackets)-1]
		s.brackets = s.brackets[:len(s.brackets)-1]
		s.after = last.after
		return s.emit(TokenObjectBracketClose, start, StateObject)
	}
	if s.atBoundary() || s.atClose() {
		return s.unclosedBracket()
	}
	return s.failSkip(diagnostic.MissingBracketNotation, start)
}

// unclosedBracket reports every open bracket as one error at the outermost
// one and hands the tag back to the state that owned the path.
func (s *Scanner) unclosedBracket() Token {
	first := s.brackets[0]
	s.brackets = s.brackets[:0]
	s.after = first.after
	return s.fail(diagnostic.MissingBracketNotation, first.open, first.open+1, first.after)
}

func (s *Scanner) controlOperator() Token {
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
	start := s.s.Offset()
	switch {
	case s.s.IfRegExp(reOperator):
		return s.emit(TokenControlOperator, start, StateControlCondition)
	case s.s.IfRegExp(reBadOp):
		return s.fail(diagnostic.InvalidOperator, start, s.s.Offset(), StateControlCondition)
	case s.canStartValue():
		return s.failHere(diagnostic.MissingOperator, StateControlCondition)
	}
	return s.failSkip(diagnostic.InvalidCharacter, start)
}

func (s *Scanner) listSeparator() Token {
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
	start := s.s.Offset()
	if s.s.IfRegExp(reListSep) {
		return s.emit(TokenListSeparator, start, StateListValue)
	}
	return s.failSkip(diagnostic.InvalidCharacter, start)
}

func (s *Scanner) filterStep() Token {
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
	start := s.s.Offset()
	if s.s.IfCodeChar('|') {
		s.filter = nil
		return s.emit(TokenFilter, start, StateFilterIdentifier)
	}
	return s.failSkip(diagnostic.InvalidCharacter, start)
}

func (s *Scanner) filterIdentifier() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	start := s.s.Offset()
	if s.s.IfRegExp(reIdent) {
		s.filter, _ = s.adapter.Filter(s.s.Token())
		s.filterStart = start
		s.argIndex = 0
		return s.emit(TokenFilterIdentifier, start, StateFilterOperator)
	}
	if s.atBoundary() || s.atClose() || s.s.IsCodeChar('|') {
		return s.failHere(diagnostic.MissingFilter, StateFilter)
	}
	return s.failSkip(diagnostic.InvalidFilter, start)
}

func (s *Scanner) filterOperator() Token {
	start := s.s.Offset()
	if s.s.IsRegExp(reSpaceColon) {
		s.s.SkipWhitespace()
		return s.fail(diagnostic.WarnWhitespace, start, s.s.Offset(), StateFilterOperator)
	}
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	start = s.s.Offset()
	if s.s.IsCodeChar(':') {
		if s.filter != nil && !s.filter.AcceptsArguments() {
			s.skipFilterArguments()
			end := s.s.Offset()
			for end > start && isSpace(s.s.Source()[end-1]) {
				end--
			}
			return s.fail(diagnostic.RejectFilterArguments, start, end, StateFilter)
		}
		s.s.Advance(1)
		return s.emit(TokenFilterOperator, start, StateFilterArgument)
	}
	if s.filter != nil && s.filter.RequiresArguments() {
		return s.fail(diagnostic.MissingColon, s.filterStart, start, StateFilter)
	}
	s.state = StateFilter
	return TokenContinue
}

// skipFilterArguments moves to the next filter or the end of the tag,
// stepping over quoted strings.
func (s *Scanner) skipFilterArguments() {
	for !s.s.EOS() {
		switch {
		case s.s.IsCodeChar('|'), s.atClose(), s.s.IsRegExp(reTagGuard):
			return
		case s.s.IsQuote():
			if s.s.SkipQuotedString(false) {
				continue
			}
		}
		s.s.Advance(1)
	}
}

func (s *Scanner) filterArgument() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	start := s.s.Offset()
	switch {
	case s.atClose(), s.s.IsCodeChar('|'):
		return s.failHere(diagnostic.MissingFilterArgument, StateFilter)
	case s.s.IsCodeChar(','):
		return s.failHere(diagnostic.MissingFilterArgument, StateFilterSeparator)
	case s.s.IsRegExp(reNamedParam):
		s.s.IfRegExp(reIdent)
		name := s.s.Token()
		end := s.s.Offset()
		s.s.IfRegExp(reColonAhead)
		s.param = nil
		if s.filter != nil {
			p, ok := s.filter.Parameter(name)
			if !ok {
				return s.fail(diagnostic.InvalidParameter, start, end, StateFilterParameterValue)
			}
			s.param = p
		}
		return s.emitValue(TokenFilterParameter, start, name, StateFilterParameterValue)
	}

	index := s.argIndex
	s.argIndex++
	check := func(t spec.ArgType) diagnostic.Kind {
		if s.filter == nil {
			return diagnostic.KindUnknown
		}
		if index >= len(s.filter.Arguments) {
			return diagnostic.InvalidArgument
		}
		return checkTypes(s.filter.Arguments[index].Types, t)
	}
	switch tok := s.value(diagnostic.MissingFilterArgument, StateFilterSeparator, check); tok {
	case TokenString, TokenInteger, TokenFloat, TokenBoolean, TokenKeyword, TokenRange:
		return TokenFilterArgument
	default:
		return tok
	}
}

func (s *Scanner) filterSeparator() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	start := s.s.Offset()
	if s.s.IfCodeChar(',') {
		return s.emit(TokenFilterSeparator, start, StateFilterArgument)
	}
	required := s.filter != nil && s.argIndex < len(s.filter.Arguments) && s.filter.Arguments[s.argIndex].Required
	end := s.atClose() || s.s.IsCodeChar('|')
	switch {
	case end && required:
		return s.failHere(diagnostic.MissingFilterArgument, StateFilter)
	case end:
		s.state = StateFilter
		return TokenContinue
	case s.canStartValue():
		return s.failHere(diagnostic.MissingFilterSeparator, StateFilterArgument)
	}
	return s.failSkip(diagnostic.InvalidCharacter, start)
}

func (s *Scanner) iterationIteree() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	if s.atClose() {
		return s.failHere(diagnostic.MissingIterationIteree, StateTagClose)
	}
	start := s.s.Offset()
	if s.s.IfRegExp(reIdent) {
		return s.emit(TokenIterationIteree, start, StateIterationOperator)
	}
	return s.failSkip(diagnostic.MissingIterationIteree, start)
}

func (s *Scanner) iterationOperator() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	if s.atClose() {
		return s.failHere(diagnostic.MissingIterationOperator, StateTagClose)
	}
	start := s.s.Offset()
	switch {
	case s.s.IfRegExp(reIn):
		return s.emit(TokenIterationOperator, start, StateIterationArray)
	case s.s.IfRegExp(reIdent), s.s.IfRegExp(reBadOp):
		return s.fail(diagnostic.InvalidOperator, start, s.s.Offset(), StateIterationArray)
	case s.canStartValue():
		return s.failHere(diagnostic.MissingIterationOperator, StateIterationArray)
	}
	return s.failSkip(diagnostic.MissingIterationOperator, start)
}

// tagParameters scans the named options trailing iteration and import tags.
// Iteration tags validate names against the dictionary; import tags pass
// arbitrary variables to the imported template.
func (s *Scanner) tagParameters() Token {
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

	start := s.s.Offset()
	imports := s.tag != nil && s.tag.Arguments == spec.ArgumentsImport
	switch {
	case imports && s.s.IfRegExp(reImportKw):
		next := StateImportValue
		if s.s.Token() == "as" {
			next = StateImportAlias
		}
		return s.emit(TokenImportKeyword, start, next)
	case imports && s.s.IfCodeChar(','):
		return s.emit(TokenListSeparator, start, StateTagParameters)
	case !s.s.IfRegExp(reIdent):
		return s.failSkip(diagnostic.InvalidCharacter, start)
	}

	name := s.s.Token()
	end := s.s.Offset()
	colon := s.s.IsRegExp(reColonAhead)
	s.param = nil

	next := StateTagParameters
	if colon {
		next = StateParameterOperator
	}
	if imports {
		return s.emitValue(TokenParameter, start, name, next)
	}
	if s.tag == nil || len(s.tag.Parameters) == 0 {
		return s.fail(diagnostic.RejectParameters, start, end, next)
	}
	p, ok := s.tag.Parameter(name)
	switch {
	case !ok:
		return s.fail(diagnostic.InvalidParameter, start, end, next)
	case p.Value && !colon:
		return s.fail(diagnostic.MissingParameterValue, start, end, next)
	case !p.Value && colon:
		return s.fail(diagnostic.InvalidParameter, start, end, next)
	}
	s.param = p
	return s.emitValue(TokenParameter, start, name, next)
}

func (s *Scanner) parameterOperator() Token {
	s.s.SkipWhitespace()
	start := s.s.Offset()
	s.s.IfCodeChar(':')
	return s.emit(TokenParameterOperator, start, StateParameterValue)
}

func (s *Scanner) variableName() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	if s.atClose() {
		return s.failHere(diagnostic.MissingVariable, StateTagClose)
	}
	start := s.s.Offset()
	if s.s.IfRegExp(reIdent) {
		next := StateTagClose
		if s.tag != nil && s.tag.Arguments == spec.ArgumentsAssign {
			next = StateAssignOperator
		}
		return s.emit(TokenVariableName, start, next)
	}
	return s.failSkip(diagnostic.MissingVariable, start)
}

func (s *Scanner) assignOperator() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	if s.atClose() {
		return s.failHere(diagnostic.MissingOperator, StateTagClose)
	}
	start := s.s.Offset()
	if s.s.IfCodeChar('=') {
		return s.emit(TokenAssignOperator, start, StateAssignValue)
	}
	return s.failHere(diagnostic.MissingOperator, StateAssignValue)
}

func (s *Scanner) importPath() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	if s.atClose() {
		return s.failHere(diagnostic.MissingImportPath, StateTagClose)
	}
	start := s.s.Offset()
	switch {
	case s.s.IsQuote():
		if !s.s.SkipQuotedString(false) {
			return s.failSkip(diagnostic.MissingQuotation, start)
		}
		t := s.s.Token()
		return s.emitValue(TokenImport, start, t[1:len(t)-1], StateTagParameters)
	case s.s.IsRegExp(reIdent):
		return s.value(diagnostic.MissingImportPath, StateTagParameters, nil)
	}
	return s.failSkip(diagnostic.MissingImportPath, start)
}

func (s *Scanner) importAlias() Token {
	if tok := s.whitespace(); tok != TokenContinue {
		return tok
	}
	if s.atBoundary() {
		return s.missingClose()
	}
	if s.atClose() {
		return s.failHere(diagnostic.MissingVariable, StateTagClose)
	}
	start := s.s.Offset()
	if s.s.IfRegExp(reIdent) {
		return s.emit(TokenVariableName, start, StateTagParameters)
	}
	return s.failSkip(diagnostic.MissingVariable, start)
}
