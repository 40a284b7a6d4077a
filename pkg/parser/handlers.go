package parser

import (
	"github.com/walteh/liquidparse/pkg/ast"
	"github.com/walteh/liquidparse/pkg/diagnostic"
	"github.com/walteh/liquidparse/pkg/lexer"
	"github.com/walteh/liquidparse/pkg/spec"
)

var handlers = map[lexer.Token]func(*Session){
	lexer.TokenParseError:  (*Session).onError,
	lexer.TokenWhitespace:  (*Session).skip,
	lexer.TokenNewline:     (*Session).skip,
	lexer.TokenFrontmatter: (*Session).onFrontmatter,

	lexer.TokenDelimiterOpen:    (*Session).onDelimiterOpen,
	lexer.TokenDelimiterClose:   (*Session).onDelimiterClose,
	lexer.TokenTrimDashLeft:     (*Session).onTrimLeft,
	lexer.TokenTrimDashRight:    (*Session).onTrimRight,
	lexer.TokenLiquidTagName:    (*Session).onTagName,
	lexer.TokenLiquidEndTagName: (*Session).onEndTagName,
	lexer.TokenEmbeddedBody:     (*Session).onEmbeddedBody,

	lexer.TokenObjectName:           (*Session).onObjectName,
	lexer.TokenObjectProperty:       (*Session).onObjectProperty,
	lexer.TokenObjectPropertyString: (*Session).onObjectProperty,
	lexer.TokenObjectPropertyNumber: (*Session).onObjectProperty,
	lexer.TokenObjectBracketOpen:    (*Session).onBracketOpen,
	lexer.TokenObjectBracketClose:   (*Session).onBracketClose,

	lexer.TokenString:         (*Session).onValue,
	lexer.TokenInteger:        (*Session).onValue,
	lexer.TokenFloat:          (*Session).onValue,
	lexer.TokenBoolean:        (*Session).onValue,
	lexer.TokenKeyword:        (*Session).onValue,
	lexer.TokenRange:          (*Session).onValue,
	lexer.TokenFilterArgument: (*Session).onValue,

	lexer.TokenControlOperator:   (*Session).onSeparator,
	lexer.TokenListSeparator:     (*Session).onSeparator,
	lexer.TokenFilter:            (*Session).onSeparator,
	lexer.TokenFilterOperator:    (*Session).onSeparator,
	lexer.TokenFilterParameter:   (*Session).onSeparator,
	lexer.TokenFilterSeparator:   (*Session).onSeparator,
	lexer.TokenIterationOperator: (*Session).onSeparator,
	lexer.TokenParameterOperator: (*Session).onSeparator,
	lexer.TokenAssignOperator:    (*Session).onSeparator,
	lexer.TokenImportKeyword:     (*Session).onSeparator,

	lexer.TokenFilterIdentifier: (*Session).onFilter,
	lexer.TokenIterationIteree:  (*Session).onVariable,
	lexer.TokenVariableName:     (*Session).onVariable,
	lexer.TokenParameter:        (*Session).onParameter,
	lexer.TokenImport:           (*Session).onImport,

	lexer.TokenHTMLStartTagName:      (*Session).onHTMLStartTag,
	lexer.TokenHTMLEndTagName:        (*Session).onHTMLEndTag,
	lexer.TokenHTMLAttributeName:     (*Session).skip,
	lexer.TokenHTMLAttributeOperator: (*Session).skip,
	lexer.TokenHTMLAttributeValue:    (*Session).skip,
	lexer.TokenHTMLTagClose:          (*Session).onHTMLTagClose,
	lexer.TokenHTMLVoidTagClose:      (*Session).onHTMLVoidTagClose,
}

func (s *Session) skip() {}

func (s *Session) onError() {
	kind := s.scanner.Error()
	if kind.Family() == diagnostic.FamilyInternal {
		s.internalError(kind, s.scanner.Internal())
		return
	}
	s.report(kind, s.scanner.Start(), s.scanner.End())

	switch {
	case kind == diagnostic.MissingBracketNotation:
		s.flushPaths()
	case kind == diagnostic.MissingCloseDelimiter && s.liquid != nil:
		s.closeLiquid(s.scanner.Start())
	case kind == diagnostic.MissingHTMLTagClose && s.html != nil:
		s.closeHTML(s.scanner.Start())
	case kind == diagnostic.MissingQuotation && s.liquid == nil && s.html != nil:
		s.closeHTML(s.scanner.End())
	}
}

func (s *Session) onFrontmatter() {
	s.tree.Frontmatter = &ast.Span{Start: s.scanner.Start(), End: s.scanner.End()}
}

func (s *Session) onDelimiterOpen() {
	if s.liquid != nil {
		s.closeLiquid(s.scanner.Start())
	}
	n := &ast.Node{
		Kind:  ast.KindLiquid,
		Spans: []ast.Span{{Start: s.scanner.Start()}},
	}
	if s.scanner.Delimiter() == lexer.DelimiterObject {
		n.Type = spec.CategoryOutput
		n.Role = ast.RoleSingular
	}
	s.liquid = &pending{node: n}
}

func (s *Session) onDelimiterClose() {
	if s.liquid != nil {
		s.closeLiquid(s.scanner.End())
	}
}

func (s *Session) onTrimLeft() {
	if s.liquid != nil {
		s.liquid.node.TrimLeft = true
	}
}

func (s *Session) onTrimRight() {
	if s.liquid != nil {
		s.liquid.node.TrimRight = true
	}
}

func (s *Session) onTagName() {
	if s.liquid == nil {
		return
	}
	p := s.liquid
	p.name = s.scanner.Value()
	p.tag = s.scanner.Tag()
	n := p.node
	n.Name = p.name

	if p.tag == nil {
		n.Type = spec.CategoryUnknown
		n.Role = ast.RoleSingular
		s.reportf(diagnostic.UnknownTag, s.scanner.Start(), s.scanner.End(), "%s", p.name)
		return
	}
	n.Type = p.tag.Type
	n.Language = p.tag.Language
	switch {
	case p.tag.Child:
		n.Role = ast.RoleChild
	case p.tag.Singular:
		n.Role = ast.RoleSingular
	default:
		n.Role = ast.RoleStart
	}
	if p.tag.Deprecated {
		s.reportf(diagnostic.WarnDeprecatedTag, s.scanner.Start(), s.scanner.End(), "%s", p.name)
	}
}

func (s *Session) onEndTagName() {
	if s.liquid == nil {
		return
	}
	p := s.liquid
	p.end = true
	p.name = s.scanner.Value()
	p.tag = s.scanner.Tag()
	p.node.Name = p.name
	p.node.Role = ast.RoleEnd
	if p.tag != nil {
		p.node.Type = p.tag.Type
	}
}

func (s *Session) onEmbeddedBody() {
	if s.body == nil {
		return
	}
	s.body.Body = &ast.Span{Start: s.scanner.Start(), End: s.scanner.End()}
	if lang := s.scanner.Language(); lang != "" {
		s.body.Language = lang
	}
	s.body = nil
}

func (s *Session) onValue() {
	s.flushPaths()
	if n := s.current(); n != nil && n.Type == spec.CategoryOutput && n.Name == "" {
		n.Name = s.scanner.Text()
	}
}

func (s *Session) onSeparator() {
	s.flushPaths()
}

func (s *Session) onFilter() {
	s.flushPaths()
	n := s.current()
	if n == nil {
		return
	}
	name := s.scanner.Value()
	start, end := s.scanner.Start(), s.scanner.End()
	n.AddFilter(start, name)

	f := s.scanner.Filter()
	switch {
	case f == nil:
		s.reportf(diagnostic.InvalidFilter, start, end, "%s", name)
	case f.Deprecated:
		s.reportf(diagnostic.WarnDeprecatedFilter, start, end, "%s", name)
	}
}

func (s *Session) onVariable() {
	s.flushPaths()
	if n := s.current(); n != nil {
		n.Variable = s.scanner.Value()
	}
}

func (s *Session) onParameter() {
	s.flushPaths()
	if n := s.current(); n != nil {
		n.AddParameter(s.scanner.Value())
	}
}

func (s *Session) onImport() {
	if n := s.current(); n != nil {
		n.Import = s.scanner.Value()
	}
}

// current is the Liquid node under construction.
func (s *Session) current() *ast.Node {
	if s.liquid == nil {
		return nil
	}
	return s.liquid.node
}

func (s *Session) onHTMLStartTag() {
	if s.html != nil {
		s.closeHTML(s.scanner.Start())
	}
	name := s.scanner.Value()
	n := &ast.Node{
		Name:  name,
		Kind:  ast.KindHTML,
		Type:  spec.CategoryAssociate,
		Role:  ast.RoleStart,
		Spans: []ast.Span{{Start: s.scanner.Start()}},
	}
	// appended now so tags inside the attributes follow the element
	s.tree.Append(n)
	s.html = &pending{name: name, node: n}
}

func (s *Session) onHTMLEndTag() {
	if s.html != nil {
		s.closeHTML(s.scanner.Start())
	}
	name := s.scanner.Value()
	s.html = &pending{
		name: name,
		end:  true,
		node: &ast.Node{
			Name:  name,
			Kind:  ast.KindHTML,
			Type:  spec.CategoryAssociate,
			Role:  ast.RoleEnd,
			Spans: []ast.Span{{Start: s.scanner.Start()}},
		},
	}
}

func (s *Session) onHTMLTagClose() {
	if s.html == nil {
		return
	}
	if !s.html.end && s.scanner.State() == lexer.StateHTMLBody {
		s.html.node.Language = s.scanner.Language()
		s.body = s.html.node
	}
	s.closeHTML(s.scanner.End())
}

func (s *Session) onHTMLVoidTagClose() {
	if s.html == nil {
		return
	}
	s.html.node.Role = ast.RoleSingular
	s.closeHTML(s.scanner.End())
}
