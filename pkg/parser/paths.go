package parser

import (
	"strings"

	"github.com/walteh/liquidparse/pkg/ast"
	"github.com/walteh/liquidparse/pkg/diagnostic"
	"github.com/walteh/liquidparse/pkg/spec"
)

// frame is an object path being assembled. Frames nest when a variable is
// used as a bracket key.
type frame struct {
	offset int
	segs   []string
	spans  []ast.Span
	open   int
	parent int
}

func (s *Session) topPath() *frame {
	if len(s.paths) == 0 {
		return nil
	}
	return s.paths[len(s.paths)-1]
}

func (s *Session) onObjectName() {
	name := s.scanner.Value()
	span := ast.Span{Start: s.scanner.Start(), End: s.scanner.End()}
	f := &frame{offset: span.Start, segs: []string{name}, spans: []ast.Span{span}, parent: -1}

	if top := s.topPath(); top != nil && top.open > 0 {
		f.parent = len(s.paths) - 1
		s.paths = append(s.paths, f)
		return
	}
	s.flushPaths()
	s.paths = append(s.paths, f)

	if n := s.current(); n != nil && n.Type == spec.CategoryOutput && n.Name == "" {
		n.Name = name
	}
}

func (s *Session) onObjectProperty() {
	top := s.topPath()
	if top == nil {
		return
	}
	top.segs = append(top.segs, s.scanner.Value())
	top.spans = append(top.spans, ast.Span{Start: s.scanner.Start(), End: s.scanner.End()})
}

func (s *Session) onBracketOpen() {
	if top := s.topPath(); top != nil {
		top.open++
	}
}

func (s *Session) onBracketClose() {
	top := s.topPath()
	switch {
	case top == nil:
	case top.open > 0:
		top.open--
	case top.parent >= 0:
		s.popPath()
		if parent := s.topPath(); parent != nil && parent.open > 0 {
			parent.open--
		}
	}
}

// popPath records the innermost frame and folds it into its parent as a
// dynamic segment.
func (s *Session) popPath() {
	f := s.paths[len(s.paths)-1]
	s.paths = s.paths[:len(s.paths)-1]
	s.recordPath(f)

	if f.parent < 0 || f.parent >= len(s.paths) {
		return
	}
	parent := s.paths[f.parent]
	last := f.spans[len(f.spans)-1]
	parent.segs = append(parent.segs, "["+strings.Join(f.segs, ".")+"]")
	parent.spans = append(parent.spans, ast.Span{Start: f.offset, End: last.End})
}

func (s *Session) flushPaths() {
	for len(s.paths) > 0 {
		s.popPath()
	}
}

func (s *Session) recordPath(f *frame) {
	if n := s.current(); n != nil {
		n.AddObject(f.offset, f.segs)
	}
	s.checkProperties(f)
}

// checkProperties warns about the first property of a path that a closed
// object schema does not declare. Dynamic segments end the check.
func (s *Session) checkProperties(f *frame) {
	obj, ok := s.adapter.Object(f.segs[0])
	if !ok {
		return
	}
	for i := 1; i < len(f.segs); i++ {
		seg := f.segs[i]
		if strings.HasPrefix(seg, "[") || isIndex(seg) {
			return
		}
		next, ok := obj.Property(seg)
		if !ok {
			if obj.Closed() {
				span := f.spans[i]
				s.reportf(diagnostic.WarnUnknownProperty, span.Start, span.End, "%s has no property %s", obj.Name, seg)
			}
			return
		}
		obj = next
	}
}

func isIndex(seg string) bool {
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if (c < '0' || c > '9') && !(c == '-' && i == 0) {
			return false
		}
	}
	return true
}
