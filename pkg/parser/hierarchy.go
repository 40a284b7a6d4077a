package parser

import (
	"github.com/walteh/liquidparse/pkg/ast"
	"github.com/walteh/liquidparse/pkg/diagnostic"
	"github.com/walteh/liquidparse/pkg/spec"
)

func (s *Session) push(name string, n *ast.Node) {
	s.stack = append(s.stack, entry{name: name, node: n})
}

// closeLiquid finishes the pending Liquid tag at offset end and places it in
// the hierarchy.
func (s *Session) closeLiquid(end int) {
	s.flushPaths()
	p := s.liquid
	s.liquid = nil

	n := p.node
	n.Spans[0].End = end
	if p.end {
		s.closeTag(p.name, n)
		return
	}

	switch n.Role {
	case ast.RoleChild:
		s.attachChild(n, p.tag)
	case ast.RoleStart:
		s.tree.Append(n)
		s.push(p.name, n)
		if n.Type.Opaque() {
			s.body = n
		}
	default:
		s.tree.Append(n)
		s.checkParents(n, p.tag)
	}
}

func (s *Session) closeHTML(end int) {
	p := s.html
	s.html = nil

	n := p.node
	n.Spans[0].End = end
	if p.end {
		s.closeTag(p.name, n)
		return
	}
	if el, ok := s.adapter.HTML(p.name); ok && el.Void {
		n.Role = ast.RoleSingular
	}
	if n.Role == ast.RoleStart {
		s.push(p.name, n)
	}
}

// closeTag matches an end tag against the hierarchy. The innermost open tag
// of the same name and kind is closed even when it is not on top of the
// stack; tags above it stay open. An end tag without any match becomes a
// standalone node.
func (s *Session) closeTag(name string, end *ast.Node) {
	span := end.Open()
	top := len(s.stack) - 1
	for i := top; i >= 0; i-- {
		e := s.stack[i]
		if e.name != name || e.node.Kind != end.Kind {
			continue
		}
		if i != top {
			s.reportf(diagnostic.InvalidNesting, span.Start, span.End, "%s is still open", s.stack[top].name)
		}
		s.stack = append(s.stack[:i], s.stack[i+1:]...)

		open := e.node
		open.Role = ast.RolePair
		open.Spans = append(open.Spans, span)
		s.validatePair(open)
		return
	}

	end.Role = ast.RoleEnd
	s.tree.Append(end)
	s.reportf(diagnostic.InvalidSyntactic, span.Start, span.End, "%s has no matching start tag", name)
}

// attachChild adds a branch tag such as else or when to the innermost open
// container.
func (s *Session) attachChild(n *ast.Node, tag *spec.Tag) {
	span := n.Open()
	for i := len(s.stack) - 1; i >= 0; i-- {
		e := s.stack[i]
		if e.node.Kind != ast.KindLiquid || !e.node.Type.Container() {
			continue
		}
		if tag != nil && !tag.AllowsParent(e.name) {
			s.reportf(diagnostic.InvalidPlacement, span.Start, span.End, "%s is not allowed in %s", n.Name, e.name)
		}
		e.node.AddChild(n)
		return
	}
	s.tree.Append(n)
	s.reportf(diagnostic.InvalidPlacement, span.Start, span.End, "%s outside of a block", n.Name)
}

// checkParents validates tags such as break that must appear somewhere
// inside one of their declared parents.
func (s *Session) checkParents(n *ast.Node, tag *spec.Tag) {
	if tag == nil || len(tag.Parents) == 0 {
		return
	}
	for i := len(s.stack) - 1; i >= 0; i-- {
		if e := s.stack[i]; e.node.Kind == ast.KindLiquid && tag.AllowsParent(e.name) {
			return
		}
	}
	span := n.Open()
	s.reportf(diagnostic.InvalidPlacement, span.Start, span.End, "%s outside of %v", n.Name, tag.Parents)
}

// validatePair checks the branches of a closed container: at most one bare
// branch (else), and no branch with arguments after it.
func (s *Session) validatePair(n *ast.Node) {
	if n.Kind != ast.KindLiquid || len(n.Children) == 0 {
		return
	}
	seen := false
	for i, c := range n.Children {
		if !s.bareBranch(c) {
			continue
		}
		span := c.Open()
		if seen {
			s.reportf(diagnostic.InvalidPlacement, span.Start, span.End, "duplicate %s in %s", c.Name, n.Name)
			continue
		}
		seen = true
		for _, later := range n.Children[i+1:] {
			if !s.bareBranch(later) {
				s.reportf(diagnostic.InvalidPlacement, span.Start, span.End, "%s must be the last branch of %s", c.Name, n.Name)
				break
			}
		}
	}
}

func (s *Session) bareBranch(n *ast.Node) bool {
	tag, ok := s.adapter.Tag(n.Name)
	return ok && tag.Arguments == spec.ArgumentsNone
}
