package ast

import (
	"github.com/walteh/liquidparse/pkg/position"
)

type Tree struct {
	Nodes []*Node `json:"nodes"`
	// Frontmatter is the span of a leading "---" delimited YAML block,
	// delimiters included.
	Frontmatter *Span `json:"frontmatter,omitempty"`

	Source string              `json:"-"`
	Lines  *position.LineIndex `json:"-"`
}

func NewTree(source string) *Tree {
	return &Tree{Source: source, Lines: position.NewLineIndex(source)}
}

func (t *Tree) Append(n *Node) {
	n.Index = len(t.Nodes)
	t.Nodes = append(t.Nodes, n)
}

// Range resolves the node's full extent to lines and characters.
func (t *Tree) Range(n *Node) position.Range {
	return t.SpanRange(n.Extent())
}

func (t *Tree) SpanRange(s Span) position.Range {
	return t.Lines.RangeOf(s.Start, s.End)
}

// Text returns the source covered by s.
func (t *Tree) Text(s Span) string {
	if s.Start < 0 || s.End > len(t.Source) || s.Start > s.End {
		return ""
	}
	return t.Source[s.Start:s.End]
}

// Walk visits every node in source order, children after their container.
// Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var walk func(nodes []*Node, depth int) bool
	walk = func(nodes []*Node, depth int) bool {
		for _, n := range nodes {
			if !fn(n, depth) {
				return false
			}
			if !walk(n.Children, depth+1) {
				return false
			}
		}
		return true
	}
	walk(t.Nodes, 0)
}

// NodeAt returns the innermost node whose extent contains offset. A hit on
// one of a node's tag spans wins over a node that merely encloses offset in
// its body.
func (t *Tree) NodeAt(offset int) *Node {
	var best *Node
	bestOnTag := false
	t.Walk(func(n *Node, _ int) bool {
		ext := n.Extent()
		if !ext.Contains(offset) {
			return true
		}
		onTag := false
		for _, s := range n.Spans {
			if s.Contains(offset) {
				onTag = true
			}
		}
		switch {
		case best == nil,
			onTag && !bestOnTag,
			onTag == bestOnTag && ext.Len() <= best.Extent().Len():
			best, bestOnTag = n, onTag
		}
		return true
	})
	return best
}

// Count reports the number of nodes including children.
func (t *Tree) Count() int {
	count := 0
	t.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}
