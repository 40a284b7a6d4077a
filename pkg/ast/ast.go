// Package ast holds the document model produced by the parser.
//
// The node sequence of a Tree is flat and in source order: a tag nested in the
// body of an "if" is a sibling of the "if" node, not its child. Only tags the
// dictionary binds to a container (else, elsif, when) are stored as Children
// of that container.
package ast

import (
	"github.com/walteh/liquidparse/pkg/spec"
)

type Kind uint8

const (
	KindLiquid Kind = iota
	KindHTML
)

func (k Kind) String() string {
	if k == KindHTML {
		return "html"
	}
	return "liquid"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Role is a node's position in the tag hierarchy.
type Role uint8

const (
	// RoleStart is an opened block that has not (yet) been matched.
	RoleStart Role = iota
	// RoleEnd is a synthetic node for an end tag that matched nothing.
	RoleEnd
	RolePair
	RoleSingular
	RoleChild
)

var roleNames = [...]string{
	RoleStart:    "start",
	RoleEnd:      "end",
	RolePair:     "pair",
	RoleSingular: "singular",
	RoleChild:    "child",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Span is a half-open byte range into the source.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Span) Len() int { return s.End - s.Start }

func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

type Node struct {
	Name string        `json:"name"`
	Kind Kind          `json:"kind"`
	Type spec.Category `json:"type"`
	Role Role          `json:"role"`

	// Spans holds the opening tag and, once paired, the closing tag.
	Spans []Span `json:"spans"`

	TrimLeft  bool `json:"trim_left,omitempty"`
	TrimRight bool `json:"trim_right,omitempty"`

	// Objects maps the offset of each object reference's root name to its
	// property path. A nested reference used as a bracket key is recorded
	// under its own offset and appears in the outer path as "[a.b]".
	Objects map[int][]string `json:"objects,omitempty"`
	// Filters maps the offset of each filter name to the name.
	Filters    map[int]string `json:"filters,omitempty"`
	Parameters []string       `json:"parameters,omitempty"`

	// Variable is the name introduced by assign, capture, an iteration or an
	// import alias.
	Variable string `json:"variable,omitempty"`
	// Import is the template path of an import tag.
	Import string `json:"import,omitempty"`

	// Language names the embedded language of Body.
	Language string `json:"language,omitempty"`
	Body     *Span  `json:"body,omitempty"`

	Children []*Node `json:"children,omitempty"`
	Parent   *Node   `json:"-"`
	// Index is the node's position in its parent's Children, or in the tree
	// for top-level nodes.
	Index int `json:"index"`
}

// Open is the span of the opening tag.
func (n *Node) Open() Span {
	if len(n.Spans) == 0 {
		return Span{}
	}
	return n.Spans[0]
}

// Close is the span of the closing tag of a paired node.
func (n *Node) Close() (Span, bool) {
	if len(n.Spans) < 2 {
		return Span{}, false
	}
	return n.Spans[len(n.Spans)-1], true
}

func (n *Node) Start() int { return n.Open().Start }

func (n *Node) End() int {
	if len(n.Spans) == 0 {
		return 0
	}
	return n.Spans[len(n.Spans)-1].End
}

// Extent spans the node from its opening to its closing tag.
func (n *Node) Extent() Span {
	return Span{Start: n.Start(), End: n.End()}
}

func (n *Node) AddObject(offset int, path []string) {
	if n.Objects == nil {
		n.Objects = make(map[int][]string)
	}
	n.Objects[offset] = path
}

func (n *Node) AddFilter(offset int, name string) {
	if n.Filters == nil {
		n.Filters = make(map[int]string)
	}
	n.Filters[offset] = name
}

func (n *Node) AddParameter(name string) {
	if !n.HasParameter(name) {
		n.Parameters = append(n.Parameters, name)
	}
}

func (n *Node) HasParameter(name string) bool {
	for _, p := range n.Parameters {
		if p == name {
			return true
		}
	}
	return false
}

func (n *Node) AddChild(child *Node) {
	child.Parent = n
	child.Index = len(n.Children)
	n.Children = append(n.Children, child)
}
