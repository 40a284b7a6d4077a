// Package document keeps parsed snapshots of open templates and applies edits
// to them.
package document

import (
	"context"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/liquidparse/pkg/ast"
	"github.com/walteh/liquidparse/pkg/diagnostic"
	"github.com/walteh/liquidparse/pkg/frontmatter"
	"github.com/walteh/liquidparse/pkg/parser"
	"github.com/walteh/liquidparse/pkg/position"
	"github.com/walteh/liquidparse/pkg/spec"
)

// Identifier describes a newly opened document.
type Identifier struct {
	URI        string
	LanguageID string
	Version    int32
	Text       string
}

type VersionedIdentifier struct {
	URI     string
	Version int32
}

// Change is one edit. A nil Range replaces the whole text.
type Change struct {
	Range *position.Range
	Text  string
}

// Document is an immutable snapshot. Updates produce a new value.
type Document struct {
	URI        string
	LanguageID string
	Version    int32
	Text       string
	Engine     string

	result *parser.Result
}

func (d *Document) Tree() *ast.Tree {
	return d.result.Tree
}

func (d *Document) Diagnostics() diagnostic.List {
	return d.result.Diagnostics
}

func (d *Document) Result() *parser.Result {
	return d.result
}

// Frontmatter decodes the leading YAML block. A document without one yields
// a nil map and no error.
func (d *Document) Frontmatter() (map[string]any, error) {
	tree := d.Tree()
	if tree.Frontmatter == nil {
		return nil, nil
	}
	data, err := frontmatter.Decode(tree.Text(*tree.Frontmatter))
	if err != nil {
		return nil, errors.Errorf("%s: %w", d.URI, err)
	}
	return data, nil
}

func (d *Document) ProtocolDiagnostics() []protocol.Diagnostic {
	return d.Diagnostics().ToProtocol()
}

// Reparser produces the parse result for a document's new text.
type Reparser interface {
	Reparse(ctx context.Context, adapter spec.Adapter, prev *Document, text string, changes []Change) *parser.Result
}

// FullReparse parses the complete text again on every change.
type FullReparse struct {
	Options parser.Options
}

func (f FullReparse) Reparse(ctx context.Context, adapter spec.Adapter, _ *Document, text string, _ []Change) *parser.Result {
	return parser.Parse(ctx, text, adapter, f.Options)
}

// ApplyChanges applies edits in order. Each range is resolved against the
// text produced by the edits before it.
func ApplyChanges(text string, changes []Change) string {
	for _, c := range changes {
		if c.Range == nil {
			text = c.Text
			continue
		}
		lines := position.NewLineIndex(text)
		start := lines.OffsetAt(c.Range.Start)
		end := lines.OffsetAt(c.Range.End)
		if end < start {
			start, end = end, start
		}
		text = text[:start] + c.Text + text[end:]
	}
	return text
}

var ErrUnknownChange = errors.Base("unknown content change type")

// ChangesFromProtocol converts the content changes of a didChange
// notification.
func ChangesFromProtocol(changes []any) ([]Change, error) {
	out := make([]Change, 0, len(changes))
	for _, raw := range changes {
		switch c := raw.(type) {
		case protocol.TextDocumentContentChangeEvent:
			out = append(out, fromEvent(c.Range, c.Text))
		case *protocol.TextDocumentContentChangeEvent:
			out = append(out, fromEvent(c.Range, c.Text))
		case protocol.TextDocumentContentChangeEventWhole:
			out = append(out, Change{Text: c.Text})
		case *protocol.TextDocumentContentChangeEventWhole:
			out = append(out, Change{Text: c.Text})
		default:
			return nil, errors.Errorf("%T: %w", raw, ErrUnknownChange)
		}
	}
	return out, nil
}

func fromEvent(r *protocol.Range, text string) Change {
	if r == nil {
		return Change{Text: text}
	}
	rng := position.NewRangeFromProtocol(*r)
	return Change{Range: &rng, Text: text}
}

func IdentifierFromProtocol(item protocol.TextDocumentItem) Identifier {
	return Identifier{
		URI:        string(item.URI),
		LanguageID: item.LanguageID,
		Version:    int32(item.Version),
		Text:       item.Text,
	}
}
