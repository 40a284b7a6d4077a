// Package parser consumes the scanner's token stream and builds the document
// model: nodes, the tag hierarchy and diagnostics.
package parser

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/liquidparse/pkg/ast"
	"github.com/walteh/liquidparse/pkg/diagnostic"
	"github.com/walteh/liquidparse/pkg/lexer"
	"github.com/walteh/liquidparse/pkg/position"
	"github.com/walteh/liquidparse/pkg/spec"
)

// Options are fixed for the lifetime of a session.
type Options struct {
	// TrackContext records every token with its text in Result.Context.
	TrackContext      bool
	CaptureWhitespace bool
	CaptureNewlines   bool
}

// ContextEntry is one scanned token.
type ContextEntry struct {
	Token lexer.Token `json:"token"`
	position.RawPosition
}

// InternalError reports a scanner or parser defect. It is kept apart from
// user facing diagnostics.
type InternalError struct {
	Kind   diagnostic.Kind
	Offset int
	Err    error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s at offset %d: %v", e.Kind, e.Offset, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

type Result struct {
	ID          uuid.UUID       `json:"id"`
	Tree        *ast.Tree       `json:"tree"`
	Diagnostics diagnostic.List `json:"diagnostics"`
	Context     []ContextEntry  `json:"context,omitempty"`
	Internal    []error         `json:"-"`
}

type entry struct {
	name string
	node *ast.Node
}

// Session owns all state of one parse. Nothing is shared between sessions.
type Session struct {
	id      uuid.UUID
	source  string
	adapter spec.Adapter
	opts    Options
	scanner *lexer.Scanner
	tree    *ast.Tree

	stack       []entry
	diagnostics diagnostic.List
	context     []ContextEntry
	internal    []error

	liquid *pending
	html   *pending
	body   *ast.Node
	paths  []*frame
}

// pending is a tag whose close delimiter has not been seen yet.
type pending struct {
	node *ast.Node
	tag  *spec.Tag
	name string
	end  bool
}

func NewSession(source string, adapter spec.Adapter, opts Options) *Session {
	return &Session{
		id:      uuid.New(),
		source:  source,
		adapter: adapter,
		opts:    opts,
		scanner: lexer.New(source, adapter, lexer.Options{
			CaptureWhitespace: opts.CaptureWhitespace,
			CaptureNewlines:   opts.CaptureNewlines,
		}),
		tree: ast.NewTree(source),
	}
}

// Parse runs a complete session over source.
func Parse(ctx context.Context, source string, adapter spec.Adapter, opts Options) *Result {
	return NewSession(source, adapter, opts).Run(ctx)
}

// Run consumes the token stream to the end. A session can only be run once.
func (s *Session) Run(ctx context.Context) *Result {
	logger := zerolog.Ctx(ctx).With().Str("session", s.id.String()).Logger()

	tokens := 0
	for {
		tok := s.scanner.Scan()
		tokens++
		if s.opts.TrackContext {
			s.context = append(s.context, ContextEntry{
				Token:       tok,
				RawPosition: position.NewBasicPosition(s.scanner.Text(), s.scanner.Start()),
			})
		}
		if tok == lexer.TokenEOS {
			break
		}
		handler, ok := handlers[tok]
		if !ok {
			s.internalError(diagnostic.InternalUnhandledToken, errors.Errorf("no handler for token %s", tok))
			continue
		}
		handler(s)
	}
	s.finish()

	for _, err := range s.internal {
		logger.Error().Err(err).Msg("internal parser error")
	}
	logger.Debug().
		Int("tokens", tokens).
		Int("nodes", len(s.tree.Nodes)).
		Int("diagnostics", len(s.diagnostics)).
		Msg("parsed document")

	return &Result{
		ID:          s.id,
		Tree:        s.tree,
		Diagnostics: s.diagnostics,
		Context:     s.context,
		Internal:    s.internal,
	}
}

func (s *Session) report(kind diagnostic.Kind, start, end int) *diagnostic.Diagnostic {
	s.diagnostics = append(s.diagnostics, diagnostic.New(kind, s.tree.Lines, start, end))
	return &s.diagnostics[len(s.diagnostics)-1]
}

func (s *Session) reportf(kind diagnostic.Kind, start, end int, format string, args ...any) {
	d := s.report(kind, start, end)
	*d = d.WithDetail(format, args...)
}

func (s *Session) internalError(kind diagnostic.Kind, err error) {
	s.internal = append(s.internal, &InternalError{Kind: kind, Offset: s.scanner.Start(), Err: err})
}

// finish closes anything left open at the end of the document.
func (s *Session) finish() {
	s.flushPaths()
	if s.liquid != nil {
		s.closeLiquid(len(s.source))
	}
	if s.html != nil {
		s.closeHTML(len(s.source))
	}
	for _, e := range s.stack {
		open := e.node.Open()
		s.reportf(diagnostic.HierarchyUnclosed, open.Start, open.End, "%s", e.name)
	}
	s.stack = nil
}
