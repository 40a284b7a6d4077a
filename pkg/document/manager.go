package document

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/liquidparse/pkg/spec"
)

var (
	ErrNotFound     = errors.Base("document not found")
	ErrStaleVersion = errors.Base("stale document version")
)

// Manager holds the latest snapshot of every open document. Reads never
// block; writers are serialized.
type Manager struct {
	store *sync.Map // map[string]*Document

	mu       sync.Mutex
	adapter  spec.Adapter
	reparser Reparser
	fs       afero.Fs
}

type Option func(*Manager)

func WithReparser(r Reparser) Option {
	return func(m *Manager) { m.reparser = r }
}

// WithFs lets Load read documents that were never opened.
func WithFs(fs afero.Fs) Option {
	return func(m *Manager) { m.fs = fs }
}

func NewManager(adapter spec.Adapter, opts ...Option) *Manager {
	m := &Manager{
		store:    &sync.Map{},
		adapter:  adapter,
		reparser: FullReparse{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func normalizeURI(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	uri = strings.TrimPrefix(uri, "file:")
	return uri
}

// Create parses and stores a document, replacing any previous snapshot with
// the same URI.
func (m *Manager) Create(ctx context.Context, id Identifier) *Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := m.build(ctx, nil, Identifier{
		URI:        normalizeURI(id.URI),
		LanguageID: id.LanguageID,
		Version:    id.Version,
		Text:       id.Text,
	}, nil)
	m.store.Store(doc.URI, doc)
	return doc
}

// Update applies changes to a stored document. The version must be greater
// than the stored one.
func (m *Manager) Update(ctx context.Context, id VersionedIdentifier, changes []Change) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.Get(id.URI)
	if !ok {
		return nil, errors.Errorf("%s: %w", id.URI, ErrNotFound)
	}
	if id.Version <= prev.Version {
		return nil, errors.Errorf("%s: version %d after %d: %w", id.URI, id.Version, prev.Version, ErrStaleVersion)
	}

	doc := m.build(ctx, prev, Identifier{
		URI:        prev.URI,
		LanguageID: prev.LanguageID,
		Version:    id.Version,
		Text:       ApplyChanges(prev.Text, changes),
	}, changes)
	m.store.Store(doc.URI, doc)
	return doc, nil
}

func (m *Manager) Get(uri string) (*Document, bool) {
	v, ok := m.store.Load(normalizeURI(uri))
	if !ok {
		return nil, false
	}
	doc, ok := v.(*Document)
	return doc, ok
}

// Load returns the stored document or, when a filesystem is configured, reads
// and stores it at version 0.
func (m *Manager) Load(ctx context.Context, uri string) (*Document, error) {
	if doc, ok := m.Get(uri); ok {
		return doc, nil
	}
	if m.fs == nil {
		return nil, errors.Errorf("%s: %w", uri, ErrNotFound)
	}
	data, err := afero.ReadFile(m.fs, normalizeURI(uri))
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", uri, err)
	}
	return m.Create(ctx, Identifier{URI: uri, LanguageID: "liquid", Text: string(data)}), nil
}

func (m *Manager) Delete(uri string) {
	m.store.Delete(normalizeURI(uri))
}

func (m *Manager) URIs() []string {
	var out []string
	m.store.Range(func(k, _ any) bool {
		out = append(out, k.(string))
		return true
	})
	sort.Strings(out)
	return out
}

func (m *Manager) Adapter() spec.Adapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adapter
}

// SetAdapter switches the dictionary and re-parses every stored document.
// Versions are kept.
func (m *Manager) SetAdapter(ctx context.Context, adapter spec.Adapter) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.adapter = adapter
	zerolog.Ctx(ctx).Debug().Str("engine", adapter.Engine()).Msg("re-parsing documents for new engine")

	m.store.Range(func(_, v any) bool {
		prev := v.(*Document)
		doc := m.build(ctx, prev, Identifier{
			URI:        prev.URI,
			LanguageID: prev.LanguageID,
			Version:    prev.Version,
			Text:       prev.Text,
		}, []Change{{Text: prev.Text}})
		m.store.Store(doc.URI, doc)
		return true
	})
}

func (m *Manager) build(ctx context.Context, prev *Document, id Identifier, changes []Change) *Document {
	res := m.reparser.Reparse(ctx, m.adapter, prev, id.Text, changes)

	zerolog.Ctx(ctx).Debug().
		Str("uri", id.URI).
		Int32("version", id.Version).
		Int("nodes", res.Tree.Count()).
		Int("diagnostics", len(res.Diagnostics)).
		Msg("parsed document")

	return &Document{
		URI:        id.URI,
		LanguageID: id.LanguageID,
		Version:    id.Version,
		Text:       id.Text,
		Engine:     m.adapter.Engine(),
		result:     res,
	}
}
