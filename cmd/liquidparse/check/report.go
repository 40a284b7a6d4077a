package check

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/fatih/color"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/liquidparse/pkg/diagnostic"
	"github.com/walteh/liquidparse/pkg/document"
)

type renderer interface {
	add(doc *document.Document)
	flush() error
}

func (me *Handler) renderer(out io.Writer) (renderer, error) {
	switch me.format {
	case "text", "":
		return newTextRenderer(out, me.noColor), nil
	case "json":
		return &jsonRenderer{out: out}, nil
	case "lsp":
		return &lspRenderer{out: out}, nil
	}
	return nil, errors.Errorf("%q: %w", me.format, ErrUnknownFormat)
}

type textRenderer struct {
	out      io.Writer
	docs     []*document.Document
	severity map[diagnostic.Severity]*color.Color
	faint    *color.Color
	caret    *color.Color
}

func newTextRenderer(out io.Writer, noColor bool) *textRenderer {
	r := &textRenderer{
		out: out,
		severity: map[diagnostic.Severity]*color.Color{
			diagnostic.SeverityError:       color.New(color.FgRed, color.Bold),
			diagnostic.SeverityWarning:     color.New(color.FgYellow, color.Bold),
			diagnostic.SeverityInformation: color.New(color.FgCyan),
			diagnostic.SeverityHint:        color.New(color.Faint),
		},
		faint: color.New(color.Faint),
		caret: color.New(color.FgHiMagenta, color.Bold),
	}
	if noColor {
		for _, c := range r.severity {
			c.DisableColor()
		}
		r.faint.DisableColor()
		r.caret.DisableColor()
	}
	return r
}

func (r *textRenderer) add(doc *document.Document) {
	r.docs = append(r.docs, doc)
}

func (r *textRenderer) flush() error {
	var b strings.Builder
	counts := map[diagnostic.Severity]int{}

	for _, doc := range r.docs {
		for _, d := range doc.Diagnostics() {
			counts[d.Severity]++
			r.write(&b, doc, d)
		}
	}

	errs, warns := counts[diagnostic.SeverityError], counts[diagnostic.SeverityWarning]
	if errs+warns == 0 {
		fmt.Fprintf(&b, "no problems in %s\n", plural(len(r.docs), "file"))
	} else {
		fmt.Fprintf(&b, "%s, %s in %s\n", plural(errs, "error"), plural(warns, "warning"), plural(len(r.docs), "file"))
	}

	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return errors.Errorf("writing report: %w", err)
	}
	return nil
}

func (r *textRenderer) write(b *strings.Builder, doc *document.Document, d diagnostic.Diagnostic) {
	sev := r.severity[d.Severity]
	if sev == nil {
		sev = r.faint
	}
	fmt.Fprintf(b, "%s:%d:%d: %s: %s %s\n",
		doc.URI, d.Range.Start.Line+1, d.Range.Start.Character+1,
		sev.Sprint(d.Severity), d.Message, r.faint.Sprintf("[%s]", d.Kind))

	lines := doc.Tree().Lines
	line := lines.Line(d.Range.Start.Line)
	lineStart := lines.LineStart(d.Range.Start.Line)

	from := clamp(d.Start-lineStart, 0, len(line))
	to := clamp(d.End-lineStart, from, len(line))

	width := clusters(line[from:to])
	if width == 0 {
		width = 1
	}

	gutter := r.faint.Sprint("  | ")
	fmt.Fprintf(b, "%s%s\n", gutter, line)
	fmt.Fprintf(b, "%s%s%s\n", gutter, padding(line[:from]), r.caret.Sprint(strings.Repeat("^", width)))
}

// padding mirrors prefix with one space per grapheme cluster, keeping tabs
// so the caret lines up under the source.
func padding(prefix string) string {
	var b strings.Builder
	rest := []byte(prefix)
	for len(rest) > 0 {
		advance, token, err := textseg.ScanGraphemeClusters(rest, true)
		if err != nil || advance == 0 {
			break
		}
		if string(token) == "\t" {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		rest = rest[advance:]
	}
	return b.String()
}

func clusters(s string) int {
	n, err := textseg.TokenCount([]byte(s), textseg.ScanGraphemeClusters)
	if err != nil {
		return len(s)
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

type fileReport struct {
	Path        string          `json:"path"`
	Engine      string          `json:"engine"`
	Diagnostics diagnostic.List `json:"diagnostics"`
}

type jsonRenderer struct {
	out     io.Writer
	reports []fileReport
}

func (r *jsonRenderer) add(doc *document.Document) {
	diags := doc.Diagnostics()
	if diags == nil {
		diags = diagnostic.List{}
	}
	r.reports = append(r.reports, fileReport{Path: doc.URI, Engine: doc.Engine, Diagnostics: diags})
}

func (r *jsonRenderer) flush() error {
	if r.reports == nil {
		r.reports = []fileReport{}
	}
	return encode(r.out, r.reports)
}

type lspRenderer struct {
	out    io.Writer
	params []protocol.PublishDiagnosticsParams
}

func (r *lspRenderer) add(doc *document.Document) {
	uri := doc.URI
	if strings.HasPrefix(uri, "/") {
		uri = "file://" + uri
	}
	r.params = append(r.params, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: doc.ProtocolDiagnostics(),
	})
}

func (r *lspRenderer) flush() error {
	if r.params == nil {
		r.params = []protocol.PublishDiagnosticsParams{}
	}
	return encode(r.out, r.params)
}

func encode(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Errorf("encoding report: %w", err)
	}
	return nil
}
