package diagnostic

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/walteh/liquidparse/pkg/position"
)

// Severity represents the severity level of a diagnostic. The values line up
// with the language server protocol.
type Severity uint8

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	}
	return "unknown"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is one problem found while parsing. Start and End are byte
// offsets into the source the range was resolved against.
type Diagnostic struct {
	Kind     Kind           `json:"kind"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Range    position.Range `json:"range"`
	Start    int            `json:"start"`
	End      int            `json:"end"`
}

// New builds a diagnostic with the kind's default severity and message.
func New(kind Kind, lines *position.LineIndex, start, end int) Diagnostic {
	if end < start {
		end = start
	}
	return Diagnostic{
		Kind:     kind,
		Severity: kind.Severity(),
		Message:  kind.Message(),
		Range:    lines.RangeOf(start, end),
		Start:    start,
		End:      end,
	}
}

// WithDetail appends context, usually the offending name, to the message.
func (d Diagnostic) WithDetail(format string, args ...any) Diagnostic {
	d.Message = d.Message + ": " + fmt.Sprintf(format, args...)
	return d
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s (%s)", d.Range, d.Severity, d.Message, d.Kind)
}

const Source = "liquid"

// ToProtocol converts the diagnostic for publishing to an editor.
func (d Diagnostic) ToProtocol() protocol.Diagnostic {
	severity := protocol.DiagnosticSeverity(d.Severity)
	source := Source
	return protocol.Diagnostic{
		Range:    d.Range.Protocol(),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Kind.String()},
		Source:   &source,
		Message:  d.Message,
	}
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

func (l List) Errors() List {
	return l.filter(func(d Diagnostic) bool { return d.Severity == SeverityError })
}

func (l List) OfKind(kind Kind) List {
	return l.filter(func(d Diagnostic) bool { return d.Kind == kind })
}

func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (l List) ToProtocol() []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(l))
	for _, d := range l {
		out = append(out, d.ToProtocol())
	}
	return out
}

func (l List) filter(keep func(Diagnostic) bool) List {
	var out List
	for _, d := range l {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
