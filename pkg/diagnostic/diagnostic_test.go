package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/walteh/liquidparse/pkg/diagnostic"
	"github.com/walteh/liquidparse/pkg/position"
)

func TestKinds_AreFullyDescribed(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range diagnostic.Kinds() {
		name := k.String()
		assert.NotEqual(t, "Unknown", name, "kind %d has no entry", k)
		assert.False(t, seen[name], "duplicate kind name %s", name)
		seen[name] = true

		assert.NotEqual(t, diagnostic.FamilyUnknown, k.Family(), name)
		assert.NotEmpty(t, k.Message(), name)

		parsed, err := diagnostic.ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.GreaterOrEqual(t, len(seen), 45)
}

func TestKinds_FamilySeverity(t *testing.T) {
	for _, k := range diagnostic.Kinds() {
		switch k.Family() {
		case diagnostic.FamilyMissing, diagnostic.FamilyInvalid, diagnostic.FamilyReject, diagnostic.FamilyHierarchy:
			assert.Equal(t, diagnostic.SeverityError, k.Severity(), k.String())
		case diagnostic.FamilyWarn:
			assert.Contains(t, []diagnostic.Severity{diagnostic.SeverityWarning, diagnostic.SeverityHint, diagnostic.SeverityInformation}, k.Severity(), k.String())
		}
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := diagnostic.ParseKind("NotAKind")
	require.Error(t, err)
}

func TestDiagnostic_New(t *testing.T) {
	lines := position.NewLineIndex("{{ x }}\n{% if %}")
	d := diagnostic.New(diagnostic.MissingCondition, lines, 11, 13).WithDetail("%s", "if")

	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, "Missing condition: if", d.Message)
	assert.Equal(t, position.Place{Line: 1, Character: 3}, d.Range.Start)
	assert.Equal(t, position.Place{Line: 1, Character: 5}, d.Range.End)

	inverted := diagnostic.New(diagnostic.InvalidCharacter, lines, 5, 2)
	assert.Equal(t, inverted.Start, inverted.End)
}

func TestDiagnostic_ToProtocol(t *testing.T) {
	lines := position.NewLineIndex("{{ x | size: 1 }}")
	d := diagnostic.New(diagnostic.RejectFilterArguments, lines, 11, 12)

	got := d.ToProtocol()
	require.NotNil(t, got.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *got.Severity)
	require.NotNil(t, got.Code)
	assert.Equal(t, "RejectFilterArguments", got.Code.Value)
	assert.Equal(t, protocol.UInteger(11), got.Range.Start.Character)
}

func TestList_Filters(t *testing.T) {
	lines := position.NewLineIndex("abc")
	list := diagnostic.List{
		diagnostic.New(diagnostic.WarnWhitespace, lines, 0, 1),
		diagnostic.New(diagnostic.InvalidFilter, lines, 1, 2),
	}
	assert.True(t, list.HasErrors())
	assert.Len(t, list.Errors(), 1)
	assert.Len(t, list.OfKind(diagnostic.WarnWhitespace), 1)
	assert.Len(t, list.ToProtocol(), 2)
	assert.False(t, list.OfKind(diagnostic.WarnWhitespace).HasErrors())
}
