package check

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSite(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func TestCheckText(t *testing.T) {
	fs := setupSite(t, map[string]string{
		"/site/bad.liquid":  "{% if a %}",
		"/site/good.liquid": "{% if a %}x{% endif %}",
	})
	h := &Handler{fs: fs, format: "text", noColor: true}

	var out bytes.Buffer
	err := h.Run(context.Background(), &out, []string{"/site/*.liquid"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDiagnostics)

	want := "/site/bad.liquid:1:1: error: Tag is never closed: if [HierarchyUnclosed]\n" +
		"  | {% if a %}\n" +
		"  | ^^^^^^^^^^\n" +
		"1 error, 0 warnings in 2 files\n"
	assert.Equal(t, want, out.String())
}

func TestCheckCaretColumn(t *testing.T) {
	fs := setupSite(t, map[string]string{
		"/t.liquid": "é\t{{ x | nope }}",
	})
	h := &Handler{fs: fs, format: "text", noColor: true}

	var out bytes.Buffer
	err := h.Run(context.Background(), &out, []string{"/t.liquid"})
	assert.ErrorIs(t, err, ErrDiagnostics)

	lines := bytes.Split(out.Bytes(), []byte("\n"))
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, string(lines[0]), "[InvalidFilter]")
	assert.Equal(t, "  | é\t{{ x | nope }}", string(lines[1]))
	assert.Equal(t, "  |  \t       ^^^^", string(lines[2]))
}

func TestCheckClean(t *testing.T) {
	fs := setupSite(t, map[string]string{
		"/site/a.liquid":        "{{ a }}",
		"/site/nested/b.liquid": "{% for x in y %}{{ x }}{% endfor %}",
	})
	h := &Handler{fs: fs, format: "text", noColor: true}

	var out bytes.Buffer
	err := h.Run(context.Background(), &out, []string{"/site/**/*.liquid", "/site/a.liquid"})
	require.NoError(t, err)
	assert.Equal(t, "no problems in 2 files\n", out.String())
}

func TestCheckJSON(t *testing.T) {
	fs := setupSite(t, map[string]string{
		"/site/bad.liquid":  "{% endif %}",
		"/site/good.liquid": "plain",
	})
	h := &Handler{fs: fs, format: "json"}

	var out bytes.Buffer
	err := h.Run(context.Background(), &out, []string{"/site/*.liquid"})
	assert.ErrorIs(t, err, ErrDiagnostics)

	var reports []struct {
		Path        string `json:"path"`
		Engine      string `json:"engine"`
		Diagnostics []struct {
			Kind     string `json:"kind"`
			Severity string `json:"severity"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, 2)

	assert.Equal(t, "/site/bad.liquid", reports[0].Path)
	assert.Equal(t, "standard", reports[0].Engine)
	require.Len(t, reports[0].Diagnostics, 1)
	assert.Equal(t, "InvalidSyntactic", reports[0].Diagnostics[0].Kind)
	assert.Equal(t, "error", reports[0].Diagnostics[0].Severity)

	assert.Equal(t, "/site/good.liquid", reports[1].Path)
	assert.NotNil(t, reports[1].Diagnostics)
	assert.Empty(t, reports[1].Diagnostics)
}

func TestCheckLSP(t *testing.T) {
	fs := setupSite(t, map[string]string{
		"/site/bad.liquid": "{% if a %}",
	})
	h := &Handler{fs: fs, format: "lsp"}

	var out bytes.Buffer
	err := h.Run(context.Background(), &out, []string{"/site/bad.liquid"})
	assert.ErrorIs(t, err, ErrDiagnostics)

	var params []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &params))
	require.Len(t, params, 1)
	assert.Equal(t, "file:///site/bad.liquid", params[0]["uri"])

	diags, ok := params[0]["diagnostics"].([]any)
	require.True(t, ok)
	require.Len(t, diags, 1)
	diag := diags[0].(map[string]any)
	assert.Equal(t, "HierarchyUnclosed", diag["code"])
	assert.Equal(t, "liquid", diag["source"])
}

func TestCheckErrors(t *testing.T) {
	fs := setupSite(t, map[string]string{"/site/a.liquid": "{{ a }}"})

	var out bytes.Buffer
	err := (&Handler{fs: fs, format: "text", noColor: true}).Run(context.Background(), &out, []string{"/site/*.html"})
	assert.ErrorIs(t, err, ErrNoMatches)
	assert.Equal(t, "no problems in 0 files\n", out.String())

	err = (&Handler{fs: fs, format: "yaml"}).Run(context.Background(), &out, []string{"/site/*.liquid"})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	err = (&Handler{fs: fs, format: "text", specPath: "/missing.yaml"}).Run(context.Background(), &out, []string{"/site/*.liquid"})
	assert.Error(t, err)
}

func TestPadding(t *testing.T) {
	assert.Equal(t, "", padding(""))
	assert.Equal(t, "\t  ", padding("\tå😀"))
	assert.Equal(t, " ", padding("é"))
	assert.Equal(t, 2, clusters("éx"))
}
