package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/liquidparse/pkg/diagnostic"
	"github.com/walteh/liquidparse/pkg/lexer"
	"github.com/walteh/liquidparse/pkg/spec"
)

type lexeme struct {
	Token lexer.Token
	Text  string
}

type scanResult struct {
	lexemes []lexeme
	errors  []diagnostic.Kind
}

func scan(t *testing.T, src string, adapter spec.Adapter, opts lexer.Options) scanResult {
	t.Helper()
	var out scanResult
	sc := lexer.New(src, adapter, opts)
	for i := 0; i < 4*len(src)+16; i++ {
		tok := sc.Scan()
		require.NotEqual(t, lexer.TokenContinue, tok, "continue leaked out of Scan")
		require.LessOrEqual(t, sc.End(), len(src))
		switch tok {
		case lexer.TokenEOS:
			return out
		case lexer.TokenParseError:
			out.errors = append(out.errors, sc.Error())
		default:
			out.lexemes = append(out.lexemes, lexeme{tok, sc.Text()})
		}
	}
	t.Fatalf("scanner did not reach the end of %q", src)
	return out
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		opts     lexer.Options
		expected []lexeme
	}{
		{
			name: "object with filter",
			src:  "{{ product.title | upcase }}",
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{{"},
				{lexer.TokenObjectName, "product"},
				{lexer.TokenObjectProperty, "title"},
				{lexer.TokenFilter, "|"},
				{lexer.TokenFilterIdentifier, "upcase"},
				{lexer.TokenDelimiterClose, "}}"},
			},
		},
		{
			name: "bracket notation",
			src:  `{{ object["a"]["b"] }}`,
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{{"},
				{lexer.TokenObjectName, "object"},
				{lexer.TokenObjectBracketOpen, "["},
				{lexer.TokenObjectPropertyString, `"a"`},
				{lexer.TokenObjectBracketClose, "]"},
				{lexer.TokenObjectBracketOpen, "["},
				{lexer.TokenObjectPropertyString, `"b"`},
				{lexer.TokenObjectBracketClose, "]"},
				{lexer.TokenDelimiterClose, "}}"},
			},
		},
		{
			name: "nested bracket variable",
			src:  `{{ a[b[0]] }}`,
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{{"},
				{lexer.TokenObjectName, "a"},
				{lexer.TokenObjectBracketOpen, "["},
				{lexer.TokenObjectName, "b"},
				{lexer.TokenObjectBracketOpen, "["},
				{lexer.TokenObjectPropertyNumber, "0"},
				{lexer.TokenObjectBracketClose, "]"},
				{lexer.TokenObjectBracketClose, "]"},
				{lexer.TokenDelimiterClose, "}}"},
			},
		},
		{
			name: "block with end tag",
			src:  "{% if x %}hello{% endif %}",
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{%"},
				{lexer.TokenLiquidTagName, "if"},
				{lexer.TokenObjectName, "x"},
				{lexer.TokenDelimiterClose, "%}"},
				{lexer.TokenDelimiterOpen, "{%"},
				{lexer.TokenLiquidEndTagName, "endif"},
				{lexer.TokenDelimiterClose, "%}"},
			},
		},
		{
			name: "opaque comment body",
			src:  "{% comment %}{{ not scanned }}{% endcomment %}",
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{%"},
				{lexer.TokenLiquidTagName, "comment"},
				{lexer.TokenDelimiterClose, "%}"},
				{lexer.TokenEmbeddedBody, "{{ not scanned }}"},
				{lexer.TokenDelimiterOpen, "{%"},
				{lexer.TokenLiquidEndTagName, "endcomment"},
				{lexer.TokenDelimiterClose, "%}"},
			},
		},
		{
			name: "assign with filter argument",
			src:  `{% assign x = "a" | append: "b" %}`,
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{%"},
				{lexer.TokenLiquidTagName, "assign"},
				{lexer.TokenVariableName, "x"},
				{lexer.TokenAssignOperator, "="},
				{lexer.TokenString, `"a"`},
				{lexer.TokenFilter, "|"},
				{lexer.TokenFilterIdentifier, "append"},
				{lexer.TokenFilterOperator, ":"},
				{lexer.TokenFilterArgument, `"b"`},
				{lexer.TokenDelimiterClose, "%}"},
			},
		},
		{
			name: "named filter parameter",
			src:  `{{ x | default: "y", allow_false: true }}`,
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{{"},
				{lexer.TokenObjectName, "x"},
				{lexer.TokenFilter, "|"},
				{lexer.TokenFilterIdentifier, "default"},
				{lexer.TokenFilterOperator, ":"},
				{lexer.TokenFilterArgument, `"y"`},
				{lexer.TokenFilterSeparator, ","},
				{lexer.TokenFilterParameter, "allow_false:"},
				{lexer.TokenBoolean, "true"},
				{lexer.TokenDelimiterClose, "}}"},
			},
		},
		{
			name: "iteration with parameters",
			src:  "{% for item in items limit: 2 reversed %}",
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{%"},
				{lexer.TokenLiquidTagName, "for"},
				{lexer.TokenIterationIteree, "item"},
				{lexer.TokenIterationOperator, "in"},
				{lexer.TokenObjectName, "items"},
				{lexer.TokenParameter, "limit"},
				{lexer.TokenParameterOperator, ":"},
				{lexer.TokenInteger, "2"},
				{lexer.TokenParameter, "reversed"},
				{lexer.TokenDelimiterClose, "%}"},
			},
		},
		{
			name: "iteration over range",
			src:  "{% for i in (1..5) %}",
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{%"},
				{lexer.TokenLiquidTagName, "for"},
				{lexer.TokenIterationIteree, "i"},
				{lexer.TokenIterationOperator, "in"},
				{lexer.TokenRange, "(1..5)"},
				{lexer.TokenDelimiterClose, "%}"},
			},
		},
		{
			name: "condition operators",
			src:  `{% if a == 1 and b contains "c" %}`,
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{%"},
				{lexer.TokenLiquidTagName, "if"},
				{lexer.TokenObjectName, "a"},
				{lexer.TokenControlOperator, "=="},
				{lexer.TokenInteger, "1"},
				{lexer.TokenControlOperator, "and"},
				{lexer.TokenObjectName, "b"},
				{lexer.TokenControlOperator, "contains"},
				{lexer.TokenString, `"c"`},
				{lexer.TokenDelimiterClose, "%}"},
			},
		},
		{
			name: "when list",
			src:  `{% when "a", "b" or c %}`,
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{%"},
				{lexer.TokenLiquidTagName, "when"},
				{lexer.TokenString, `"a"`},
				{lexer.TokenListSeparator, ","},
				{lexer.TokenString, `"b"`},
				{lexer.TokenListSeparator, "or"},
				{lexer.TokenObjectName, "c"},
				{lexer.TokenDelimiterClose, "%}"},
			},
		},
		{
			name: "render with keywords",
			src:  `{% render "card" with product as p, size: 2 %}`,
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{%"},
				{lexer.TokenLiquidTagName, "render"},
				{lexer.TokenImport, `"card"`},
				{lexer.TokenImportKeyword, "with"},
				{lexer.TokenObjectName, "product"},
				{lexer.TokenImportKeyword, "as"},
				{lexer.TokenVariableName, "p"},
				{lexer.TokenListSeparator, ","},
				{lexer.TokenParameter, "size"},
				{lexer.TokenParameterOperator, ":"},
				{lexer.TokenInteger, "2"},
				{lexer.TokenDelimiterClose, "%}"},
			},
		},
		{
			name: "trim dashes",
			src:  "{{- x -}}",
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{{"},
				{lexer.TokenTrimDashLeft, "-"},
				{lexer.TokenObjectName, "x"},
				{lexer.TokenTrimDashRight, "-"},
				{lexer.TokenDelimiterClose, "}}"},
			},
		},
		{
			name: "inline comment tag",
			src:  "{% # note %}",
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{%"},
				{lexer.TokenLiquidTagName, "#"},
				{lexer.TokenDelimiterClose, "%}"},
			},
		},
		{
			name: "captured whitespace",
			src:  "{{ x }}",
			opts: lexer.Options{CaptureWhitespace: true},
			expected: []lexeme{
				{lexer.TokenDelimiterOpen, "{{"},
				{lexer.TokenWhitespace, " "},
				{lexer.TokenObjectName, "x"},
				{lexer.TokenWhitespace, " "},
				{lexer.TokenDelimiterClose, "}}"},
			},
		},
		{
			name: "captured newlines in text",
			src:  "a\nb",
			opts: lexer.Options{CaptureNewlines: true},
			expected: []lexeme{
				{lexer.TokenNewline, "\n"},
			},
		},
		{
			name: "frontmatter and html",
			src:  "---\ntitle: x\n---\n<p>hi</p>",
			expected: []lexeme{
				{lexer.TokenFrontmatter, "---\ntitle: x\n---\n"},
				{lexer.TokenHTMLStartTagName, "<p"},
				{lexer.TokenHTMLTagClose, ">"},
				{lexer.TokenHTMLEndTagName, "</p"},
				{lexer.TokenHTMLTagClose, ">"},
			},
		},
		{
			name: "liquid inside attribute values",
			src:  `<a href="{{ url }}" class=x>`,
			expected: []lexeme{
				{lexer.TokenHTMLStartTagName, "<a"},
				{lexer.TokenHTMLAttributeName, "href"},
				{lexer.TokenHTMLAttributeOperator, "="},
				{lexer.TokenDelimiterOpen, "{{"},
				{lexer.TokenObjectName, "url"},
				{lexer.TokenDelimiterClose, "}}"},
				{lexer.TokenHTMLAttributeValue, `"{{ url }}"`},
				{lexer.TokenHTMLAttributeName, "class"},
				{lexer.TokenHTMLAttributeOperator, "="},
				{lexer.TokenHTMLAttributeValue, "x"},
				{lexer.TokenHTMLTagClose, ">"},
			},
		},
		{
			name: "void and self closing elements",
			src:  `<br/><img src="a.png">`,
			expected: []lexeme{
				{lexer.TokenHTMLStartTagName, "<br"},
				{lexer.TokenHTMLVoidTagClose, "/>"},
				{lexer.TokenHTMLStartTagName, "<img"},
				{lexer.TokenHTMLAttributeName, "src"},
				{lexer.TokenHTMLAttributeOperator, "="},
				{lexer.TokenHTMLAttributeValue, `"a.png"`},
				{lexer.TokenHTMLTagClose, ">"},
			},
		},
		{
			name: "script body is opaque",
			src:  "<script>if (a < b) {}</script>",
			expected: []lexeme{
				{lexer.TokenHTMLStartTagName, "<script"},
				{lexer.TokenHTMLTagClose, ">"},
				{lexer.TokenEmbeddedBody, "if (a < b) {}"},
				{lexer.TokenHTMLEndTagName, "</script"},
				{lexer.TokenHTMLTagClose, ">"},
			},
		},
		{
			name: "html comments and doctype are skipped",
			src:  "<!DOCTYPE html><!-- <p> -->",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scan(t, tt.src, spec.Standard(), tt.opts)
			assert.Empty(t, got.errors)
			assert.Equal(t, tt.expected, got.lexemes)
		})
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []diagnostic.Kind
	}{
		{"unclosed bracket", `{{ object["a" }}`, []diagnostic.Kind{diagnostic.MissingBracketNotation}},
		{"nested unclosed brackets report once", `{{ a[b["c" }}`, []diagnostic.Kind{diagnostic.MissingBracketNotation}},
		{"stray close bracket", `{{ a] }}`, []diagnostic.Kind{diagnostic.InvalidCharacter}},
		{"filter without arguments", `{{ x | size: 1 }}`, []diagnostic.Kind{diagnostic.RejectFilterArguments}},
		{"missing colon", `{{ x | append }}`, []diagnostic.Kind{diagnostic.MissingColon}},
		{"rejected argument type", `{{ x | append: 1 }}`, []diagnostic.Kind{diagnostic.RejectInteger}},
		{"rejected string argument", `{{ x | slice: "a" }}`, []diagnostic.Kind{diagnostic.RejectString}},
		{"missing filter", `{{ x | }}`, []diagnostic.Kind{diagnostic.MissingFilter}},
		{"missing filter argument", `{{ x | append: }}`, []diagnostic.Kind{diagnostic.MissingFilterArgument}},
		{"missing second required argument", `{{ x | replace: "a" }}`, []diagnostic.Kind{diagnostic.MissingFilterArgument}},
		{"missing filter separator", `{{ x | replace: "a" "b" }}`, []diagnostic.Kind{diagnostic.MissingFilterSeparator}},
		{"too many arguments", `{{ x | append: "a", "b" }}`, []diagnostic.Kind{diagnostic.InvalidArgument}},
		{"unknown filter parameter", `{{ x | default: 1, nope: 2 }}`, []diagnostic.Kind{diagnostic.InvalidParameter}},
		{"whitespace before colon", `{{ x | append : "a" }}`, []diagnostic.Kind{diagnostic.WarnWhitespace}},
		{"whitespace before bracket", `{{ x ["a"] }}`, []diagnostic.Kind{diagnostic.WarnWhitespace}},
		{"missing property", `{{ x. }}`, []diagnostic.Kind{diagnostic.MissingProperty}},
		{"missing condition", `{% if %}`, []diagnostic.Kind{diagnostic.MissingCondition}},
		{"invalid operator", `{% if a = b %}`, []diagnostic.Kind{diagnostic.InvalidOperator}},
		{"missing operator", `{% if a b %}`, []diagnostic.Kind{diagnostic.MissingOperator}},
		{"arguments on bare tag", `{% else x %}`, []diagnostic.Kind{diagnostic.RejectArguments}},
		{"missing tag name", `{% %}`, []diagnostic.Kind{diagnostic.MissingTagName}},
		{"invalid tag name", `{% 1x %}`, []diagnostic.Kind{diagnostic.InvalidTagName}},
		{"missing iteration operator", `{% for item %}`, []diagnostic.Kind{diagnostic.MissingIterationOperator}},
		{"missing iteration array", `{% for item in %}`, []diagnostic.Kind{diagnostic.MissingIterationArray}},
		{"missing iteree", `{% for %}`, []diagnostic.Kind{diagnostic.MissingIterationIteree}},
		{"unknown iteration parameter", `{% for a in b sorted %}`, []diagnostic.Kind{diagnostic.InvalidParameter}},
		{"parameter without value", `{% for a in b limit %}`, []diagnostic.Kind{diagnostic.MissingParameterValue}},
		{"rejected parameter value", `{% for a in b limit: "x" %}`, []diagnostic.Kind{diagnostic.RejectString}},
		{"invalid range", `{% for a in (1..) %}`, []diagnostic.Kind{diagnostic.InvalidRange}},
		{"missing assignment operator", `{% assign x %}`, []diagnostic.Kind{diagnostic.MissingOperator}},
		{"missing assignment value", `{% assign x = %}`, []diagnostic.Kind{diagnostic.MissingAssignment}},
		{"missing variable", `{% capture %}`, []diagnostic.Kind{diagnostic.MissingVariable}},
		{"missing import path", `{% render %}`, []diagnostic.Kind{diagnostic.MissingImportPath}},
		{"unterminated string", `{{ "abc }}`, []diagnostic.Kind{diagnostic.MissingQuotation}},
		{"missing close at end", `{{ x `, []diagnostic.Kind{diagnostic.MissingCloseDelimiter}},
		{"junk before close", `{% endif x %}`, []diagnostic.Kind{diagnostic.InvalidCharacter}},
		{"unclosed html tag", `<div class="a"`, []diagnostic.Kind{diagnostic.MissingHTMLTagClose}},
		{"unterminated attribute", `<div class="a>`, []diagnostic.Kind{diagnostic.MissingQuotation}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scan(t, tt.src, spec.Standard(), lexer.Options{})
			assert.Equal(t, tt.expected, got.errors)
		})
	}
}

func TestScanRejectedReference(t *testing.T) {
	file := &spec.File{
		Engine: "custom",
		Filters: map[string]spec.FilterEntry{
			"pad": {Arguments: []spec.ArgumentEntry{{Types: []string{"string"}, Required: true}}},
		},
	}
	dict, err := file.Compile()
	require.NoError(t, err)

	got := scan(t, `{{ x | pad: y.z }}`, dict, lexer.Options{})
	assert.Equal(t, []diagnostic.Kind{diagnostic.RejectReference}, got.errors)
	assert.NotContains(t, got.lexemes, lexeme{lexer.TokenObjectName, "y"})
	assert.Equal(t, lexeme{lexer.TokenDelimiterClose, "}}"}, got.lexemes[len(got.lexemes)-1])

	got = scan(t, `{{ x | pad: "y" }}`, dict, lexer.Options{})
	assert.Empty(t, got.errors)
}

func TestScanSkipsQuotedCloseDelimiters(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		close  int
		errors []diagnostic.Kind
	}{
		{"unknown tag arguments", `{% foo "%}" %}{{ y }}`, 12, nil},
		{"invalid character recovery", `{{ x | append: @"}}" }}{{ y }}`, 21, []diagnostic.Kind{diagnostic.InvalidCharacter}},
		{"quote running into the next tag", `{% foo "x %}{{ "y" }}`, 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := lexer.New(tt.src, spec.Standard(), lexer.Options{})
			var errs []diagnostic.Kind
			for tok := sc.Scan(); tok != lexer.TokenDelimiterClose; tok = sc.Scan() {
				require.NotEqual(t, lexer.TokenEOS, tok)
				if tok == lexer.TokenParseError {
					errs = append(errs, sc.Error())
				}
			}
			assert.Equal(t, tt.close, sc.Start())
			assert.Equal(t, tt.errors, errs)
			assert.Equal(t, lexer.TokenDelimiterOpen, sc.Scan())
			assert.Equal(t, "{{", sc.Text())
		})
	}
}

func TestScanRecoversAtNextTag(t *testing.T) {
	got := scan(t, "{% if x {{ y }}", spec.Standard(), lexer.Options{})

	assert.Equal(t, []diagnostic.Kind{diagnostic.MissingCloseDelimiter}, got.errors)
	assert.Contains(t, got.lexemes, lexeme{lexer.TokenObjectName, "y"})
	assert.Equal(t, lexeme{lexer.TokenDelimiterClose, "}}"}, got.lexemes[len(got.lexemes)-1])
}

func TestScanEndTagPrefix(t *testing.T) {
	file := &spec.File{
		Engine: "custom",
		Tags: map[string]spec.TagEntry{
			"endless": {Type: "control", Arguments: "none", Singular: true},
		},
	}
	dict, err := file.Compile()
	require.NoError(t, err)

	got := scan(t, "{% endless %}{% endfoo %}", dict, lexer.Options{})
	require.Empty(t, got.errors)
	assert.Equal(t, lexeme{lexer.TokenLiquidTagName, "endless"}, got.lexemes[1])
	assert.Equal(t, lexeme{lexer.TokenLiquidEndTagName, "endfoo"}, got.lexemes[4])
}

func TestScanAccessors(t *testing.T) {
	sc := lexer.New(`{{ x | append: "b" }}<script type="application/json">{}</script>`, spec.Standard(), lexer.Options{})

	var sawFilter, sawBody bool
	for tok := sc.Scan(); tok != lexer.TokenEOS; tok = sc.Scan() {
		switch tok {
		case lexer.TokenFilterIdentifier:
			require.NotNil(t, sc.Filter())
			assert.Equal(t, "append", sc.Filter().Name)
			sawFilter = true
		case lexer.TokenFilterArgument:
			assert.Equal(t, "b", sc.Value())
			assert.Equal(t, spec.ArgString, sc.ArgType())
		case lexer.TokenEmbeddedBody:
			assert.Equal(t, "json", sc.Language())
			assert.Equal(t, "{}", sc.Text())
			sawBody = true
		}
	}
	assert.True(t, sawFilter)
	assert.True(t, sawBody)
}

func TestScanAlwaysTerminates(t *testing.T) {
	inputs := []string{
		"", "{", "{{", "{%", "{{{{", "{%%}", "{{ }}", "{% if", "{{ a[[[[ }}", "{{ a]]]] }}",
		"<", "<<<", "</", "<a", "<a b=", `<a b="`, "<a {{ x }}>", "<a b={{ x }}>",
		"{% comment %}", "{% raw %}{% endraw", "<script>", "<style>{{ x }}",
		"{{ x | }}", "{{ x | a: | b: , , }}", "{% for in in in %}", "{% render 'a' with as , %}",
		"{% assign = = = %}", "{% if a == == b %}", "{% when , or %}", "{{ (1.. }}",
		"{{ x.. }}", "{{ x.[0] }}", "---\n", "---\n---", "{% endif", "{{- -}}", "{{ \"\\\" }}",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			scan(t, in, spec.Standard(), lexer.Options{CaptureWhitespace: true, CaptureNewlines: true})
		})
	}
}

func TestTokenAndStateNames(t *testing.T) {
	for _, tok := range lexer.Tokens() {
		assert.NotEqual(t, "Token(?)", tok.String())
	}
	for _, st := range lexer.States() {
		assert.NotEqual(t, "State(?)", st.String(), "state %d", st)
	}
}
