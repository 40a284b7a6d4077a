package spec_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/liquidparse/pkg/spec"
)

func TestStandard_Classification(t *testing.T) {
	d := spec.Standard()
	assert.Equal(t, spec.StandardEngine, d.Engine())

	tests := []struct {
		name      string
		category  spec.Category
		arguments spec.Arguments
		singular  bool
		child     bool
	}{
		{name: "if", category: spec.CategoryControl, arguments: spec.ArgumentsCondition},
		{name: "else", category: spec.CategoryControl, arguments: spec.ArgumentsNone, child: true},
		{name: "when", category: spec.CategoryControl, arguments: spec.ArgumentsList, child: true},
		{name: "for", category: spec.CategoryIteration, arguments: spec.ArgumentsIteration},
		{name: "assign", category: spec.CategoryVariable, arguments: spec.ArgumentsAssign, singular: true},
		{name: "comment", category: spec.CategoryComment, arguments: spec.ArgumentsNone},
		{name: "schema", category: spec.CategoryEmbedded, arguments: spec.ArgumentsNone},
		{name: "render", category: spec.CategoryImport, arguments: spec.ArgumentsImport, singular: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := d.Tag(tt.name)
			require.True(t, ok, "tag should exist")
			assert.Equal(t, tt.category, tag.Type)
			assert.Equal(t, tt.arguments, tag.Arguments)
			assert.Equal(t, tt.singular, tag.Singular)
			assert.Equal(t, tt.child, tag.Child)
		})
	}

	_, ok := d.Tag("endif")
	assert.False(t, ok, "end tags are syntax, not dictionary entries")
}

func TestStandard_Filters(t *testing.T) {
	d := spec.Standard()

	size, ok := d.Filter("size")
	require.True(t, ok)
	assert.False(t, size.AcceptsArguments())

	appendFilter, ok := d.Filter("append")
	require.True(t, ok)
	assert.True(t, appendFilter.RequiresArguments())
	assert.True(t, appendFilter.Arguments[0].Types.Accepts(spec.ArgString))
	assert.False(t, appendFilter.Arguments[0].Types.Accepts(spec.ArgBoolean))

	join, ok := d.Filter("join")
	require.True(t, ok)
	assert.True(t, join.AcceptsArguments())
	assert.False(t, join.RequiresArguments())

	def, ok := d.Filter("default")
	require.True(t, ok)
	p, ok := def.Parameter("allow_false")
	require.True(t, ok)
	assert.True(t, p.Types.Accepts(spec.ArgBoolean))
}

func TestStandard_ObjectsAndHTML(t *testing.T) {
	d := spec.Standard()

	forloop, ok := d.Object("forloop")
	require.True(t, ok)
	assert.True(t, forloop.Closed())
	_, ok = forloop.Property("index")
	assert.True(t, ok)
	_, ok = forloop.Property("nope")
	assert.False(t, ok)

	parent, ok := forloop.Property("parentloop")
	require.True(t, ok)
	assert.False(t, parent.Closed(), "an empty entry is an open schema")

	br, ok := d.HTML("br")
	require.True(t, ok)
	assert.True(t, br.Void)

	script, ok := d.HTML("script")
	require.True(t, ok)
	assert.Equal(t, "javascript", script.LanguageFor(""))
	assert.Equal(t, "json", script.LanguageFor("application/ld+json"))
	assert.Equal(t, "", script.LanguageFor("text/template"))
}

const yamlDictionary = `
engine: shop
tags:
  if:
    type: control
    arguments: condition
  else:
    type: control
    arguments: none
    child: true
    parents: [if]
  schema:
    type: embedded
    arguments: none
    language: json
filters:
  size: {}
  append:
    arguments:
      - types: [string]
        required: true
objects:
  product:
    properties:
      title: {}
      variants: {}
  settings: {}
html:
  br:
    void: true
`

const hclDictionary = `
engine = "shop"

tag "if" {
  type      = "control"
  arguments = "condition"
}

tag "else" {
  type      = "control"
  arguments = "none"
  child     = true
  parents   = ["if"]
}

tag "schema" {
  type      = "embedded"
  arguments = "none"
  language  = "json"
}

filter "size" {}

filter "append" {
  argument {
    types    = ["string"]
    required = true
  }
}

object "product" {
  property "title" {}
  property "variants" {}
}

object "settings" {}

html "br" {
  void = true
}
`

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{name: "yaml", path: "/dict/shop.yaml", content: yamlDictionary},
		{name: "hcl", path: "/dict/shop.hcl", content: hclDictionary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.path, []byte(tt.content), 0o644))

			d, err := spec.Load(fs, tt.path)
			require.NoError(t, err, "loading should succeed")

			assert.Equal(t, "shop", d.Engine())
			assert.Equal(t, []string{"else", "if", "schema"}, d.TagNames())
			assert.Equal(t, []string{"append", "size"}, d.FilterNames())

			elseTag, ok := d.Tag("else")
			require.True(t, ok)
			assert.True(t, elseTag.Child)
			assert.True(t, elseTag.AllowsParent("if"))

			appendFilter, ok := d.Filter("append")
			require.True(t, ok)
			require.Len(t, appendFilter.Arguments, 1)
			assert.Equal(t, spec.ArgString, appendFilter.Arguments[0].Types)

			product, ok := d.Object("product")
			require.True(t, ok)
			assert.True(t, product.Closed())
			_, ok = product.Property("title")
			assert.True(t, ok)

			settings, ok := d.Object("settings")
			require.True(t, ok)
			assert.False(t, settings.Closed())

			br, ok := d.HTML("br")
			require.True(t, ok)
			assert.True(t, br.Void)
		})
	}
}

func TestLoad_UnknownFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dict.json", []byte("{}"), 0o644))

	_, err := spec.Load(fs, "/dict.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, spec.ErrUnknownFormat))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := spec.Load(afero.NewMemMapFs(), "/nope.yaml")
	require.Error(t, err)
}

func TestLoadOrStandard(t *testing.T) {
	d, err := spec.LoadOrStandard(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, spec.StandardEngine, d.Engine())

	_, err = spec.LoadOrStandard(afero.NewMemMapFs(), "/nope.hcl")
	require.Error(t, err)
}

func TestCompile_ReportsEveryProblem(t *testing.T) {
	file := &spec.File{
		Engine: "broken",
		Tags: map[string]spec.TagEntry{
			"if":     {Type: "conditional"},
			"else":   {Type: "control", Child: true},
			"schema": {Type: "embedded"},
			"when":   {Type: "control", Child: true, Parents: []string{"case"}},
		},
		Filters: map[string]spec.FilterEntry{
			"slice": {Arguments: []spec.ArgumentEntry{{Required: false}, {Required: true}}},
			"odd":   {Arguments: []spec.ArgumentEntry{{Types: []string{"matrix"}}}},
		},
	}

	_, err := file.Compile()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		`unknown type "conditional"`,
		"child tags must list parents",
		"embedded tags need a language",
		`parent "case" is not a known tag`,
		"required argument follows an optional one",
		`unknown argument type "matrix"`,
	} {
		assert.Contains(t, msg, want)
	}
}

func TestParseHelpers(t *testing.T) {
	c, ok := spec.ParseCategory("iteration")
	assert.True(t, ok)
	assert.Equal(t, spec.CategoryIteration, c)
	assert.Equal(t, "iteration", c.String())
	assert.True(t, c.Container())
	assert.True(t, spec.CategoryRaw.Opaque())

	a, ok := spec.ParseArguments("")
	assert.True(t, ok)
	assert.Equal(t, spec.ArgumentsAny, a)

	_, ok = spec.ParseArgType("matrix")
	assert.False(t, ok)
	n, ok := spec.ParseArgType("number")
	assert.True(t, ok)
	assert.True(t, n.Accepts(spec.ArgFloat))
}
