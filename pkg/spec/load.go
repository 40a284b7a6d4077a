package spec

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.Base("unknown dictionary format")

// Load reads a dictionary from fs. The format follows the extension: .yaml
// and .yml are YAML, .hcl is HCL.
func Load(fs afero.Fs, path string) (*Dictionary, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading dictionary file: %w", err)
	}

	var file *File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		file, err = DecodeYAML(data)
	case ".hcl":
		file, err = DecodeHCL(data, path)
	default:
		return nil, errors.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, err
	}

	return file.Compile()
}

// LoadOrStandard loads the dictionary at path, or returns [Standard] when path
// is empty.
func LoadOrStandard(fs afero.Fs, path string) (*Dictionary, error) {
	if path == "" {
		return Standard(), nil
	}
	return Load(fs, path)
}

func DecodeYAML(data []byte) (*File, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &file, nil
}

type hclFile struct {
	Engine  string          `hcl:"engine,attr"`
	Tags    []*hclTag       `hcl:"tag,block"`
	Filters []*hclFilter    `hcl:"filter,block"`
	Objects []*hclObject    `hcl:"object,block"`
	HTML    []*hclHTMLBlock `hcl:"html,block"`
}

type hclTag struct {
	Name       string          `hcl:"name,label"`
	Type       string          `hcl:"type,attr"`
	Arguments  string          `hcl:"arguments,optional"`
	Singular   bool            `hcl:"singular,optional"`
	Child      bool            `hcl:"child,optional"`
	Parents    []string        `hcl:"parents,optional"`
	Parameters []*hclParameter `hcl:"parameter,block"`
	Filters    bool            `hcl:"filters,optional"`
	Language   string          `hcl:"language,optional"`
	Deprecated bool            `hcl:"deprecated,optional"`
}

type hclParameter struct {
	Name  string   `hcl:"name,label"`
	Value bool     `hcl:"value,optional"`
	Types []string `hcl:"types,optional"`
}

type hclArgument struct {
	Types    []string `hcl:"types,optional"`
	Required bool     `hcl:"required,optional"`
}

type hclFilter struct {
	Name       string          `hcl:"name,label"`
	Arguments  []*hclArgument  `hcl:"argument,block"`
	Parameters []*hclParameter `hcl:"parameter,block"`
	Deprecated bool            `hcl:"deprecated,optional"`
}

// hclObject marks a closed schema with closed = true; without it, and without
// property blocks, the object accepts any property.
type hclObject struct {
	Name       string       `hcl:"name,label"`
	Closed     bool         `hcl:"closed,optional"`
	Properties []*hclObject `hcl:"property,block"`
}

type hclHTMLBlock struct {
	Name          string            `hcl:"name,label"`
	Void          bool              `hcl:"void,optional"`
	Language      string            `hcl:"language,optional"`
	TypeLanguages map[string]string `hcl:"type_languages,optional"`
}

func DecodeHCL(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	parsed, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclFile
	diags = gohcl.DecodeBody(parsed.Body, ctx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return raw.toFile(), nil
}

func (h *hclFile) toFile() *File {
	file := &File{
		Engine:  h.Engine,
		Tags:    map[string]TagEntry{},
		Filters: map[string]FilterEntry{},
		Objects: map[string]ObjectEntry{},
		HTML:    map[string]HTMLEntry{},
	}

	for _, t := range h.Tags {
		file.Tags[t.Name] = TagEntry{
			Type:       t.Type,
			Arguments:  t.Arguments,
			Singular:   t.Singular,
			Child:      t.Child,
			Parents:    t.Parents,
			Parameters: hclParameters(t.Parameters),
			Filters:    t.Filters,
			Language:   t.Language,
			Deprecated: t.Deprecated,
		}
	}

	for _, f := range h.Filters {
		entry := FilterEntry{Parameters: hclParameters(f.Parameters), Deprecated: f.Deprecated}
		for _, a := range f.Arguments {
			entry.Arguments = append(entry.Arguments, ArgumentEntry{Types: a.Types, Required: a.Required})
		}
		file.Filters[f.Name] = entry
	}

	for _, o := range h.Objects {
		file.Objects[o.Name] = o.toEntry()
	}

	for _, e := range h.HTML {
		file.HTML[e.Name] = HTMLEntry{Void: e.Void, Language: e.Language, TypeLanguages: e.TypeLanguages}
	}

	return file
}

func (o *hclObject) toEntry() ObjectEntry {
	if !o.Closed && len(o.Properties) == 0 {
		return ObjectEntry{}
	}
	entry := ObjectEntry{Properties: map[string]ObjectEntry{}}
	for _, p := range o.Properties {
		entry.Properties[p.Name] = p.toEntry()
	}
	return entry
}

func hclParameters(in []*hclParameter) []ParameterEntry {
	var out []ParameterEntry
	for _, p := range in {
		out = append(out, ParameterEntry{Name: p.Name, Value: p.Value, Types: p.Types})
	}
	return out
}
