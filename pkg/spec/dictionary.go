package spec

import (
	"sort"

	"github.com/hashicorp/go-multierror"
	"gitlab.com/tozd/go/errors"
)

// Dictionary is the map-backed Adapter built from a dictionary file or from
// [Standard].
type Dictionary struct {
	engine  string
	tags    map[string]*Tag
	filters map[string]*Filter
	objects map[string]*Object
	html    map[string]*HTMLElement
}

var _ Adapter = (*Dictionary)(nil)

func (d *Dictionary) Engine() string { return d.engine }

func (d *Dictionary) Tag(name string) (*Tag, bool) {
	t, ok := d.tags[name]
	return t, ok
}

func (d *Dictionary) Filter(name string) (*Filter, bool) {
	f, ok := d.filters[name]
	return f, ok
}

func (d *Dictionary) Object(name string) (*Object, bool) {
	o, ok := d.objects[name]
	return o, ok
}

func (d *Dictionary) HTML(name string) (*HTMLElement, bool) {
	e, ok := d.html[name]
	return e, ok
}

func (d *Dictionary) TagNames() []string    { return sortedKeys(d.tags) }
func (d *Dictionary) FilterNames() []string { return sortedKeys(d.filters) }

func sortedKeys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// File is the on-disk shape of a dictionary, shared by the YAML and HCL
// loaders.
type File struct {
	Engine  string                 `yaml:"engine"`
	Tags    map[string]TagEntry    `yaml:"tags"`
	Filters map[string]FilterEntry `yaml:"filters"`
	Objects map[string]ObjectEntry `yaml:"objects"`
	HTML    map[string]HTMLEntry   `yaml:"html"`
}

type TagEntry struct {
	Type       string           `yaml:"type"`
	Arguments  string           `yaml:"arguments"`
	Singular   bool             `yaml:"singular"`
	Child      bool             `yaml:"child"`
	Parents    []string         `yaml:"parents"`
	Parameters []ParameterEntry `yaml:"parameters"`
	Filters    bool             `yaml:"filters"`
	Language   string           `yaml:"language"`
	Deprecated bool             `yaml:"deprecated"`
}

type ParameterEntry struct {
	Name  string   `yaml:"name"`
	Value bool     `yaml:"value"`
	Types []string `yaml:"types"`
}

type ArgumentEntry struct {
	Types    []string `yaml:"types"`
	Required bool     `yaml:"required"`
}

type FilterEntry struct {
	Arguments  []ArgumentEntry  `yaml:"arguments"`
	Parameters []ParameterEntry `yaml:"parameters"`
	Deprecated bool             `yaml:"deprecated"`
}

// ObjectEntry leaves Properties nil for an open schema.
type ObjectEntry struct {
	Properties map[string]ObjectEntry `yaml:"properties"`
}

type HTMLEntry struct {
	Void          bool              `yaml:"void"`
	Language      string            `yaml:"language"`
	TypeLanguages map[string]string `yaml:"type_languages"`
}

// Compile validates the file and builds a Dictionary. Every problem found is
// reported, not just the first.
func (f *File) Compile() (*Dictionary, error) {
	var result *multierror.Error

	d := &Dictionary{
		engine:  f.Engine,
		tags:    make(map[string]*Tag, len(f.Tags)),
		filters: make(map[string]*Filter, len(f.Filters)),
		objects: make(map[string]*Object, len(f.Objects)),
		html:    make(map[string]*HTMLElement, len(f.HTML)),
	}

	if d.engine == "" {
		result = multierror.Append(result, errors.Errorf("engine name is required"))
	}

	for name, entry := range f.Tags {
		tag, err := entry.compile(name)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		d.tags[name] = tag
	}

	for name, tag := range d.tags {
		for _, parent := range tag.Parents {
			if _, ok := f.Tags[parent]; !ok {
				result = multierror.Append(result, errors.Errorf("tag %q: parent %q is not a known tag", name, parent))
			}
		}
	}

	for name, entry := range f.Filters {
		filter, err := entry.compile(name)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		d.filters[name] = filter
	}

	for name, entry := range f.Objects {
		d.objects[name] = entry.compile(name)
	}

	for name, entry := range f.HTML {
		d.html[name] = &HTMLElement{
			Name:          name,
			Void:          entry.Void,
			Language:      entry.Language,
			TypeLanguages: entry.TypeLanguages,
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.Errorf("invalid dictionary %q: %w", f.Engine, err)
	}

	return d, nil
}

func (e TagEntry) compile(name string) (*Tag, error) {
	var result *multierror.Error

	category, ok := ParseCategory(e.Type)
	if !ok || category == CategoryOutput {
		result = multierror.Append(result, errors.Errorf("tag %q: unknown type %q", name, e.Type))
	}
	args, ok := ParseArguments(e.Arguments)
	if !ok {
		result = multierror.Append(result, errors.Errorf("tag %q: unknown arguments %q", name, e.Arguments))
	}
	if e.Child && len(e.Parents) == 0 {
		result = multierror.Append(result, errors.Errorf("tag %q: child tags must list parents", name))
	}
	if e.Child && e.Singular {
		result = multierror.Append(result, errors.Errorf("tag %q: a tag cannot be both child and singular", name))
	}
	if category == CategoryEmbedded && e.Language == "" {
		result = multierror.Append(result, errors.Errorf("tag %q: embedded tags need a language", name))
	}

	params, err := compileParameters(name, e.Parameters)
	if err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Tag{
		Name:       name,
		Type:       category,
		Arguments:  args,
		Singular:   e.Singular,
		Child:      e.Child,
		Parents:    e.Parents,
		Parameters: params,
		Filters:    e.Filters,
		Language:   e.Language,
		Deprecated: e.Deprecated,
	}, nil
}

func (e FilterEntry) compile(name string) (*Filter, error) {
	var result *multierror.Error

	filter := &Filter{Name: name, Deprecated: e.Deprecated}

	optional := false
	for i, arg := range e.Arguments {
		types, err := compileTypes(arg.Types)
		if err != nil {
			result = multierror.Append(result, errors.Errorf("filter %q argument %d: %w", name, i, err))
		}
		if arg.Required && optional {
			result = multierror.Append(result, errors.Errorf("filter %q argument %d: required argument follows an optional one", name, i))
		}
		optional = optional || !arg.Required
		filter.Arguments = append(filter.Arguments, Argument{Types: types, Required: arg.Required})
	}

	params, err := compileParameters(name, e.Parameters)
	if err != nil {
		result = multierror.Append(result, err)
	}
	filter.Parameters = params

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return filter, nil
}

func (e ObjectEntry) compile(name string) *Object {
	obj := &Object{Name: name}
	if e.Properties == nil {
		return obj
	}
	obj.Properties = make(map[string]*Object, len(e.Properties))
	for prop, entry := range e.Properties {
		obj.Properties[prop] = entry.compile(prop)
	}
	return obj
}

func compileParameters(owner string, entries []ParameterEntry) ([]Parameter, error) {
	var result *multierror.Error
	var out []Parameter
	for _, p := range entries {
		if p.Name == "" {
			result = multierror.Append(result, errors.Errorf("%q: parameter without a name", owner))
			continue
		}
		var types ArgType
		if p.Value {
			t, err := compileTypes(p.Types)
			if err != nil {
				result = multierror.Append(result, errors.Errorf("%q parameter %q: %w", owner, p.Name, err))
			}
			types = t
		}
		out = append(out, Parameter{Name: p.Name, Value: p.Value, Types: types})
	}
	return out, result.ErrorOrNil()
}

func compileTypes(names []string) (ArgType, error) {
	if len(names) == 0 {
		return ArgAny, nil
	}
	var out ArgType
	for _, n := range names {
		t, ok := ParseArgType(n)
		if !ok {
			return 0, errors.Errorf("unknown argument type %q", n)
		}
		out |= t
	}
	return out, nil
}
