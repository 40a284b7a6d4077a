// Package spec is the query side of the Liquid dictionary: which tags, filters,
// objects and HTML elements exist and what structural rules they follow.
//
// The scanner and parser only ever talk to an [Adapter]. Answers are looked up
// on demand and are never cached by callers, so swapping the adapter (a
// different dialect or "engine") takes effect on the next parse.
package spec

// Adapter answers classification questions during scanning and parsing.
type Adapter interface {
	// Engine names the dialect the adapter describes.
	Engine() string
	Tag(name string) (*Tag, bool)
	Filter(name string) (*Filter, bool)
	Object(name string) (*Object, bool)
	HTML(name string) (*HTMLElement, bool)
}

// Category is the closed classification of a node.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryVariable
	CategoryControl
	CategoryIteration
	CategoryComment
	CategoryRaw
	CategoryImport
	CategoryEmbedded
	CategoryAssociate
	CategoryOutput
)

var categoryNames = map[Category]string{
	CategoryUnknown:   "unknown",
	CategoryVariable:  "variable",
	CategoryControl:   "control",
	CategoryIteration: "iteration",
	CategoryComment:   "comment",
	CategoryRaw:       "raw",
	CategoryImport:    "import",
	CategoryEmbedded:  "embedded",
	CategoryAssociate: "associate",
	CategoryOutput:    "output",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func ParseCategory(name string) (Category, bool) {
	for c, n := range categoryNames {
		if n == name {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// Opaque reports whether tags of this category have a body the scanner must
// not tokenize.
func (c Category) Opaque() bool {
	return c == CategoryComment || c == CategoryRaw || c == CategoryEmbedded
}

// Container reports whether tags of this category may own child tags.
func (c Category) Container() bool {
	return c == CategoryControl || c == CategoryIteration
}

// Arguments selects the grammar used between a tag name and its close
// delimiter.
type Arguments uint8

const (
	// ArgumentsAny accepts anything and is skipped without validation.
	ArgumentsAny Arguments = iota
	ArgumentsNone
	// ArgumentsCondition is a boolean expression: values joined by
	// comparison and logical operators.
	ArgumentsCondition
	// ArgumentsValue is a single value, optionally followed by filters.
	ArgumentsValue
	// ArgumentsList is one or more values separated by commas or "or".
	ArgumentsList
	// ArgumentsIteration is "item in collection" plus parameters.
	ArgumentsIteration
	// ArgumentsAssign is "name = value" plus filters.
	ArgumentsAssign
	// ArgumentsVariable is a bare variable name.
	ArgumentsVariable
	// ArgumentsImport is a quoted template name plus parameters.
	ArgumentsImport
)

var argumentsNames = map[Arguments]string{
	ArgumentsAny:       "any",
	ArgumentsNone:      "none",
	ArgumentsCondition: "condition",
	ArgumentsValue:     "value",
	ArgumentsList:      "list",
	ArgumentsIteration: "iteration",
	ArgumentsAssign:    "assign",
	ArgumentsVariable:  "variable",
	ArgumentsImport:    "import",
}

func (a Arguments) String() string {
	if name, ok := argumentsNames[a]; ok {
		return name
	}
	return "any"
}

func ParseArguments(name string) (Arguments, bool) {
	if name == "" {
		return ArgumentsAny, true
	}
	for a, n := range argumentsNames {
		if n == name {
			return a, true
		}
	}
	return ArgumentsAny, false
}

// ArgType is a set of value kinds accepted at an argument position.
type ArgType uint8

const (
	ArgString ArgType = 1 << iota
	ArgInteger
	ArgFloat
	ArgBoolean
	ArgReference

	ArgNumber = ArgInteger | ArgFloat
	ArgAny    = ArgString | ArgInteger | ArgFloat | ArgBoolean | ArgReference
)

func (t ArgType) Accepts(other ArgType) bool {
	return t&other != 0
}

func ParseArgType(name string) (ArgType, bool) {
	switch name {
	case "string":
		return ArgString, true
	case "integer":
		return ArgInteger, true
	case "float":
		return ArgFloat, true
	case "number":
		return ArgNumber, true
	case "boolean":
		return ArgBoolean, true
	case "reference", "object":
		return ArgReference, true
	case "any":
		return ArgAny, true
	}
	return 0, false
}

type Tag struct {
	Name      string
	Type      Category
	Arguments Arguments
	// Singular tags have no end tag.
	Singular bool
	// Child tags attach to the nearest open container instead of standing
	// alone (else, elsif, when).
	Child bool
	// Parents lists the tags this one may appear inside.
	Parents    []string
	Parameters []Parameter
	// Filters allows a filter chain after the tag's value.
	Filters    bool
	Language   string
	Deprecated bool
}

func (t *Tag) Parameter(name string) (*Parameter, bool) {
	for i := range t.Parameters {
		if t.Parameters[i].Name == name {
			return &t.Parameters[i], true
		}
	}
	return nil, false
}

func (t *Tag) AllowsParent(name string) bool {
	for _, p := range t.Parents {
		if p == name {
			return true
		}
	}
	return false
}

// Parameter is a named option. When Value is false the parameter is a bare
// keyword such as "reversed".
type Parameter struct {
	Name  string
	Value bool
	Types ArgType
}

type Argument struct {
	Types    ArgType
	Required bool
}

type Filter struct {
	Name       string
	Arguments  []Argument
	Parameters []Parameter
	Deprecated bool
}

func (f *Filter) Parameter(name string) (*Parameter, bool) {
	for i := range f.Parameters {
		if f.Parameters[i].Name == name {
			return &f.Parameters[i], true
		}
	}
	return nil, false
}

// AcceptsArguments reports whether a colon may follow the filter name.
func (f *Filter) AcceptsArguments() bool {
	return len(f.Arguments) > 0 || len(f.Parameters) > 0
}

// RequiresArguments reports whether a colon must follow the filter name.
func (f *Filter) RequiresArguments() bool {
	return len(f.Arguments) > 0 && f.Arguments[0].Required
}

// Object describes a global object. A nil Properties map means the schema is
// open and any property is accepted.
type Object struct {
	Name       string
	Properties map[string]*Object
}

func (o *Object) Property(name string) (*Object, bool) {
	if o.Properties == nil {
		return &Object{Name: name}, true
	}
	p, ok := o.Properties[name]
	return p, ok
}

// Closed reports whether unknown properties should be reported.
func (o *Object) Closed() bool {
	return o.Properties != nil
}

type HTMLElement struct {
	Name     string
	Void     bool
	Language string
	// TypeLanguages overrides Language by the value of the element's type
	// attribute.
	TypeLanguages map[string]string
}

// LanguageFor picks the embedded language given the element's type attribute.
func (e *HTMLElement) LanguageFor(typeAttr string) string {
	if l, ok := e.TypeLanguages[typeAttr]; ok {
		return l
	}
	if typeAttr != "" && len(e.TypeLanguages) > 0 {
		return ""
	}
	return e.Language
}
