package spec

// StandardEngine is the engine name of the built-in dictionary.
const StandardEngine = "standard"

func str(required bool) ArgumentEntry {
	return ArgumentEntry{Types: []string{"string", "reference"}, Required: required}
}

func num(required bool) ArgumentEntry {
	return ArgumentEntry{Types: []string{"number", "reference"}, Required: required}
}

func integer(required bool) ArgumentEntry {
	return ArgumentEntry{Types: []string{"integer", "reference"}, Required: required}
}

func anyValue(required bool) ArgumentEntry {
	return ArgumentEntry{Types: []string{"any"}, Required: required}
}

var (
	containers = []string{"if", "unless", "case", "for"}

	iterationParameters = []ParameterEntry{
		{Name: "reversed"},
		{Name: "limit", Value: true, Types: []string{"integer", "reference"}},
		{Name: "offset", Value: true, Types: []string{"integer", "reference"}},
	}
)

// StandardFile returns the dictionary file for the standard Liquid dialect.
func StandardFile() *File {
	return &File{
		Engine: StandardEngine,
		Tags: map[string]TagEntry{
			"if":     {Type: "control", Arguments: "condition"},
			"unless": {Type: "control", Arguments: "condition"},
			"elsif":  {Type: "control", Arguments: "condition", Child: true, Parents: []string{"if", "unless"}},
			"else":   {Type: "control", Arguments: "none", Child: true, Parents: containers},
			"case":   {Type: "control", Arguments: "value"},
			"when":   {Type: "control", Arguments: "list", Child: true, Parents: []string{"case"}},
			"for": {
				Type:       "iteration",
				Arguments:  "iteration",
				Parameters: iterationParameters,
			},
			"tablerow": {
				Type:      "iteration",
				Arguments: "iteration",
				Parameters: append([]ParameterEntry{
					{Name: "cols", Value: true, Types: []string{"integer", "reference"}},
				}, iterationParameters...),
			},
			"break":      {Type: "iteration", Arguments: "none", Singular: true, Parents: []string{"for", "tablerow"}},
			"continue":   {Type: "iteration", Arguments: "none", Singular: true, Parents: []string{"for", "tablerow"}},
			"cycle":      {Type: "iteration", Arguments: "any", Singular: true, Parents: []string{"for", "tablerow"}},
			"assign":     {Type: "variable", Arguments: "assign", Singular: true, Filters: true},
			"capture":    {Type: "variable", Arguments: "variable"},
			"increment":  {Type: "variable", Arguments: "variable", Singular: true},
			"decrement":  {Type: "variable", Arguments: "variable", Singular: true},
			"echo":       {Type: "variable", Arguments: "value", Singular: true, Filters: true},
			"comment":    {Type: "comment", Arguments: "none"},
			"#":          {Type: "comment", Arguments: "any", Singular: true},
			"raw":        {Type: "raw", Arguments: "none"},
			"liquid":     {Type: "raw", Arguments: "any", Singular: true},
			"include":    {Type: "import", Arguments: "import", Singular: true, Deprecated: true},
			"render":     {Type: "import", Arguments: "import", Singular: true},
			"section":    {Type: "import", Arguments: "import", Singular: true},
			"layout":     {Type: "import", Arguments: "any", Singular: true},
			"schema":     {Type: "embedded", Arguments: "none", Language: "json"},
			"javascript": {Type: "embedded", Arguments: "none", Language: "javascript"},
			"stylesheet": {Type: "embedded", Arguments: "none", Language: "css"},
			"form":       {Type: "control", Arguments: "any"},
			"paginate":   {Type: "iteration", Arguments: "any"},
		},
		Filters: map[string]FilterEntry{
			"abs":             {},
			"append":          {Arguments: []ArgumentEntry{str(true)}},
			"at_least":        {Arguments: []ArgumentEntry{num(true)}},
			"at_most":         {Arguments: []ArgumentEntry{num(true)}},
			"capitalize":      {},
			"ceil":            {},
			"compact":         {},
			"concat":          {Arguments: []ArgumentEntry{{Types: []string{"reference"}, Required: true}}},
			"date":            {Arguments: []ArgumentEntry{str(true)}},
			"default":         {Arguments: []ArgumentEntry{anyValue(true)}, Parameters: []ParameterEntry{{Name: "allow_false", Value: true, Types: []string{"boolean", "reference"}}}},
			"divided_by":      {Arguments: []ArgumentEntry{num(true)}},
			"downcase":        {},
			"escape":          {},
			"escape_once":     {},
			"first":           {},
			"floor":           {},
			"join":            {Arguments: []ArgumentEntry{str(false)}},
			"last":            {},
			"lstrip":          {},
			"map":             {Arguments: []ArgumentEntry{str(true)}},
			"minus":           {Arguments: []ArgumentEntry{num(true)}},
			"modulo":          {Arguments: []ArgumentEntry{num(true)}},
			"newline_to_br":   {},
			"plus":            {Arguments: []ArgumentEntry{num(true)}},
			"prepend":         {Arguments: []ArgumentEntry{str(true)}},
			"remove":          {Arguments: []ArgumentEntry{str(true)}},
			"remove_first":    {Arguments: []ArgumentEntry{str(true)}},
			"replace":         {Arguments: []ArgumentEntry{str(true), str(true)}},
			"replace_first":   {Arguments: []ArgumentEntry{str(true), str(true)}},
			"reverse":         {},
			"round":           {Arguments: []ArgumentEntry{integer(false)}},
			"rstrip":          {},
			"size":            {},
			"slice":           {Arguments: []ArgumentEntry{integer(true), integer(false)}},
			"sort":            {Arguments: []ArgumentEntry{str(false)}},
			"sort_natural":    {Arguments: []ArgumentEntry{str(false)}},
			"split":           {Arguments: []ArgumentEntry{str(true)}},
			"strip":           {},
			"strip_html":      {},
			"strip_newlines":  {},
			"times":           {Arguments: []ArgumentEntry{num(true)}},
			"truncate":        {Arguments: []ArgumentEntry{integer(true), str(false)}},
			"truncatewords":   {Arguments: []ArgumentEntry{integer(true), str(false)}},
			"uniq":            {},
			"upcase":          {},
			"url_decode":      {},
			"url_encode":      {},
			"where":           {Arguments: []ArgumentEntry{str(true), anyValue(false)}},
		},
		Objects: map[string]ObjectEntry{
			"forloop": {Properties: map[string]ObjectEntry{
				"first":      {},
				"index":      {},
				"index0":     {},
				"last":       {},
				"length":     {},
				"parentloop": {},
				"rindex":     {},
				"rindex0":    {},
			}},
			"tablerowloop": {Properties: map[string]ObjectEntry{
				"col":        {},
				"col0":       {},
				"col_first":  {},
				"col_last":   {},
				"first":      {},
				"index":      {},
				"index0":     {},
				"last":       {},
				"length":     {},
				"rindex":     {},
				"rindex0":    {},
				"row":        {},
			}},
		},
		HTML: map[string]HTMLEntry{
			"area":   {Void: true},
			"base":   {Void: true},
			"br":     {Void: true},
			"col":    {Void: true},
			"embed":  {Void: true},
			"hr":     {Void: true},
			"img":    {Void: true},
			"input":  {Void: true},
			"link":   {Void: true},
			"meta":   {Void: true},
			"param":  {Void: true},
			"source": {Void: true},
			"track":  {Void: true},
			"wbr":    {Void: true},
			"script": {
				Language: "javascript",
				TypeLanguages: map[string]string{
					"text/javascript":     "javascript",
					"module":              "javascript",
					"application/json":    "json",
					"application/ld+json": "json",
				},
			},
			"style": {Language: "css"},
		},
	}
}

// Standard returns a freshly compiled dictionary for the standard dialect.
func Standard() *Dictionary {
	d, err := StandardFile().Compile()
	if err != nil {
		panic(err)
	}
	return d
}
